package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"

	"creativecatalog.ai/internal/nbt"
	"creativecatalog.ai/internal/persistence/blob"
	"creativecatalog.ai/schemas"
)

// Catalogs bundles both lookup tables with digests of the files they were
// built from.
type Catalogs struct {
	Blocks *BlockStates
	Items  *ItemStates

	BlocksDigest string
	ItemsDigest  string
}

func Load(blockStatesPath, itemStatesPath string) (*Catalogs, error) {
	var c Catalogs
	var err error
	if c.Blocks, c.BlocksDigest, err = LoadBlockStates(blockStatesPath); err != nil {
		return nil, err
	}
	if c.Items, c.ItemsDigest, err = LoadItemStates(itemStatesPath); err != nil {
		return nil, err
	}
	return &c, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// LoadBlockStates reads a varint-prefixed tree file and returns the catalog
// and the digest of the (decompressed) file contents.
func LoadBlockStates(path string) (*BlockStates, string, error) {
	raw, err := blob.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	root, err := nbt.Unmarshal(raw, nbt.VarIntPrefixed)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	b, err := BlockStatesFromRoot(root)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return b, sha256Hex(raw), nil
}

// LoadItemStates reads and schema-checks a JSON array of item states.
func LoadItemStates(path string) (*ItemStates, string, error) {
	raw, err := blob.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	if err := schemas.ValidateJSON(schemas.ItemStates, raw); err != nil {
		return nil, "", fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	var states []ItemState
	if err := json.Unmarshal(raw, &states); err != nil {
		return nil, "", fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	s, err := NewItemStates(states)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return s, sha256Hex(raw), nil
}
