package creative

import (
	"fmt"

	"creativecatalog.ai/internal/catalogs"
	"creativecatalog.ai/internal/nbt"
	"creativecatalog.ai/internal/protocol"
)

// DefaultBlockItemLimit is the first network id that is not backed by a block.
const DefaultBlockItemLimit int32 = 256

type Option func(*Assembler)

func WithBlockItemLimit(limit int32) Option {
	return func(a *Assembler) { a.blockItemLimit = limit }
}

func WithReporter(r Reporter) Option {
	return func(a *Assembler) {
		if r != nil {
			a.reporter = r
		}
	}
}

// Assembler joins decoded entries with the block and item catalogs.
type Assembler struct {
	blocks *catalogs.BlockStates
	items  *catalogs.ItemStates

	blockItemLimit int32
	reporter       Reporter
}

func NewAssembler(blocks *catalogs.BlockStates, items *catalogs.ItemStates, opts ...Option) *Assembler {
	a := &Assembler{
		blocks:         blocks,
		items:          items,
		blockItemLimit: DefaultBlockItemLimit,
		reporter:       discard{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble produces one record per non-empty entry, in entry order. Catalog
// misses never fail: unresolved names and block states are carried as the
// catalogs' sentinel values. The only error is a tree that cannot be
// re-encoded.
func (a *Assembler) Assemble(entries []protocol.ItemEntry) ([]Record, error) {
	out := make([]Record, 0, len(entries))
	for i, e := range entries {
		if e.Empty {
			continue
		}
		rec := Record{Name: a.items.ResolveRuntime(e.NetworkID)}
		if e.Metadata != 0 {
			meta := e.Metadata
			rec.Metadata = &meta
		}
		if e.HasTree {
			b, err := nbt.Marshal(e.Tree, nbt.Fixed16Prefixed)
			if err != nil {
				return nil, fmt.Errorf("entry %d: re-encode tree: %w", i, err)
			}
			rec.NBT = b
		}
		if e.NetworkID < a.blockItemLimit {
			name, meta := a.blocks.ResolveRuntime(e.BlockRuntimeID)
			rec.BlockStateName = &name
			rec.BlockStateMetadata = &meta
		} else if e.BlockRuntimeID != 0 {
			a.reporter.Report(Diagnostic{
				Kind:           UnexpectedBlockAssociation,
				Index:          i,
				NetworkID:      e.NetworkID,
				Name:           rec.Name,
				BlockRuntimeID: e.BlockRuntimeID,
			})
		}
		out = append(out, rec)
	}
	return out, nil
}
