package catalogs

import (
	"errors"
	"fmt"

	"creativecatalog.ai/internal/nbt"
)

// NotFound is returned by sentinel lookups that resolve to a runtime id.
const NotFound int32 = -1

var (
	ErrBadDescriptor  = errors.New("catalogs: bad descriptor")
	ErrDuplicateState = errors.New("catalogs: duplicate state")
)

type BlockState struct {
	Name      string `json:"name"`
	Metadata  int    `json:"metadata"`
	RuntimeID int32  `json:"runtime_id"`
}

type stateKey struct {
	name     string
	metadata int
}

// BlockStates maps block runtime ids to (name, metadata) and back. Runtime
// ids are descriptor positions; metadata is the ordinal of a descriptor
// among the consecutive run sharing its name.
type BlockStates struct {
	byRuntime []BlockState
	byState   map[stateKey]int32
}

// NewBlockStates builds the catalog from ordered descriptors, each carrying
// a "name" string. Descriptors must be grouped by name: a name that
// reappears after a different one would restart its ordinals and collide,
// which is reported as ErrDuplicateState.
func NewBlockStates(descriptors []*nbt.Compound) (*BlockStates, error) {
	b := &BlockStates{
		byRuntime: make([]BlockState, 0, len(descriptors)),
		byState:   make(map[stateKey]int32, len(descriptors)),
	}
	prev := ""
	ordinal := 0
	for i, d := range descriptors {
		name, ok := d.StringValue("name")
		if !ok {
			return nil, fmt.Errorf("%w: block descriptor %d has no name string", ErrBadDescriptor, i)
		}
		if i == 0 || name != prev {
			ordinal = 0
		}
		key := stateKey{name: name, metadata: ordinal}
		if first, dup := b.byState[key]; dup {
			return nil, fmt.Errorf("%w: block %s metadata %d at %d and %d (descriptors not grouped by name)", ErrDuplicateState, name, ordinal, first, i)
		}
		rid := int32(i)
		b.byRuntime = append(b.byRuntime, BlockState{Name: name, Metadata: ordinal, RuntimeID: rid})
		b.byState[key] = rid
		ordinal++
		prev = name
	}
	return b, nil
}

// BlockStatesFromRoot accepts the decoded descriptor file: a list of
// compounds, or a compound whose children are all compounds.
func BlockStatesFromRoot(root nbt.Root) (*BlockStates, error) {
	var descriptors []*nbt.Compound
	switch v := root.Value.(type) {
	case *nbt.List:
		if len(v.Items) > 0 && v.Elem != nbt.TagCompound {
			return nil, fmt.Errorf("%w: block list holds %v", ErrBadDescriptor, v.Elem)
		}
		for i, item := range v.Items {
			c, ok := item.(*nbt.Compound)
			if !ok {
				return nil, fmt.Errorf("%w: block list item %d is not a compound", ErrBadDescriptor, i)
			}
			descriptors = append(descriptors, c)
		}
	case *nbt.Compound:
		var err error
		v.Each(func(name string, t nbt.Tag) bool {
			c, ok := t.(*nbt.Compound)
			if !ok {
				err = fmt.Errorf("%w: block entry %q is %v", ErrBadDescriptor, name, t.Kind())
				return false
			}
			descriptors = append(descriptors, c)
			return true
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: block root must be a list or compound", ErrBadDescriptor)
	}
	return NewBlockStates(descriptors)
}

func (b *BlockStates) Len() int { return len(b.byRuntime) }

// State returns the block state for a runtime id.
func (b *BlockStates) State(runtimeID int32) (BlockState, bool) {
	if runtimeID < 0 || int(runtimeID) >= len(b.byRuntime) {
		return BlockState{}, false
	}
	return b.byRuntime[runtimeID], true
}

// RuntimeID returns the runtime id for a (name, metadata) pair.
func (b *BlockStates) RuntimeID(name string, metadata int) (int32, bool) {
	rid, ok := b.byState[stateKey{name: name, metadata: metadata}]
	return rid, ok
}

// ResolveRuntime is State with sentinels: ("", 0) when out of range.
func (b *BlockStates) ResolveRuntime(runtimeID int32) (string, int) {
	s, _ := b.State(runtimeID)
	return s.Name, s.Metadata
}

// ResolveState is RuntimeID with a sentinel: NotFound when absent.
func (b *BlockStates) ResolveState(name string, metadata int) int32 {
	if rid, ok := b.RuntimeID(name, metadata); ok {
		return rid
	}
	return NotFound
}

// All returns the states in runtime id order.
func (b *BlockStates) All() []BlockState {
	return append([]BlockState(nil), b.byRuntime...)
}
