package catalogs

import "fmt"

type ItemState struct {
	Name      string `json:"name"`
	RuntimeID int32  `json:"runtime_id"`
}

// ItemStates maps item runtime ids to names and back.
type ItemStates struct {
	byRuntime map[int32]string
	byName    map[string]int32
}

// NewItemStates rejects repeated names and repeated runtime ids rather than
// letting a later entry shadow an earlier one.
func NewItemStates(states []ItemState) (*ItemStates, error) {
	s := &ItemStates{
		byRuntime: make(map[int32]string, len(states)),
		byName:    make(map[string]int32, len(states)),
	}
	for i, st := range states {
		if st.Name == "" {
			return nil, fmt.Errorf("%w: item state %d has empty name", ErrBadDescriptor, i)
		}
		if prev, dup := s.byName[st.Name]; dup {
			return nil, fmt.Errorf("%w: item %s listed with runtime ids %d and %d", ErrDuplicateState, st.Name, prev, st.RuntimeID)
		}
		if prev, dup := s.byRuntime[st.RuntimeID]; dup {
			return nil, fmt.Errorf("%w: runtime id %d used by %s and %s", ErrDuplicateState, st.RuntimeID, prev, st.Name)
		}
		s.byRuntime[st.RuntimeID] = st.Name
		s.byName[st.Name] = st.RuntimeID
	}
	return s, nil
}

func (s *ItemStates) Len() int { return len(s.byName) }

func (s *ItemStates) Name(runtimeID int32) (string, bool) {
	n, ok := s.byRuntime[runtimeID]
	return n, ok
}

func (s *ItemStates) RuntimeID(name string) (int32, bool) {
	rid, ok := s.byName[name]
	return rid, ok
}

// ResolveRuntime returns "" for unknown ids.
func (s *ItemStates) ResolveRuntime(runtimeID int32) string {
	return s.byRuntime[runtimeID]
}

// ResolveName returns 0 for unknown names, which is indistinguishable from
// an item whose runtime id is 0. Use RuntimeID when that matters.
func (s *ItemStates) ResolveName(name string) int32 {
	return s.byName[name]
}
