package throttle

// removalSet collects identifiers to cancel. Adding an identifier twice is a
// no-op and insertion order is kept for deterministic output.
type removalSet struct {
	order []string
	index map[string]struct{}
}

func newRemovalSet() *removalSet {
	return &removalSet{
		order: make([]string, 0),
		index: make(map[string]struct{}),
	}
}

func (s *removalSet) Add(id string) {
	if _, ok := s.index[id]; ok {
		return
	}
	s.index[id] = struct{}{}
	s.order = append(s.order, id)
}

func (s *removalSet) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

func (s *removalSet) IDs() []string {
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}
