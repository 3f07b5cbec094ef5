package download

import "github.com/ytget/yt-queue/internal/model"

// Store is the ordered collection of downloads. Append order is display
// order. Store is not safe for concurrent use; the Service serializes access.
type Store struct {
	items []*model.Download
	index map[string]int
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{index: make(map[string]int)}
}

// Append adds a download at the end; ids must be unique
func (s *Store) Append(d *model.Download) bool {
	if _, exists := s.index[d.ID]; exists {
		return false
	}
	s.index[d.ID] = len(s.items)
	s.items = append(s.items, d)
	return true
}

// Get returns the live record, for use under the service lock only
func (s *Store) Get(id string) (*model.Download, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.items[i], true
}

// Remove deletes a record and keeps the order of the others
func (s *Store) Remove(id string) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j].ID] = j
	}
	return true
}

// Len returns the number of records
func (s *Store) Len() int {
	return len(s.items)
}

// Snapshot returns deep copies of all records in display order
func (s *Store) Snapshot() []*model.Download {
	out := make([]*model.Download, len(s.items))
	for i, d := range s.items {
		out[i] = d.Clone()
	}
	return out
}

// Stats counts records by status
func (s *Store) Stats() model.Stats {
	st := model.Stats{Total: len(s.items)}
	for _, d := range s.items {
		switch {
		case d.Status.IsActive():
			st.Active++
		case d.Status == model.StatusCompleted:
			st.Completed++
		case d.Status == model.StatusFailed:
			st.Failed++
		}
	}
	return st
}
