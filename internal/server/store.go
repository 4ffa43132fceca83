package server

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ironsheep/image-pipeline/internal/imaging"
)

// Store holds the images a session works on, keyed by generated ids.
// When more than max images are held the oldest one is dropped.
type Store struct {
	mu     sync.RWMutex
	max    int
	images map[string]*imaging.Image
	order  []string
}

// NewStore creates a store bounded to max images. Values below one are
// treated as one.
func NewStore(max int) *Store {
	if max < 1 {
		max = 1
	}
	return &Store{
		max:    max,
		images: make(map[string]*imaging.Image),
	}
}

// Put stores img under a fresh id. The ids of any images evicted to make
// room are returned alongside.
func (s *Store) Put(img *imaging.Image) (string, []string) {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.images[id] = img
	s.order = append(s.order, id)

	var evicted []string
	for len(s.order) > s.max {
		old := s.order[0]
		s.order = s.order[1:]
		delete(s.images, old)
		evicted = append(evicted, old)
	}
	return id, evicted
}

// Get returns the image stored under id.
func (s *Store) Get(id string) (*imaging.Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	img, ok := s.images[id]
	if !ok {
		return nil, fmt.Errorf("%w: unknown image id %q", imaging.ErrInvalidArgument, id)
	}
	return img, nil
}

// Delete removes id from the store and reports whether it was present.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.images[id]; !ok {
		return false
	}
	delete(s.images, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// IDs returns the stored ids, oldest first.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Len returns the number of stored images.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.images)
}
