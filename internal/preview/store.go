// Package preview keeps displayable copies of picked images in process memory.
package preview

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"potato-classifier/internal/models"
)

var ErrNotFound = errors.New("preview not found")

// Handle identifies one live preview. The submission controller owns it and
// is the only caller of Release.
type Handle struct {
	ID          string
	ContentType string
	Size        int
}

// Preview is a snapshot of a stored preview for rendering.
type Preview struct {
	ID          string
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}

type Store struct {
	mu       sync.RWMutex
	previews map[string]*Preview
}

func NewStore() *Store {
	return &Store{
		previews: make(map[string]*Preview),
	}
}

// Create copies the file bytes so the preview stays valid however the caller
// reuses its buffer.
func (s *Store) Create(file models.CandidateFile) *Handle {
	data := make([]byte, len(file.Data))
	copy(data, file.Data)

	p := &Preview{
		ID:          uuid.New().String(),
		ContentType: file.MIMEType,
		Data:        data,
		CreatedAt:   time.Now().UTC(),
	}

	s.mu.Lock()
	s.previews[p.ID] = p
	s.mu.Unlock()

	return &Handle{ID: p.ID, ContentType: p.ContentType, Size: len(data)}
}

// Release frees the preview behind h. Releasing a nil or already released
// handle does nothing.
func (s *Store) Release(h *Handle) {
	if h == nil {
		return
	}
	s.mu.Lock()
	delete(s.previews, h.ID)
	s.mu.Unlock()
}

func (s *Store) Get(id string) (*Preview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.previews[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// Live returns the number of previews not yet released.
func (s *Store) Live() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.previews)
}
