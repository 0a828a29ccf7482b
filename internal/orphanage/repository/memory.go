package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/happymap/happymap/backend/go-services/internal/orphanage"
)

var ErrNotFound = errors.New("orphanage not found")

// Repository is the minimal store contract the listing API needs.
// Insert assigns the ID; FindAll returns listings in creation order.
type Repository interface {
	Insert(ctx context.Context, o *orphanage.Orphanage) (string, error)
	FindAll(ctx context.Context) ([]*orphanage.Orphanage, error)
	FindByID(ctx context.Context, id string) (*orphanage.Orphanage, error)
}

// MemoryRepo is an in-memory repository used for development and unit tests.
// A map alone would lose creation order, so insertion order is tracked in a
// parallel slice.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*orphanage.Orphanage
	order []string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*orphanage.Orphanage)}
}

func (m *MemoryRepo) Insert(_ context.Context, o *orphanage.Orphanage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.CreatedAt = time.Now().UTC()
	m.store[o.ID] = o
	m.order = append(m.order, o.ID)
	return o.ID, nil
}

func (m *MemoryRepo) FindAll(_ context.Context) ([]*orphanage.Orphanage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*orphanage.Orphanage, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.store[id])
	}
	return out, nil
}

func (m *MemoryRepo) FindByID(_ context.Context, id string) (*orphanage.Orphanage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if o, ok := m.store[id]; ok {
		return o, nil
	}
	return nil, ErrNotFound
}
