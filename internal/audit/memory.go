package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultMemoryCapacity bounds the in-memory trail.
const DefaultMemoryCapacity = 1000

// MemoryRepo keeps the most recent records in a ring. Used when no MongoDB is
// configured and in tests.
type MemoryRepo struct {
	mu      sync.RWMutex
	records []*Record
	next    int
	full    bool
}

func NewMemoryRepo(capacity int) *MemoryRepo {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryRepo{records: make([]*Record, capacity)}
}

func (m *MemoryRepo) Save(ctx context.Context, r *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	cp := *r
	m.records[m.next] = &cp
	m.next = (m.next + 1) % len(m.records)
	if m.next == 0 {
		m.full = true
	}
	return nil
}

func (m *MemoryRepo) Recent(ctx context.Context, limit int) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := m.next
	if m.full {
		n = len(m.records)
	}
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]*Record, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (m.next - i + len(m.records)) % len(m.records)
		cp := *m.records[idx]
		out = append(out, &cp)
	}
	return out, nil
}
