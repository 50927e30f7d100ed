package repositories

import (
	"context"
	"sync"

	"github.com/Dosada05/coforge-registration/models"
)

// MemoryStore keeps rows in process memory. Used with STORE_DRIVER=memory and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	ready   bool
	rows    map[string][]models.Registration
	failErr error
	calls   int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{ready: true, rows: make(map[string][]models.Registration)}
}

// NewUnreadyMemoryStore имитирует клиент, созданный без секретов.
func NewUnreadyMemoryStore() *MemoryStore {
	s := NewMemoryStore()
	s.ready = false
	return s
}

func (s *MemoryStore) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// FailWith makes subsequent inserts return err; nil restores normal behaviour.
func (s *MemoryStore) FailWith(err error) {
	s.mu.Lock()
	s.failErr = err
	s.mu.Unlock()
}

func (s *MemoryStore) Insert(ctx context.Context, table string, rec *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if !s.ready {
		return ErrStoreNotReady
	}
	if table == "" {
		return ErrInvalidTable
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.failErr != nil {
		return s.failErr
	}

	row := *rec
	if rec.CommunityOther != nil {
		other := *rec.CommunityOther
		row.CommunityOther = &other
	}
	s.rows[table] = append(s.rows[table], row)
	return nil
}

// Rows returns a copy of the rows inserted into table.
func (s *MemoryStore) Rows(table string) []models.Registration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Registration, len(s.rows[table]))
	copy(out, s.rows[table])
	return out
}

// Calls counts Insert invocations, including failed ones.
func (s *MemoryStore) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
