package mentoring

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore implements every store interface in memory, for offline mode
// and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	blocks   map[string]Block
	states   map[string]State   // key: blockID|userID
	sessions map[string]Session // key: courseID|userID
	answers  map[string]string  // key: userID|courseID|name
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blocks:   map[string]Block{},
		states:   map[string]State{},
		sessions: map[string]Session{},
		answers:  map[string]string{},
	}
}

func (m *MemoryStore) PutBlock(_ context.Context, b Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.CreatedAt == 0 {
		b.CreatedAt = time.Now().Unix()
	}
	m.blocks[b.ID] = b
	return nil
}

func (m *MemoryStore) GetBlock(_ context.Context, id string) (Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blocks[id]
	if !ok {
		return Block{}, errors.New("block not found")
	}
	return b, nil
}

func (m *MemoryStore) ListBlocks(_ context.Context, opts ListOpts) ([]BlockSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]BlockSummary, 0, len(m.blocks))
	for _, b := range m.blocks {
		if opts.Q != "" && !strings.Contains(strings.ToLower(b.Title), strings.ToLower(opts.Q)) {
			continue
		}
		out = append(out, BlockSummary{
			ID: b.ID, Title: b.Title, Mode: b.Mode,
			Questions: len(b.Questions), CreatedAt: b.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return []BlockSummary{}, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *MemoryStore) GetState(_ context.Context, blockID, userID string) (State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.states[blockID+"|"+userID]
	if !ok {
		// implicit all-defaults state on first touch
		return State{BlockID: blockID, UserID: userID}, nil
	}
	return s, nil
}

func (m *MemoryStore) SaveState(_ context.Context, s State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.UpdatedAt = time.Now().Unix()
	m.states[s.BlockID+"|"+s.UserID] = s
	return nil
}

func (m *MemoryStore) GetSession(_ context.Context, courseID, userID string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[courseID+"|"+userID]
	if !ok {
		return Session{CourseID: courseID, UserID: userID}, nil
	}
	return sess, nil
}

func (m *MemoryStore) SaveSession(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.CourseID+"|"+s.UserID] = s
	return nil
}

func (m *MemoryStore) GetAnswer(_ context.Context, userID, courseID, name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.answers[userID+"|"+courseID+"|"+name], nil
}

func (m *MemoryStore) SaveAnswer(_ context.Context, userID, courseID, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers[userID+"|"+courseID+"|"+name] = value
	return nil
}
