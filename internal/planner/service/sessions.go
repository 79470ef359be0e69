package service

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"scaff-planner/internal/planner/editor"
	"scaff-planner/internal/planner/ids"
	"scaff-planner/internal/planner/models"
)

var ErrSessionNotFound = errors.New("session not found")

// ============================================================
// Session
// ============================================================

// Session is one open drawing. Name and ProjectID are set when the drawing
// was opened from, or saved as, a stored project.
type Session struct {
	ID        string
	Name      string
	ProjectID string
	CreatedAt time.Time

	mu     sync.Mutex
	editor *editor.Editor
}

// ============================================================
// Session Manager
// ============================================================

type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	settings     models.EaveSettings
	historyLimit int
	ids          ids.Generator
	clock        ids.Clock
}

type Options struct {
	Settings     models.EaveSettings
	HistoryLimit int
	// IDs and Clock are handed to every editor; nil means UUIDs and the
	// system clock.
	IDs   ids.Generator
	Clock ids.Clock
}

func NewSessionManager(opts Options) *SessionManager {
	if opts.IDs == nil {
		opts.IDs = ids.UUID{}
	}
	if opts.Clock == nil {
		opts.Clock = ids.SystemClock
	}
	return &SessionManager{
		sessions:     make(map[string]*Session),
		settings:     opts.Settings,
		historyLimit: opts.HistoryLimit,
		ids:          opts.IDs,
		clock:        opts.Clock,
	}
}

// Create opens an empty drawing with the configured default settings.
func (m *SessionManager) Create(name string) *Session {
	settings := m.settings
	s := &Session{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: m.clock(),
		editor: editor.New(editor.Options{
			IDs:          m.ids,
			Clock:        m.clock,
			Settings:     &settings,
			HistoryLimit: m.historyLimit,
		}),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return s
}

func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	return s, ok
}

func (m *SessionManager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

// List returns sessions oldest first.
func (m *SessionManager) List() []*Session {
	m.mu.Lock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// With runs fn while holding the session's lock. The editor must not escape
// fn.
func (m *SessionManager) With(id string, fn func(s *Session, e *editor.Editor) error) error {
	s, ok := m.Get(id)
	if !ok {
		return fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s, s.editor)
}

// Now is the manager's clock, shared with handlers that stamp projects.
func (m *SessionManager) Now() time.Time {
	return m.clock()
}
