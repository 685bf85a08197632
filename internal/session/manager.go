package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/joeblew999/plat-fonts/internal/backing"
	"github.com/joeblew999/plat-fonts/pkg/catalog"
	"github.com/joeblew999/plat-fonts/pkg/syncbridge"
	"github.com/zeromicro/go-zero/core/logx"
)

// DefaultCapacity bounds the number of live sessions.
const DefaultCapacity = 256

// Source loads catalogs and issues the nonces sessions submit with.
type Source interface {
	Load(ctx context.Context, theme string) (*backing.Document, error)
	IssueNonce(theme string) string
}

// Manager opens sessions for one theme and keeps the most recent ones.
type Manager struct {
	theme     string
	source    Source
	submitter syncbridge.Submitter
	resolver  catalog.AssetResolver
	sessions  *lru.Cache[string, *Session]
}

// NewManager returns a manager for theme. Evicted sessions stop
// submitting.
func NewManager(theme string, source Source, submitter syncbridge.Submitter, resolver catalog.AssetResolver, capacity int) (*Manager, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	sessions, err := lru.NewWithEvict(capacity, func(id string, s *Session) {
		s.close()
		activeSessions.Dec()
		logx.Infow("Session evicted", logx.Field("session_id", id))
	})
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	return &Manager{
		theme:     theme,
		source:    source,
		submitter: submitter,
		resolver:  resolver,
		sessions:  sessions,
	}, nil
}

// Theme returns the theme sessions are opened for.
func (m *Manager) Theme() string {
	return m.theme
}

// Open ingests the theme's catalog into a new session.
func (m *Manager) Open(ctx context.Context) (*Session, error) {
	doc, err := m.source.Load(ctx, m.theme)
	if err != nil {
		return nil, err
	}

	nonce := m.source.IssueNonce(m.theme)
	store := catalog.NewStore(doc.Catalog)
	bridge := syncbridge.New(m.submitter, nonce)

	s := &Session{
		ID:        uuid.New().String(),
		Theme:     m.theme,
		Nonce:     nonce,
		Source:    doc.Source,
		Revision:  doc.Revision,
		CreatedAt: time.Now(),
		store:     store,
		coord:     catalog.NewCoordinator(store),
		bridge:    bridge,
		resolver:  m.resolver,
	}
	s.detach = bridge.Attach(store)

	m.sessions.Add(s.ID, s)
	activeSessions.Inc()

	logx.WithContext(ctx).Infow("Session opened",
		logx.Field("session_id", s.ID),
		logx.Field("theme", m.theme),
		logx.Field("source", doc.Source),
		logx.Field("families", len(doc.Catalog)))
	return s, nil
}

// Get returns a live session.
func (m *Manager) Get(id string) (*Session, bool) {
	return m.sessions.Get(id)
}

// Close ends a session.
func (m *Manager) Close(id string) {
	m.sessions.Remove(id)
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	return m.sessions.Len()
}
