// Package backing is the server-side home of a theme's font catalog. It
// hands out submission nonces and accepts catalogs submitted with them.
package backing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/joeblew999/plat-fonts/internal/model"
	"github.com/joeblew999/plat-fonts/pkg/catalog"
	"github.com/joeblew999/plat-fonts/pkg/delivery"
	"github.com/joeblew999/plat-fonts/pkg/syncbridge"
	"github.com/zeromicro/go-zero/core/collection"
	"github.com/zeromicro/go-zero/core/logx"
)

var (
	// ErrInvalidNonce is returned for a submission whose nonce was never
	// issued, has expired, or belongs to another theme.
	ErrInvalidNonce = errors.New("invalid or expired nonce")
	// ErrInvalidPayload is returned when a submitted catalog cannot be ingested.
	ErrInvalidPayload = errors.New("invalid catalog payload")
	// ErrStaleSubmission is returned for a submission older than one already
	// stored under the same nonce.
	ErrStaleSubmission = errors.New("stale submission")
)

// Document sources.
const (
	SourceDatabase  = "database"
	SourceThemeJSON = "theme.json"
)

// DefaultNonceTTL is used when no TTL is configured.
const DefaultNonceTTL = 24 * time.Hour

// Document is the stored catalog of a theme.
type Document struct {
	Theme     string
	Catalog   catalog.Catalog
	Revision  int64
	Source    string
	UpdatedAt time.Time
}

// Store persists catalogs per theme.
type Store struct {
	fonts    model.ThemeFontsModel
	nonces   *collection.Cache
	seedPath string

	// mu orders the sequence check with the write it guards.
	mu sync.Mutex
}

// nonceState is what the nonce cache holds: the theme a nonce was issued
// for and the highest sequence stored under it.
type nonceState struct {
	theme    string
	sequence int64
}

// New returns a store backed by fonts. Themes with no stored catalog fall
// back to the theme.json document at seedPath.
func New(fonts model.ThemeFontsModel, seedPath string, nonceTTL time.Duration) (*Store, error) {
	if nonceTTL <= 0 {
		nonceTTL = DefaultNonceTTL
	}
	nonces, err := collection.NewCache(nonceTTL, collection.WithName("submission-nonces"))
	if err != nil {
		return nil, fmt.Errorf("nonce cache: %w", err)
	}
	return &Store{fonts: fonts, nonces: nonces, seedPath: seedPath}, nil
}

// Load returns the catalog for theme.
func (s *Store) Load(ctx context.Context, theme string) (*Document, error) {
	row, err := s.fonts.FindOne(ctx, theme)
	switch {
	case err == nil:
		c, err := catalog.Parse([]byte(row.FontsJson))
		if err != nil {
			return nil, fmt.Errorf("stored catalog for %s: %w", theme, err)
		}
		return &Document{
			Theme:     theme,
			Catalog:   c,
			Revision:  row.Revision,
			Source:    SourceDatabase,
			UpdatedAt: row.UpdatedAt,
		}, nil
	case errors.Is(err, model.ErrNotFound):
		return s.seed(theme)
	default:
		return nil, fmt.Errorf("find catalog for %s: %w", theme, err)
	}
}

func (s *Store) seed(theme string) (*Document, error) {
	if s.seedPath == "" {
		return nil, catalog.ErrCatalogUnavailable
	}
	data, err := os.ReadFile(s.seedPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found", catalog.ErrCatalogUnavailable, s.seedPath)
		}
		return nil, fmt.Errorf("read %s: %w", s.seedPath, err)
	}
	c, err := catalog.ParseThemeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.seedPath, err)
	}
	return &Document{Theme: theme, Catalog: c, Source: SourceThemeJSON}, nil
}

// IssueNonce mints a nonce accepted for submissions to theme.
func (s *Store) IssueNonce(theme string) string {
	nonce := uuid.New().String()
	s.nonces.Set(nonce, &nonceState{theme: theme})
	return nonce
}

// RevokeNonce stops accepting nonce.
func (s *Store) RevokeNonce(nonce string) {
	s.nonces.Del(nonce)
}

// Deliver stores the catalog carried by sub as the theme's new catalog and
// returns its revision. A sequenced submission older than the last one
// stored under its nonce is refused, so a retried delivery never replaces
// a newer catalog.
func (s *Store) Deliver(ctx context.Context, theme string, sub syncbridge.Submission) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.nonces.Get(sub.Nonce)
	if !ok {
		return 0, ErrInvalidNonce
	}
	state := v.(*nonceState)
	if state.theme != theme {
		return 0, ErrInvalidNonce
	}
	if sub.Sequence > 0 && sub.Sequence <= state.sequence {
		return 0, fmt.Errorf("%w: sequence %d, stored %d", ErrStaleSubmission, sub.Sequence, state.sequence)
	}

	c, err := syncbridge.Decode(sub)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	data, err := c.Marshal()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	revision, err := s.fonts.Upsert(ctx, theme, string(data))
	if err != nil {
		return 0, fmt.Errorf("store catalog for %s: %w", theme, err)
	}

	if sub.Sequence > 0 {
		state.sequence = sub.Sequence
	}
	// Each delivery keeps the editing session's nonce alive.
	s.nonces.Set(sub.Nonce, state)

	logx.WithContext(ctx).Infow("Catalog stored",
		logx.Field("theme", theme),
		logx.Field("revision", revision),
		logx.Field("sequence", sub.Sequence),
		logx.Field("families", len(c)))
	return revision, nil
}

// Sink exposes the store as a delivery target. Rejected nonces, payloads
// and stale submissions are reported as permanent failures.
func (s *Store) Sink() delivery.Sink {
	return delivery.SinkFunc(func(ctx context.Context, theme string, sub syncbridge.Submission) error {
		_, err := s.Deliver(ctx, theme, sub)
		if errors.Is(err, ErrInvalidNonce) || errors.Is(err, ErrInvalidPayload) || errors.Is(err, ErrStaleSubmission) {
			return delivery.PermanentError(err)
		}
		return err
	})
}
