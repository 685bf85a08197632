package backing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joeblew999/plat-fonts/internal/model"
	"github.com/joeblew999/plat-fonts/pkg/catalog"
	"github.com/joeblew999/plat-fonts/pkg/db"
	"github.com/joeblew999/plat-fonts/pkg/delivery"
	"github.com/joeblew999/plat-fonts/pkg/queue"
	"github.com/joeblew999/plat-fonts/pkg/syncbridge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const themeJSON = `{
	"version": 3,
	"settings": {
		"typography": {
			"fontFamilies": [
				{"fontFamily": "Inter", "slug": "inter", "fontFace": [
					{"fontWeight": "400", "fontStyle": "normal", "src": ["file:./assets/fonts/inter.woff2"]}
				]},
				{"name": "System", "fontFamily": "system-ui"}
			]
		}
	}
}`

func newTestStore(t *testing.T, seed string) *Store {
	t.Helper()
	dir := t.TempDir()
	database, err := db.Open(filepath.Join(dir, "backing.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	seedPath := ""
	if seed != "" {
		seedPath = filepath.Join(dir, "theme.json")
		require.NoError(t, os.WriteFile(seedPath, []byte(seed), 0o644))
	}

	s, err := New(model.NewThemeFontsModel(database.SqlConn()), seedPath, time.Hour)
	require.NoError(t, err)
	return s
}

func TestLoadSeedsFromThemeJSON(t *testing.T) {
	s := newTestStore(t, themeJSON)

	doc, err := s.Load(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, SourceThemeJSON, doc.Source)
	assert.Equal(t, int64(0), doc.Revision)
	require.Len(t, doc.Catalog, 2)
	assert.Equal(t, "Inter", doc.Catalog[0].FontFamily)
}

func TestLoadWithoutSeed(t *testing.T) {
	s := newTestStore(t, "")
	_, err := s.Load(context.Background(), "demo")
	assert.ErrorIs(t, err, catalog.ErrCatalogUnavailable)
}

func TestDeliver(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, themeJSON)

	doc, err := s.Load(ctx, "demo")
	require.NoError(t, err)
	next := catalog.DeleteFamily(doc.Catalog, "Inter")

	nonce := s.IssueNonce("demo")
	sub, err := syncbridge.Encode(next, nonce)
	require.NoError(t, err)

	t.Run("StoresAndBumpsRevision", func(t *testing.T) {
		rev, err := s.Deliver(ctx, "demo", sub)
		require.NoError(t, err)
		assert.Equal(t, int64(1), rev)

		rev, err = s.Deliver(ctx, "demo", sub)
		require.NoError(t, err)
		assert.Equal(t, int64(2), rev, "nonce stays valid for the session")

		stored, err := s.Load(ctx, "demo")
		require.NoError(t, err)
		assert.Equal(t, SourceDatabase, stored.Source)
		assert.True(t, stored.Catalog[0].ShouldBeRemoved)
		assert.Equal(t, marshal(t, next), marshal(t, stored.Catalog))
	})

	t.Run("RejectsUnknownNonce", func(t *testing.T) {
		_, err := s.Deliver(ctx, "demo", syncbridge.Submission{NewThemeFontsJSON: "[]", Nonce: "forged"})
		assert.ErrorIs(t, err, ErrInvalidNonce)
	})

	t.Run("RejectsNonceForOtherTheme", func(t *testing.T) {
		_, err := s.Deliver(ctx, "other", sub)
		assert.ErrorIs(t, err, ErrInvalidNonce)
	})

	t.Run("RejectsRevokedNonce", func(t *testing.T) {
		revoked := s.IssueNonce("demo")
		s.RevokeNonce(revoked)
		_, err := s.Deliver(ctx, "demo", syncbridge.Submission{NewThemeFontsJSON: "[]", Nonce: revoked})
		assert.ErrorIs(t, err, ErrInvalidNonce)
	})

	t.Run("RejectsMalformedPayload", func(t *testing.T) {
		_, err := s.Deliver(ctx, "demo", syncbridge.Submission{NewThemeFontsJSON: `[{"fontFace":"nope"}]`, Nonce: nonce})
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})
}

func TestDeliverRefusesStaleSequence(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, themeJSON)
	nonce := s.IssueNonce("demo")

	second := syncbridge.Submission{NewThemeFontsJSON: `[{"fontFamily":"Inter","shouldBeRemoved":true}]`, Nonce: nonce, Sequence: 2}
	first := syncbridge.Submission{NewThemeFontsJSON: `[{"fontFamily":"Inter"}]`, Nonce: nonce, Sequence: 1}

	_, err := s.Deliver(ctx, "demo", second)
	require.NoError(t, err)

	_, err = s.Deliver(ctx, "demo", first)
	assert.ErrorIs(t, err, ErrStaleSubmission)
	_, err = s.Deliver(ctx, "demo", second)
	assert.ErrorIs(t, err, ErrStaleSubmission, "a sequence is stored once")

	stored, err := s.Load(ctx, "demo")
	require.NoError(t, err)
	assert.True(t, stored.Catalog[0].ShouldBeRemoved)

	t.Run("OtherNonceIsIndependent", func(t *testing.T) {
		other := s.IssueNonce("demo")
		_, err := s.Deliver(ctx, "demo", syncbridge.Submission{NewThemeFontsJSON: "[]", Nonce: other, Sequence: 1})
		assert.NoError(t, err)
	})

	t.Run("UnsequencedAlwaysApplies", func(t *testing.T) {
		_, err := s.Deliver(ctx, "demo", syncbridge.Submission{NewThemeFontsJSON: "[]", Nonce: nonce})
		assert.NoError(t, err)
	})
}

// A submission that fails once and is retried after a newer one was
// delivered must not overwrite it.
func TestRetriedSubmissionDoesNotOverwriteNewer(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	database, err := db.Open(filepath.Join(dir, "outbox.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	seedPath := filepath.Join(dir, "theme.json")
	require.NoError(t, os.WriteFile(seedPath, []byte(themeJSON), 0o644))
	s, err := New(model.NewThemeFontsModel(database.SqlConn()), seedPath, time.Hour)
	require.NoError(t, err)

	q, err := queue.NewQueue(database.DB, database.SqlConn(), "submissions")
	require.NoError(t, err)
	t.Cleanup(q.Events.Flush)

	calls := 0
	sink := delivery.SinkFunc(func(ctx context.Context, theme string, sub syncbridge.Submission) error {
		calls++
		if calls == 1 {
			return errors.New("connection reset")
		}
		return s.Sink().Deliver(ctx, theme, sub)
	})
	engine := delivery.NewEngine(q, sink, delivery.Config{
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		MaxBackoff:   time.Second,
		RateLimit:    60000,
	})

	doc, err := s.Load(ctx, "demo")
	require.NoError(t, err)
	store := catalog.NewStore(doc.Catalog)
	syncbridge.New(queue.NewSubmitter(q, "demo"), s.IssueNonce("demo")).Attach(store)
	store.Replace(catalog.DeleteFace(store.Snapshot(), "Inter", "400", "normal"))
	time.Sleep(10 * time.Millisecond)
	store.Replace(catalog.DeleteFamily(store.Snapshot(), "System"))
	want := marshal(t, store.Snapshot())

	// First submission fails and is scheduled for retry.
	found, err := engine.ProcessNext(ctx)
	require.NoError(t, err)
	require.True(t, found)

	// The newer submission lands while the first waits.
	found, err = engine.ProcessNext(ctx)
	require.NoError(t, err)
	require.True(t, found)

	time.Sleep(250 * time.Millisecond)
	found, err = engine.ProcessNext(ctx)
	require.NoError(t, err)
	require.True(t, found)

	stored, err := s.Load(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, want, marshal(t, stored.Catalog))

	jobs, err := q.List(ctx, queue.StatusFailed, 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Contains(t, jobs[0].Error, "stale submission")
}

func TestSinkClassifiesRejections(t *testing.T) {
	s := newTestStore(t, themeJSON)
	sink := s.Sink()

	err := sink.Deliver(context.Background(), "demo", syncbridge.Submission{NewThemeFontsJSON: "[]", Nonce: "forged"})
	require.Error(t, err)
	assert.True(t, delivery.IsPermanent(err))
	assert.ErrorIs(t, err, ErrInvalidNonce)

	nonce := s.IssueNonce("demo")
	require.NoError(t, sink.Deliver(context.Background(), "demo", syncbridge.Submission{NewThemeFontsJSON: "[]", Nonce: nonce}))
}

func marshal(t *testing.T, c catalog.Catalog) string {
	t.Helper()
	data, err := c.Marshal()
	require.NoError(t, err)
	return string(data)
}
