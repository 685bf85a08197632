package ui

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joeblew999/plat-fonts/internal/backing"
	"github.com/joeblew999/plat-fonts/internal/session"
	"github.com/joeblew999/plat-fonts/pkg/catalog"
	"github.com/joeblew999/plat-fonts/pkg/syncbridge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/rest/pathvar"
)

type stubSource struct {
	catalog catalog.Catalog
	err     error
}

func (s stubSource) Load(_ context.Context, theme string) (*backing.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &backing.Document{Theme: theme, Catalog: s.catalog, Source: backing.SourceThemeJSON}, nil
}

func (stubSource) IssueNonce(string) string { return "nonce" }

func testCatalog() catalog.Catalog {
	return catalog.Catalog{
		{FontFamily: "Inter, sans-serif", Name: "Inter", FontFace: []catalog.FontFace{
			{FontWeight: "400", FontStyle: "normal", Src: []string{"file:./inter.woff2"}},
			{FontWeight: "700", FontStyle: "italic", Src: []string{"file:./inter-bold.woff2"}},
		}},
		{FontFamily: "Lora", ShouldBeRemoved: true},
	}
}

func newTestHandlers(t *testing.T, src stubSource) (*Handlers, *session.Manager) {
	t.Helper()
	submitter := syncbridge.SubmitterFunc(func(context.Context, syncbridge.Submission) error { return nil })
	m, err := session.NewManager("demo", src, submitter, nil, 8)
	require.NoError(t, err)
	return NewHandlers(m, nil), m
}

func TestFamilyList(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		out := render(FamilyList("s", catalog.Project(nil, nil)))
		assert.Contains(t, out, EmptyCatalogMessage)
	})

	t.Run("RemovedEntriesHaveNoDeleteButton", func(t *testing.T) {
		out := render(FamilyList("s", catalog.Project(testCatalog(), nil)))

		assert.Contains(t, out, "Inter")
		assert.Contains(t, out, "Lora")
		assert.Equal(t, 1, strings.Count(out, "Delete family"), "only Inter can be deleted")
		assert.Equal(t, 2, strings.Count(out, "Delete face"))
		assert.Contains(t, out, `class="removed"`)
	})

	t.Run("FaceWithoutStyleHasNoDeleteButton", func(t *testing.T) {
		c := catalog.Catalog{{FontFamily: "Mono", FontFace: []catalog.FontFace{
			{FontWeight: "400", Src: []string{"file:./mono.woff2"}},
			{FontWeight: "700", FontStyle: "normal", Src: []string{"file:./mono-bold.woff2"}},
		}}}
		out := render(FamilyList("s", catalog.Project(c, nil)))
		assert.Equal(t, 1, strings.Count(out, "Delete face"))
	})
}

func TestOutlineSidebar(t *testing.T) {
	out := render(OutlineSidebar(catalog.Project(testCatalog(), nil)))
	assert.Contains(t, out, `id="font-outline"`)
	assert.Contains(t, out, "400 normal")
	assert.Contains(t, out, `<span class="removed">Lora</span>`)
}

func TestConfirmModal(t *testing.T) {
	o := catalog.Project(testCatalog(), nil)

	assert.Equal(t, `<div id="confirm-modal"></div>`, render(ConfirmModal("s", nil, o)))

	family := catalog.FamilyTarget("Inter, sans-serif")
	out := render(ConfirmModal("s", &family, o))
	assert.Contains(t, out, "Delete the font family")
	assert.Contains(t, out, "/api/sessions/s/confirm")
	assert.Contains(t, out, "/api/sessions/s/cancel")

	face := catalog.FaceTarget("Inter, sans-serif", "700", "italic")
	assert.Contains(t, render(ConfirmModal("s", &face, o)), "Delete the 700 italic face of")
}

func TestActionURL(t *testing.T) {
	assert.Equal(t, "/api/sessions/abc/confirm", actionURL("abc", "confirm", catalog.Target{}))
	assert.Equal(t, "/api/sessions/abc/request?family=Inter%2C+sans-serif",
		actionURL("abc", "request", catalog.FamilyTarget("Inter, sans-serif")))
	assert.Equal(t, "/api/sessions/abc/request?family=Lora&style=italic&weight=400",
		actionURL("abc", "request", catalog.FaceTarget("Lora", "400", "italic")))
}

func TestHandleFonts(t *testing.T) {
	t.Run("RendersPage", func(t *testing.T) {
		h, _ := newTestHandlers(t, stubSource{catalog: testCatalog()})
		rec := httptest.NewRecorder()
		h.handleFonts(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Manage Fonts")
		assert.Contains(t, body, "@font-face")
		assert.Contains(t, body, `id="help-modal"`)
	})

	t.Run("EmptyCatalog", func(t *testing.T) {
		h, _ := newTestHandlers(t, stubSource{catalog: catalog.Catalog{}})
		rec := httptest.NewRecorder()
		h.handleFonts(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), EmptyCatalogMessage)
	})

	t.Run("Unavailable", func(t *testing.T) {
		h, _ := newTestHandlers(t, stubSource{err: errors.New("theme.json not found")})
		rec := httptest.NewRecorder()
		h.handleFonts(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "Catalog unavailable")
	})
}

func TestDeleteWorkflowHandlers(t *testing.T) {
	h, m := newTestHandlers(t, stubSource{catalog: testCatalog()})
	sess, err := m.Open(context.Background())
	require.NoError(t, err)

	call := func(handler http.HandlerFunc, target string) string {
		r := httptest.NewRequest(http.MethodPost, target, nil)
		r = pathvar.WithVars(r, map[string]string{"id": sess.ID})
		rec := httptest.NewRecorder()
		handler(rec, r)
		return rec.Body.String()
	}

	body := call(h.handleRequest, "/api/sessions/x/request?family=Inter%2C+sans-serif&weight=700&style=italic")
	assert.Contains(t, body, "confirm-modal")
	_, pending := sess.Pending()
	assert.True(t, pending)

	body = call(h.handleCancel, "/api/sessions/x/cancel")
	assert.Contains(t, body, "confirm-modal")
	_, pending = sess.Pending()
	assert.False(t, pending)

	call(h.handleRequest, "/api/sessions/x/request?family=Inter%2C+sans-serif")
	body = call(h.handleConfirm, "/api/sessions/x/confirm")
	assert.Contains(t, body, "font-list")
	assert.Contains(t, body, "font-outline")
	assert.True(t, sess.Snapshot()[0].ShouldBeRemoved)
	assert.Equal(t, 1, sess.Submitted())
}

func TestExpiredSession(t *testing.T) {
	h, _ := newTestHandlers(t, stubSource{catalog: testCatalog()})
	r := httptest.NewRequest(http.MethodPost, "/api/sessions/gone/confirm", nil)
	r = pathvar.WithVars(r, map[string]string{"id": "gone"})
	rec := httptest.NewRecorder()
	h.handleConfirm(rec, r)

	assert.Contains(t, rec.Body.String(), "expired")
}
