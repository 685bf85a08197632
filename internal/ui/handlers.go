package ui

import (
	"errors"
	"net/http"
	"strings"

	"github.com/joeblew999/plat-fonts/internal/session"
	"github.com/joeblew999/plat-fonts/pkg/catalog"
	"github.com/joeblew999/plat-fonts/pkg/queue"
	"github.com/starfederation/datastar-go/datastar"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest"
	"github.com/zeromicro/go-zero/rest/pathvar"
	g "maragu.dev/gomponents"
)

// Handlers provides HTTP handlers for the UI.
type Handlers struct {
	sessions *session.Manager
	queue    *queue.Queue
}

// NewHandlers creates new UI handlers. q may be nil when submissions are
// delivered directly.
func NewHandlers(sessions *session.Manager, q *queue.Queue) *Handlers {
	return &Handlers{
		sessions: sessions,
		queue:    q,
	}
}

// Routes returns the standard UI routes for registration with rest.Server.
func (h *Handlers) Routes() []rest.Route {
	return []rest.Route{
		{Method: http.MethodGet, Path: "/", Handler: h.handleFonts},
		{Method: http.MethodGet, Path: "/submissions", Handler: h.handleSubmissions},
	}
}

// SSERoutes returns the SSE-based API routes (require rest.WithSSE option).
func (h *Handlers) SSERoutes() []rest.Route {
	return []rest.Route{
		{Method: http.MethodPost, Path: "/api/sessions/:id/request", Handler: h.handleRequest},
		{Method: http.MethodPost, Path: "/api/sessions/:id/confirm", Handler: h.handleConfirm},
		{Method: http.MethodPost, Path: "/api/sessions/:id/cancel", Handler: h.handleCancel},
		{Method: http.MethodGet, Path: "/api/submissions/stats", Handler: h.handleStats},
		{Method: http.MethodGet, Path: "/api/submissions", Handler: h.handleSubmissionsAPI},
	}
}

func (h *Handlers) handleFonts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	sess, err := h.sessions.Open(r.Context())
	if err != nil {
		logx.WithContext(r.Context()).Errorf("open font session: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		if err := UnavailablePage(err).Render(w); err != nil {
			logx.Errorf("render unavailable page: %v", err)
		}
		return
	}

	if err := FontsPage(fontsView(sess)).Render(w); err != nil {
		logx.Errorf("render fonts page: %v", err)
	}
}

func (h *Handlers) handleSubmissions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := SubmissionsPage(h.queue != nil).Render(w); err != nil {
		logx.Errorf("render submissions page: %v", err)
	}
}

func (h *Handlers) handleRequest(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	family := q.Get("family")
	if family == "" {
		h.sendDatastarError(w, r, "No font family given")
		return
	}
	t := catalog.FamilyTarget(family)
	if weight, style := q.Get("weight"), q.Get("style"); weight != "" && style != "" {
		t = catalog.FaceTarget(family, catalog.FontWeight(weight), style)
	}
	sess.RequestDelete(t)

	h.patch(w, r, ConfirmModal(sess.ID, &t, sess.Outline()))
}

func (h *Handlers) handleConfirm(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	applied, err := sess.Confirm()
	if errors.Is(err, session.ErrClosed) {
		h.sendDatastarError(w, r, sessionExpired)
		return
	}
	if applied {
		logx.WithContext(r.Context()).Infow("Font deletion confirmed",
			logx.Field("session_id", sess.ID),
			logx.Field("submitted", sess.Submitted()))
	}

	outline := sess.Outline()
	h.patch(w, r,
		FamilyList(sess.ID, outline),
		OutlineSidebar(outline),
		ConfirmModal(sess.ID, nil, outline),
	)
}

func (h *Handlers) handleCancel(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	sess.Cancel()
	h.patch(w, r, ConfirmModal(sess.ID, nil, sess.Outline()))
}

func (h *Handlers) handleStats(w http.ResponseWriter, r *http.Request) {
	if h.queue == nil {
		h.sendDatastarSignals(w, r, map[string]any{"stats": map[string]int{}, "loading": false})
		return
	}

	stats, err := h.queue.Stats(r.Context())
	if err != nil {
		h.sendDatastarError(w, r, err.Error())
		return
	}

	h.sendDatastarSignals(w, r, map[string]any{
		"stats": stats,
	})
}

func (h *Handlers) handleSubmissionsAPI(w http.ResponseWriter, r *http.Request) {
	var jobs []*queue.SubmissionJob
	if h.queue != nil {
		var err error
		jobs, err = h.queue.List(r.Context(), r.URL.Query().Get("status"), 50)
		if err != nil {
			h.sendDatastarError(w, r, err.Error())
			return
		}
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElements(render(SubmissionItems(jobs))); err != nil {
		logx.Errorf("datastar patch submission items: %v", err)
	}
	if err := sse.MarshalAndPatchSignals(map[string]any{"loading": false}); err != nil {
		logx.Errorf("datastar patch signals: %v", err)
	}
}

const sessionExpired = "This editing session has expired. Reload the page."

func (h *Handlers) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := h.sessions.Get(pathvar.Vars(r)["id"])
	if !ok {
		h.sendDatastarError(w, r, sessionExpired)
		return nil, false
	}
	return sess, true
}

func (h *Handlers) patch(w http.ResponseWriter, r *http.Request, nodes ...g.Node) {
	sse := datastar.NewSSE(w, r)
	for _, n := range nodes {
		if err := sse.PatchElements(render(n)); err != nil {
			logx.Errorf("datastar patch elements: %v", err)
			return
		}
	}
	if err := sse.MarshalAndPatchSignals(map[string]any{"error": ""}); err != nil {
		logx.Errorf("datastar patch signals: %v", err)
	}
}

func (h *Handlers) sendDatastarSignals(w http.ResponseWriter, r *http.Request, signals map[string]any) {
	sse := datastar.NewSSE(w, r)
	if err := sse.MarshalAndPatchSignals(signals); err != nil {
		logx.Errorf("datastar patch signals: %v", err)
	}
}

func (h *Handlers) sendDatastarError(w http.ResponseWriter, r *http.Request, msg string) {
	h.sendDatastarSignals(w, r, map[string]any{
		"loading": false,
		"error":   msg,
	})
}

func fontsView(sess *session.Session) FontsView {
	v := FontsView{
		SessionID: sess.ID,
		Theme:     sess.Theme,
		Source:    sess.Source,
		Outline:   sess.Outline(),
	}
	if t, ok := sess.Pending(); ok {
		v.Pending = &t
	}
	return v
}

func render(n g.Node) string {
	var b strings.Builder
	if err := n.Render(&b); err != nil {
		logx.Errorf("render fragment: %v", err)
	}
	return b.String()
}
