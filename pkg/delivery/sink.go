package delivery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/joeblew999/plat-fonts/pkg/syncbridge"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpc"
)

// Sink is where a catalog submission ends up.
type Sink interface {
	Deliver(ctx context.Context, theme string, s syncbridge.Submission) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, theme string, s syncbridge.Submission) error

// Deliver calls f.
func (f SinkFunc) Deliver(ctx context.Context, theme string, s syncbridge.Submission) error {
	return f(ctx, theme, s)
}

// StatusError is a non-2xx answer from a remote receiver.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("receiver returned %d", e.StatusCode)
	}
	return fmt.Sprintf("receiver returned %d: %s", e.StatusCode, e.Body)
}

// Permanent is implemented by errors that retrying cannot fix.
type Permanent interface {
	Permanent() bool
}

// Permanent reports whether the status is a client error. 408 and 429 are
// worth retrying.
func (e *StatusError) Permanent() bool {
	switch e.StatusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return false
	}
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// IsPermanent reports whether err should not be retried.
func IsPermanent(err error) bool {
	var p Permanent
	return errors.As(err, &p) && p.Permanent()
}

// PermanentError marks err as not worth retrying.
func PermanentError(err error) error {
	return permanentError{err}
}

type permanentError struct{ error }

func (permanentError) Permanent() bool { return true }

func (e permanentError) Unwrap() error { return e.error }

type submitRequest struct {
	Theme             string `form:"theme,optional"`
	Sequence          int64  `form:"sequence,optional"`
	NewThemeFontsJSON string `json:"new-theme-fonts-json"`
	Nonce             string `json:"nonce"`
}

// HTTPSink posts submissions to a remote receiver as JSON.
type HTTPSink struct {
	endpoint string
	service  httpc.Service
}

// NewHTTPSink returns a sink posting to endpoint.
func NewHTTPSink(endpoint string, timeout time.Duration) *HTTPSink {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSink{
		endpoint: endpoint,
		service:  httpc.NewServiceWithClient("plat-fonts-sync", &http.Client{Timeout: timeout}),
	}
}

// Endpoint returns the receiver URL.
func (s *HTTPSink) Endpoint() string {
	return s.endpoint
}

// Deliver posts sub to the receiver.
func (s *HTTPSink) Deliver(ctx context.Context, theme string, sub syncbridge.Submission) error {
	resp, err := s.service.Do(ctx, http.MethodPost, s.endpoint, submitRequest{
		Theme:             theme,
		Sequence:          sub.Sequence,
		NewThemeFontsJSON: sub.NewThemeFontsJSON,
		Nonce:             sub.Nonce,
	})
	if err != nil {
		return fmt.Errorf("post submission: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}

// DirectSubmitter delivers bridge submissions synchronously, without the
// outbox.
type DirectSubmitter struct {
	sink  Sink
	theme string
}

// NewDirectSubmitter returns a syncbridge.Submitter that calls sink for theme.
func NewDirectSubmitter(sink Sink, theme string) *DirectSubmitter {
	return &DirectSubmitter{sink: sink, theme: theme}
}

// Submit delivers sub.
func (d *DirectSubmitter) Submit(ctx context.Context, sub syncbridge.Submission) error {
	if err := d.sink.Deliver(ctx, d.theme, sub); err != nil {
		return err
	}
	logx.WithContext(ctx).Infow("Catalog submission delivered directly", logx.Field("theme", d.theme))
	return nil
}
