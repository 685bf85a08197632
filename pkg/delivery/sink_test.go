package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/joeblew999/plat-fonts/pkg/syncbridge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSink(t *testing.T) {
	sub := syncbridge.Submission{NewThemeFontsJSON: `[{"fontFamily":"A"}]`, Nonce: "abc", Sequence: 3}

	t.Run("PostsJSON", func(t *testing.T) {
		var body map[string]string
		var theme, sequence string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			theme = r.URL.Query().Get("theme")
			sequence = r.URL.Query().Get("sequence")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		sink := NewHTTPSink(srv.URL, time.Second)
		require.NoError(t, sink.Deliver(context.Background(), "demo", sub))

		assert.Equal(t, "demo", theme)
		assert.Equal(t, "3", sequence)
		assert.Equal(t, map[string]string{
			"new-theme-fonts-json": sub.NewThemeFontsJSON,
			"nonce":                "abc",
		}, body)
	})

	t.Run("StatusErrors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "invalid nonce", http.StatusForbidden)
		}))
		defer srv.Close()

		err := NewHTTPSink(srv.URL, time.Second).Deliver(context.Background(), "demo", sub)
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusForbidden, se.StatusCode)
		assert.Equal(t, "invalid nonce", se.Body)
		assert.True(t, IsPermanent(err))
	})

	t.Run("Unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		err := NewHTTPSink(url, time.Second).Deliver(context.Background(), "demo", sub)
		require.Error(t, err)
		assert.False(t, IsPermanent(err))
	})
}

func TestIsPermanent(t *testing.T) {
	assert.True(t, IsPermanent(&StatusError{StatusCode: 400}))
	assert.True(t, IsPermanent(&StatusError{StatusCode: 404}))
	assert.True(t, IsPermanent(&StatusError{StatusCode: 409}))
	assert.False(t, IsPermanent(&StatusError{StatusCode: 408}))
	assert.False(t, IsPermanent(&StatusError{StatusCode: 500}))
	assert.False(t, IsPermanent(errors.New("timeout")))
	assert.True(t, IsPermanent(PermanentError(errors.New("x"))))
}

func TestDirectSubmitter(t *testing.T) {
	var gotTheme string
	sink := SinkFunc(func(_ context.Context, theme string, _ syncbridge.Submission) error {
		gotTheme = theme
		return nil
	})
	require.NoError(t, NewDirectSubmitter(sink, "demo").Submit(context.Background(), syncbridge.Submission{}))
	assert.Equal(t, "demo", gotTheme)

	failing := SinkFunc(func(context.Context, string, syncbridge.Submission) error { return errors.New("down") })
	assert.EqualError(t, NewDirectSubmitter(failing, "demo").Submit(context.Background(), syncbridge.Submission{}), "down")
}
