package fonts

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joeblew999/plat-fonts/internal/backing"
	"github.com/joeblew999/plat-fonts/internal/config"
	"github.com/joeblew999/plat-fonts/internal/errorx"
	"github.com/joeblew999/plat-fonts/internal/model"
	"github.com/joeblew999/plat-fonts/internal/svc"
	"github.com/joeblew999/plat-fonts/internal/types"
	"github.com/joeblew999/plat-fonts/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const themeJSON = `{"settings":{"typography":{"fontFamilies":[
	{"fontFamily":"Inter","fontFace":[{"fontWeight":400,"fontStyle":"normal","src":["file:./assets/inter.woff2"]}]}
]}}}`

func newTestContext(t *testing.T, seed string) *svc.ServiceContext {
	t.Helper()
	dir := t.TempDir()
	database, err := db.Open(filepath.Join(dir, "fonts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	seedPath := filepath.Join(dir, "theme.json")
	if seed != "" {
		require.NoError(t, os.WriteFile(seedPath, []byte(seed), 0o644))
	}

	var c config.Config
	c.Theme.Name = "demo"
	c.Theme.BaseURL = "https://example.com/theme/"

	store, err := backing.New(model.NewThemeFontsModel(database.SqlConn()), seedPath, time.Hour)
	require.NoError(t, err)
	return svc.NewServiceContext(c, store, nil, nil)
}

func codeOf(t *testing.T, err error) int {
	t.Helper()
	var ce *errorx.CodeError
	require.ErrorAs(t, err, &ce)
	return ce.Code
}

func TestGetFonts(t *testing.T) {
	ctx := context.Background()

	t.Run("SeededFromThemeJSON", func(t *testing.T) {
		svcCtx := newTestContext(t, themeJSON)
		resp, err := NewGetFontsLogic(ctx, svcCtx).GetFonts(&types.GetFontsRequest{})
		require.NoError(t, err)

		assert.Equal(t, "demo", resp.Theme)
		assert.Equal(t, backing.SourceThemeJSON, resp.Source)

		var outline map[string]struct {
			Family string `json:"family"`
			Faces  []struct {
				Weight string `json:"weight"`
				Src    string `json:"src"`
			} `json:"faces"`
		}
		require.NoError(t, json.Unmarshal(resp.Outline, &outline))
		require.Contains(t, outline, "Inter")
		assert.Equal(t, "400", outline["Inter"].Faces[0].Weight)
		assert.Equal(t, "https://example.com/theme/assets/inter.woff2", outline["Inter"].Faces[0].Src)
	})

	t.Run("Unavailable", func(t *testing.T) {
		svcCtx := newTestContext(t, "")
		_, err := NewGetFontsLogic(ctx, svcCtx).GetFonts(&types.GetFontsRequest{})
		assert.Equal(t, http.StatusServiceUnavailable, codeOf(t, err))
	})
}

func TestDeliverFonts(t *testing.T) {
	ctx := context.Background()
	svcCtx := newTestContext(t, themeJSON)
	nonce := svcCtx.Backing.IssueNonce("demo")
	payload := `[{"fontFamily":"Inter","shouldBeRemoved":true}]`

	_, err := NewDeliverFontsLogic(ctx, svcCtx).DeliverFonts(&types.DeliverFontsRequest{
		NewThemeFontsJSON: payload,
		Nonce:             "forged",
	})
	assert.Equal(t, http.StatusForbidden, codeOf(t, err))

	_, err = NewDeliverFontsLogic(ctx, svcCtx).DeliverFonts(&types.DeliverFontsRequest{
		NewThemeFontsJSON: "",
		Nonce:             nonce,
	})
	assert.Equal(t, http.StatusBadRequest, codeOf(t, err))

	resp, err := NewDeliverFontsLogic(ctx, svcCtx).DeliverFonts(&types.DeliverFontsRequest{
		NewThemeFontsJSON: payload,
		Nonce:             nonce,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Revision)
	assert.Equal(t, 1, resp.Families)

	got, err := NewGetFontsLogic(ctx, svcCtx).GetFonts(&types.GetFontsRequest{})
	require.NoError(t, err)
	assert.Equal(t, backing.SourceDatabase, got.Source)
	assert.JSONEq(t, payload, string(got.Families))
}

func TestDeliverFontsOutOfOrder(t *testing.T) {
	ctx := context.Background()
	svcCtx := newTestContext(t, themeJSON)
	nonce := svcCtx.Backing.IssueNonce("demo")
	newer := `[{"fontFamily":"Inter","shouldBeRemoved":true}]`

	_, err := NewDeliverFontsLogic(ctx, svcCtx).DeliverFonts(&types.DeliverFontsRequest{
		Sequence:          2,
		NewThemeFontsJSON: newer,
		Nonce:             nonce,
	})
	require.NoError(t, err)

	_, err = NewDeliverFontsLogic(ctx, svcCtx).DeliverFonts(&types.DeliverFontsRequest{
		Sequence:          1,
		NewThemeFontsJSON: `[{"fontFamily":"Inter"}]`,
		Nonce:             nonce,
	})
	assert.Equal(t, http.StatusConflict, codeOf(t, err))

	got, err := NewGetFontsLogic(ctx, svcCtx).GetFonts(&types.GetFontsRequest{})
	require.NoError(t, err)
	assert.JSONEq(t, newer, string(got.Families))
}
