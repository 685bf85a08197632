package font

import (
	"testing"

	"github.com/joeblew999/plat-fonts/pkg/catalog"
	"github.com/stretchr/testify/assert"
)

func TestThemeAssets(t *testing.T) {
	assets := NewThemeAssets("https://example.test/wp-content/themes/demo/")

	t.Run("ThemeRelative", func(t *testing.T) {
		assert.Equal(t,
			"https://example.test/wp-content/themes/demo/assets/fonts/inter.woff2",
			assets.Resolve("file:./assets/fonts/inter.woff2"))
	})

	t.Run("AbsoluteUnchanged", func(t *testing.T) {
		src := "https://fonts.gstatic.com/s/inter/v12/inter.woff2"
		assert.Equal(t, src, assets.Resolve(src))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, "", assets.Resolve(""))
	})

	t.Run("NoBaseURL", func(t *testing.T) {
		assert.Equal(t, "./a.woff", ThemeAssets{}.Resolve("file:./a.woff"))
	})
}

func TestFormatFromSrc(t *testing.T) {
	cases := map[string]string{
		"a.woff2":           "woff2",
		"A.WOFF":            "woff",
		"dir/a.ttf?ver=1.2": "truetype",
		"a.otf#frag":        "opentype",
		"a.bin":             "",
	}
	for src, want := range cases {
		assert.Equal(t, want, FormatFromSrc(src), src)
	}
}

func TestFaceCSS(t *testing.T) {
	css := FaceCSS("preview-inter", catalog.OutlineFace{
		Weight: "700",
		Style:  "italic",
		Src:    "https://example.test/inter-700i.woff2",
	})

	assert.Contains(t, css, "font-family: 'preview-inter';")
	assert.Contains(t, css, "font-style: italic;")
	assert.Contains(t, css, "font-weight: 700;")
	assert.Contains(t, css, "font-display: swap;")
	assert.Contains(t, css, "src: url('https://example.test/inter-700i.woff2') format('woff2');")

	t.Run("DefaultsStyleAndEscapes", func(t *testing.T) {
		css := FaceCSS("x'}", catalog.OutlineFace{Weight: "400", Src: "a'.bin"})
		assert.Contains(t, css, "font-style: normal;")
		assert.Contains(t, css, `font-family: 'x\'';`)
		assert.Contains(t, css, `src: url('a\'.bin');`)
	})
}

func TestOutlineCSS(t *testing.T) {
	c := catalog.Catalog{
		{FontFamily: "Inter, sans-serif", FontFace: []catalog.FontFace{
			{FontWeight: "400", FontStyle: "normal", Src: []string{"file:./inter.woff2"}},
		}},
		{FontFamily: "system-ui"},
	}
	css := OutlineCSS(catalog.Project(c, NewThemeAssets("https://t.test")))

	assert.Contains(t, css, "font-family: 'preview-inter--sans-serif';")
	assert.Contains(t, css, "https://t.test/inter.woff2")
	assert.NotContains(t, css, "system-ui")
}

func TestPreviewFamily(t *testing.T) {
	assert.Equal(t, "preview-inter--sans-serif", PreviewFamily("Inter, sans-serif"))
	assert.Equal(t, "preview-lora", PreviewFamily("Lora"))
}
