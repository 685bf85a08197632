package font

import (
	"fmt"
	"path"
	"strings"

	"github.com/joeblew999/plat-fonts/pkg/catalog"
)

// FormatFromSrc returns the CSS format() hint for a font URL, or "" when
// the extension is unknown.
func FormatFromSrc(src string) string {
	if i := strings.IndexAny(src, "?#"); i >= 0 {
		src = src[:i]
	}
	return formatsByExtension[strings.ToLower(path.Ext(src))]
}

// FaceCSS generates an @font-face rule for one outline face so listings can
// preview it. family is the CSS family name the rule declares.
func FaceCSS(family string, face catalog.OutlineFace) string {
	style := face.Style
	if style == "" {
		style = DefaultFontStyle
	}
	src := fmt.Sprintf("url('%s')", cssEscape(face.Src))
	if format := FormatFromSrc(face.Src); format != "" {
		src += fmt.Sprintf(" format('%s')", format)
	}
	return fmt.Sprintf(`@font-face {
  font-family: '%s';
  font-style: %s;
  font-weight: %s;
  font-display: %s;
  src: %s;
}`, cssEscape(family), cssEscape(style), cssEscape(string(face.Weight)), DefaultFontDisplay, src)
}

// OutlineCSS renders preview rules for every face of the outline. Each
// family is declared under PreviewFamily(id) so theme stacks such as
// "Inter, sans-serif" do not leak into the rule.
func OutlineCSS(o catalog.Outline) string {
	var b strings.Builder
	for _, family := range o.Families() {
		for _, face := range family.Faces {
			if face.Src == "" {
				continue
			}
			b.WriteString(FaceCSS(PreviewFamily(family.ID), face))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// PreviewFamily is the CSS family name previews of id are declared under.
func PreviewFamily(id string) string {
	var b strings.Builder
	b.WriteString("preview-")
	for _, r := range strings.ToLower(id) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}

// cssEscape keeps values from closing the quoted string or the rule.
func cssEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", " ", "}", "", "<", "")
	return r.Replace(s)
}
