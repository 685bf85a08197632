package catalog

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject(t *testing.T) {
	resolver := AssetResolverFunc(func(src string) string {
		return strings.Replace(src, "file:./", "https://example.test/theme/", 1)
	})

	t.Run("DisplayNamesAndFirstSource", func(t *testing.T) {
		c := sampleCatalog()
		c[1].FontFace[0].Src = []string{"file:./lora.woff2", "file:./lora.ttf"}

		o := Project(c, resolver)
		assert.Equal(t, []string{"Inter, sans-serif", "Lora", "system-ui"}, o.Keys())

		inter, ok := o.Get("Inter, sans-serif")
		require.True(t, ok)
		assert.Equal(t, "Inter", inter.Family)
		assert.Len(t, inter.Faces, 3)

		lora, _ := o.Get("Lora")
		assert.Equal(t, "Lora", lora.Family)
		assert.Equal(t, "https://example.test/theme/lora.woff2", lora.Faces[0].Src)

		system, _ := o.Get("system-ui")
		assert.Empty(t, system.Faces)
	})

	t.Run("KeepsRemovedEntries", func(t *testing.T) {
		c := DeleteFace(sampleCatalog(), "Lora", "400", "normal")
		o := Project(c, nil)

		lora, ok := o.Get("Lora")
		require.True(t, ok)
		assert.True(t, lora.Removed)
		assert.True(t, lora.Faces[0].Removed)
		assert.Equal(t, 3, o.Len())
	})

	t.Run("PureAndDeterministic", func(t *testing.T) {
		c := sampleCatalog()
		before, err := c.Marshal()
		require.NoError(t, err)

		first := Project(c, resolver)
		second := Project(c, resolver)
		assert.Equal(t, first, second)

		after, err := c.Marshal()
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("DuplicateIDKeepsLast", func(t *testing.T) {
		c := Catalog{
			{FontFamily: "A", Name: "First"},
			{FontFamily: "B"},
			{FontFamily: "A", Name: "Second"},
		}
		o := Project(c, nil)
		assert.Equal(t, []string{"A", "B"}, o.Keys())
		a, _ := o.Get("A")
		assert.Equal(t, "Second", a.Family)
	})

	t.Run("MarshalsAsObject", func(t *testing.T) {
		o := Project(singleFaceCatalog(), nil)
		data, err := json.Marshal(o)
		require.NoError(t, err)
		assert.JSONEq(t, `{"A":{"family":"A","faces":[{"weight":"400","style":"normal","src":"a.woff"}]}}`, string(data))

		empty, err := json.Marshal(Outline{})
		require.NoError(t, err)
		assert.Equal(t, "{}", string(empty))
	})
}
