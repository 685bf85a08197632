package catalog

import "encoding/json"

// AssetResolver turns a face source locator into a URL a page can load.
type AssetResolver interface {
	Resolve(src string) string
}

// AssetResolverFunc adapts a plain function to AssetResolver.
type AssetResolverFunc func(src string) string

// Resolve calls f.
func (f AssetResolverFunc) Resolve(src string) string {
	return f(src)
}

// OutlineFace is a face as listings show it.
type OutlineFace struct {
	Weight  FontWeight `json:"weight" yaml:"weight"`
	Style   string     `json:"style" yaml:"style"`
	Src     string     `json:"src" yaml:"src"`
	Removed bool       `json:"removed,omitempty" yaml:"removed,omitempty"`
}

// OutlineFamily is a family as listings show it.
type OutlineFamily struct {
	ID      string        `json:"-" yaml:"-"`
	Family  string        `json:"family" yaml:"family"`
	Faces   []OutlineFace `json:"faces" yaml:"faces"`
	Removed bool          `json:"removed,omitempty" yaml:"removed,omitempty"`
}

// Outline maps family identifiers to their display form, keeping catalog
// order for iteration.
type Outline struct {
	keys     []string
	families map[string]OutlineFamily
}

// Project builds the outline of c. Families and faces marked for removal
// are kept; presentation decides how to show them. A nil resolver passes
// sources through unchanged.
func Project(c Catalog, resolver AssetResolver) Outline {
	o := Outline{families: make(map[string]OutlineFamily, len(c))}
	for _, family := range c {
		faces := make([]OutlineFace, 0, len(family.FontFace))
		for _, face := range family.FontFace {
			faces = append(faces, OutlineFace{
				Weight:  face.FontWeight,
				Style:   face.FontStyle,
				Src:     firstSource(face, resolver),
				Removed: face.ShouldBeRemoved,
			})
		}
		if _, seen := o.families[family.FontFamily]; !seen {
			o.keys = append(o.keys, family.FontFamily)
		}
		o.families[family.FontFamily] = OutlineFamily{
			ID:      family.FontFamily,
			Family:  family.DisplayName(),
			Faces:   faces,
			Removed: family.ShouldBeRemoved,
		}
	}
	return o
}

func firstSource(face FontFace, resolver AssetResolver) string {
	if len(face.Src) == 0 {
		return ""
	}
	if resolver == nil {
		return face.Src[0]
	}
	return resolver.Resolve(face.Src[0])
}

// Keys returns family identifiers in catalog order.
func (o Outline) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Get looks up a family by identifier.
func (o Outline) Get(id string) (OutlineFamily, bool) {
	f, ok := o.families[id]
	return f, ok
}

// Families returns the entries in catalog order.
func (o Outline) Families() []OutlineFamily {
	out := make([]OutlineFamily, 0, len(o.keys))
	for _, k := range o.keys {
		out = append(out, o.families[k])
	}
	return out
}

// Len is the number of distinct families.
func (o Outline) Len() int {
	return len(o.keys)
}

// MarshalJSON writes the outline as an object keyed by family identifier.
func (o Outline) MarshalJSON() ([]byte, error) {
	if o.families == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(o.families)
}
