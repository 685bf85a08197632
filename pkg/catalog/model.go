// Package catalog holds the theme font catalog: the family/face state model,
// the cascade-delete rules, the single-slot deletion workflow and the
// read-only outline used by listings.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FontWeight is a face weight as written in theme.json. Both "400" and 400
// are accepted on input; it is always written back as a string.
type FontWeight string

// UnmarshalJSON accepts a JSON string or a bare number.
func (w *FontWeight) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*w = FontWeight(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*w = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("fontWeight must be a string or number: %w", err)
	}
	*w = FontWeight(n.String())
	return nil
}

// FontFace is one weight/style variant of a family.
type FontFace struct {
	FontWeight      FontWeight `json:"fontWeight,omitempty"`
	FontStyle       string     `json:"fontStyle,omitempty"`
	Src             []string   `json:"src" validate:"min=1,dive,required"`
	ShouldBeRemoved bool       `json:"shouldBeRemoved,omitempty"`

	// Extra keeps keys this package does not interpret (fontFamily,
	// fontDisplay, ...) so a submitted catalog round-trips them.
	Extra map[string]json.RawMessage `json:"-"`
}

// FontFamily is a named group of faces.
type FontFamily struct {
	FontFamily      string     `json:"fontFamily" validate:"required"`
	Name            string     `json:"name,omitempty"`
	FontFace        []FontFace `json:"fontFace,omitempty" validate:"dive"`
	ShouldBeRemoved bool       `json:"shouldBeRemoved,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// DisplayName is the name if present, else the family identifier.
func (f FontFamily) DisplayName() string {
	if f.Name != "" {
		return f.Name
	}
	return f.FontFamily
}

// SurvivingFaces counts faces not marked for removal.
func (f FontFamily) SurvivingFaces() int {
	n := 0
	for _, face := range f.FontFace {
		if !face.ShouldBeRemoved {
			n++
		}
	}
	return n
}

// Catalog is the ordered list of families. Order is significant and is
// never changed by this package.
type Catalog []FontFamily

// Canonical resolves a family key to the canonical identifier. A key may
// be either a family's fontFamily or its display name; fontFamily wins.
func (c Catalog) Canonical(key string) (string, bool) {
	for _, f := range c {
		if f.FontFamily == key {
			return f.FontFamily, true
		}
	}
	for _, f := range c {
		if f.Name != "" && f.Name == key {
			return f.FontFamily, true
		}
	}
	return "", false
}

// Find returns the first family with the given canonical identifier.
func (c Catalog) Find(id string) (FontFamily, bool) {
	for _, f := range c {
		if f.FontFamily == id {
			return f, true
		}
	}
	return FontFamily{}, false
}

// Marshal serializes the catalog as a JSON array.
func (c Catalog) Marshal() ([]byte, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]FontFamily(c))
}

type faceFields FontFace

var faceKeys = []string{"fontWeight", "fontStyle", "src", "shouldBeRemoved"}

// UnmarshalJSON decodes known keys and keeps the rest in Extra.
func (f *FontFace) UnmarshalJSON(data []byte) error {
	var fields faceFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	extra, err := extraKeys(data, faceKeys)
	if err != nil {
		return err
	}
	*f = FontFace(fields)
	f.Extra = extra
	return nil
}

// MarshalJSON writes known keys merged with Extra.
func (f FontFace) MarshalJSON() ([]byte, error) {
	return mergeExtra(faceFields(f), f.Extra)
}

type familyFields FontFamily

var familyKeys = []string{"fontFamily", "name", "fontFace", "shouldBeRemoved"}

// UnmarshalJSON decodes known keys and keeps the rest in Extra.
func (f *FontFamily) UnmarshalJSON(data []byte) error {
	var fields familyFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	extra, err := extraKeys(data, familyKeys)
	if err != nil {
		return err
	}
	*f = FontFamily(fields)
	f.Extra = extra
	return nil
}

// MarshalJSON writes known keys merged with Extra.
func (f FontFamily) MarshalJSON() ([]byte, error) {
	return mergeExtra(familyFields(f), f.Extra)
}

func extraKeys(data []byte, known []string) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

func mergeExtra(fields any, extra map[string]json.RawMessage) ([]byte, error) {
	data, err := json.Marshal(fields)
	if err != nil || len(extra) == 0 {
		return data, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}
