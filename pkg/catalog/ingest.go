package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrCatalogUnavailable is returned when no catalog payload was supplied.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Parse ingests a catalog payload: a JSON array of families. A blank
// payload is an error; "null" and "[]" give an empty catalog. Families
// without fontFamily take their name as identifier.
func Parse(payload []byte) (Catalog, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return nil, ErrCatalogUnavailable
	}

	var families []FontFamily
	if err := json.Unmarshal(payload, &families); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return normalize(families)
}

// themeJSON is the slice of theme.json the catalog cares about.
type themeJSON struct {
	Settings struct {
		Typography struct {
			FontFamilies json.RawMessage `json:"fontFamilies"`
		} `json:"typography"`
	} `json:"settings"`
}

// ParseThemeJSON reads settings.typography.fontFamilies from a theme.json
// document. Both the bare array and the {"theme": [...]} origin form are
// accepted. A theme without font families gives an empty catalog.
func ParseThemeJSON(doc []byte) (Catalog, error) {
	if len(bytes.TrimSpace(doc)) == 0 {
		return nil, ErrCatalogUnavailable
	}

	var theme themeJSON
	if err := json.Unmarshal(doc, &theme); err != nil {
		return nil, fmt.Errorf("decode theme.json: %w", err)
	}

	raw := bytes.TrimSpace(theme.Settings.Typography.FontFamilies)
	if len(raw) == 0 {
		return Catalog{}, nil
	}
	if raw[0] == '{' {
		var origins struct {
			Theme json.RawMessage `json:"theme"`
		}
		if err := json.Unmarshal(raw, &origins); err != nil {
			return nil, fmt.Errorf("decode fontFamilies: %w", err)
		}
		raw = bytes.TrimSpace(origins.Theme)
		if len(raw) == 0 {
			return Catalog{}, nil
		}
	}
	return Parse(raw)
}

func normalize(families []FontFamily) (Catalog, error) {
	c := make(Catalog, 0, len(families))
	for i, family := range families {
		if family.FontFamily == "" {
			family.FontFamily = family.Name
		}
		if err := validate.Struct(family); err != nil {
			return nil, fmt.Errorf("family %d: %w", i, err)
		}
		c = append(c, family)
	}
	return c, nil
}
