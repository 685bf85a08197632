package catalog

import "fmt"

// Target names what a delete request removes. With both Weight and Style
// set it is a face delete; otherwise it addresses the whole family.
type Target struct {
	FontFamily string     `json:"fontFamily"`
	Weight     FontWeight `json:"weight,omitempty"`
	Style      string     `json:"style,omitempty"`
}

// FamilyTarget builds a family-level target.
func FamilyTarget(family string) Target {
	return Target{FontFamily: family}
}

// FaceTarget builds a face-level target.
func FaceTarget(family string, weight FontWeight, style string) Target {
	return Target{FontFamily: family, Weight: weight, Style: style}
}

// IsFace reports whether the target addresses a single face.
func (t Target) IsFace() bool {
	return t.Weight != "" && t.Style != ""
}

func (t Target) String() string {
	if t.IsFace() {
		return fmt.Sprintf("%s %s %s", t.FontFamily, t.Weight, t.Style)
	}
	return t.FontFamily
}
