package catalog

// DeleteFamily marks every family carrying the identifier key resolves to.
// Faces are left as they are. A key that matches nothing returns c
// unchanged.
func DeleteFamily(c Catalog, key string) Catalog {
	id, ok := c.Canonical(key)
	if !ok {
		return c
	}

	var next Catalog
	for i, family := range c {
		if family.FontFamily != id {
			continue
		}
		if next == nil {
			next = make(Catalog, len(c))
			copy(next, c)
		}
		family.ShouldBeRemoved = true
		next[i] = family
	}
	if next == nil {
		return c
	}
	return next
}

// DeleteFace marks the faces of the matching families whose weight and style
// equal the pair. A family that had exactly one face not marked for removal
// before the request is marked as well. Unknown families or faces return c
// unchanged.
func DeleteFace(c Catalog, key string, weight FontWeight, style string) Catalog {
	id, ok := c.Canonical(key)
	if !ok {
		return c
	}

	var next Catalog
	for i, family := range c {
		if family.FontFamily != id {
			continue
		}
		updated, changed := deleteFaceIn(family, weight, style)
		if !changed {
			continue
		}
		if next == nil {
			next = make(Catalog, len(c))
			copy(next, c)
		}
		next[i] = updated
	}
	if next == nil {
		return c
	}
	return next
}

// Apply runs the delete the target describes.
func Apply(c Catalog, t Target) Catalog {
	if t.IsFace() {
		return DeleteFace(c, t.FontFamily, t.Weight, t.Style)
	}
	return DeleteFamily(c, t.FontFamily)
}

// deleteFaceIn counts survivors on the face list as it was before the
// request; the family cascades when that count is one.
func deleteFaceIn(family FontFamily, weight FontWeight, style string) (FontFamily, bool) {
	matched := 0
	survivors := 0
	for _, face := range family.FontFace {
		if face.FontWeight == weight && face.FontStyle == style {
			matched++
		}
		if !face.ShouldBeRemoved {
			survivors++
		}
	}
	if matched == 0 {
		return family, false
	}

	faces := make([]FontFace, len(family.FontFace))
	for i, face := range family.FontFace {
		if face.FontWeight == weight && face.FontStyle == style {
			face.ShouldBeRemoved = true
		}
		faces[i] = face
	}
	family.FontFace = faces
	if survivors == 1 {
		family.ShouldBeRemoved = true
	}
	return family, true
}
