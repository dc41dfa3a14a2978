package importer

import (
	"encoding/json"

	"github.com/fabricio2fb/reviewlar/internal/domain"
	"github.com/fabricio2fb/reviewlar/internal/editor"
)

// importMaster applies a full review payload. Scalars are set only when
// present and non-empty, rating whenever present, groups whenever present.
func importMaster(f *editor.Form, raw json.RawMessage, e *Error) *Result {
	obj, ok := decodeObject(raw)
	if !ok {
		e.Message = "master JSON must be an object"
		return nil
	}

	counts := make(map[string]int)
	scalars := []struct {
		key string
		dst *string
	}{
		{"title", &f.Title},
		{"category", &f.Category},
		{"summary", &f.Summary},
		{"content", &f.Content},
		{"priceRange", &f.PriceRange},
		{"metaDescription", &f.MetaDescription},
		{"image", &f.Image},
	}
	for _, s := range scalars {
		v, ok := obj.get(s.key)
		if !ok {
			continue
		}
		text, ok := decodeString(v)
		if !ok {
			e.Add(s.key, "must be a string")
			continue
		}
		if text != "" {
			*s.dst = text
			counts[s.key] = 1
		}
	}

	if v, ok := obj.get("imageAspectRatio"); ok {
		text, ok := decodeString(v)
		switch {
		case !ok:
			e.Add("imageAspectRatio", "must be a string")
		case text != "":
			f.ImageAspectRatio = domain.AspectRatio(text)
			counts["imageAspectRatio"] = 1
		}
	}

	if v, ok := obj.get("rating"); ok {
		rating, ok := decodeNumber(v)
		if !ok {
			e.Add("rating", "must be a number")
		}
		f.Rating = rating
		counts["rating"] = 1
	}

	if v, ok := obj.get("keywords"); ok {
		f.Keywords = decodeStrings(v, "keywords", e)
		counts["keywords"] = len(f.Keywords)
	}
	if v, ok := obj.get(editor.GroupPros); ok {
		items := decodeStrings(v, editor.GroupPros, e)
		f.Pros.ReplaceAll(wrapValues(items))
		counts[editor.GroupPros] = len(items)
	}
	if v, ok := obj.get(editor.GroupCons); ok {
		items := decodeStrings(v, editor.GroupCons, e)
		f.Cons.ReplaceAll(wrapValues(items))
		counts[editor.GroupCons] = len(items)
	}
	if v, ok := obj.get(editor.GroupImages); ok {
		items := decodeStrings(v, editor.GroupImages, e)
		f.Images.ReplaceAll(wrapImages(items))
		counts[editor.GroupImages] = len(items)
	}
	if v, ok := obj.get(editor.GroupTechnicalSpecs); ok {
		if shapeOf(v) != shapeObject {
			e.Add(editor.GroupTechnicalSpecs, "must be an object")
		} else {
			items := decodeSpecs(v, editor.GroupTechnicalSpecs, e)
			f.TechnicalSpecs.ReplaceAll(items)
			counts[editor.GroupTechnicalSpecs] = len(items)
		}
	}
	if v, ok := obj.get(editor.GroupScores); ok {
		if shapeOf(v) != shapeObject {
			e.Add(editor.GroupScores, "must be an object")
		} else {
			items := decodeScores(v, editor.GroupScores, e)
			f.Scores.ReplaceAll(items)
			counts[editor.GroupScores] = len(items)
		}
	}
	if v, ok := obj.get(editor.GroupFAQ); ok {
		items := decodeFAQ(v, editor.GroupFAQ, e)
		f.FAQ.ReplaceAll(items)
		counts[editor.GroupFAQ] = len(items)
	}
	if v, ok := obj.get(editor.GroupOffers); ok {
		items := decodeOffers(v, editor.GroupOffers, e)
		f.Offers.ReplaceAll(items)
		counts[editor.GroupOffers] = len(items)
	}

	return &Result{
		Kind:    KindMaster,
		Counts:  counts,
		Message: "review imported, check every field before publishing",
	}
}
