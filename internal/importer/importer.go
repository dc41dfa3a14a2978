// Package importer turns operator-pasted JSON into editor form changes.
//
// Every import is staged on a clone of the form and swapped in only when
// the whole payload was usable, so a rejected import never leaves a group
// half replaced.
package importer

import (
	"encoding/json"
	"fmt"

	"github.com/fabricio2fb/reviewlar/internal/editor"
)

// Kind selects which normalizer reads the payload.
type Kind string

const (
	KindProsCons Kind = "pros-cons"
	KindSpecs    Kind = "specs"
	KindScores   Kind = "scores"
	KindImages   Kind = "images"
	KindOffers   Kind = "offers"
	KindKeywords Kind = "keywords"
	KindMaster   Kind = "master"
)

// Kinds lists every supported import kind.
var Kinds = []Kind{KindProsCons, KindSpecs, KindScores, KindImages, KindOffers, KindKeywords, KindMaster}

// ParseKind validates a kind taken from a URL.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := normalizers[k]; !ok {
		return "", fmt.Errorf("kind %q: %w", s, ErrUnknownKind)
	}
	return k, nil
}

// Result reports what a successful import changed.
type Result struct {
	Kind    Kind           `json:"kind"`
	Counts  map[string]int `json:"counts"`
	Message string         `json:"message"`
}

type normalizer func(staged *editor.Form, raw json.RawMessage, e *Error) *Result

var normalizers = map[Kind]normalizer{
	KindProsCons: importProsCons,
	KindSpecs:    importSpecs,
	KindScores:   importScores,
	KindImages:   importImages,
	KindOffers:   importOffers,
	KindKeywords: importKeywords,
	KindMaster:   importMaster,
}

// Apply reads payload as an import of the given kind into form. On any
// problem it returns an *Error and form is not modified.
func Apply(form *editor.Form, kind Kind, payload []byte) (*Result, error) {
	normalize, ok := normalizers[kind]
	if !ok {
		return nil, fmt.Errorf("kind %q: %w", kind, ErrUnknownKind)
	}

	e := newError(kind)
	var raw json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		e.Message = "invalid JSON: " + err.Error()
		importsTotal.WithLabelValues(string(kind), "rejected").Inc()
		return nil, e
	}

	staged := form.Clone()
	res := normalize(staged, raw, e)
	if e.failed() {
		if e.Message == "" {
			e.Message = fmt.Sprintf("%s JSON has invalid entries", kind)
		}
		importsTotal.WithLabelValues(string(kind), "rejected").Inc()
		return nil, e
	}

	*form = *staged
	importsTotal.WithLabelValues(string(kind), "ok").Inc()
	return res, nil
}

func importProsCons(f *editor.Form, raw json.RawMessage, e *Error) *Result {
	obj, ok := decodeObject(raw)
	if !ok {
		e.Message = "pros-cons JSON must be an object"
		return nil
	}
	pros, hasPros := obj.get("pros")
	cons, hasCons := obj.get("cons")
	if !hasPros && !hasCons {
		e.Message = "pros-cons JSON must contain pros or cons"
		return nil
	}

	counts := map[string]int{"pros": 0, "cons": 0}
	if hasPros {
		items := decodeStrings(pros, "pros", e)
		f.Pros.ReplaceAll(wrapValues(items))
		counts["pros"] = len(items)
	}
	if hasCons {
		items := decodeStrings(cons, "cons", e)
		f.Cons.ReplaceAll(wrapValues(items))
		counts["cons"] = len(items)
	}
	return &Result{
		Kind:    KindProsCons,
		Counts:  counts,
		Message: fmt.Sprintf("%d pros and %d cons added", counts["pros"], counts["cons"]),
	}
}

func importSpecs(f *editor.Form, raw json.RawMessage, e *Error) *Result {
	if shapeOf(raw) != shapeObject {
		e.Message = "specs JSON must be an object"
		return nil
	}
	specs := decodeSpecs(raw, editor.GroupTechnicalSpecs, e)
	f.TechnicalSpecs.ReplaceAll(specs)
	return &Result{
		Kind:    KindSpecs,
		Counts:  map[string]int{editor.GroupTechnicalSpecs: len(specs)},
		Message: fmt.Sprintf("%d specifications added", len(specs)),
	}
}

func importScores(f *editor.Form, raw json.RawMessage, e *Error) *Result {
	if shapeOf(raw) != shapeObject {
		e.Message = "scores JSON must be an object"
		return nil
	}
	scores := decodeScores(raw, editor.GroupScores, e)
	f.Scores.ReplaceAll(scores)
	return &Result{
		Kind:    KindScores,
		Counts:  map[string]int{editor.GroupScores: len(scores)},
		Message: fmt.Sprintf("%d scores added", len(scores)),
	}
}

func importImages(f *editor.Form, raw json.RawMessage, e *Error) *Result {
	if shapeOf(raw) != shapeArray {
		e.Message = "images JSON must be an array"
		return nil
	}
	urls := decodeStrings(raw, editor.GroupImages, e)
	f.Images.ReplaceAll(wrapImages(urls))
	return &Result{
		Kind:    KindImages,
		Counts:  map[string]int{editor.GroupImages: len(urls)},
		Message: fmt.Sprintf("%d images added to gallery", len(urls)),
	}
}

func importOffers(f *editor.Form, raw json.RawMessage, e *Error) *Result {
	if shapeOf(raw) != shapeArray {
		e.Message = "offers JSON must be an array"
		return nil
	}
	offers := decodeOffers(raw, editor.GroupOffers, e)
	f.Offers.ReplaceAll(offers)
	return &Result{
		Kind:    KindOffers,
		Counts:  map[string]int{editor.GroupOffers: len(offers)},
		Message: fmt.Sprintf("%d offers added", len(offers)),
	}
}

func importKeywords(f *editor.Form, raw json.RawMessage, e *Error) *Result {
	obj, ok := decodeObject(raw)
	if !ok {
		e.Message = "keywords JSON must be an object"
		return nil
	}
	meta, hasMeta := obj.get("metaDescription")
	kw, hasKeywords := obj.get("keywords")
	if !hasMeta && !hasKeywords {
		e.Message = "keywords JSON must contain metaDescription or keywords"
		return nil
	}

	counts := map[string]int{"metaDescription": 0, "keywords": 0}
	if hasMeta {
		s, ok := decodeString(meta)
		if !ok {
			e.Add("metaDescription", "must be a string")
		}
		f.MetaDescription = s
		counts["metaDescription"] = 1
	}
	if hasKeywords {
		f.Keywords = decodeStrings(kw, "keywords", e)
		counts["keywords"] = len(f.Keywords)
	}

	msg := fmt.Sprintf("%d keywords added", counts["keywords"])
	if hasMeta {
		msg = "meta description and " + msg
	}
	return &Result{Kind: KindKeywords, Counts: counts, Message: msg}
}

func wrapValues(items []string) []editor.Value {
	out := make([]editor.Value, len(items))
	for i, s := range items {
		out[i] = editor.Value{Value: s}
	}
	return out
}

func wrapImages(items []string) []editor.Image {
	out := make([]editor.Image, len(items))
	for i, s := range items {
		out[i] = editor.Image{Value: s}
	}
	return out
}

func decodeSpecs(raw json.RawMessage, path string, e *Error) []editor.Spec {
	members, err := decodeMembers(raw)
	if err != nil {
		e.Add(path, "must be an object")
		return nil
	}
	out := make([]editor.Spec, 0, len(members))
	for _, m := range members {
		text, ok := specText(m.value)
		if !ok {
			e.Add(path+"."+m.key, "must be a string, number or boolean")
			continue
		}
		out = append(out, editor.Spec{Key: m.key, Value: text})
	}
	return out
}

func decodeScores(raw json.RawMessage, path string, e *Error) []editor.Score {
	members, err := decodeMembers(raw)
	if err != nil {
		e.Add(path, "must be an object")
		return nil
	}
	out := make([]editor.Score, 0, len(members))
	for _, m := range members {
		v, ok := decodeNumber(m.value)
		if !ok {
			e.Add(path+"."+m.key, "must be a number")
			continue
		}
		out = append(out, editor.Score{Key: m.key, Value: v})
	}
	return out
}

func decodeFAQ(raw json.RawMessage, path string, e *Error) []editor.FAQ {
	if shapeOf(raw) != shapeArray {
		e.Add(path, "must be an array")
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		e.Add(path, "must be an array")
		return nil
	}
	out := make([]editor.FAQ, 0, len(items))
	for i, it := range items {
		at := fmt.Sprintf("%s[%d]", path, i)
		obj, ok := decodeObject(it)
		if !ok {
			e.Add(at, "must be an object")
			continue
		}
		var item editor.FAQ
		if v, ok := obj.get("question"); ok {
			if item.Question, ok = decodeString(v); !ok {
				e.Add(at+".question", "must be a string")
			}
		}
		if v, ok := obj.get("answer"); ok {
			if item.Answer, ok = decodeString(v); !ok {
				e.Add(at+".answer", "must be a string")
			}
		}
		out = append(out, item)
	}
	return out
}

// decodeOffers reads offer objects. offerUrl falls back to url and
// storeLogoUrl to logo; missing fields stay empty or zero.
func decodeOffers(raw json.RawMessage, path string, e *Error) []editor.Offer {
	var items []json.RawMessage
	if shapeOf(raw) != shapeArray || json.Unmarshal(raw, &items) != nil {
		e.Add(path, "must be an array")
		return nil
	}
	out := make([]editor.Offer, 0, len(items))
	for i, it := range items {
		at := fmt.Sprintf("%s[%d]", path, i)
		obj, ok := decodeObject(it)
		if !ok {
			e.Add(at, "must be an object")
			continue
		}

		var offer editor.Offer
		text := func(keys ...string) string {
			for _, k := range keys {
				v, ok := obj.get(k)
				if !ok {
					continue
				}
				s, ok := decodeString(v)
				if !ok {
					e.Add(at+"."+k, "must be a string")
					return ""
				}
				if s != "" {
					return s
				}
			}
			return ""
		}
		offer.Store = text("store")
		offer.OfferURL = text("offerUrl", "url")
		offer.StoreLogoURL = text("storeLogoUrl", "logo")
		if v, ok := obj.get("price"); ok {
			if offer.Price, ok = decodeNumber(v); !ok {
				e.Add(at+".price", "must be a number")
			}
		}
		out = append(out, offer)
	}
	return out
}
