package catalog

import (
	"fmt"
	"sort"

	"github.com/fabricio2fb/reviewlar/internal/domain"
	apperrors "github.com/fabricio2fb/reviewlar/pkg/errors"
)

const (
	MinCompare = 2
	MaxCompare = 4
)

// Comparison lines up the technical specs of several reviews. Rows holds one
// entry per spec key, with a value per review in Reviews order.
type Comparison struct {
	Reviews []domain.Review `json:"reviews"`
	Keys    []string        `json:"keys"`
	Rows    []ComparisonRow `json:"rows"`
}

// ComparisonRow is one spec across the compared reviews. Missing specs are
// reported as "-".
type ComparisonRow struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

// Compare builds the comparison table. Repeated reviews are dropped.
func Compare(reviews []domain.Review) (*Comparison, error) {
	seen := make(map[string]bool, len(reviews))
	picked := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		picked = append(picked, r)
	}
	if len(picked) < MinCompare || len(picked) > MaxCompare {
		return nil, apperrors.InvalidInput(fmt.Sprintf("compare needs %d to %d distinct reviews, got %d", MinCompare, MaxCompare, len(picked)))
	}

	keySet := make(map[string]struct{})
	for _, r := range picked {
		for k := range r.TechnicalSpecs {
			keySet[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]ComparisonRow, 0, len(keys))
	for _, k := range keys {
		row := ComparisonRow{Key: k, Values: make([]string, len(picked))}
		for i, r := range picked {
			if v, ok := r.TechnicalSpecs[k]; ok {
				row.Values[i] = v
			} else {
				row.Values[i] = "-"
			}
		}
		rows = append(rows, row)
	}
	return &Comparison{Reviews: picked, Keys: keys, Rows: rows}, nil
}
