// Package aggregate reconstructs the canonical prescription record from the
// stored per-model, per-field extraction rows.
package aggregate

import (
	"rxlens/internal/domain"
	"rxlens/internal/fieldcodec"
)

// Aggregate computes the canonical record for one prescription from all of
// its stored rows. It is a pure function of the row slice: the same rows in
// the same order always produce structurally identical output, which is what
// lets extractedData be treated as a rebuildable cache.
//
// Per fieldKey: NA and empty rows are dropped; when more than one model
// agrees on a value, that consensus value wins; otherwise the first
// surviving value in row order is used. Chosen values are routed through the
// field codec (so legacy aliases land on their canonical paths), and any
// assembled medication without a drug name is discarded.
func Aggregate(rows []domain.ExtractionResult) *domain.PrescriptionRecord {
	type group struct {
		values []string
		models []string
	}

	order := make([]string, 0, len(rows))
	groups := make(map[string]*group)
	for _, r := range rows {
		if r.FieldKey == "" || r.Value == "" || r.Value == fieldcodec.NA {
			continue
		}
		g, seen := groups[r.FieldKey]
		if !seen {
			g = &group{}
			groups[r.FieldKey] = g
			order = append(order, r.FieldKey)
		}
		g.values = append(g.values, r.Value)
		g.models = append(g.models, r.ModelName)
	}

	pairs := make([]fieldcodec.Pair, 0, len(order))
	for _, key := range order {
		g := groups[key]
		pairs = append(pairs, fieldcodec.Pair{Key: key, Value: choose(g.values, g.models)})
	}

	rec := fieldcodec.Unflatten(pairs)
	rec.Medications = dropUnnamed(rec.Medications)
	return rec
}

// choose picks one value for a field. A value counts as consensus when at
// least two distinct models reported it; the consensus value backed by the
// most models wins, first-seen breaking ties. Without consensus the first
// value in row order is kept.
func choose(values, models []string) string {
	modelsFor := make(map[string]map[string]struct{})
	for i, v := range values {
		set, ok := modelsFor[v]
		if !ok {
			set = make(map[string]struct{})
			modelsFor[v] = set
		}
		set[models[i]] = struct{}{}
	}

	best := ""
	bestCount := 0
	for _, v := range values {
		if n := len(modelsFor[v]); n > 1 && n > bestCount {
			best = v
			bestCount = n
		}
	}
	if bestCount > 1 {
		return best
	}
	return values[0]
}

// dropUnnamed filters out medication entries without a drug name. A
// medication without a name is not a real entry, no matter what other
// subfields the models filled in.
func dropUnnamed(meds []domain.Medication) []domain.Medication {
	if len(meds) == 0 {
		return meds
	}
	kept := meds[:0]
	for _, m := range meds {
		if m.DrugName != "" && m.DrugName != fieldcodec.NA {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}
