package export

import (
	"rxlens/internal/aggregate"
	"rxlens/internal/domain"
	"rxlens/internal/fieldcodec"
	"time"
)

// metadataColumns are always the first columns of tabular exports.
var metadataColumns = []string{"id", "fileName", "uploadedAt", "processingStatus"}

// Dataset is one tabular export: fixed metadata columns followed by the
// union of flattened field keys, in first-seen flatten order.
type Dataset struct {
	Columns []string
	Rows    [][]string
}

// BuildDataset re-aggregates each prescription from its current result rows
// and lays the flattened records out as a table. Exports always reflect the
// stored rows, including field corrections, not the cached record.
func BuildDataset(prescriptions []domain.Prescription, results []domain.ExtractionResult) *Dataset {
	byPrescription := make(map[string][]domain.ExtractionResult, len(prescriptions))
	for _, row := range results {
		key := row.PrescriptionID.String()
		byPrescription[key] = append(byPrescription[key], row)
	}

	fieldColumns := []string{}
	seen := map[string]bool{}
	flattened := make([]map[string]string, len(prescriptions))
	for i, p := range prescriptions {
		rec := aggregate.Aggregate(byPrescription[p.ID.String()])
		if rec == nil {
			flattened[i] = map[string]string{}
			continue
		}
		pairs := fieldcodec.FlattenPairs(rec)
		m := make(map[string]string, len(pairs))
		for _, pair := range pairs {
			m[pair.Key] = pair.Value
			if !seen[pair.Key] {
				seen[pair.Key] = true
				fieldColumns = append(fieldColumns, pair.Key)
			}
		}
		flattened[i] = m
	}

	columns := append(append([]string{}, metadataColumns...), fieldColumns...)
	rows := make([][]string, 0, len(prescriptions))
	for i, p := range prescriptions {
		row := make([]string, 0, len(columns))
		row = append(row,
			p.ID.String(),
			p.FileName,
			p.UploadedAt.Format(time.RFC3339),
			string(p.ProcessingStatus),
		)
		for _, key := range fieldColumns {
			row = append(row, flattened[i][key])
		}
		rows = append(rows, row)
	}

	return &Dataset{Columns: columns, Rows: rows}
}
