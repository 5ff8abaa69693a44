package export

import (
	"encoding/csv"
	"io"
)

// BOM is the UTF-8 byte order mark, prepended for Excel compatibility.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter wraps csv.Writer for exporting a Dataset.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteDataset writes the header row followed by every data row.
func (w *CSVWriter) WriteDataset(ds *Dataset) error {
	if err := w.csv.Write(ds.Columns); err != nil {
		return err
	}
	for _, row := range ds.Rows {
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	w.csv.Flush()
	return w.csv.Error()
}
