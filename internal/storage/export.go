package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/san-kum/esqet/internal/dynamo"
)

type ExportData struct {
	RunMetadata
	History dynamo.History `json:"history"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, history dynamo.History) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{RunMetadata: meta.encodable(), History: history})
}

func ExportCSV(w io.Writer, history dynamo.History) error {
	cw := csv.NewWriter(w)
	if err := writeHistory(cw, history); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
