// Package validation produces the run summary artifact: the
// configuration a pipeline run used plus a content checksum per output
// table, so downstream consumers can detect silent corruption between
// pipeline runs.
package validation

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/Intergalactyc/WindProfiles/internal/timeseries"
)

// TableChecksum records one output table's row count and content hash.
type TableChecksum struct {
	Rows   int    `json:"rows"`
	SHA256 string `json:"sha256"`
}

// Summary is the persisted validation artifact for one pipeline run.
type Summary struct {
	RunID     string                   `json:"run_id"`
	CreatedAt time.Time                `json:"created_at"`
	Config    interface{}              `json:"config"`
	Tables    map[string]TableChecksum `json:"tables"`
}

// NewSummary starts a summary for a run under the given configuration.
func NewSummary(config interface{}) *Summary {
	return &Summary{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Config:    config,
		Tables:    make(map[string]TableChecksum),
	}
}

// tableEncoding is the deterministic column-ordered form hashed for a
// table: checksum stability requires a canonical encoding, not whatever
// order the column maps iterate in.
type tableEncoding struct {
	Times   []int64
	Columns []string
	Values  [][]float64
	Flags   []string
	FlagVal [][]bool
}

// AddTable checksums a dataset snapshot under the given table name.
func (s *Summary) AddTable(name string, ds *timeseries.Dataset) error {
	enc := tableEncoding{
		Times:   make([]int64, ds.Len()),
		Columns: ds.Columns(),
		Flags:   ds.FlagColumns(),
	}
	for i, ts := range ds.Times() {
		enc.Times[i] = ts.UnixNano()
	}
	for _, col := range enc.Columns {
		vals, _ := ds.Column(col)
		enc.Values = append(enc.Values, vals)
	}
	for _, col := range enc.Flags {
		vals, _ := ds.Flag(col)
		enc.FlagVal = append(enc.FlagVal, vals)
	}

	blob, err := msgpack.Marshal(enc)
	if err != nil {
		return fmt.Errorf("validation: encoding table %s: %w", name, err)
	}
	sum := sha256.Sum256(blob)
	s.Tables[name] = TableChecksum{
		Rows:   ds.Len(),
		SHA256: hex.EncodeToString(sum[:]),
	}
	return nil
}

// WriteFile persists the summary as indented JSON.
func (s *Summary) WriteFile(path string) error {
	blob, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("validation: marshaling summary: %w", err)
	}
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return fmt.Errorf("validation: writing summary: %w", err)
	}
	return nil
}
