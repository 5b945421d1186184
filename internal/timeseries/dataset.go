// Package timeseries defines the immutable tower time-series snapshot
// that every conditioning stage consumes and produces.
//
// Columns follow the <family>_<heightId> naming convention (ws_10m,
// wd_106m, t_32m). Missing values are NaN. Boolean weather flags are
// kept in separate flag columns. Stages never mutate an input Dataset:
// they Clone it (or Select rows from it) and return the copy.
package timeseries

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Families with unit semantics understood by the pipeline.
const (
	FamilyPressure    = "p"
	FamilyTemperature = "t"
	FamilyHumidity    = "rh"
	FamilySpeed       = "ws"
	FamilyDirection   = "wd"
)

// ColumnNotFoundError reports a required column absent from a dataset.
type ColumnNotFoundError struct {
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("timeseries: column %q not found", e.Column)
}

// Dataset is one snapshot of the tower record: a shared time index plus
// float64 value columns and boolean flag columns of the same length.
type Dataset struct {
	times  []time.Time
	values map[string][]float64
	flags  map[string][]bool
}

// New creates a Dataset over a copy of the given time index.
func New(times []time.Time) *Dataset {
	ts := make([]time.Time, len(times))
	copy(ts, times)
	return &Dataset{
		times:  ts,
		values: make(map[string][]float64),
		flags:  make(map[string][]bool),
	}
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.times) }

// Time returns the timestamp of row i.
func (d *Dataset) Time(i int) time.Time { return d.times[i] }

// Times returns the time index. Callers must not modify it.
func (d *Dataset) Times() []time.Time { return d.times }

// SetColumn stores a value column, which must match the row count.
func (d *Dataset) SetColumn(name string, values []float64) {
	if len(values) != len(d.times) {
		panic(fmt.Sprintf("timeseries: column %s has %d values for %d rows", name, len(values), len(d.times)))
	}
	d.values[name] = values
}

// Column returns a value column. Callers must not modify it.
func (d *Dataset) Column(name string) ([]float64, bool) {
	col, ok := d.values[name]
	return col, ok
}

// MustColumn returns a value column or a ColumnNotFoundError.
func (d *Dataset) MustColumn(name string) ([]float64, error) {
	col, ok := d.values[name]
	if !ok {
		return nil, &ColumnNotFoundError{Column: name}
	}
	return col, nil
}

// HasColumn reports whether a value column exists.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.values[name]
	return ok
}

// DropColumn removes a value column if present.
func (d *Dataset) DropColumn(name string) {
	delete(d.values, name)
}

// Columns returns the value column names in sorted order.
func (d *Dataset) Columns() []string {
	names := make([]string, 0, len(d.values))
	for name := range d.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetFlag stores a boolean flag column, which must match the row count.
func (d *Dataset) SetFlag(name string, values []bool) {
	if len(values) != len(d.times) {
		panic(fmt.Sprintf("timeseries: flag %s has %d values for %d rows", name, len(values), len(d.times)))
	}
	d.flags[name] = values
}

// Flag returns a flag column. Callers must not modify it.
func (d *Dataset) Flag(name string) ([]bool, bool) {
	col, ok := d.flags[name]
	return col, ok
}

// DropFlag removes a flag column if present.
func (d *Dataset) DropFlag(name string) {
	delete(d.flags, name)
}

// FlagColumns returns the flag column names in sorted order.
func (d *Dataset) FlagColumns() []string {
	names := make([]string, 0, len(d.flags))
	for name := range d.flags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	out := New(d.times)
	for name, col := range d.values {
		cp := make([]float64, len(col))
		copy(cp, col)
		out.values[name] = cp
	}
	for name, col := range d.flags {
		cp := make([]bool, len(col))
		copy(cp, col)
		out.flags[name] = cp
	}
	return out
}

// Select returns a new dataset containing only the given rows, in the
// given order.
func (d *Dataset) Select(rows []int) *Dataset {
	times := make([]time.Time, len(rows))
	for i, r := range rows {
		times[i] = d.times[r]
	}
	out := New(times)
	for name, col := range d.values {
		cp := make([]float64, len(rows))
		for i, r := range rows {
			cp[i] = col[r]
		}
		out.values[name] = cp
	}
	for name, col := range d.flags {
		cp := make([]bool, len(rows))
		for i, r := range rows {
			cp[i] = col[r]
		}
		out.flags[name] = cp
	}
	return out
}

// ParseColumn splits a <family>_<heightId> column name. Returns ok=false
// for names without a height suffix (derived columns like Ri_bulk keep
// their own naming).
func ParseColumn(name string) (family, heightID string, ok bool) {
	i := strings.Index(name, "_")
	if i <= 0 || i == len(name)-1 {
		return "", "", false
	}
	return name[:i], name[i+1:], true
}

// ColumnName assembles a <family>_<heightId> column name.
func ColumnName(family, heightID string) string {
	return family + "_" + heightID
}

// HeightColumn assembles a column name for an integer height in meters,
// e.g. ("ws", 10) -> "ws_10m".
func HeightColumn(family string, height int) string {
	return fmt.Sprintf("%s_%dm", family, height)
}

// IsMissing reports whether a value represents a missing observation.
func IsMissing(v float64) bool { return math.IsNaN(v) }
