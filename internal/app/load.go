package app

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/Intergalactyc/WindProfiles/internal/conditioning"
	"github.com/Intergalactyc/WindProfiles/internal/timeseries"
)

// timeLayout is the timestamp format used in configuration values and
// input/output tables.
const timeLayout = "2006-01-02 15:04:05"

// loadInputs reads every configured boom file and outer-merges them on
// the time index. Only columns named in an input's renames map are
// kept, already mapped onto <family>_<heightId> names; everything else
// in the file is ignored.
func (a *App) loadInputs() (*timeseries.Dataset, error) {
	merged := make(map[int64]map[string]float64)
	columns := make(map[string]bool)

	for _, input := range a.cfg.Inputs {
		layout := input.TimeFormat
		if layout == "" {
			layout = timeLayout
		}

		records, err := readCSV(input.File)
		if err != nil {
			return nil, err
		}
		if len(records) < 2 {
			continue
		}

		header := records[0]
		timeIdx := -1
		colIdx := make(map[int]string)
		for i, name := range header {
			if name == input.TimeColumn {
				timeIdx = i
				continue
			}
			if renamed, ok := input.Renames[name]; ok {
				colIdx[i] = renamed
				columns[renamed] = true
			}
		}
		if timeIdx < 0 {
			return nil, fmt.Errorf("time column %q not found in %s", input.TimeColumn, input.File)
		}

		for _, rec := range records[1:] {
			ts, err := time.ParseInLocation(layout, rec[timeIdx], a.sourceLoc)
			if err != nil {
				return nil, fmt.Errorf("parsing time %q in %s: %w", rec[timeIdx], input.File, err)
			}
			key := ts.UnixNano()
			row, ok := merged[key]
			if !ok {
				row = make(map[string]float64)
				merged[key] = row
			}
			for i, name := range colIdx {
				row[name] = parseValue(rec[i])
			}
		}
	}

	keys := make([]int64, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	times := make([]time.Time, len(keys))
	for i, k := range keys {
		times[i] = time.Unix(0, k).In(a.sourceLoc)
	}
	ds := timeseries.New(times)
	for name := range columns {
		col := make([]float64, len(keys))
		for i, k := range keys {
			if v, ok := merged[k][name]; ok {
				col[i] = v
			} else {
				col[i] = math.NaN()
			}
		}
		ds.SetColumn(name, col)
	}
	return ds, nil
}

// loadEvents reads a discrete weather-event table with start/end/type
// columns.
func loadEvents(path string, loc *time.Location) ([]conditioning.StormEvent, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, nil
	}

	idx, err := headerIndex(records[0], path, "start", "end", "type")
	if err != nil {
		return nil, err
	}

	events := make([]conditioning.StormEvent, 0, len(records)-1)
	for _, rec := range records[1:] {
		start, err := time.ParseInLocation(timeLayout, rec[idx["start"]], loc)
		if err != nil {
			return nil, fmt.Errorf("parsing event start in %s: %w", path, err)
		}
		end, err := time.ParseInLocation(timeLayout, rec[idx["end"]], loc)
		if err != nil {
			return nil, fmt.Errorf("parsing event end in %s: %w", path, err)
		}
		events = append(events, conditioning.StormEvent{Start: start, End: end, Type: rec[idx["type"]]})
	}
	return events, nil
}

// loadPrecip reads an auxiliary precipitation table with time/precip
// columns.
func loadPrecip(path string, loc *time.Location) ([]conditioning.PrecipObservation, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, nil
	}

	idx, err := headerIndex(records[0], path, "time", "precip")
	if err != nil {
		return nil, err
	}

	obs := make([]conditioning.PrecipObservation, 0, len(records)-1)
	for _, rec := range records[1:] {
		ts, err := time.ParseInLocation(timeLayout, rec[idx["time"]], loc)
		if err != nil {
			return nil, fmt.Errorf("parsing precip time in %s: %w", path, err)
		}
		obs = append(obs, conditioning.PrecipObservation{Time: ts, Amount: parseValue(rec[idx["precip"]])})
	}
	return obs, nil
}

// writeCSV persists a dataset (plus any classifier label columns) with
// missing values left empty.
func writeCSV(ds *timeseries.Dataset, labels map[string][]string, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	valueCols := ds.Columns()
	flagCols := ds.FlagColumns()
	labelCols := make([]string, 0, len(labels))
	for name := range labels {
		labelCols = append(labelCols, name)
	}
	sort.Strings(labelCols)

	header := append([]string{"time"}, valueCols...)
	header = append(header, flagCols...)
	header = append(header, labelCols...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i := 0; i < ds.Len(); i++ {
		rec := make([]string, 0, len(header))
		rec = append(rec, ds.Time(i).Format(timeLayout))
		for _, name := range valueCols {
			col, _ := ds.Column(name)
			if math.IsNaN(col[i]) {
				rec = append(rec, "")
			} else {
				rec = append(rec, strconv.FormatFloat(col[i], 'g', -1, 64))
			}
		}
		for _, name := range flagCols {
			col, _ := ds.Flag(name)
			rec = append(rec, strconv.FormatBool(col[i]))
		}
		for _, name := range labelCols {
			rec = append(rec, labels[name][i])
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Error()
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func headerIndex(header []string, path string, required ...string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("column %q not found in %s", name, path)
		}
	}
	return idx, nil
}

func parseValue(s string) float64 {
	if s == "" || s == "NA" || s == "NaN" || s == "nan" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
