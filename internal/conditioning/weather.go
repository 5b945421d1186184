package conditioning

import (
	"strings"
	"time"

	"github.com/Intergalactyc/WindProfiles/internal/log"
	"github.com/Intergalactyc/WindProfiles/internal/timeseries"
)

// Weather flag column names.
const (
	FlagHail      = "hail"
	FlagStorm     = "storm"
	FlagHeavyRain = "heavy_rain"
	FlagLightRain = "light_rain"
)

const (
	// zeroDurationPad symmetrically widens point-in-time reported events.
	zeroDurationPad = 90 * time.Minute

	// precipWindow is marked backwards from each precipitation
	// observation, which reports accumulation since the previous one.
	precipWindow = time.Hour

	// heavyRainCutoff splits light from heavy precipitation intensity.
	heavyRainCutoff = 5.0
)

// StormEvent is one discrete reported weather event, bounds inclusive.
type StormEvent struct {
	Start time.Time
	End   time.Time
	Type  string
}

// PrecipObservation is one auxiliary precipitation reading: the amount
// accumulated over the hour ending at Time.
type PrecipObservation struct {
	Time   time.Time
	Amount float64
}

// TagWeather marks rows with boolean weather flags. Event rows inside
// [Start, End] get hail for hail events, heavy_rain for flash floods,
// and storm for anything else; zero-duration events are padded by 1.5 h
// on both sides first. Independently, each precipitation observation
// above the trace threshold tags its preceding one-hour window as
// light_rain below the intensity cutoff, or heavy_rain at or above it.
// A heavy window also clears any light_rain flag inside it, even one
// set by an earlier observation.
func TagWeather(ds *timeseries.Dataset, events []StormEvent, precip []PrecipObservation, trace float64) *timeseries.Dataset {
	out := ds.Clone()
	n := out.Len()
	times := out.Times()

	hail := make([]bool, n)
	storm := make([]bool, n)
	heavy := make([]bool, n)
	light := make([]bool, n)

	for _, ev := range events {
		start, end := ev.Start, ev.End
		if start.Equal(end) {
			start = start.Add(-zeroDurationPad)
			end = end.Add(zeroDurationPad)
		}
		var flags []bool
		switch {
		case strings.EqualFold(ev.Type, "hail"):
			flags = hail
		case strings.EqualFold(ev.Type, "flash flood"):
			flags = heavy
		default:
			flags = storm
		}
		markBetween(times, flags, start, end, true)
	}

	for _, obs := range precip {
		if obs.Amount <= trace {
			continue
		}
		start := obs.Time.Add(-precipWindow)
		if obs.Amount < heavyRainCutoff {
			markBetween(times, light, start, obs.Time, true)
		} else {
			markBetween(times, light, start, obs.Time, false)
			markBetween(times, heavy, start, obs.Time, true)
		}
	}

	out.SetFlag(FlagHail, hail)
	out.SetFlag(FlagStorm, storm)
	out.SetFlag(FlagHeavyRain, heavy)
	out.SetFlag(FlagLightRain, light)

	log.Infow("weather tagging completed",
		"events", len(events), "precip_observations", len(precip))
	return out
}

func markBetween(times []time.Time, flags []bool, start, end time.Time, value bool) {
	for i, ts := range times {
		if !ts.Before(start) && !ts.After(end) {
			flags[i] = value
		}
	}
}

// FlaggedRemoval drops every row where any of the listed flags is set,
// then removes the flag columns themselves. Returns the number of rows
// dropped.
func FlaggedRemoval(ds *timeseries.Dataset, flags []string) (*timeseries.Dataset, int, error) {
	cols := make([][]bool, 0, len(flags))
	for _, name := range flags {
		col, ok := ds.Flag(name)
		if !ok {
			return nil, 0, &timeseries.ColumnNotFoundError{Column: name}
		}
		cols = append(cols, col)
	}

	keep := make([]int, 0, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		set := false
		for _, col := range cols {
			if col[i] {
				set = true
				break
			}
		}
		if !set {
			keep = append(keep, i)
		}
	}

	out := ds.Select(keep)
	for _, name := range flags {
		out.DropFlag(name)
	}
	removed := ds.Len() - out.Len()
	log.Infof("flagged removal complete: %d rows dropped, %d remain", removed, out.Len())
	return out, removed, nil
}
