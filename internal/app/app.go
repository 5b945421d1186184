// Package app wires the conditioning stages, derivations, and
// classifiers into a whole-history batch run driven by a station
// configuration.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Intergalactyc/WindProfiles/internal/classify"
	"github.com/Intergalactyc/WindProfiles/internal/conditioning"
	"github.com/Intergalactyc/WindProfiles/internal/derive"
	"github.com/Intergalactyc/WindProfiles/internal/timeseries"
	"github.com/Intergalactyc/WindProfiles/internal/validation"
	"github.com/Intergalactyc/WindProfiles/pkg/atmos"
	"github.com/Intergalactyc/WindProfiles/pkg/config"
)

// App runs the conditioning pipeline for one station.
type App struct {
	cfg    *config.ConfigData
	logger *zap.SugaredLogger

	sourceLoc *time.Location
	targetLoc *time.Location
}

// New creates the application with the given configuration.
func New(cfg *config.ConfigData, logger *zap.SugaredLogger) *App {
	return &App{cfg: cfg, logger: logger}
}

// Run executes one batch run: load, condition, derive, classify, and
// persist the outputs plus the validation summary.
func (a *App) Run(ctx context.Context) error {
	if err := a.resolveLocations(); err != nil {
		return err
	}

	ds, err := a.loadInputs()
	if err != nil {
		return fmt.Errorf("loading inputs: %w", err)
	}
	a.logger.Infow("inputs loaded", "rows", ds.Len(), "columns", len(ds.Columns()))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	ds, err = a.Condition(ds)
	if err != nil {
		return fmt.Errorf("conditioning: %w", err)
	}

	ds, err = a.Derive(ds)
	if err != nil {
		return fmt.Errorf("deriving: %w", err)
	}

	labels, err := a.Classify(ds)
	if err != nil {
		return fmt.Errorf("classifying: %w", err)
	}

	if a.cfg.Output.DatasetFile != "" {
		if err := writeCSV(ds, labels, a.cfg.Output.DatasetFile); err != nil {
			return fmt.Errorf("writing dataset: %w", err)
		}
	}
	if a.cfg.Output.SummaryFile != "" {
		summary := validation.NewSummary(a.cfg)
		if err := summary.AddTable("conditioned", ds); err != nil {
			return err
		}
		if err := summary.WriteFile(a.cfg.Output.SummaryFile); err != nil {
			return err
		}
		a.logger.Infow("validation summary written",
			"run_id", summary.RunID, "file", a.cfg.Output.SummaryFile)
	}

	a.logger.Infow("run complete", "rows", ds.Len())
	return nil
}

func (a *App) resolveLocations() error {
	var err error
	if a.sourceLoc, err = time.LoadLocation(a.cfg.Station.SourceTimezone); err != nil {
		return fmt.Errorf("source timezone: %w", err)
	}
	if a.targetLoc, err = time.LoadLocation(a.cfg.Station.TargetTimezone); err != nil {
		return fmt.Errorf("target timezone: %w", err)
	}
	return nil
}

func (a *App) gravity() float64 {
	if a.cfg.Station.Gravity > 0 {
		return a.cfg.Station.Gravity
	}
	return atmos.StandardGravity
}

// Condition runs the conditioning stages in pipeline order. Interval
// removal happens before timezone conversion: removal bounds are given
// in the source timezone.
func (a *App) Condition(ds *timeseries.Dataset) (*timeseries.Dataset, error) {
	ds, err := conditioning.StandardizeUnits(ds, a.cfg.Units, a.gravity(), conditioning.DefaultStandard())
	if err != nil {
		return nil, err
	}

	for _, group := range a.cfg.Shadowing {
		merge := conditioning.MergeGroup{
			Width:   group.Width,
			Target:  group.Target,
			DropOld: group.DropOld,
		}
		for _, sensor := range group.Sensors {
			merge.Speeds = append(merge.Speeds, sensor.Speed)
			merge.Directions = append(merge.Directions, sensor.Direction)
			merge.Angles = append(merge.Angles, sensor.Angle)
		}
		if ds, _, err = conditioning.ShadowingMerge(ds, merge); err != nil {
			return nil, err
		}
	}

	ds = conditioning.CleanFormatting(ds)

	if len(a.cfg.Removals) > 0 {
		periods, err := a.removalPeriods()
		if err != nil {
			return nil, err
		}
		ds, _ = conditioning.RemoveIntervals(ds, periods)
	}

	if a.targetLoc != a.sourceLoc {
		ds = conditioning.ConvertTimezone(ds, a.targetLoc)
	}

	ds, _ = conditioning.RollingOutlierRemoval(ds, conditioning.OutlierParams{
		Window:   time.Duration(a.cfg.Outliers.WindowMinutes) * time.Minute,
		Sigma:    a.cfg.Outliers.Sigma,
		NullOnly: a.cfg.Outliers.NullOnly,
	})

	ds, _, err = conditioning.Resample(ds, conditioning.ResampleParams{
		Window:              time.Duration(a.cfg.Resampling.WindowMinutes) * time.Minute,
		Method:              a.cfg.Resampling.Method,
		Heights:             a.cfg.Resampling.Heights,
		PTI:                 a.cfg.Resampling.PTI,
		TurbulenceReference: a.cfg.Resampling.TurbulenceReference,
	})
	if err != nil {
		return nil, err
	}

	if len(a.cfg.Strip.Necessary) > 0 || a.cfg.Strip.Minimum > 0 {
		if ds, _, err = conditioning.StripMissingData(ds, a.cfg.Strip.Necessary, a.cfg.Strip.Minimum); err != nil {
			return nil, err
		}
	}

	if a.cfg.Weather != nil {
		events, err := loadEvents(a.cfg.Weather.EventsFile, a.sourceLoc)
		if err != nil {
			return nil, err
		}
		precip, err := loadPrecip(a.cfg.Weather.PrecipFile, a.targetLoc)
		if err != nil {
			return nil, err
		}
		ds = conditioning.TagWeather(ds, events, precip, a.cfg.Weather.Trace)
		if a.cfg.Weather.RemoveStorms {
			if ds, _, err = conditioning.FlaggedRemoval(ds, []string{conditioning.FlagStorm, conditioning.FlagHail}); err != nil {
				return nil, err
			}
		}
	}

	return ds, nil
}

func (a *App) removalPeriods() ([]conditioning.RemovalPeriod, error) {
	periods := make([]conditioning.RemovalPeriod, 0, len(a.cfg.Removals))
	for _, r := range a.cfg.Removals {
		start, err := time.ParseInLocation(timeLayout, r.Start, a.sourceLoc)
		if err != nil {
			return nil, fmt.Errorf("removal start %q: %w", r.Start, err)
		}
		end, err := time.ParseInLocation(timeLayout, r.End, a.sourceLoc)
		if err != nil {
			return nil, fmt.Errorf("removal end %q: %w", r.End, err)
		}
		periods = append(periods, conditioning.RemovalPeriod{Start: start, End: end, Heights: r.Heights})
	}
	return periods, nil
}

// Derive adds the physics columns configured for the station.
func (a *App) Derive(ds *timeseries.Dataset) (*timeseries.Dataset, error) {
	d := a.cfg.Derivations
	var err error

	if len(d.VPTHeights) > 0 {
		if ds, err = derive.VirtualPotentialTemperatures(ds, d.VPTHeights, d.Substitutions); err != nil {
			return nil, err
		}
	}
	if d.LapseVariable != "" {
		if ds, err = derive.EnvironmentalLapseRate(ds, d.LapseVariable, d.LapseHeights); err != nil {
			return nil, err
		}
	}
	if len(d.RiHeights) > 0 {
		if ds, err = derive.BulkRichardsonNumber(ds, d.RiHeights, a.gravity()); err != nil {
			return nil, err
		}
	}
	if len(d.FitHeights) > 0 {
		if ds, err = derive.PowerLawFits(ds, d.FitHeights, d.FitMinimum, d.BetaColumn, d.AlphaColumn); err != nil {
			return nil, err
		}
	}
	if len(d.GustHeights) > 0 {
		if ds, err = derive.GustFactors(ds, d.GustHeights); err != nil {
			return nil, err
		}
	}
	if len(d.TIHeights) > 0 && d.TIFactor > 0 {
		if ds, err = derive.TICorrection(ds, d.TIHeights, d.TIFactor); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// Classify runs the configured row classifiers, returning one label
// column per classifier.
func (a *App) Classify(ds *timeseries.Dataset) (map[string][]string, error) {
	labels := make(map[string][]string)

	classifiers := map[string]classify.Classifier{}
	if a.cfg.Classifiers.Terrain != nil {
		classifiers["terrain"] = a.cfg.Classifiers.Terrain
	}
	if a.cfg.Classifiers.Stability != nil {
		classifiers["stability"] = a.cfg.Classifiers.Stability
	}

	for name, c := range classifiers {
		out, err := c.ClassifyRows(ds)
		if err != nil {
			return nil, err
		}
		labels[name] = out
	}
	return labels, nil
}
