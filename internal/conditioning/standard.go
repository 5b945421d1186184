package conditioning

// DirectionUnit describes how a source records wind direction: the
// angle measure, the zero reference, and the rotation orientation.
// Zero is either a cardinal letter ("N", "E", "S", "W") or a numeric
// degree offset (e.g. "45").
type DirectionUnit struct {
	Measure     string `yaml:"measure"`
	Zero        string `yaml:"zero"`
	Orientation string `yaml:"orientation"`
}

// Standard is the unit set every channel is converted into. It is an
// explicit immutable value passed to the conversion functions; changing
// it without updating every conversion is a programming error, caught
// by Validate at startup.
type Standard struct {
	Pressure    string        `yaml:"pressure"`
	Temperature string        `yaml:"temperature"`
	Humidity    string        `yaml:"humidity"`
	Speed       string        `yaml:"speed"`
	Direction   DirectionUnit `yaml:"direction"`
}

// DefaultStandard returns the process-wide standard unit set: kPa, K,
// fractional relative humidity, m/s, and degrees clockwise of north.
func DefaultStandard() Standard {
	return Standard{
		Pressure:    "kPa",
		Temperature: "K",
		Humidity:    "decimal",
		Speed:       "m/s",
		Direction:   DirectionUnit{Measure: "degrees", Zero: "N", Orientation: "CW"},
	}
}

// Validate checks the standard set against the units the conversion
// functions actually produce. It fails with a StandardMismatchError on
// any drift; in a correct build it always passes.
func (s Standard) Validate() error {
	want := DefaultStandard()
	if s.Pressure != want.Pressure {
		return &StandardMismatchError{Family: "pressure", Got: s.Pressure, Want: want.Pressure}
	}
	if s.Temperature != want.Temperature {
		return &StandardMismatchError{Family: "temperature", Got: s.Temperature, Want: want.Temperature}
	}
	if s.Humidity != want.Humidity {
		return &StandardMismatchError{Family: "humidity", Got: s.Humidity, Want: want.Humidity}
	}
	if s.Speed != want.Speed {
		return &StandardMismatchError{Family: "speed", Got: s.Speed, Want: want.Speed}
	}
	if s.Direction != want.Direction {
		return &StandardMismatchError{
			Family: "direction",
			Got:    s.Direction.Measure + " " + s.Direction.Orientation + " of " + s.Direction.Zero,
			Want:   want.Direction.Measure + " " + want.Direction.Orientation + " of " + want.Direction.Zero,
		}
	}
	return nil
}

// Units describes the source units of a station's channels, one entry
// per family, in the same shape as the Standard.
type Units struct {
	Pressure    string        `yaml:"pressure"`
	Temperature string        `yaml:"temperature"`
	Humidity    string        `yaml:"humidity"`
	Speed       string        `yaml:"speed"`
	Direction   DirectionUnit `yaml:"direction"`
}
