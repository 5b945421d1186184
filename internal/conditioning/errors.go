package conditioning

import "fmt"

// UnknownUnitError reports an unrecognized source-unit token for a
// channel family.
type UnknownUnitError struct {
	Family string
	Unit   string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("conditioning: unrecognized %s unit %q", e.Family, e.Unit)
}

// StandardMismatchError reports that the fixed standard unit set has
// been altered without the corresponding conversion updates. This is a
// programming error surfaced at startup, never a runtime condition.
type StandardMismatchError struct {
	Family string
	Got    string
	Want   string
}

func (e *StandardMismatchError) Error() string {
	return fmt.Sprintf("conditioning: standard %s unit changed from %s to %s unexpectedly", e.Family, e.Want, e.Got)
}

// ShapeMismatchError reports mismatched speeds/directions/angles list
// lengths in a shadowing merge.
type ShapeMismatchError struct {
	Speeds     int
	Directions int
	Angles     int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("conditioning: mismatched lengths for speeds/directions/angles (given lengths %d/%d/%d)",
		e.Speeds, e.Directions, e.Angles)
}
