package wave

const (
	// DutySteps is the number of duty increments; duty runs 0..DutySteps.
	DutySteps = 10
	// DefaultDuty is 50%.
	DefaultDuty = 5
)

// NextDuty advances a duty value in tenths, wrapping after 100%.
func NextDuty(d int) int {
	d++
	if d > DutySteps || d < 0 {
		return 0
	}
	return d
}

// DutyThreshold converts a duty in tenths to high ticks per period, rounded
// to the nearest tick.
func DutyThreshold(d, period int) int {
	if d < 0 {
		d = 0
	}
	if d > DutySteps {
		d = DutySteps
	}
	return (d*period + DutySteps/2) / DutySteps
}
