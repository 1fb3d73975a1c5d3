package visualization

import (
	"fmt"

	"solar-system-sim/internal/common"
)

// FormatDistance renders a distance in meters as a kilometer label with one
// decimal, e.g. "119680000.0km".
func FormatDistance(meters float64) string {
	return fmt.Sprintf("%.1fkm", meters/common.MetersPerKilometer)
}

// FormatDays renders an elapsed simulated time in seconds as days.
func FormatDays(seconds float64) string {
	return fmt.Sprintf("%.0f days", seconds/common.SecondsPerDay)
}
