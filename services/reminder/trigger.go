package reminder

import "time"

// Defaults for reminder evaluation: fire 24 hours ahead, within a one minute
// tolerance either side. Callers override per reminder class.
const (
	DefaultLead   = 24 * time.Hour
	DefaultWindow = time.Minute
	// DefaultCooldown bounds how often a repeat reminder of the same kind and
	// subject may be created for a user.
	DefaultCooldown = 12 * time.Hour
)

// ShouldTrigger reports whether now falls inside the firing window for an
// event: the window is centred on eventAt-lead and extends window to either
// side. The comparison is elapsed-time arithmetic on absolute instants, so a
// daylight-saving transition between now and the event does not distort it.
func ShouldTrigger(now, eventAt time.Time, lead, window time.Duration) bool {
	diff := now.Sub(eventAt.Add(-lead))
	if diff < 0 {
		diff = -diff
	}
	return diff <= window
}
