package domain

import "time"

// DateLayout is the storage and command format for calendar dates.
// Vacation boundaries and the weekly trigger guard are tracked at day
// granularity only.
const DateLayout = "2006-01-02"

// Default trigger cadence. All of these can be overridden through
// configuration; see internal/config.
const (
	// DefaultTickInterval is how often the scheduler wakes up and
	// evaluates its trigger conditions.
	DefaultTickInterval = 60 * time.Second

	// DefaultAnnounceHour is the wall-clock hour at which vacation
	// start/end announcements fire.
	DefaultAnnounceHour = 10

	// DefaultHandoffHour is the wall-clock hour of the weekly duty
	// hand-off.
	DefaultHandoffHour = 12
)

// DefaultHandoffWeekday is the day of the weekly duty hand-off.
const DefaultHandoffWeekday = time.Monday

// ActivePosition is the rotation position of the participant currently
// on duty. NextPosition is the designated next duty holder, snapshotted
// at the previous advance; the rotation engine prefers it as selectee.
const (
	ActivePosition = 1
	NextPosition   = 2
)

// SameDate reports whether two instants fall on the same calendar day.
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
