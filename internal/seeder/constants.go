package seeder

import "time"

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Generation constants.
const (
	// registrationSpacing separates generated registration dates so the
	// expected list order is unambiguous.
	registrationSpacing = time.Second
	phoneNumberModulus  = 10_000
)

// Runner configuration constants.
const (
	PercentageMultiplier = 100
	progressInterval     = time.Second
)

// defaultEvents is rotated through when Config.EventName is empty.
var defaultEvents = []string{
	"Tech Conference 2025",
	"Web Development Workshop",
	"AI & Machine Learning Summit",
	"Cloud Computing Bootcamp",
	"Cybersecurity Seminar",
}
