package seeder

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

var firstNames = []string{"Ada", "Grace", "Alan", "Barbara", "Edsger", "Frances", "Ken", "Margaret", "Dennis", "Radia"}

// generateParticipants builds count unique participants whose registration
// dates are spaced apart and end at now.
func generateParticipants(cfg *Config, now time.Time) []Participant {
	out := make([]Participant, cfg.Count)
	for i := range out {
		out[i] = generateSingleParticipant(cfg, i, now.Add(-time.Duration(cfg.Count-i)*registrationSpacing))
	}
	return out
}

func generateSingleParticipant(cfg *Config, index int, at time.Time) Participant {
	tag := uuid.NewString()[:8]
	first := firstNames[index%len(firstNames)]

	event := cfg.EventName
	if event == "" {
		event = defaultEvents[index%len(defaultEvents)]
	}

	return Participant{
		Name:             fmt.Sprintf("%s Seed-%s", first, tag),
		Email:            fmt.Sprintf("seed+%s@example.com", tag),
		Phone:            fmt.Sprintf("555-%04d", index%phoneNumberModulus),
		EventName:        event,
		RegistrationDate: at.UTC().Truncate(time.Millisecond),
	}
}
