// Package seeder registers synthetic participants against a running service
// and checks what the service reports back.
package seeder

import "time"

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL   string        // Base URL of the service
	Count     int           // Number of participants to register
	Workers   int           // Number of concurrent submitters
	Timeout   time.Duration // HTTP request timeout
	EventName string        // Event every participant registers for; empty rotates through a list
	Verbose   bool          // Log every request
}

// Participant mirrors the service's participant document.
type Participant struct {
	ID               string    `json:"id,omitempty"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	EventName        string    `json:"eventName"`
	RegistrationDate time.Time `json:"registrationDate"`
}

// createResponse is the reply to POST /api/participants.
type createResponse struct {
	Message     string      `json:"message"`
	Error       string      `json:"error,omitempty"`
	Participant Participant `json:"participant"`
}

// Stats holds run statistics.
type Stats struct {
	Generated     int
	Submitted     int
	Successful    int
	Failed        int
	Listed        int
	GaugeReported float64
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
}
