// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/eventreg/internal/domain/participant"
)

// NoticeKind says what happened to a participant.
type NoticeKind string

// Notice kinds.
const (
	NoticeRegistered NoticeKind = "registered"
	NoticeUpdated    NoticeKind = "updated"
	NoticeCancelled  NoticeKind = "cancelled"
)

// Notice is a registration change handed to notifiers.
type Notice struct {
	Kind        NoticeKind
	Participant participant.Participant
	At          time.Time
}
