// Package participant contains the participant document and its validation.
package participant

import (
	"bytes"
	"encoding/json"
	"time"
)

// Participant is a registration for an event.
type Participant struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	EventName        string    `json:"eventName"`
	RegistrationDate time.Time `json:"registrationDate"`
}

// Fields is the caller-supplied part of a new participant. A zero
// RegistrationDate is filled in by the store.
type Fields struct {
	Name             string    `json:"name" validate:"required"`
	Email            string    `json:"email" validate:"required"`
	Phone            string    `json:"phone" validate:"required"`
	EventName        string    `json:"eventName" validate:"required"`
	RegistrationDate time.Time `json:"registrationDate,omitempty"`
}

// Patch replaces the fields that are set and leaves the rest untouched.
type Patch struct {
	Name             *string    `json:"name,omitempty" validate:"omitnil,min=1"`
	Email            *string    `json:"email,omitempty" validate:"omitnil,min=1"`
	Phone            *string    `json:"phone,omitempty" validate:"omitnil,min=1"`
	EventName        *string    `json:"eventName,omitempty" validate:"omitnil,min=1"`
	RegistrationDate *time.Time `json:"registrationDate,omitempty"`

	// nulled lists required fields the payload set to JSON null.
	nulled []string
}

// requiredPatchFields are the JSON names that may not be cleared with null.
var requiredPatchFields = []string{"name", "email", "phone", "eventName"}

// UnmarshalJSON decodes a patch and records required fields sent as null,
// which would otherwise decode the same as absent ones.
func (patch *Patch) UnmarshalJSON(data []byte) error {
	type plain Patch
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*patch = Patch(p)
	patch.nulled = nil
	for _, name := range requiredPatchFields {
		if v, ok := raw[name]; ok && bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			patch.nulled = append(patch.nulled, name)
		}
	}
	return nil
}

// New builds a participant from fields with the given id.
func New(id string, f Fields) Participant {
	return Participant{
		ID:               id,
		Name:             f.Name,
		Email:            f.Email,
		Phone:            f.Phone,
		EventName:        f.EventName,
		RegistrationDate: f.RegistrationDate,
	}
}

// Apply returns p with the patch applied. The id never changes.
func (p Participant) Apply(patch Patch) Participant {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Email != nil {
		p.Email = *patch.Email
	}
	if patch.Phone != nil {
		p.Phone = *patch.Phone
	}
	if patch.EventName != nil {
		p.EventName = *patch.EventName
	}
	if patch.RegistrationDate != nil {
		p.RegistrationDate = *patch.RegistrationDate
	}
	return p
}

// IsEmpty reports whether the patch changes nothing.
func (patch Patch) IsEmpty() bool {
	return patch.Name == nil && patch.Email == nil && patch.Phone == nil &&
		patch.EventName == nil && patch.RegistrationDate == nil && len(patch.nulled) == 0
}
