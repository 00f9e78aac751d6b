package repository

import (
	"context"
	"fmt"

	"github.com/okian/eventreg/internal/domain/participant"
)

// unavailableStore fails every call. It stands in for a store that could not
// be opened at startup so the process keeps serving health and static routes.
type unavailableStore struct {
	cause error
}

// Unavailable returns a Store whose every call fails with ErrUnavailable
// wrapping cause.
func Unavailable(cause error) Store {
	return &unavailableStore{cause: cause}
}

func (s *unavailableStore) err() error {
	return fmt.Errorf("%w: %w", ErrUnavailable, s.cause)
}

func (s *unavailableStore) Create(context.Context, participant.Fields) (participant.Participant, error) {
	return participant.Participant{}, s.err()
}

func (s *unavailableStore) List(context.Context) ([]participant.Participant, error) {
	return nil, s.err()
}

func (s *unavailableStore) Get(context.Context, string) (participant.Participant, error) {
	return participant.Participant{}, s.err()
}

func (s *unavailableStore) Update(context.Context, string, participant.Patch) (participant.Participant, error) {
	return participant.Participant{}, s.err()
}

func (s *unavailableStore) Delete(context.Context, string) error {
	return s.err()
}

func (s *unavailableStore) Count(context.Context) (int64, error) {
	return 0, s.err()
}

func (s *unavailableStore) Close() error { return nil }
