package notifier

import "errors"

var (
	// ErrMissingToken is returned when a Discord notifier is built without a bot token.
	ErrMissingToken = errors.New("discord bot token is empty")
	// ErrMissingChannel is returned when a Discord notifier is built without a channel id.
	ErrMissingChannel = errors.New("discord channel ID is empty")
)
