package player

import "errors"

var (
	// ErrInvalidPlayer is returned when a player record fails validation
	ErrInvalidPlayer = errors.New("invalid player")
	// ErrDuplicatePlayer is returned when a player with the same name already exists
	ErrDuplicatePlayer = errors.New("player already exists")
)
