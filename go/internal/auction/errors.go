package auction

import (
	"errors"

	"github.com/mcdev12/auction/go/internal/ledger"
	"github.com/mcdev12/auction/go/internal/player"
)

var (
	// ErrInactiveRound is returned when bidding while no round is open
	ErrInactiveRound = errors.New("no active bidding right now")
	// ErrInsufficientBudget is returned when a bid exceeds the team's remaining budget
	ErrInsufficientBudget = errors.New("insufficient budget")
	// ErrBidTooLow is returned when a bid does not beat the current highest bid
	ErrBidTooLow = errors.New("bid must be higher than current bid")

	ErrUnknownTeam     = ledger.ErrUnknownTeam
	ErrBudgetUnderflow = ledger.ErrBudgetUnderflow
	ErrInvalidPlayer   = player.ErrInvalidPlayer
	ErrDuplicatePlayer = player.ErrDuplicatePlayer
)

// ErrorCode returns the stable error kind reported to callers.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInactiveRound):
		return "InactiveRound"
	case errors.Is(err, ErrUnknownTeam):
		return "UnknownTeam"
	case errors.Is(err, ErrInsufficientBudget):
		return "InsufficientBudget"
	case errors.Is(err, ErrBidTooLow):
		return "BidTooLow"
	case errors.Is(err, ErrBudgetUnderflow):
		return "BudgetUnderflow"
	case errors.Is(err, ErrInvalidPlayer):
		return "InvalidPlayer"
	case errors.Is(err, ErrDuplicatePlayer):
		return "DuplicatePlayer"
	default:
		return "Internal"
	}
}
