// Package score holds the result rules for a best of 15 games match
// with a tie break at 7-7.
package score

import (
	"errors"
	"fmt"
)

const (
	MinGames     = 0
	MaxGames     = 15
	WinningGames = 8
	TieBreakAt   = 7
	LeadBeyond8  = 2
)

var (
	ErrInvalidScore     = errors.New("invalid score")
	ErrTieBreakRequired = errors.New("at 7-7 a tie break must be played, enter 8-7 for the winner")
	ErrMatchIncomplete  = errors.New("match not complete, winner must have at least 8 games")
	ErrInsufficientLead = errors.New("winner must lead by at least 2 games")
)

// Rules validates submitted game counts.
//
// AllowPlaceholder accepts a 1-1 result without further checks. Older
// exports contain such placeholder results.
type Rules struct {
	AllowPlaceholder bool
}

// Default keeps the 1-1 placeholder accepted.
var Default = Rules{AllowPlaceholder: true}

func (r Rules) Validate(score1, score2 int) error {
	if score1 < MinGames || score2 < MinGames || score1 > MaxGames || score2 > MaxGames {
		return fmt.Errorf("%w: must be between %d and %d", ErrInvalidScore, MinGames, MaxGames)
	}

	if r.AllowPlaceholder && score1 == 1 && score2 == 1 {
		return nil
	}

	w := max(score1, score2)
	l := min(score1, score2)

	switch {
	case score1 == TieBreakAt && score2 == TieBreakAt:
		return ErrTieBreakRequired
	case w < WinningGames:
		return ErrMatchIncomplete
	case w == WinningGames && l > TieBreakAt:
		return fmt.Errorf("%w: if winner has 8, loser cannot have more than 7", ErrInvalidScore)
	case w > WinningGames && w <= MaxGames && w-l < LeadBeyond8:
		return ErrInsufficientLead
	case w > MaxGames:
		return fmt.Errorf("%w: maximum is %d games", ErrInvalidScore, MaxGames)
	}

	return nil
}

// Winner returns 1 or 2 for the side with more games. Equal scores go to
// side 2, which only happens for the placeholder result.
func Winner(score1, score2 int) int {
	if score1 > score2 {
		return 1
	}
	return 2
}
