package service

import (
	"fmt"

	"github.com/AdamBeresnev/super8/internal/bracket"
	"github.com/AdamBeresnev/super8/internal/tournament"
)

// Read side. Every call recomputes from the published tournament.

func checkGroup(group tournament.Group) error {
	if !group.Valid() {
		return fmt.Errorf("%w: got %q", tournament.ErrInvalidGroup, group)
	}
	return nil
}

func (s *TournamentService) Players() []tournament.Player {
	return s.Tournament().Players
}

func (s *TournamentService) GroupMatches(group tournament.Group) ([]tournament.Match, error) {
	if err := checkGroup(group); err != nil {
		return nil, err
	}
	return s.Tournament().MatchesForGroup(group), nil
}

func (s *TournamentService) Standings(group tournament.Group) ([]tournament.Standing, error) {
	if err := checkGroup(group); err != nil {
		return nil, err
	}
	return s.Tournament().Standings(group), nil
}

func (s *TournamentService) Top4(group tournament.Group) ([]tournament.Player, error) {
	if err := checkGroup(group); err != nil {
		return nil, err
	}
	return s.Tournament().Top4(group), nil
}

func (s *TournamentService) Qualification(group tournament.Group) ([]tournament.QualificationRow, error) {
	if err := checkGroup(group); err != nil {
		return nil, err
	}
	return s.Tournament().Qualification(group), nil
}

func (s *TournamentService) Rankings() []tournament.RankedStanding {
	return s.Tournament().OverallRankings()
}

func (s *TournamentService) Bracket() bracket.Bracket {
	return s.Tournament().Bracket()
}
