// Package snapshot converts a tournament to and from the JSON document used
// for export, import and local saves.
package snapshot

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/AdamBeresnev/super8/internal/bracket"
	"github.com/AdamBeresnev/super8/internal/tournament"
	"github.com/AdamBeresnev/super8/internal/utils"
)

const Version = "1.0"

var ErrDeserialization = errors.New("failed to deserialize tournament data")

//go:embed default.json
var defaultData []byte

type Snapshot struct {
	Version         string                              `json:"version,omitempty"`
	ExportDate      string                              `json:"exportDate,omitempty"`
	Players         []tournament.Player                 `json:"players"`
	Matches         []Match                             `json:"matches"`
	KnockoutMatches map[bracket.StageID]bracket.Result `json:"knockoutMatches,omitempty"`
}

// Match is the stored form of a group match. Scores, winner and playedAt
// are null until a result is recorded.
type Match struct {
	ID           string           `json:"id"`
	Player1ID    string           `json:"player1Id"`
	Player2ID    string           `json:"player2Id"`
	Group        tournament.Group `json:"group"`
	Player1Score *int             `json:"player1Score"`
	Player2Score *int             `json:"player2Score"`
	WinnerID     *string          `json:"winnerId"`
	Completed    bool             `json:"completed"`
	PlayedAt     *time.Time       `json:"playedAt"`
}

func FromTournament(t *tournament.Tournament, now time.Time) Snapshot {
	s := Snapshot{
		Version:    Version,
		ExportDate: now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Players:    make([]tournament.Player, len(t.Players)),
		Matches:    make([]Match, 0, len(t.Matches)),
	}
	copy(s.Players, t.Players)

	for _, m := range t.Matches {
		s.Matches = append(s.Matches, Match{
			ID:           m.ID,
			Player1ID:    m.Player1ID,
			Player2ID:    m.Player2ID,
			Group:        m.Group,
			Player1Score: utils.ClonePtr(m.Player1Score),
			Player2Score: utils.ClonePtr(m.Player2Score),
			WinnerID:     utils.StringOrNil(m.WinnerID),
			Completed:    m.Completed,
			PlayedAt:     utils.ClonePtr(m.PlayedAt),
		})
	}

	if len(t.Knockout) > 0 {
		s.KnockoutMatches = maps.Clone(t.Knockout)
	}
	return s
}

func Marshal(t *tournament.Tournament, now time.Time) ([]byte, error) {
	data, err := json.MarshalIndent(FromTournament(t, now), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// Unmarshal accepts any 1.x document and documents without a version,
// which older local saves are.
func Unmarshal(data []byte, opts ...tournament.Option) (*tournament.Tournament, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeserialization, err)
	}
	return s.Tournament(opts...)
}

func (s Snapshot) Tournament(opts ...tournament.Option) (*tournament.Tournament, error) {
	if s.Version != "" {
		if major, _, _ := strings.Cut(s.Version, "."); major != "1" {
			return nil, fmt.Errorf("%w: unsupported version %q", ErrDeserialization, s.Version)
		}
	}

	matches := make([]tournament.Match, 0, len(s.Matches))
	for _, m := range s.Matches {
		matches = append(matches, tournament.Match{
			ID:           m.ID,
			Player1ID:    m.Player1ID,
			Player2ID:    m.Player2ID,
			Group:        m.Group,
			Player1Score: m.Player1Score,
			Player2Score: m.Player2Score,
			WinnerID:     utils.OrZero(m.WinnerID),
			Completed:    m.Completed,
			PlayedAt:     m.PlayedAt,
		})
	}

	return tournament.Restore(s.Players, matches, s.KnockoutMatches, opts...), nil
}

// Default is the bundled demo tournament with the round robin of both
// groups generated
func Default(opts ...tournament.Option) (*tournament.Tournament, error) {
	t, err := Unmarshal(defaultData, opts...)
	if err != nil {
		return nil, err
	}
	for _, g := range tournament.Groups {
		t.GenerateMatchesForGroup(g)
	}
	return t, nil
}
