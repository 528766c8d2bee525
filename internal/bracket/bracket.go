// Package bracket derives the knockout stage (quarterfinals to champion)
// from the top 4 of both groups and the stored knockout results.
//
// Nothing here is cached. A bracket is resolved from scratch on every read
// and a stored result only counts for a stage while its player ids are the
// ones the current standings put into that stage.
package bracket

import (
	"errors"
	"fmt"

	"github.com/AdamBeresnev/super8/internal/score"
)

var (
	ErrUnknownStage             = errors.New("unknown knockout stage")
	ErrParticipantsUndetermined = errors.New("waiting for previous round winners")
	ErrParticipantMismatch      = errors.New("players do not match the current pairing for this stage")
)

// Result is a stored knockout score, keyed by stage id
type Result struct {
	Player1ID    string `json:"player1Id"`
	Player2ID    string `json:"player2Id"`
	Player1Score int    `json:"player1Score"`
	Player2Score int    `json:"player2Score"`
	WinnerID     string `json:"winnerId"`
	Completed    bool   `json:"completed"`
}

// Match is one resolved stage of the bracket
type Match struct {
	Stage  StageID
	Round  Round
	Order  int
	Label1 string
	Label2 string

	// Empty while the stage is not determined yet
	Player1ID string
	Player2ID string

	// Nil when the stage has not been played or the stored result is stale
	Result *Result
	// A result is stored for the stage but belongs to other players
	Stale bool
}

func (m Match) Determined() bool {
	return m.Player1ID != "" && m.Player2ID != ""
}

func (m Match) Completed() bool {
	return m.Result != nil && m.Result.Completed
}

// WinnerID is empty until the stage has a valid completed result
func (m Match) WinnerID() string {
	if !m.Completed() {
		return ""
	}
	switch m.Result.WinnerID {
	case m.Player1ID, m.Player2ID:
		return m.Result.WinnerID
	}
	return ""
}

type Bracket struct {
	// Both groups have at least 4 players
	Ready      bool
	Matches    []Match
	ChampionID string
}

func (b Bracket) Match(id StageID) (Match, bool) {
	for _, m := range b.Matches {
		if m.Stage == id {
			return m, true
		}
	}
	return Match{}, false
}

func (b Bracket) Round(r Round) []Match {
	var out []Match
	for _, m := range b.Matches {
		if m.Round == r {
			out = append(out, m)
		}
	}
	return out
}

// Resolve computes the bracket from both groups' top 4 (best first) and
// the stored results
func Resolve(top4A, top4B []string, results map[StageID]Result) Bracket {
	ready := len(top4A) >= Qualifiers && len(top4B) >= Qualifiers
	seeds := map[string][]string{GroupA: top4A, GroupB: top4B}

	resolved := make(map[StageID]Match, len(stageOrder))
	matches := make([]Match, 0, len(stageOrder))

	for _, id := range stageOrder {
		s := stagesByID[id]
		m := Match{
			Stage:  s.ID,
			Round:  s.Round,
			Order:  s.Order,
			Label1: s.label(0),
			Label2: s.label(1),
		}

		if ready {
			if s.seeded() {
				m.Player1ID = seeds[s.Seeds[0].Group][s.Seeds[0].Position-1]
				m.Player2ID = seeds[s.Seeds[1].Group][s.Seeds[1].Position-1]
			} else {
				m.Player1ID = resolved[s.Feeders[0]].WinnerID()
				m.Player2ID = resolved[s.Feeders[1]].WinnerID()
			}
		}

		if saved, ok := results[id]; ok {
			if m.Determined() && saved.Player1ID == m.Player1ID && saved.Player2ID == m.Player2ID {
				r := saved
				m.Result = &r
			} else {
				m.Stale = true
			}
		}

		resolved[id] = m
		matches = append(matches, m)
	}

	return Bracket{
		Ready:      ready,
		Matches:    matches,
		ChampionID: resolved[Final].WinnerID(),
	}
}

// Submit validates a knockout score against the current bracket and
// returns the result to store for the stage
func (b Bracket) Submit(rules score.Rules, id StageID, player1ID, player2ID string, score1, score2 int) (Result, error) {
	if !ValidStage(id) {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownStage, id)
	}
	if player1ID == "" || player2ID == "" {
		return Result{}, ErrParticipantsUndetermined
	}

	m, _ := b.Match(id)
	if !m.Determined() {
		return Result{}, ErrParticipantsUndetermined
	}
	if m.Player1ID != player1ID || m.Player2ID != player2ID {
		return Result{}, ErrParticipantMismatch
	}

	if err := rules.Validate(score1, score2); err != nil {
		return Result{}, err
	}

	winnerID := player2ID
	if score.Winner(score1, score2) == 1 {
		winnerID = player1ID
	}

	return Result{
		Player1ID:    player1ID,
		Player2ID:    player2ID,
		Player1Score: score1,
		Player2Score: score2,
		WinnerID:     winnerID,
		Completed:    true,
	}, nil
}
