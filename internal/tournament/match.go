package tournament

import (
	"time"

	"github.com/AdamBeresnev/super8/internal/score"
	"github.com/AdamBeresnev/super8/internal/utils"
)

type Group string

const (
	GroupA Group = "A"
	GroupB Group = "B"
)

var Groups = []Group{GroupA, GroupB}

func (g Group) Valid() bool {
	return g == GroupA || g == GroupB
}

type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Group Group  `json:"group"`
}

type Match struct {
	ID        string `json:"id"`
	Player1ID string `json:"player1Id"`
	Player2ID string `json:"player2Id"`
	Group     Group  `json:"group"`

	// Nil until a result is recorded
	Player1Score *int       `json:"player1Score"`
	Player2Score *int       `json:"player2Score"`
	WinnerID     string     `json:"winnerId,omitempty"`
	Completed    bool       `json:"completed"`
	PlayedAt     *time.Time `json:"playedAt"`
}

func (m Match) Involves(playerID string) bool {
	return m.Player1ID == playerID || m.Player2ID == playerID
}

func (m Match) Opponent(playerID string) string {
	if m.Player1ID == playerID {
		return m.Player2ID
	}
	return m.Player1ID
}

func (m Match) clone() Match {
	c := m
	c.Player1Score = utils.ClonePtr(m.Player1Score)
	c.Player2Score = utils.ClonePtr(m.Player2Score)
	c.PlayedAt = utils.ClonePtr(m.PlayedAt)
	return c
}

// RecordResult validates the games first and only then overwrites score,
// winner and timestamp. Recording over a completed match is allowed.
func (m *Match) RecordResult(rules score.Rules, score1, score2 int, playedAt time.Time) error {
	if err := rules.Validate(score1, score2); err != nil {
		return err
	}

	m.Player1Score = utils.Ptr(score1)
	m.Player2Score = utils.Ptr(score2)
	if score.Winner(score1, score2) == 1 {
		m.WinnerID = m.Player1ID
	} else {
		m.WinnerID = m.Player2ID
	}
	m.Completed = true
	m.PlayedAt = utils.Ptr(playedAt)

	return nil
}
