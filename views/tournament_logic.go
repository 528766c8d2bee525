package views

import (
	"slices"
	"strconv"

	"github.com/AdamBeresnev/super8/internal/bracket"
)

type MatchView struct {
	Stage     bracket.StageID
	Name1     string
	Name2     string
	Score1    string
	Score2    string
	Winner    int
	Completed bool
	Stale     bool
}

type RoundColumn struct {
	Round   bracket.Round
	Title   string
	Matches []MatchView
}

type BracketData struct {
	Ready    bool
	Rounds   []RoundColumn
	Champion string
}

var roundTitles = map[bracket.Round]string{
	bracket.RoundQuarterfinal: "Quarterfinals",
	bracket.RoundSemifinal:    "Semifinals",
	bracket.RoundFinal:        "Final",
}

var roundOrder = []bracket.Round{bracket.RoundQuarterfinal, bracket.RoundSemifinal, bracket.RoundFinal}

// PrepareBracketData groups the resolved stages into round columns.
// Undetermined slots show their seed label, e.g. "A1" or "Winner QF2".
func PrepareBracketData(b bracket.Bracket, names Names) BracketData {
	data := BracketData{Ready: b.Ready}

	for _, r := range roundOrder {
		matches := b.Round(r)
		slices.SortFunc(matches, func(x, y bracket.Match) int { return x.Order - y.Order })

		col := RoundColumn{Round: r, Title: roundTitles[r]}
		for _, m := range matches {
			col.Matches = append(col.Matches, matchView(m, names))
		}
		data.Rounds = append(data.Rounds, col)
	}

	if b.ChampionID != "" {
		data.Champion = names.Of(b.ChampionID)
	}
	return data
}

func matchView(m bracket.Match, names Names) MatchView {
	v := MatchView{
		Stage: m.Stage,
		Name1: m.Label1,
		Name2: m.Label2,
		Stale: m.Stale,
	}
	if m.Player1ID != "" {
		v.Name1 = names.Of(m.Player1ID)
	}
	if m.Player2ID != "" {
		v.Name2 = names.Of(m.Player2ID)
	}

	if m.Completed() {
		v.Completed = true
		v.Score1 = strconv.Itoa(m.Result.Player1Score)
		v.Score2 = strconv.Itoa(m.Result.Player2Score)
		switch m.WinnerID() {
		case m.Player1ID:
			v.Winner = 1
		case m.Player2ID:
			v.Winner = 2
		}
	}
	return v
}
