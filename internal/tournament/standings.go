package tournament

import (
	"cmp"
	"slices"

	"github.com/AdamBeresnev/super8/internal/utils"
)

type Standing struct {
	Player        Player `json:"player"`
	Rank          int    `json:"rank"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	GamesWon      int    `json:"gamesWon"`
	GamesLost     int    `json:"gamesLost"`
	MatchesPlayed int    `json:"matchesPlayed"`

	// Wins against each opponent met so far, 0 for a lost encounter
	HeadToHead map[string]int `json:"headToHead"`
}

// Points as shown in the group table, 2 per win
func (s Standing) Points() int {
	return 2 * s.Wins
}

func (s Standing) GameDifference() int {
	return s.GamesWon - s.GamesLost
}

type RankedStanding struct {
	Standing
	OverallRank int `json:"overallRank"`
}

// Standings ranks the group by wins, then fewer losses, more games won,
// fewer games lost and finally the head-to-head record of the two players
// being compared. The head-to-head step only looks at that one pair, so a
// cycle between three tied players can sort differently depending on the
// input order.
func (t *Tournament) Standings(group Group) []Standing {
	members := t.groups[group]
	stats := make(map[string]*Standing, len(members))
	standings := make([]*Standing, 0, len(members))
	for _, p := range members {
		s := &Standing{Player: p, HeadToHead: make(map[string]int)}
		stats[p.ID] = s
		standings = append(standings, s)
	}

	for _, m := range t.Matches {
		if m.Group != group || !m.Completed {
			continue
		}
		p1, p2 := stats[m.Player1ID], stats[m.Player2ID]
		if p1 == nil || p2 == nil {
			continue
		}

		winner, loser := p1, p2
		if m.WinnerID != m.Player1ID {
			winner, loser = p2, p1
		}
		winner.Wins++
		loser.Losses++
		winner.HeadToHead[loser.Player.ID]++
		if _, met := loser.HeadToHead[winner.Player.ID]; !met {
			loser.HeadToHead[winner.Player.ID] = 0
		}

		score1, score2 := utils.OrZero(m.Player1Score), utils.OrZero(m.Player2Score)
		p1.GamesWon += score1
		p1.GamesLost += score2
		p2.GamesWon += score2
		p2.GamesLost += score1
		p1.MatchesPlayed++
		p2.MatchesPlayed++
	}

	slices.SortStableFunc(standings, func(a, b *Standing) int {
		if c := compareRecord(*a, *b); c != 0 {
			return c
		}
		return cmp.Compare(b.HeadToHead[a.Player.ID], a.HeadToHead[b.Player.ID])
	})

	out := make([]Standing, len(standings))
	for i, s := range standings {
		s.Rank = i + 1
		out[i] = *s
	}
	return out
}

// Wins desc, losses asc, games won desc, games lost asc
func compareRecord(a, b Standing) int {
	return cmp.Or(
		cmp.Compare(b.Wins, a.Wins),
		cmp.Compare(a.Losses, b.Losses),
		cmp.Compare(b.GamesWon, a.GamesWon),
		cmp.Compare(a.GamesLost, b.GamesLost),
	)
}

// Top4 returns the qualifiers of the group, fewer while the group is small
func (t *Tournament) Top4(group Group) []Player {
	standings := t.Standings(group)
	top := make([]Player, 0, 4)
	for _, s := range standings[:min(4, len(standings))] {
		top = append(top, s.Player)
	}
	return top
}

// OverallRankings merges both groups without head-to-head, since players
// of different groups never meet
func (t *Tournament) OverallRankings() []RankedStanding {
	var all []Standing
	for _, g := range Groups {
		all = append(all, t.Standings(g)...)
	}

	slices.SortStableFunc(all, compareRecord)

	ranked := make([]RankedStanding, len(all))
	for i, s := range all {
		ranked[i] = RankedStanding{Standing: s, OverallRank: i + 1}
	}
	return ranked
}
