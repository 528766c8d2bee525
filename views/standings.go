package views

import (
	"context"
	"io"

	"github.com/AdamBeresnev/super8/internal/tournament"
	"github.com/a-h/templ"
)

// StandingsTable renders one group table. The top 4 rows carry the
// "qualified" class, the others show their qualification chance.
func StandingsTable(group tournament.Group, rows []tournament.QualificationRow) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}

		hw.printf(`<section class="standings" id="standings-%s">`, group)
		hw.printf(`<h2>Group %s</h2>`, group)
		if len(rows) == 0 {
			hw.raw(`<p class="empty">No players yet</p></section>`)
			return hw.err
		}

		hw.raw(`<table><thead><tr>`)
		for _, h := range []string{"#", "Player", "W", "L", "Games", "Diff", "Pts", "Left", "Chance"} {
			hw.printf(`<th>%s</th>`, h)
		}
		hw.raw(`</tr></thead><tbody>`)

		for _, r := range rows {
			class := "contender"
			if r.Qualified {
				class = "qualified"
			}
			hw.printf(`<tr class="%s" data-player-id="%s">`, class, r.Player.ID)
			hw.printf(`<td class="rank">%d</td>`, r.Rank)
			hw.printf(`<td class="name">%s</td>`, r.Player.Name)
			hw.printf(`<td class="wins">%d</td><td class="losses">%d</td>`, r.Wins, r.Losses)
			hw.printf(`<td class="games">%d-%d</td>`, r.GamesWon, r.GamesLost)
			hw.printf(`<td class="diff">%+d</td>`, r.GameDifference())
			hw.printf(`<td class="points">%d</td>`, r.Points())
			hw.printf(`<td class="remaining">%d</td>`, r.RemainingMatches)
			hw.printf(`<td class="chance">%d%%</td>`, r.Chance)
			hw.raw(`</tr>`)
		}

		hw.raw(`</tbody></table></section>`)
		return hw.err
	})
}
