package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func Knockout(data BracketData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}

		hw.raw(`<section class="knockout" id="knockout">`)
		if !data.Ready {
			hw.raw(`<p class="notice">Both groups need at least 4 players before the knockout stage starts</p>`)
		}

		hw.raw(`<div class="bracket">`)
		for _, col := range data.Rounds {
			hw.printf(`<div class="round" data-round="%s"><h3>%s</h3>`, col.Round, col.Title)
			for _, m := range col.Matches {
				writeKnockoutMatch(hw, m)
			}
			hw.raw(`</div>`)
		}
		hw.raw(`</div>`)

		if data.Champion != "" {
			hw.printf(`<div class="champion">Champion: <strong>%s</strong></div>`, data.Champion)
		}
		hw.raw(`</section>`)
		return hw.err
	})
}

func writeKnockoutMatch(hw *htmlWriter, m MatchView) {
	class := "match"
	if m.Completed {
		class += " completed"
	}
	if m.Stale {
		class += " stale"
	}

	hw.printf(`<div class="%s" data-stage="%s">`, class, m.Stage)
	for slot, side := range []struct{ name, score string }{{m.Name1, m.Score1}, {m.Name2, m.Score2}} {
		sideClass := "side"
		if m.Winner == slot+1 {
			sideClass += " winner"
		}
		hw.printf(`<div class="%s"><span class="name">%s</span><span class="score">%s</span></div>`, sideClass, side.name, side.score)
	}
	if m.Stale {
		hw.raw(`<div class="stale-note">Standings changed since this result was entered</div>`)
	}
	hw.raw(`</div>`)
}
