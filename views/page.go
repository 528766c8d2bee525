package views

import (
	"context"
	"io"

	"github.com/AdamBeresnev/super8/internal/tournament"
	"github.com/a-h/templ"
)

type PageData struct {
	Editable bool
	Groups   map[tournament.Group][]tournament.QualificationRow
	Rankings []tournament.RankedStanding
	Bracket  BracketData
}

// Index is the overview page. Group tables and the bracket are also
// served on their own as fragments.
func Index(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}

		hw.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		hw.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.raw(`<title>Super 8</title></head><body>`)
		hw.raw(`<header><h1>Super 8</h1>`)
		if data.Editable {
			hw.raw(`<span class="mode editable">Editing enabled</span>`)
		} else {
			hw.raw(`<span class="mode read-only">Read only</span>`)
		}
		hw.raw(`</header><main>`)

		hw.raw(`<div class="groups">`)
		for _, g := range tournament.Groups {
			hw.printf(`<div class="group" data-fragment="/fragments/standings/%s">`, g)
			if hw.err == nil {
				hw.err = StandingsTable(g, data.Groups[g]).Render(ctx, w)
			}
			hw.raw(`</div>`)
		}
		hw.raw(`</div>`)

		if hw.err == nil {
			hw.err = Rankings(data.Rankings).Render(ctx, w)
		}
		if hw.err == nil {
			hw.err = Knockout(data.Bracket).Render(ctx, w)
		}

		hw.raw(`</main></body></html>`)
		return hw.err
	})
}

func Rankings(rows []tournament.RankedStanding) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}

		hw.raw(`<section class="rankings"><h2>Overall</h2><ol>`)
		for _, r := range rows {
			hw.printf(`<li data-player-id="%s">%s <span class="group">(%s)</span> %d-%d</li>`,
				r.Player.ID, r.Player.Name, r.Player.Group, r.Wins, r.Losses)
		}
		hw.raw(`</ol></section>`)
		return hw.err
	})
}
