package tournament

import "github.com/AdamBeresnev/super8/internal/bracket"

func playerIDs(players []Player) []string {
	ids := make([]string, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	return ids
}

// Bracket resolves the knockout stage from the current top 4 of both
// groups. Stored results for pairings that no longer hold are ignored.
func (t *Tournament) Bracket() bracket.Bracket {
	return bracket.Resolve(playerIDs(t.Top4(GroupA)), playerIDs(t.Top4(GroupB)), t.Knockout)
}

// UpdateKnockoutMatch stores the result for a stage, overwriting an
// earlier one. The players must be the ones currently paired there.
func (t *Tournament) UpdateKnockoutMatch(stage bracket.StageID, player1ID, player2ID string, score1, score2 int) error {
	result, err := t.Bracket().Submit(t.rules, stage, player1ID, player2ID, score1, score2)
	if err != nil {
		return err
	}

	if t.Knockout == nil {
		t.Knockout = make(map[bracket.StageID]bracket.Result)
	}
	t.Knockout[stage] = result
	return nil
}
