package tournament

import "github.com/AdamBeresnev/super8/internal/utils"

type QualificationRow struct {
	Standing
	RemainingMatches int  `json:"remainingMatches"`
	Qualified        bool `json:"qualified"`
	// Display percentage, not a probability model
	Chance int `json:"chance"`
}

// QualificationProbability is a rough display number for players outside
// the top 4: 100 inside the top 4, 0 without remaining matches, otherwise
// a penalty of 25 per place below 4th plus 10 per remaining match.
func (t *Tournament) QualificationProbability(playerID string, group Group) int {
	return t.qualificationChance(t.Standings(group), playerID)
}

func (t *Tournament) qualificationChance(standings []Standing, playerID string) int {
	pos := -1
	for i, s := range standings {
		if s.Player.ID == playerID {
			pos = i
			break
		}
	}

	if pos == -1 {
		return 0
	}
	if pos < 4 {
		return 100
	}

	remaining := t.RemainingMatches(playerID)
	if remaining == 0 {
		return 0
	}

	base := max(0, 100-(pos-3)*25)
	return utils.Clamp(base+remaining*10, 0, 100)
}

func (t *Tournament) Qualification(group Group) []QualificationRow {
	standings := t.Standings(group)
	rows := make([]QualificationRow, 0, len(standings))
	for i, s := range standings {
		rows = append(rows, QualificationRow{
			Standing:         s,
			RemainingMatches: t.RemainingMatches(s.Player.ID),
			Qualified:        i < 4,
			Chance:           t.qualificationChance(standings, s.Player.ID),
		})
	}
	return rows
}
