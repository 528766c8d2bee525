package snapshot

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/AdamBeresnev/super8/internal/bracket"
	"github.com/AdamBeresnev/super8/internal/tournament"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exportedAt = time.Date(2025, 11, 3, 18, 30, 0, 0, time.UTC)

func sampleTournament(t *testing.T) *tournament.Tournament {
	t.Helper()
	seq := 0
	tr := tournament.New(
		tournament.WithClock(func() time.Time { return exportedAt }),
		tournament.WithIDGenerator(func(prefix string) string {
			seq++
			return fmt.Sprintf("%s_%d", prefix, seq)
		}),
	)
	for _, g := range tournament.Groups {
		for i := range 4 {
			_, err := tr.AddPlayer(fmt.Sprintf("%s%d", g, i+1), g)
			require.NoError(t, err)
		}
	}
	require.NoError(t, tr.RecordMatchResult(tr.Matches[0].ID, 8, 5))
	require.NoError(t, tr.RecordMatchResult(tr.Matches[7].ID, 6, 8))

	qf1, _ := tr.Bracket().Match(bracket.QF1)
	require.NoError(t, tr.UpdateKnockoutMatch(bracket.QF1, qf1.Player1ID, qf1.Player2ID, 10, 8))
	return tr
}

func TestRoundTrip(t *testing.T) {
	tr := sampleTournament(t)

	data, err := Marshal(tr, exportedAt)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)

	assert.Equal(t, tr.Players, got.Players)
	assert.Equal(t, tr.Matches, got.Matches)
	assert.Equal(t, tr.Knockout, got.Knockout)
	assert.Equal(t, tr.Group(tournament.GroupA), got.Group(tournament.GroupA))
	assert.Equal(t, tr.Standings(tournament.GroupB), got.Standings(tournament.GroupB))
	assert.Equal(t, tr.Bracket(), got.Bracket())
}

func TestMarshalFormat(t *testing.T) {
	tr := sampleTournament(t)

	data, err := Marshal(tr, exportedAt)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "1.0", doc["version"])
	assert.Equal(t, "2025-11-03T18:30:00.000Z", doc["exportDate"])
	assert.Contains(t, doc, "knockoutMatches")

	matches := doc["matches"].([]any)
	require.Len(t, matches, 12)

	played := matches[0].(map[string]any)
	assert.Equal(t, float64(8), played["player1Score"])
	assert.Equal(t, "player_1", played["winnerId"])
	assert.Equal(t, "2025-11-03T18:30:00Z", played["playedAt"])

	pending := matches[1].(map[string]any)
	for _, key := range []string{"player1Score", "player2Score", "winnerId", "playedAt"} {
		v, ok := pending[key]
		assert.True(t, ok, key)
		assert.Nil(t, v, key)
	}
	assert.Equal(t, false, pending["completed"])

	t.Run("no knockout key without results", func(t *testing.T) {
		data, err := Marshal(tournament.New(), exportedAt)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "knockoutMatches")
	})
}

func TestUnmarshal(t *testing.T) {
	t.Run("old save without version or playedAt", func(t *testing.T) {
		data := []byte(`{
			"players": [
				{"id": "p1", "name": "Ann", "group": "A"},
				{"id": "p2", "name": "Bo", "group": "A"}
			],
			"matches": [
				{"id": "m1", "player1Id": "p1", "player2Id": "p2", "group": "A",
				 "player1Score": 8, "player2Score": 3, "winnerId": "p1", "completed": true}
			]
		}`)

		tr, err := Unmarshal(data)
		require.NoError(t, err)
		require.Len(t, tr.Matches, 1)
		m := tr.Matches[0]
		assert.Nil(t, m.PlayedAt)
		assert.True(t, m.Completed)
		assert.Equal(t, "p1", m.WinnerID)
		assert.NotNil(t, tr.Knockout)
		assert.Empty(t, tr.Knockout)
	})

	t.Run("unknown group keeps the player out of groups", func(t *testing.T) {
		data := []byte(`{"version": "1.2", "players": [
			{"id": "p1", "name": "Ann", "group": "A"},
			{"id": "p9", "name": "Zed", "group": "C"}
		], "matches": []}`)

		tr, err := Unmarshal(data)
		require.NoError(t, err)
		assert.Len(t, tr.Players, 2)
		assert.Len(t, tr.Group(tournament.GroupA), 1)
		assert.Empty(t, tr.Group(tournament.GroupB))
	})

	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"players": [`},
		{"wrong shape", `{"players": "everyone"}`},
		{"future major version", `{"version": "2.0", "players": [], "matches": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.data))
			assert.ErrorIs(t, err, ErrDeserialization)
		})
	}
}

func TestDefault(t *testing.T) {
	tr, err := Default()
	require.NoError(t, err)

	for _, g := range tournament.Groups {
		members := tr.Group(g)
		require.GreaterOrEqual(t, len(members), 4, g)
		assert.Len(t, tr.MatchesForGroup(g), len(members)*(len(members)-1)/2)
	}
	assert.True(t, tr.Bracket().Ready)

	again, err := Default()
	require.NoError(t, err)
	assert.Equal(t, tr.Players, again.Players)
}
