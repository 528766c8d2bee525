// Package tournament owns the group phase: players, round robin matches,
// standings, the qualification heuristic and the stored knockout results.
package tournament

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/AdamBeresnev/super8/internal/bracket"
	"github.com/AdamBeresnev/super8/internal/score"
	"github.com/AdamBeresnev/super8/internal/utils"
	"github.com/google/uuid"
)

var (
	ErrInvalidGroup  = errors.New("group must be 'A' or 'B'")
	ErrMatchNotFound = errors.New("match not found")
)

type Option func(*Tournament)

func WithRules(rules score.Rules) Option {
	return func(t *Tournament) { t.rules = rules }
}

func WithClock(now func() time.Time) Option {
	return func(t *Tournament) { t.now = now }
}

func WithIDGenerator(newID func(prefix string) string) Option {
	return func(t *Tournament) { t.newID = newID }
}

type Tournament struct {
	Players  []Player
	Matches  []Match
	Knockout map[bracket.StageID]bracket.Result

	// Membership view of Players, insertion order
	groups map[Group][]Player

	rules score.Rules
	now   func() time.Time
	newID func(prefix string) string
}

func New(opts ...Option) *Tournament {
	t := &Tournament{
		Knockout: make(map[bracket.StageID]bracket.Result),
		groups:   map[Group][]Player{GroupA: {}, GroupB: {}},
		rules:    score.Default,
		now:      time.Now,
		newID:    prefixedUUID,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func prefixedUUID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// Restore rebuilds a tournament from stored records. Players with a group
// other than A or B are kept in Players but join no group.
func Restore(players []Player, matches []Match, knockout map[bracket.StageID]bracket.Result, opts ...Option) *Tournament {
	t := New(opts...)

	for _, p := range players {
		t.Players = append(t.Players, p)
		if !p.Group.Valid() {
			slog.Warn("player has no valid group, leaving out of group lists", "player_id", p.ID, "group", p.Group)
			continue
		}
		t.groups[p.Group] = append(t.groups[p.Group], p)
	}
	for _, m := range matches {
		t.Matches = append(t.Matches, m.clone())
	}
	maps.Copy(t.Knockout, knockout)

	return t
}

// Clone returns a deep copy sharing no slices or maps with t
func (t *Tournament) Clone() *Tournament {
	c := &Tournament{
		Players:  slices.Clone(t.Players),
		Matches:  make([]Match, 0, len(t.Matches)),
		Knockout: maps.Clone(t.Knockout),
		groups:   make(map[Group][]Player, len(t.groups)),
		rules:    t.rules,
		now:      t.now,
		newID:    t.newID,
	}
	for _, m := range t.Matches {
		c.Matches = append(c.Matches, m.clone())
	}
	for g, members := range t.groups {
		c.groups[g] = slices.Clone(members)
	}
	if c.Knockout == nil {
		c.Knockout = make(map[bracket.StageID]bracket.Result)
	}
	return c
}

func (t *Tournament) Rules() score.Rules {
	return t.rules
}

// Group returns the members of g in the order they were added
func (t *Tournament) Group(g Group) []Player {
	return slices.Clone(t.groups[g])
}

func (t *Tournament) Player(id string) (Player, bool) {
	for _, p := range t.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

func (t *Tournament) Match(id string) (Match, bool) {
	for _, m := range t.Matches {
		if m.ID == id {
			return m.clone(), true
		}
	}
	return Match{}, false
}

func (t *Tournament) AddPlayer(name string, group Group) (Player, error) {
	if !group.Valid() {
		return Player{}, fmt.Errorf("%w: got %q", ErrInvalidGroup, group)
	}

	player := Player{
		ID:    t.newID("player"),
		Name:  name,
		Group: group,
	}
	t.Players = append(t.Players, player)
	t.groups[group] = append(t.groups[group], player)
	t.GenerateMatchesForGroup(group)

	return player, nil
}

// RemovePlayer drops the player and every match they are part of.
// Unknown ids are ignored. Knockout results are left alone, the bracket
// treats them as stale once the player is gone.
func (t *Tournament) RemovePlayer(id string) {
	player, ok := t.Player(id)
	if !ok {
		return
	}

	t.Players = slices.DeleteFunc(t.Players, func(p Player) bool { return p.ID == id })
	t.groups[player.Group] = slices.DeleteFunc(t.groups[player.Group], func(p Player) bool { return p.ID == id })
	t.Matches = slices.DeleteFunc(t.Matches, func(m Match) bool { return m.Involves(id) })
}

// GenerateMatchesForGroup creates the missing round robin pairings of the
// group. Calling it again never duplicates a pairing.
func (t *Tournament) GenerateMatchesForGroup(group Group) {
	existing := make(map[string]bool)
	for _, m := range t.Matches {
		if m.Group == group {
			existing[utils.PairKey(m.Player1ID, m.Player2ID)] = true
		}
	}

	members := t.groups[group]
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			key := utils.PairKey(members[i].ID, members[j].ID)
			if existing[key] {
				continue
			}
			t.Matches = append(t.Matches, Match{
				ID:        t.newID("match"),
				Player1ID: members[i].ID,
				Player2ID: members[j].ID,
				Group:     group,
			})
			existing[key] = true
		}
	}
}

// RecordMatchResult swaps the match for a copy carrying the result, every
// other match stays as it was
func (t *Tournament) RecordMatchResult(matchID string, score1, score2 int) error {
	i := slices.IndexFunc(t.Matches, func(m Match) bool { return m.ID == matchID })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}

	updated := t.Matches[i].clone()
	if err := updated.RecordResult(t.rules, score1, score2, t.now().UTC()); err != nil {
		return err
	}
	t.Matches[i] = updated

	return nil
}

// RemainingMatches counts the player's group matches without a result
func (t *Tournament) RemainingMatches(playerID string) int {
	n := 0
	for _, m := range t.Matches {
		if !m.Completed && m.Involves(playerID) {
			n++
		}
	}
	return n
}

// MatchesForGroup lists the group's matches for display: completed first,
// most recent first, then pending ones in stored order. Duplicate pairings
// from imported data collapse into one, preferring the completed match.
func (t *Tournament) MatchesForGroup(group Group) []Match {
	unique := make([]Match, 0)
	index := make(map[string]int)

	for _, m := range t.Matches {
		if m.Group != group {
			continue
		}
		key := utils.PairKey(m.Player1ID, m.Player2ID)
		i, seen := index[key]
		if !seen {
			index[key] = len(unique)
			unique = append(unique, m.clone())
			continue
		}
		existing := unique[i]
		if (m.Completed && !existing.Completed) || (m.Completed == existing.Completed && m.ID > existing.ID) {
			unique[i] = m.clone()
		}
	}

	slices.SortStableFunc(unique, compareForDisplay)
	return unique
}

func compareForDisplay(a, b Match) int {
	switch {
	case a.Completed && !b.Completed:
		return -1
	case !a.Completed && b.Completed:
		return 1
	case !a.Completed && !b.Completed:
		return 0
	}

	switch {
	case a.PlayedAt == nil && b.PlayedAt == nil:
		return 0
	case a.PlayedAt == nil:
		return 1
	case b.PlayedAt == nil:
		return -1
	}
	return b.PlayedAt.Compare(*a.PlayedAt)
}
