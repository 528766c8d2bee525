package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/AdamBeresnev/super8/internal/bracket"
	"github.com/AdamBeresnev/super8/internal/middleware"
	"github.com/AdamBeresnev/super8/internal/snapshot"
	"github.com/AdamBeresnev/super8/internal/store"
	"github.com/AdamBeresnev/super8/internal/tournament"
	"github.com/AdamBeresnev/super8/internal/utils"
)

var (
	ErrReadOnly  = errors.New("tournament is read only, open it with ?editable=true")
	ErrEmptyName = errors.New("player name must not be empty")
)

type SnapshotStore interface {
	Load(ctx context.Context) (snapshot.Snapshot, error)
	Save(ctx context.Context, snap snapshot.Snapshot) error
	Clear(ctx context.Context) error
}

// TournamentService owns the one live tournament. Mutations work on a
// clone that is saved before it replaces the published tournament, so a
// failed call leaves readers on the previous state.
type TournamentService struct {
	store SnapshotStore
	opts  []tournament.Option
	now   func() time.Time

	mu      sync.RWMutex
	current *tournament.Tournament
}

// NewTournamentService loads the saved tournament, or the bundled default
// when nothing was saved yet
func NewTournamentService(ctx context.Context, snapshots SnapshotStore, opts ...tournament.Option) (*TournamentService, error) {
	s := &TournamentService{store: snapshots, opts: opts, now: time.Now}

	snap, err := snapshots.Load(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		slog.Info("no saved tournament, loading default dataset")
		s.current, err = snapshot.Default(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load default tournament: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to load saved tournament: %w", err)
	default:
		s.current, err = snap.Tournament(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to restore saved tournament: %w", err)
		}
	}

	slog.Info("tournament loaded", "players", len(s.current.Players), "matches", len(s.current.Matches))
	return s, nil
}

// Tournament returns the published tournament. Callers must not modify it.
func (s *TournamentService) Tournament() *tournament.Tournament {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *TournamentService) mutate(ctx context.Context, fn func(t *tournament.Tournament) error) error {
	if !middleware.IsEditable(ctx) {
		return ErrReadOnly
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.Clone()
	if err := fn(next); err != nil {
		return err
	}
	return s.publish(ctx, next)
}

// publish expects s.mu to be held
func (s *TournamentService) publish(ctx context.Context, next *tournament.Tournament) error {
	if err := s.store.Save(ctx, snapshot.FromTournament(next, s.now())); err != nil {
		return fmt.Errorf("failed to save tournament: %w", err)
	}
	s.current = next
	return nil
}

func (s *TournamentService) AddPlayer(ctx context.Context, name string, group tournament.Group) (tournament.Player, error) {
	trimmed := utils.StringOrNil(name)
	if trimmed == nil {
		return tournament.Player{}, ErrEmptyName
	}

	var player tournament.Player
	err := s.mutate(ctx, func(t *tournament.Tournament) error {
		var err error
		player, err = t.AddPlayer(*trimmed, group)
		return err
	})
	if err != nil {
		return tournament.Player{}, err
	}

	slog.Info("player added", "player_id", player.ID, "group", player.Group)
	return player, nil
}

func (s *TournamentService) RemovePlayer(ctx context.Context, playerID string) error {
	err := s.mutate(ctx, func(t *tournament.Tournament) error {
		t.RemovePlayer(playerID)
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("player removed", "player_id", playerID)
	return nil
}

func (s *TournamentService) RecordMatchResult(ctx context.Context, matchID string, score1, score2 int) (tournament.Match, error) {
	var match tournament.Match
	err := s.mutate(ctx, func(t *tournament.Tournament) error {
		if err := t.RecordMatchResult(matchID, score1, score2); err != nil {
			return err
		}
		match, _ = t.Match(matchID)
		return nil
	})
	if err != nil {
		return tournament.Match{}, err
	}

	slog.Info("match result recorded", "match_id", matchID, "score", fmt.Sprintf("%d-%d", score1, score2))
	return match, nil
}

func (s *TournamentService) UpdateKnockoutMatch(ctx context.Context, stage bracket.StageID, player1ID, player2ID string, score1, score2 int) (bracket.Match, error) {
	var match bracket.Match
	err := s.mutate(ctx, func(t *tournament.Tournament) error {
		if err := t.UpdateKnockoutMatch(stage, player1ID, player2ID, score1, score2); err != nil {
			return err
		}
		match, _ = t.Bracket().Match(stage)
		return nil
	})
	if err != nil {
		return bracket.Match{}, err
	}

	slog.Info("knockout result recorded", "stage", stage, "winner_id", match.WinnerID())
	return match, nil
}

// Import replaces the whole tournament with an exported document
func (s *TournamentService) Import(ctx context.Context, data []byte) error {
	if !middleware.IsEditable(ctx) {
		return ErrReadOnly
	}

	imported, err := snapshot.Unmarshal(data, s.opts...)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.publish(ctx, imported); err != nil {
		return err
	}

	slog.Info("tournament imported", "players", len(imported.Players), "matches", len(imported.Matches))
	return nil
}

func (s *TournamentService) Export(ctx context.Context) ([]byte, error) {
	return snapshot.Marshal(s.Tournament(), s.now())
}

// ClearSaved removes the saved tournament. The live one stays until the
// next restart, which falls back to the default dataset.
func (s *TournamentService) ClearSaved(ctx context.Context) error {
	if !middleware.IsEditable(ctx) {
		return ErrReadOnly
	}
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear saved tournament: %w", err)
	}

	slog.Info("saved tournament cleared")
	return nil
}
