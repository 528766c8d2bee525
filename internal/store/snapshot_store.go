package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AdamBeresnev/super8/internal/bracket"
	"github.com/AdamBeresnev/super8/internal/snapshot"
	"github.com/AdamBeresnev/super8/internal/tournament"
	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned by Load when nothing has been saved yet
var ErrNotFound = errors.New("no saved tournament")

const (
	getMetaQuery     = "SELECT version, saved_at FROM snapshot_meta WHERE id = 1"
	getPlayersQuery  = "SELECT id, name, group_name, position FROM players ORDER BY position ASC"
	getMatchesQuery  = "SELECT * FROM matches ORDER BY position ASC"
	getKnockoutQuery = "SELECT * FROM knockout_matches"

	insertMetaQuery   = "INSERT INTO snapshot_meta (id, version, saved_at) VALUES (1, :version, :saved_at)"
	insertPlayerQuery = `
		INSERT INTO players (id, name, group_name, position)
		VALUES (:id, :name, :group_name, :position)
	`
	insertMatchQuery = `
		INSERT INTO matches (id, player1_id, player2_id, group_name, player1_score, player2_score, winner_id, completed, played_at, position)
		VALUES (:id, :player1_id, :player2_id, :group_name, :player1_score, :player2_score, :winner_id, :completed, :played_at, :position)
	`
	insertKnockoutQuery = `
		INSERT INTO knockout_matches (stage, player1_id, player2_id, player1_score, player2_score, winner_id, completed)
		VALUES (:stage, :player1_id, :player2_id, :player1_score, :player2_score, :winner_id, :completed)
	`
)

var clearQueries = []string{
	"DELETE FROM knockout_matches",
	"DELETE FROM matches",
	"DELETE FROM players",
	"DELETE FROM snapshot_meta",
}

type metaRow struct {
	Version string    `db:"version"`
	SavedAt time.Time `db:"saved_at"`
}

type playerRow struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Group    string `db:"group_name"`
	Position int    `db:"position"`
}

type matchRow struct {
	ID           string     `db:"id"`
	Player1ID    string     `db:"player1_id"`
	Player2ID    string     `db:"player2_id"`
	Group        string     `db:"group_name"`
	Player1Score *int       `db:"player1_score"`
	Player2Score *int       `db:"player2_score"`
	WinnerID     *string    `db:"winner_id"`
	Completed    bool       `db:"completed"`
	PlayedAt     *time.Time `db:"played_at"`
	Position     int        `db:"position"`
}

type knockoutRow struct {
	Stage        string `db:"stage"`
	Player1ID    string `db:"player1_id"`
	Player2ID    string `db:"player2_id"`
	Player1Score int    `db:"player1_score"`
	Player2Score int    `db:"player2_score"`
	WinnerID     string `db:"winner_id"`
	Completed    bool   `db:"completed"`
}

// SnapshotStore keeps the single saved tournament. Every Save replaces the
// previous one completely.
type SnapshotStore struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewSnapshotStore(db *sqlx.DB) *SnapshotStore {
	return &SnapshotStore{db: db, now: time.Now}
}

func (s *SnapshotStore) Load(ctx context.Context) (snapshot.Snapshot, error) {
	var meta metaRow
	err := s.db.GetContext(ctx, &meta, getMetaQuery)
	if errors.Is(err, sql.ErrNoRows) {
		return snapshot.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("failed to load snapshot meta: %w", err)
	}

	var players []playerRow
	if err := s.db.SelectContext(ctx, &players, getPlayersQuery); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("failed to load players: %w", err)
	}
	var matches []matchRow
	if err := s.db.SelectContext(ctx, &matches, getMatchesQuery); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("failed to load matches: %w", err)
	}
	var knockout []knockoutRow
	if err := s.db.SelectContext(ctx, &knockout, getKnockoutQuery); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("failed to load knockout matches: %w", err)
	}

	snap := snapshot.Snapshot{
		Version:    meta.Version,
		ExportDate: meta.SavedAt.UTC().Format(time.RFC3339),
		Players:    make([]tournament.Player, 0, len(players)),
		Matches:    make([]snapshot.Match, 0, len(matches)),
	}
	for _, p := range players {
		snap.Players = append(snap.Players, tournament.Player{ID: p.ID, Name: p.Name, Group: tournament.Group(p.Group)})
	}
	for _, m := range matches {
		snap.Matches = append(snap.Matches, snapshot.Match{
			ID:           m.ID,
			Player1ID:    m.Player1ID,
			Player2ID:    m.Player2ID,
			Group:        tournament.Group(m.Group),
			Player1Score: m.Player1Score,
			Player2Score: m.Player2Score,
			WinnerID:     m.WinnerID,
			Completed:    m.Completed,
			PlayedAt:     m.PlayedAt,
		})
	}
	if len(knockout) > 0 {
		snap.KnockoutMatches = make(map[bracket.StageID]bracket.Result, len(knockout))
		for _, k := range knockout {
			snap.KnockoutMatches[bracket.StageID(k.Stage)] = bracket.Result{
				Player1ID:    k.Player1ID,
				Player2ID:    k.Player2ID,
				Player1Score: k.Player1Score,
				Player2Score: k.Player2Score,
				WinnerID:     k.WinnerID,
				Completed:    k.Completed,
			}
		}
	}

	return snap, nil
}

// Save replaces the stored tournament with snap in one transaction
func (s *SnapshotStore) Save(ctx context.Context, snap snapshot.Snapshot) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := clearAll(ctx, tx); err != nil {
		return err
	}

	version := snap.Version
	if version == "" {
		version = snapshot.Version
	}
	if _, err := tx.NamedExecContext(ctx, insertMetaQuery, metaRow{Version: version, SavedAt: s.now().UTC()}); err != nil {
		return fmt.Errorf("failed to save snapshot meta: %w", err)
	}

	if len(snap.Players) > 0 {
		rows := make([]playerRow, 0, len(snap.Players))
		for i, p := range snap.Players {
			rows = append(rows, playerRow{ID: p.ID, Name: p.Name, Group: string(p.Group), Position: i})
		}
		if _, err := tx.NamedExecContext(ctx, insertPlayerQuery, rows); err != nil {
			return fmt.Errorf("failed to save players: %w", err)
		}
	}

	if len(snap.Matches) > 0 {
		rows := make([]matchRow, 0, len(snap.Matches))
		for i, m := range snap.Matches {
			rows = append(rows, matchRow{
				ID:           m.ID,
				Player1ID:    m.Player1ID,
				Player2ID:    m.Player2ID,
				Group:        string(m.Group),
				Player1Score: m.Player1Score,
				Player2Score: m.Player2Score,
				WinnerID:     m.WinnerID,
				Completed:    m.Completed,
				PlayedAt:     m.PlayedAt,
				Position:     i,
			})
		}
		if _, err := tx.NamedExecContext(ctx, insertMatchQuery, rows); err != nil {
			return fmt.Errorf("failed to save matches: %w", err)
		}
	}

	if len(snap.KnockoutMatches) > 0 {
		rows := make([]knockoutRow, 0, len(snap.KnockoutMatches))
		for stage, r := range snap.KnockoutMatches {
			rows = append(rows, knockoutRow{
				Stage:        string(stage),
				Player1ID:    r.Player1ID,
				Player2ID:    r.Player2ID,
				Player1Score: r.Player1Score,
				Player2Score: r.Player2Score,
				WinnerID:     r.WinnerID,
				Completed:    r.Completed,
			})
		}
		if _, err := tx.NamedExecContext(ctx, insertKnockoutQuery, rows); err != nil {
			return fmt.Errorf("failed to save knockout matches: %w", err)
		}
	}

	return tx.Commit()
}

// Clear removes the saved tournament; the next Load returns ErrNotFound
func (s *SnapshotStore) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := clearAll(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

func clearAll(ctx context.Context, tx *sqlx.Tx) error {
	for _, q := range clearQueries {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to clear saved tournament: %w", err)
		}
	}
	return nil
}
