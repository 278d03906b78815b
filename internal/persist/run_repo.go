package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run describes how a simulation run was started.
type Run struct {
	ID        uuid.UUID
	Source    string // "random", "scenario:<path>" or "script:<path>"
	Seed      int64
	Width     int
	Height    int
	Regular   int
	Monster   int
	Repellent int
	StartedAt time.Time
}

// CollisionRow is one resolved collision of a run.
type CollisionRow struct {
	Tick        int
	Interaction string
	SourceID    uint64
	SourceKind  string
	TargetID    uint64
	TargetKind  string
}

// RunSummary is written once when a run stops.
type RunSummary struct {
	ID         uuid.UUID
	Ticks      int
	Survivors  int
	Finished   bool // false when the run was interrupted or hit max ticks
	Digest     uint64
	FinishedAt time.Time
}

// RunRepo records run results. Runs are never read back into a simulation.
type RunRepo struct {
	db *DB
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

func (r *RunRepo) StartRun(ctx context.Context, run Run) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO runs (id, source, seed, width, height, regular, monster, repellent, started_at)
		 VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9)`,
		run.ID.String(), run.Source, run.Seed, run.Width, run.Height,
		run.Regular, run.Monster, run.Repellent, run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// AppendCollisions writes a batch of collisions in a single transaction.
func (r *RunRepo) AppendCollisions(ctx context.Context, runID uuid.UUID, rows []CollisionRow) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("collisions begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, c := range rows {
		if _, err := tx.Exec(ctx,
			`INSERT INTO run_collisions (run_id, tick, interaction, source_id, source_kind, target_id, target_kind)
			 VALUES ($1::uuid, $2, $3, $4, $5, $6, $7)`,
			runID.String(), c.Tick, c.Interaction, int64(c.SourceID), c.SourceKind, int64(c.TargetID), c.TargetKind,
		); err != nil {
			return fmt.Errorf("collisions insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *RunRepo) FinishRun(ctx context.Context, s RunSummary) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE runs SET finished_at = $2, ticks = $3, survivors = $4, finished = $5, digest = $6
		 WHERE id = $1::uuid`,
		s.ID.String(), s.FinishedAt, s.Ticks, s.Survivors, s.Finished, int64(s.Digest),
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}
