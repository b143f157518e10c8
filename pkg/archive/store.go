// Package archive records evolutionary runs: one row per run, one row per
// generation per island, stored in SQLite and exportable to Parquet for
// offline analysis.
package archive

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/XiaoConstantine/evo-go/pkg/core"
	"github.com/XiaoConstantine/evo-go/pkg/errors"
	"github.com/XiaoConstantine/evo-go/pkg/logging"
)

// Store is a SQLite-backed run archive. Safe for use from multiple island
// workers; statements run under one mutex.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// GenerationStats is one archived generation of one island.
type GenerationStats struct {
	RunID      string
	Generation int
	Island     int
	Size       int
	Best       float64
	Worst      float64
	Mean       float64
	RecordedAt time.Time
}

// NewStore opens (or creates) an archive database. ":memory:" works for
// tests.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.Unknown, "failed to open archive database"),
			errors.Fields{"path": path},
		)
	}

	// WAL keeps island workers from serializing on the journal.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.Unknown, "failed to enable WAL mode")
	}

	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		stable_size INTEGER NOT NULL,
		num_chromosomes INTEGER NOT NULL,
		len_chromosomes INTEGER NOT NULL,
		scheme TEXT NOT NULL,
		elitism TEXT NOT NULL,
		crossover_ratio REAL NOT NULL,
		mutation_ratio REAL NOT NULL,
		migration_ratio REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS generations (
		run_id TEXT NOT NULL REFERENCES runs(id),
		generation INTEGER NOT NULL,
		island INTEGER NOT NULL,
		size INTEGER NOT NULL,
		best REAL NOT NULL,
		worst REAL NOT NULL,
		mean REAL NOT NULL,
		recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (run_id, generation, island)
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, errors.Unknown, "failed to initialize archive schema")
	}

	return &Store{db: db, path: path}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginRun registers a run and returns its id.
func (s *Store) BeginRun(ctx context.Context, pop *core.Population) (string, error) {
	runID := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, stable_size, num_chromosomes, len_chromosomes,
			scheme, elitism, crossover_ratio, mutation_ratio, migration_ratio)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, pop.StableSize(), pop.NumChromosomes(), pop.LenChromosomes(),
		pop.Scheme.String(), pop.Elitism.String(),
		pop.CrossoverRatio, pop.MutationRatio, pop.MigrationRatio)
	if err != nil {
		return "", errors.WithFields(
			errors.Wrap(err, errors.Unknown, "failed to register run"),
			errors.Fields{"run_id": runID},
		)
	}

	logging.GetLogger().Debug(ctx, "archive run %s started for population %d", runID, pop.ID())
	return runID, nil
}

// RecordGeneration archives the population's current fitness statistics.
// The population is assumed sorted, so rank 0 is the best entity.
func (s *Store) RecordGeneration(ctx context.Context, runID string, pop *core.Population) error {
	best := pop.EntityByRank(0).Fitness
	worst := pop.EntityByRank(pop.Size() - 1).Fitness
	sum := 0.0
	for rank := 0; rank < pop.Size(); rank++ {
		sum += pop.EntityByRank(rank).Fitness
	}
	mean := sum / float64(pop.Size())

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO generations (run_id, generation, island, size, best, worst, mean)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, pop.Generation(), pop.Island(), pop.Size(), best, worst, mean)
	if err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.Unknown, "failed to archive generation"),
			errors.Fields{"run_id": runID, "generation": pop.Generation()},
		)
	}
	return nil
}

// GenerationHook wraps RecordGeneration as an engine hook that never stops
// the run. Archive failures are logged, not fatal.
func (s *Store) GenerationHook(runID string) core.GenerationHook {
	return func(generation int, pop *core.Population) bool {
		ctx := context.Background()
		if err := s.RecordGeneration(ctx, runID, pop); err != nil {
			logging.GetLogger().Error(ctx, "archive write failed: %v", err)
		}
		return true
	}
}

// History returns a run's archived generations ordered by generation then
// island.
func (s *Store) History(ctx context.Context, runID string) ([]GenerationStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, generation, island, size, best, worst, mean, recorded_at
		FROM generations WHERE run_id = ?
		ORDER BY generation, island`, runID)
	if err != nil {
		return nil, errors.Wrap(err, errors.Unknown, "failed to query run history")
	}
	defer rows.Close()

	var history []GenerationStats
	for rows.Next() {
		var gs GenerationStats
		if err := rows.Scan(&gs.RunID, &gs.Generation, &gs.Island, &gs.Size,
			&gs.Best, &gs.Worst, &gs.Mean, &gs.RecordedAt); err != nil {
			return nil, errors.Wrap(err, errors.Unknown, "failed to scan generation row")
		}
		history = append(history, gs)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.Unknown, "failed to read run history")
	}
	return history, nil
}
