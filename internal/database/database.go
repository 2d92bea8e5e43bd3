package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/scythe504/typerace-backend/internal/utils"
)

var ErrNoSentenceSets = errors.New("no sentence sets stored")

const schema = `
CREATE TABLE IF NOT EXISTS sentence_sets (
	id        SERIAL PRIMARY KEY,
	name      TEXT NOT NULL UNIQUE,
	sentences TEXT[] NOT NULL
)`

// Service is the Postgres-backed sentence corpus. It satisfies the engine's
// sentence provider contract.
type Service struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Service, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	log.Info().
		Str("host", cfg.ConnConfig.Host).
		Str("database", cfg.ConnConfig.Database).
		Msg("connected to database")

	return &Service{pool: pool}, nil
}

func (s *Service) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create sentence_sets: %w", err)
	}
	return nil
}

// SeedSentenceSets upserts sets by name in one transaction.
func (s *Service) SeedSentenceSets(ctx context.Context, sets []utils.SentenceSet) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, set := range sets {
		_, err := tx.Exec(ctx, `
			INSERT INTO sentence_sets (name, sentences) VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET sentences = EXCLUDED.sentences
		`, set.Name, set.Sentences)
		if err != nil {
			return fmt.Errorf("failed to upsert sentence set %q: %w", set.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	log.Info().Int("sets", len(sets)).Msg("sentence sets seeded")
	return nil
}

func (s *Service) CountSentenceSets(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM sentence_sets`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count sentence sets: %w", err)
	}
	return n, nil
}

// SentenceSet returns one non-empty stored set, chosen at random.
func (s *Service) SentenceSet(ctx context.Context) ([]string, error) {
	var sentences []string
	err := s.pool.QueryRow(ctx, `
		SELECT sentences FROM sentence_sets
		WHERE cardinality(sentences) > 0
		ORDER BY random()
		LIMIT 1
	`).Scan(&sentences)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSentenceSets
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select sentence set: %w", err)
	}
	return sentences, nil
}

// Health reports pool status as a flat map for the health route.
func (s *Service) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	stats := make(map[string]string)
	if err := s.pool.Ping(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		log.Warn().Err(err).Msg("database health check failed")
		return stats
	}

	pool := s.pool.Stat()
	stats["status"] = "up"
	stats["total_connections"] = strconv.Itoa(int(pool.TotalConns()))
	stats["idle_connections"] = strconv.Itoa(int(pool.IdleConns()))
	stats["acquired_connections"] = strconv.Itoa(int(pool.AcquiredConns()))
	stats["max_connections"] = strconv.Itoa(int(pool.MaxConns()))
	return stats
}

func (s *Service) Close() {
	log.Info().Msg("disconnected from database")
	s.pool.Close()
}
