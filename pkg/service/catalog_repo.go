// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bobishh/quitter/pkg/tracker"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const catalogSchema = `
CREATE TABLE IF NOT EXISTS habits (
    id         UUID PRIMARY KEY,
    slug       TEXT NOT NULL UNIQUE,
    name       TEXT NOT NULL,
    icon       TEXT NOT NULL DEFAULT '',
    unit_name  TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS themes (
    id         UUID PRIMARY KEY,
    name       TEXT NOT NULL,
    css        TEXT NOT NULL DEFAULT '',
    icon_limit BIGINT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// pgxQuerier is the subset of *pgxpool.Pool the repository uses.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresCatalogRepository stores habits and themes in PostgreSQL.
type PostgresCatalogRepository struct {
	db pgxQuerier
}

// NewPostgresCatalogRepository creates a repository over an open pool.
func NewPostgresCatalogRepository(db *pgxpool.Pool) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{db: db}
}

// NewPostgresPool opens and pings a connection pool.
func NewPostgresPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse db config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1
	poolCfg.MaxConnIdleTime = time.Minute

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	return pool, nil
}

// Migrate creates the catalog tables when missing.
func (r *PostgresCatalogRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, catalogSchema); err != nil {
		return fmt.Errorf("failed to migrate catalog schema: %w", err)
	}
	logrus.Info("catalog schema is up to date")
	return nil
}

// Seed upserts every entry of src.
func (r *PostgresCatalogRepository) Seed(ctx context.Context, src CatalogSource) error {
	habits, err := src.ListHabits(ctx)
	if err != nil {
		return err
	}
	for _, h := range habits {
		if err := r.InsertHabit(ctx, h); err != nil {
			return err
		}
	}

	themes, err := src.ListThemes(ctx)
	if err != nil {
		return err
	}
	for _, t := range themes {
		if err := r.InsertTheme(ctx, t); err != nil {
			return err
		}
	}

	logrus.Infof("seeded catalog with %d habits and %d themes", len(habits), len(themes))
	return nil
}

// ListHabits returns habits in creation order.
func (r *PostgresCatalogRepository) ListHabits(ctx context.Context) ([]tracker.Habit, error) {
	query := `
        SELECT id, slug, name, icon, unit_name
        FROM habits
        ORDER BY created_at, slug
    `

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		logrus.Errorf("failed to list habits: %v", err)
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	defer rows.Close()

	var habits []tracker.Habit
	for rows.Next() {
		var h tracker.Habit
		if err := rows.Scan(&h.ID, &h.Slug, &h.Name, &h.Icon, &h.UnitName); err != nil {
			logrus.Errorf("failed to scan habit: %v", err)
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}

	logrus.Debugf("listed %d habits", len(habits))
	return habits, nil
}

// ListThemes returns themes in creation order.
func (r *PostgresCatalogRepository) ListThemes(ctx context.Context) ([]tracker.Theme, error) {
	query := `
        SELECT id, name, css, icon_limit
        FROM themes
        ORDER BY created_at, name
    `

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		logrus.Errorf("failed to list themes: %v", err)
		return nil, fmt.Errorf("failed to list themes: %w", err)
	}
	defer rows.Close()

	var themes []tracker.Theme
	for rows.Next() {
		var (
			t     tracker.Theme
			limit *int64
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.CSS, &limit); err != nil {
			logrus.Errorf("failed to scan theme: %v", err)
			return nil, fmt.Errorf("failed to scan theme: %w", err)
		}
		if limit != nil && *limit >= 0 {
			v := uint32(*limit)
			t.IconLimit = &v
		}
		themes = append(themes, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list themes: %w", err)
	}

	logrus.Debugf("listed %d themes", len(themes))
	return themes, nil
}

// InsertHabit stores a habit. A habit whose id already exists is updated.
func (r *PostgresCatalogRepository) InsertHabit(ctx context.Context, h tracker.Habit) error {
	query := `
        INSERT INTO habits (id, slug, name, icon, unit_name)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (id) DO UPDATE
        SET slug = EXCLUDED.slug, name = EXCLUDED.name,
            icon = EXCLUDED.icon, unit_name = EXCLUDED.unit_name
    `
	if _, err := r.db.Exec(ctx, query, h.ID, h.Slug, h.Name, h.Icon, h.UnitName); err != nil {
		logrus.Errorf("failed to insert habit %s: %v", h.Slug, err)
		return fmt.Errorf("failed to insert habit %s: %w", h.Slug, err)
	}

	logrus.Infof("stored habit %s (%s)", h.Slug, h.ID)
	return nil
}

// InsertTheme stores a theme. A theme whose id already exists is updated.
func (r *PostgresCatalogRepository) InsertTheme(ctx context.Context, t tracker.Theme) error {
	var limit *int64
	if t.IconLimit != nil {
		v := int64(*t.IconLimit)
		limit = &v
	}

	query := `
        INSERT INTO themes (id, name, css, icon_limit)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (id) DO UPDATE
        SET name = EXCLUDED.name, css = EXCLUDED.css, icon_limit = EXCLUDED.icon_limit
    `
	if _, err := r.db.Exec(ctx, query, t.ID, t.Name, t.CSS, limit); err != nil {
		logrus.Errorf("failed to insert theme %s: %v", t.ID, err)
		return fmt.Errorf("failed to insert theme %s: %w", t.ID, err)
	}

	logrus.Infof("stored theme %s (%s)", t.Name, t.ID)
	return nil
}
