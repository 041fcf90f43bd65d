package database

import (
	"context"
	"crypto/sha1"
	"embed"
	"encoding/binary"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"

	"qc-dashboard/internal/core/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

//go:embed migrations/*.up.sql
var embedded embed.FS

// Migration is one versioned SQL file.
type Migration struct {
	Version int64
	Name    string
	SQL     string
}

// Migrate applies the embedded migrations that are not yet recorded.
func Migrate(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	migs, err := LoadMigrations(embedded, "migrations")
	if err != nil {
		return 0, fmt.Errorf("load migrations: %w", err)
	}
	return RunMigrations(ctx, pool, migs)
}

// RunMigrations applies migs in version order, each in its own transaction, and returns
// how many were applied. A session advisory lock keeps concurrent instances from racing.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, migs []Migration) (int, error) {
	if len(migs) == 0 {
		return 0, nil
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire conn: %w", err)
	}
	defer conn.Release()

	lockID := advisoryLockID("qc_dashboard_migrations")
	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, lockID); err != nil {
		return 0, fmt.Errorf("advisory lock: %w", err)
	}
	defer func() { _, _ = conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, lockID) }()

	if _, err := conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    BIGINT PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL
		)
	`); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}

	applied, err := appliedVersions(ctx, conn.Conn())
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range migs {
		if applied[m.Version] {
			continue
		}

		tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
		if err != nil {
			return count, fmt.Errorf("begin tx (v=%d): %w", m.Version, err)
		}

		if _, err := tx.Exec(ctx, m.SQL); err != nil {
			_ = tx.Rollback(ctx)
			return count, fmt.Errorf("exec migration (v=%d, %s): %w", m.Version, m.Name, err)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO schema_migrations (version, name, applied_at)
			VALUES ($1, $2, now())
		`, m.Version, m.Name); err != nil {
			_ = tx.Rollback(ctx)
			return count, fmt.Errorf("record migration (v=%d): %w", m.Version, err)
		}

		if err := tx.Commit(ctx); err != nil {
			return count, fmt.Errorf("commit migration (v=%d): %w", m.Version, err)
		}

		logger.Get().Info("Migration applied", zap.Int64("version", m.Version), zap.String("name", m.Name))
		count++
	}

	return count, nil
}

func appliedVersions(ctx context.Context, conn *pgx.Conn) (map[int64]bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := conn.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("query schema_migrations: %w", err)
	}

	versions, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan versions: %w", err)
	}

	out := make(map[int64]bool, len(versions))
	for _, v := range versions {
		out[v] = true
	}
	return out, nil
}

// LoadMigrations reads every NNNN_name.up.sql file in dir of fsys, sorted by version.
func LoadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("readdir %s: %w", dir, err)
	}

	var migs []Migration
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}

		version, ok := parseVersion(name)
		if !ok {
			return nil, fmt.Errorf("invalid migration filename: %s (expected like 0001_name.up.sql)", name)
		}

		b, err := fs.ReadFile(fsys, dir+"/"+name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}

		migs = append(migs, Migration{Version: version, Name: name, SQL: string(b)})
	}

	sort.Slice(migs, func(i, j int) bool { return migs[i].Version < migs[j].Version })
	return migs, nil
}

func parseVersion(filename string) (int64, bool) {
	parts := strings.SplitN(filename, "_", 2)
	if len(parts) < 2 {
		return 0, false
	}
	v, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func advisoryLockID(key string) int64 {
	sum := sha1.Sum([]byte(key))
	return int64(binary.BigEndian.Uint64(sum[:8]))
}
