// Package sqlite 单机部署用的分数仓库，库文件放在本地磁盘。
package sqlite

import (
	player "NavalWar/internal/player/entity"
	"NavalWar/internal/world/infra/persistence/sqlite/migrations"
	"NavalWar/modules/kit/errx"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const (
	OpLoadScore  = "repo.score.LoadScore"
	OpSaveScores = "repo.score.SaveScores"

	migrationTable = "schema_migrations"
)

type ScoreRepository struct {
	db *sql.DB
}

// Open 打开库文件并执行内嵌迁移。
func Open(path string) (*ScoreRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &ScoreRepository{db: db}, nil
}

func (r *ScoreRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *ScoreRepository) LoadScore(ctx context.Context, id player.PlayerID) (int, error) {
	var score int
	err := r.db.QueryRowContext(ctx, `SELECT score FROM player_score WHERE player_id = ?`, int(id)).Scan(&score)
	switch {
	case err == nil:
		return score, nil
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	default:
		return 0, errx.ErrUnavailable.WithCause(err).WithData("op", OpLoadScore).WithData("player_id", int(id))
	}
}

// SaveScores 批量 upsert；库里版本更高的记录不会被旧快照覆盖。
func (r *ScoreRepository) SaveScores(ctx context.Context, scores []player.ScorePersistSnapshot) error {
	if len(scores) == 0 {
		return nil
	}
	if err := r.saveScores(ctx, scores); err != nil {
		return errx.ErrUnavailable.WithCause(err).WithData("op", OpSaveScores).WithData("count", len(scores))
	}
	return nil
}

func (r *ScoreRepository) saveScores(ctx context.Context, scores []player.ScorePersistSnapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO player_score (player_id, score, bot, version, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(player_id) DO UPDATE SET
    score = excluded.score,
    bot = excluded.bot,
    version = excluded.version,
    updated_at = excluded.updated_at
WHERE excluded.version >= player_score.version`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().UnixMilli()
	for _, s := range scores {
		if _, err := stmt.ExecContext(ctx, int(s.PlayerID), s.Score, s.Bot, int64(s.Version), now); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// applyMigrations 按文件名顺序执行一次，已执行的记在 schema_migrations。
func applyMigrations(db *sql.DB, migrationFS fs.FS) error {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS ` + migrationTable + ` (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}

	for _, name := range files {
		var found int
		err := db.QueryRow(`SELECT 1 FROM `+migrationTable+` WHERE name = ?`, name).Scan(&found)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check migration %s: %w", name, err)
		}

		content, err := fs.ReadFile(migrationFS, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		up := upSection(string(content))
		if strings.TrimSpace(up) == "" {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", name, err)
		}
		if _, err := tx.Exec(up); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("exec migration %s: %w", name, err)
		}
		if _, err := tx.Exec(`INSERT OR IGNORE INTO `+migrationTable+` (name, applied_at) VALUES (?, ?)`, name, time.Now().UTC().UnixMilli()); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", name, err)
		}
	}
	return nil
}

func upSection(content string) string {
	const up, down = "-- +migrate Up", "-- +migrate Down"
	i := strings.Index(content, up)
	if i == -1 {
		return content
	}
	content = content[i+len(up):]
	if j := strings.Index(content, down); j != -1 {
		content = content[:j]
	}
	return content
}
