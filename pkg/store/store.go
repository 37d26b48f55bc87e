package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/shouni/go-creative-kit/pkg/domain"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// ErrProjectNotFound は指定名のプロジェクトが保存されていない場合のエラーです。
var ErrProjectNotFound = errors.New("project not found")

// ProjectInfo は保存済みプロジェクトの一覧表示用の情報です。
type ProjectInfo struct {
	Name    string    `json:"name"`
	SavedAt time.Time `json:"saved_at"`
}

// Project は保存済みのシーンとプレビュー画像です。
type Project struct {
	ProjectInfo
	Scene   domain.Scene `json:"scene"`
	Preview []byte       `json:"-"`
}

// Store はプロジェクトと保存色を SQLite に保持するローカルストアです。
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open は SQLite ファイルを開き、スキーマを適用します。
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path は必須です")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close は接続を閉じます。
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveProject はシーンを名前付きで保存します。同名のプロジェクトは上書きされます。
func (s *Store) SaveProject(ctx context.Context, name string, scene domain.Scene, preview []byte) (ProjectInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ProjectInfo{}, fmt.Errorf("project name は必須です")
	}
	snap, err := scene.Encode()
	if err != nil {
		return ProjectInfo{}, err
	}
	savedAt := s.now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO projects (name, scene_json, preview, saved_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET scene_json = excluded.scene_json, preview = excluded.preview, saved_at = excluded.saved_at`,
		name, []byte(snap), preview, savedAt.UnixMilli(),
	)
	if err != nil {
		return ProjectInfo{}, fmt.Errorf("save project %q: %w", name, err)
	}
	return ProjectInfo{Name: name, SavedAt: time.UnixMilli(savedAt.UnixMilli()).UTC()}, nil
}

// LoadProject は保存済みのプロジェクトを読み込みます。
func (s *Store) LoadProject(ctx context.Context, name string) (Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT name, scene_json, preview, saved_at FROM projects WHERE name = ?`,
		strings.TrimSpace(name),
	)
	var (
		p       Project
		data    []byte
		savedAt int64
	)
	if err := row.Scan(&p.Name, &data, &p.Preview, &savedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Project{}, fmt.Errorf("%w: %q", ErrProjectNotFound, name)
		}
		return Project{}, fmt.Errorf("load project %q: %w", name, err)
	}
	scene, err := domain.DecodeScene(data)
	if err != nil {
		return Project{}, err
	}
	p.Scene = scene
	p.SavedAt = time.UnixMilli(savedAt).UTC()
	return p, nil
}

// ListProjects は保存済みプロジェクトを新しい順に返します。
func (s *Store) ListProjects(ctx context.Context) ([]ProjectInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, saved_at FROM projects ORDER BY saved_at DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []ProjectInfo
	for rows.Next() {
		var (
			info    ProjectInfo
			savedAt int64
		)
		if err := rows.Scan(&info.Name, &savedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		info.SavedAt = time.UnixMilli(savedAt).UTC()
		out = append(out, info)
	}
	return out, rows.Err()
}

// DeleteProject はプロジェクトを削除します。
func (s *Store) DeleteProject(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE name = ?`, strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("delete project %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrProjectNotFound, name)
	}
	return nil
}

// AddColor は色を保存色の末尾に追加します。既にある色は無視して false を返します。
func (s *Store) AddColor(ctx context.Context, hex string) (bool, error) {
	hex = strings.ToLower(strings.TrimSpace(hex))
	if hex == "" {
		return false, fmt.Errorf("color は必須です")
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO saved_colors (hex) VALUES (?) ON CONFLICT(hex) DO NOTHING`, hex)
	if err != nil {
		return false, fmt.Errorf("save color %q: %w", hex, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SaveColors は複数の色を順に追加します。
func (s *Store) SaveColors(ctx context.Context, colors []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	for _, c := range colors {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO saved_colors (hex) VALUES (?) ON CONFLICT(hex) DO NOTHING`, c); err != nil {
			return fmt.Errorf("save color %q: %w", c, err)
		}
	}
	return tx.Commit()
}

// RemoveColor は保存色から削除します。
func (s *Store) RemoveColor(ctx context.Context, hex string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM saved_colors WHERE hex = ?`, strings.ToLower(strings.TrimSpace(hex)))
	if err != nil {
		return fmt.Errorf("remove color %q: %w", hex, err)
	}
	return nil
}

// LoadColors は保存色を追加した順に返します。
func (s *Store) LoadColors(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT hex FROM saved_colors ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("load colors: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var hex string
		if err := rows.Scan(&hex); err != nil {
			return nil, fmt.Errorf("scan color: %w", err)
		}
		out = append(out, hex)
	}
	return out, rows.Err()
}
