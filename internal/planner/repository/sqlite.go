package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"scaff-planner/internal/planner/models"
)

var ErrNotFound = errors.New("project not found")

//go:embed migrations/*.sql
var migrations embed.FS

// ============================================================
// SQLite Repository
// ============================================================

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init applies the embedded migrations in file name order.
func (r *Repository) Init(ctx context.Context) error {
	if err := r.runMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// projectData is the JSON column; id, name and timestamps live in their own
// columns.
type projectData struct {
	Walls    []models.Wall       `json:"walls"`
	Eaves    []models.Eave       `json:"eaves"`
	Settings models.EaveSettings `json:"settings"`
}

// Save inserts or replaces a project. created_at of an existing row is kept.
func (r *Repository) Save(ctx context.Context, p models.Project) error {
	data, err := json.Marshal(projectData{Walls: p.Walls, Eaves: p.Eaves, Settings: p.Settings})
	if err != nil {
		return fmt.Errorf("encode project %s: %w", p.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
        INSERT INTO projects (id, name, wall_count, data, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            name = excluded.name,
            wall_count = excluded.wall_count,
            data = excluded.data,
            updated_at = excluded.updated_at
    `, p.ID, p.Name, len(p.Walls), string(data), formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("save project %s: %w", p.ID, err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*models.Project, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, data, created_at, updated_at
        FROM projects
        WHERE id = ?
    `, id)

	var (
		p                models.Project
		data             string
		created, updated string
	)
	if err := row.Scan(&p.ID, &p.Name, &data, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get project %s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	var pd projectData
	if err := json.Unmarshal([]byte(data), &pd); err != nil {
		return nil, fmt.Errorf("decode project %s: %w", id, err)
	}
	p.Walls, p.Eaves, p.Settings = pd.Walls, pd.Eaves, pd.Settings

	var err error
	if p.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns project headers, most recently updated first.
func (r *Repository) List(ctx context.Context) ([]models.ProjectInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, wall_count, updated_at
        FROM projects
        ORDER BY updated_at DESC, id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ProjectInfo{}
	for rows.Next() {
		var (
			info    models.ProjectInfo
			updated string
		)
		if err := rows.Scan(&info.ID, &info.Name, &info.WallCount, &updated); err != nil {
			return nil, err
		}
		if info.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("delete project %s: %w", id, ErrNotFound)
	}
	return nil
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(ctx context.Context) error {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}

// ============================================================
// Helpers
// ============================================================

// Timestamps are stored as fixed-width UTC text so ORDER BY sorts them.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// OpenSQLite opens (and creates when missing) the database at dbPath.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
