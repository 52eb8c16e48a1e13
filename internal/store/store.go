package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/llm"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("store: report not found")

// Report is one completed analysis together with the reviews it was run on.
type Report struct {
	ID          string             `json:"id"`
	DashboardID string             `json:"dashboardId"`
	Mode        string             `json:"mode"`
	Reviews     string             `json:"reviews"`
	Result      llm.AnalysisResult `json:"result"`
	CreatedAt   time.Time          `json:"createdAt"`
}

type ReportSummary struct {
	ID           string    `json:"id"`
	DashboardID  string    `json:"dashboardId"`
	Mode         string    `json:"mode"`
	Summary      string    `json:"summary"`
	AverageScore float64   `json:"averageScore"`
	Points       int       `json:"points"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Store archives reports in SQLite.
type Store struct {
	db *sql.DB
}

const createTablesSQL = `
CREATE TABLE IF NOT EXISTS reports (
	id TEXT PRIMARY KEY,
	dashboard_id TEXT NOT NULL,
	mode TEXT NOT NULL,
	reviews TEXT NOT NULL,
	result TEXT NOT NULL,
	summary TEXT NOT NULL,
	average_score REAL NOT NULL,
	points INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS reports_created_at ON reports (created_at DESC);
`

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set WAL mode: %w", err)
	}

	if _, err := db.Exec(createTablesSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create tables: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) SaveReport(ctx context.Context, r Report) error {
	result, err := json.Marshal(r.Result)
	if err != nil {
		return fmt.Errorf("store: encode report %s: %w", r.ID, err)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO reports (id, dashboard_id, mode, reviews, result, summary, average_score, points, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.DashboardID, r.Mode, r.Reviews, string(result), r.Result.Summary,
		averageScore(r.Result.SentimentTrend), len(r.Result.SentimentTrend), r.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("store: save report %s: %w", r.ID, err)
	}
	return nil
}

func (s *Store) GetReport(ctx context.Context, id string) (*Report, error) {
	var (
		r         Report
		result    string
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, dashboard_id, mode, reviews, result, created_at FROM reports WHERE id = ?`, id,
	).Scan(&r.ID, &r.DashboardID, &r.Mode, &r.Reviews, &result, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get report %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(result), &r.Result); err != nil {
		return nil, fmt.Errorf("store: decode report %s: %w", id, err)
	}
	r.CreatedAt = time.UnixMilli(createdAt)
	return &r, nil
}

// ListReports returns the newest reports first.
func (s *Store) ListReports(ctx context.Context, limit int) ([]ReportSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, dashboard_id, mode, summary, average_score, points, created_at
		 FROM reports ORDER BY created_at DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list reports: %w", err)
	}
	defer rows.Close()

	var out []ReportSummary
	for rows.Next() {
		var (
			r         ReportSummary
			createdAt int64
		)
		if err := rows.Scan(&r.ID, &r.DashboardID, &r.Mode, &r.Summary, &r.AverageScore, &r.Points, &createdAt); err != nil {
			return nil, fmt.Errorf("store: scan report: %w", err)
		}
		r.CreatedAt = time.UnixMilli(createdAt)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list reports: %w", err)
	}
	return out, nil
}

func averageScore(points []llm.SentimentPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range points {
		sum += p.SentimentScore
	}
	return sum / float64(len(points))
}
