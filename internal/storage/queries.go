package storage

import (
	"database/sql"
	"time"

	"github.com/zheng/documember/internal/coverage"
	"github.com/zheng/documember/internal/summary"
)

// Run is one recorded coverage snapshot.
type Run struct {
	ID     int64  `json:"id"`
	Target string `json:"target"`
	// Config is the walk-flag fingerprint the snapshot was taken with,
	// so differently filtered runs are not compared as equals.
	Config     string                                 `json:"config,omitempty"`
	CreatedAt  time.Time                              `json:"created_at"`
	Total      int                                    `json:"total"`
	Documented int                                    `json:"documented"`
	ByKind     map[summary.MemberKind]coverage.Counts `json:"by_kind,omitempty"`
}

// Percent returns the documented share of the snapshot in percent.
func (r *Run) Percent() float64 {
	return coverage.Counts{Total: r.Total, Documented: r.Documented}.Percent()
}

// InsertRun records a coverage snapshot and returns its ID. Config is
// an opaque fingerprint of the walk flags the audit ran with.
func (db *DB) InsertRun(target, config string, stats *coverage.Stats) (int64, error) {
	result, err := db.conn.Exec(
		`INSERT INTO runs (target, config, created_at, total, documented)
		 VALUES (?, ?, ?, ?, ?)`,
		target, config, time.Now().UTC().Format(time.RFC3339), stats.Total.Total, stats.Total.Documented,
	)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	for kind, counts := range stats.ByKind {
		if _, err := db.conn.Exec(
			`INSERT INTO run_counts (run_id, kind, total, documented) VALUES (?, ?, ?, ?)`,
			id, string(kind), counts.Total, counts.Documented,
		); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// ListRuns returns recorded snapshots, newest first. An empty target
// matches all targets; limit 0 means no limit.
func (db *DB) ListRuns(target string, limit int) ([]*Run, error) {
	query := `SELECT id, target, config, created_at, total, documented FROM runs`
	var args []any
	if target != "" {
		query += ` WHERE target = ?`
		args = append(args, target)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRuns(rows)
}

// GetRun returns one snapshot with its per-kind counts
func (db *DB) GetRun(id int64) (*Run, error) {
	row := db.conn.QueryRow(
		`SELECT id, target, config, created_at, total, documented FROM runs WHERE id = ?`, id,
	)
	run, err := scanRun(row)
	if err != nil {
		return nil, err
	}

	rows, err := db.conn.Query(
		`SELECT kind, total, documented FROM run_counts WHERE run_id = ?`, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	run.ByKind = map[summary.MemberKind]coverage.Counts{}
	for rows.Next() {
		var kind string
		var counts coverage.Counts
		if err := rows.Scan(&kind, &counts.Total, &counts.Documented); err != nil {
			return nil, err
		}
		run.ByKind[summary.MemberKind(kind)] = counts
	}
	return run, rows.Err()
}

// DeleteRunsByTarget removes all snapshots for a target and returns the
// number deleted
func (db *DB) DeleteRunsByTarget(target string) (int64, error) {
	result, err := db.conn.Exec(`DELETE FROM runs WHERE target = ?`, target)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// GetStats returns the number of snapshots and distinct targets
func (db *DB) GetStats() (runs int64, targets int64, err error) {
	if err = db.conn.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&runs); err != nil {
		return 0, 0, err
	}
	if err = db.conn.QueryRow(`SELECT COUNT(DISTINCT target) FROM runs`).Scan(&targets); err != nil {
		return 0, 0, err
	}
	return runs, targets, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var createdAt string
	if err := row.Scan(&run.ID, &run.Target, &run.Config, &createdAt, &run.Total, &run.Documented); err != nil {
		return nil, err
	}
	ts, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, err
	}
	run.CreatedAt = ts
	return &run, nil
}

func scanRuns(rows *sql.Rows) ([]*Run, error) {
	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
