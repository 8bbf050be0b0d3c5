/*
Package sqlite provides SQLite-backed persistence for the allocation engine's
inputs: tasks, WBS assignees, company holidays, and user schedules.

PURPOSE:
  The engine itself is pure computation over fully materialized inputs; this
  package is the surrounding CRUD that materializes them. In production the
  same patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  tasks:          Planned/actual effort per WBS task (yotei/jisseki kosu)
  assignees:      User-to-WBS commitment rates
  holidays:       Company holiday calendar
  user_schedules: Personal commitments that reduce daily availability

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. With PostgreSQL, database-level
  concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers don't block
  and crash recovery is cleaner.

USAGE:
  store, err := sqlite.New("./data/workload.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - api/handlers.go: HTTP surface over this store
  - wbs: the value objects these records rehydrate into
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/workload-engine/wbs"
)

// Store persists the engine's input records.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at the given path. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		task_id TEXT PRIMARY KEY,
		wbs_id TEXT NOT NULL,
		task_name TEXT NOT NULL,
		phase TEXT,
		assignee_user_id TEXT,
		yotei_start TEXT NOT NULL,
		yotei_end TEXT,
		yotei_kosu TEXT NOT NULL,
		jisseki_kosu TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_wbs ON tasks(wbs_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(assignee_user_id);

	CREATE TABLE IF NOT EXISTS assignees (
		wbs_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		rate REAL NOT NULL,
		PRIMARY KEY (wbs_id, user_id)
	);

	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		holiday_type TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_date ON holidays(date);

	CREATE TABLE IF NOT EXISTS user_schedules (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		title TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_schedules_user_date ON user_schedules(user_id, date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RECORDS
// =============================================================================

// TaskRecord is a stored task plus its optional assignee binding. The
// engine's Task value deliberately carries no assignee; the binding lives
// only at the persistence/API layer.
type TaskRecord struct {
	Task           wbs.Task
	AssigneeUserID *string
}

// =============================================================================
// TASKS
// =============================================================================

// SaveTask upserts a task and its assignee binding.
func (s *Store) SaveTask(ctx context.Context, rec TaskRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var yoteiEnd *string
	if rec.Task.YoteiEnd != nil {
		v := rec.Task.YoteiEnd.String()
		yoteiEnd = &v
	}
	var jisseki *string
	if rec.Task.JissekiKosu != nil {
		v := rec.Task.JissekiKosu.String()
		jisseki = &v
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (task_id, wbs_id, task_name, phase, assignee_user_id,
			yotei_start, yotei_end, yotei_kosu, jisseki_kosu, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(task_id) DO UPDATE SET
			wbs_id = excluded.wbs_id,
			task_name = excluded.task_name,
			phase = excluded.phase,
			assignee_user_id = excluded.assignee_user_id,
			yotei_start = excluded.yotei_start,
			yotei_end = excluded.yotei_end,
			yotei_kosu = excluded.yotei_kosu,
			jisseki_kosu = excluded.jisseki_kosu`,
		rec.Task.TaskID, rec.Task.WbsID, rec.Task.TaskName, rec.Task.Phase, rec.AssigneeUserID,
		rec.Task.YoteiStart.String(), yoteiEnd, rec.Task.YoteiKosu.String(), jisseki,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetTask loads one task by ID.
func (s *Store) GetTask(ctx context.Context, taskID string) (TaskRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT task_id, wbs_id, task_name, phase, assignee_user_id,
			yotei_start, yotei_end, yotei_kosu, jisseki_kosu
		FROM tasks WHERE task_id = ?`, taskID)

	rec, err := scanTask(row)
	if err == sql.ErrNoRows {
		return TaskRecord{}, wbs.ErrTaskNotFound
	}
	return rec, err
}

// ListTasks returns every task of a WBS, ordered by planned start.
func (s *Store) ListTasks(ctx context.Context, wbsID string) ([]TaskRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT task_id, wbs_id, task_name, phase, assignee_user_id,
			yotei_start, yotei_end, yotei_kosu, jisseki_kosu
		FROM tasks WHERE wbs_id = ? ORDER BY yotei_start, task_id`, wbsID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []TaskRecord
	for rows.Next() {
		rec, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListTasksByAssignee returns every task bound to one user in a WBS.
func (s *Store) ListTasksByAssignee(ctx context.Context, wbsID, userID string) ([]TaskRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT task_id, wbs_id, task_name, phase, assignee_user_id,
			yotei_start, yotei_end, yotei_kosu, jisseki_kosu
		FROM tasks WHERE wbs_id = ? AND assignee_user_id = ? ORDER BY yotei_start, task_id`,
		wbsID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []TaskRecord
	for rows.Next() {
		rec, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(ctx context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE task_id = ?`, taskID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return wbs.ErrTaskNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (TaskRecord, error) {
	var (
		taskID, wbsID, taskName string
		phase                   sql.NullString
		assigneeUserID          sql.NullString
		yoteiStart              string
		yoteiEnd                sql.NullString
		yoteiKosu               string
		jissekiKosu             sql.NullString
	)
	if err := row.Scan(&taskID, &wbsID, &taskName, &phase, &assigneeUserID,
		&yoteiStart, &yoteiEnd, &yoteiKosu, &jissekiKosu); err != nil {
		return TaskRecord{}, err
	}

	start, err := parseDate(yoteiStart)
	if err != nil {
		return TaskRecord{}, err
	}
	var end *wbs.Date
	if yoteiEnd.Valid {
		d, err := parseDate(yoteiEnd.String)
		if err != nil {
			return TaskRecord{}, err
		}
		end = &d
	}
	kosu, err := parseHours(yoteiKosu)
	if err != nil {
		return TaskRecord{}, err
	}
	var jisseki *wbs.Hours
	if jissekiKosu.Valid {
		h, err := parseHours(jissekiKosu.String)
		if err != nil {
			return TaskRecord{}, err
		}
		jisseki = &h
	}

	rec := TaskRecord{
		Task: wbs.ReconstructTask(wbsID, taskID, taskName, phase.String, start, end, kosu, jisseki),
	}
	if assigneeUserID.Valid {
		rec.AssigneeUserID = &assigneeUserID.String
	}
	return rec, nil
}

// =============================================================================
// ASSIGNEES
// =============================================================================

// SaveAssignee upserts a user's commitment rate on a WBS.
func (s *Store) SaveAssignee(ctx context.Context, wbsID string, a wbs.WbsAssignee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO assignees (wbs_id, user_id, rate) VALUES (?, ?, ?)
		ON CONFLICT(wbs_id, user_id) DO UPDATE SET rate = excluded.rate`,
		wbsID, a.UserID, a.Rate)
	return err
}

// GetAssignee loads one assignee of a WBS.
func (s *Store) GetAssignee(ctx context.Context, wbsID, userID string) (wbs.WbsAssignee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rate float64
	err := s.db.QueryRowContext(ctx,
		`SELECT rate FROM assignees WHERE wbs_id = ? AND user_id = ?`, wbsID, userID).Scan(&rate)
	if err == sql.ErrNoRows {
		return wbs.WbsAssignee{}, wbs.ErrAssigneeNotFound
	}
	if err != nil {
		return wbs.WbsAssignee{}, err
	}
	return wbs.ReconstructWbsAssignee(userID, rate), nil
}

// ListAssignees returns every assignee of a WBS.
func (s *Store) ListAssignees(ctx context.Context, wbsID string) ([]wbs.WbsAssignee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, rate FROM assignees WHERE wbs_id = ? ORDER BY user_id`, wbsID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignees []wbs.WbsAssignee
	for rows.Next() {
		var userID string
		var rate float64
		if err := rows.Scan(&userID, &rate); err != nil {
			return nil, err
		}
		assignees = append(assignees, wbs.ReconstructWbsAssignee(userID, rate))
	}
	return assignees, rows.Err()
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// SaveHoliday upserts a holiday by date.
func (s *Store) SaveHoliday(ctx context.Context, id string, h wbs.CompanyHoliday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (id, date, name, holiday_type) VALUES (?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET name = excluded.name, holiday_type = excluded.holiday_type`,
		id, h.Date.String(), h.Name, string(h.Type))
	return err
}

// ListHolidays returns every stored holiday, ascending by date.
func (s *Store) ListHolidays(ctx context.Context) ([]wbs.CompanyHoliday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT date, name, holiday_type FROM holidays ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []wbs.CompanyHoliday
	for rows.Next() {
		var date, name, typ string
		if err := rows.Scan(&date, &name, &typ); err != nil {
			return nil, err
		}
		d, err := parseDate(date)
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, wbs.ReconstructCompanyHoliday(d, name, wbs.HolidayType(typ)))
	}
	return holidays, rows.Err()
}

// DeleteHoliday removes a holiday by ID.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM holidays WHERE id = ?`, id)
	return err
}

// =============================================================================
// USER SCHEDULES
// =============================================================================

// SaveSchedule upserts a personal schedule entry.
func (s *Store) SaveSchedule(ctx context.Context, id string, sched wbs.UserSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_schedules (id, user_id, date, start_time, end_time, title)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			date = excluded.date,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			title = excluded.title`,
		id, sched.UserID, sched.Date.String(), sched.StartTime, sched.EndTime, sched.Title)
	return err
}

// ListSchedules returns a user's schedule entries in [from, to] inclusive.
func (s *Store) ListSchedules(ctx context.Context, userID string, from, to wbs.Date) ([]wbs.UserSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, date, start_time, end_time, title
		FROM user_schedules
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date, start_time`,
		userID, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSchedules(rows)
}

// ListAllSchedules returns every schedule entry in [from, to] inclusive,
// across all users.
func (s *Store) ListAllSchedules(ctx context.Context, from, to wbs.Date) ([]wbs.UserSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, date, start_time, end_time, title
		FROM user_schedules
		WHERE date >= ? AND date <= ?
		ORDER BY user_id, date, start_time`,
		from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSchedules(rows)
}

func scanSchedules(rows *sql.Rows) ([]wbs.UserSchedule, error) {
	var schedules []wbs.UserSchedule
	for rows.Next() {
		var userID, date, startTime, endTime string
		var title sql.NullString
		if err := rows.Scan(&userID, &date, &startTime, &endTime, &title); err != nil {
			return nil, err
		}
		d, err := parseDate(date)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, wbs.ReconstructUserSchedule(userID, d, startTime, endTime, title.String))
	}
	return schedules, rows.Err()
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseDate(v string) (wbs.Date, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return wbs.Date{}, fmt.Errorf("stored date %q: %w", v, err)
	}
	return wbs.DateOf(t), nil
}

func parseHours(v string) (wbs.Hours, error) {
	h, err := wbs.ParseHours(v)
	if err != nil {
		return wbs.Hours{}, fmt.Errorf("stored hours %q: %w", v, err)
	}
	return h, nil
}
