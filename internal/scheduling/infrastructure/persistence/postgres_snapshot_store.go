package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq" // ad hoc reporting path below opens its own database/sql connection

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/domain"
)

// PostgresSnapshotStore is the shared-deployment SnapshotStore. Writes go
// through pgx/v5's pool; ListPublishedPeriods additionally opens a plain
// database/sql connection via lib/pq, keeping one migration-free
// database/sql path available for ad hoc reporting queries that don't need
// pgx's richer type mapping.
type PostgresSnapshotStore struct {
	pool      *pgxpool.Pool
	reportDSN string
}

// NewPostgresSnapshotStore builds a store over an existing pgx pool. reportDSN
// is the lib/pq-compatible DSN used only by ListPublishedPeriods; pass the
// empty string to disable the ad hoc reporting path and fall back to pgx.
func NewPostgresSnapshotStore(pool *pgxpool.Pool, reportDSN string) *PostgresSnapshotStore {
	return &PostgresSnapshotStore{pool: pool, reportDSN: reportDSN}
}

func (s *PostgresSnapshotStore) SavePeriod(ctx context.Context, period domain.SchedulePeriod) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO schedule_periods (id, start_date, end_date, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET start_date = $2, end_date = $3, status = $4
	`, period.ID, period.StartDate.Compact(), period.EndDate.Compact(), string(period.Status))
	if err != nil {
		return fmt.Errorf("save period: %w", err)
	}
	return nil
}

func (s *PostgresSnapshotStore) SaveSnapshot(ctx context.Context, snap domain.Snapshot) error {
	if err := s.SavePeriod(ctx, snap.Period); err != nil {
		return err
	}
	pid := snap.Period.ID

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"staff", "shift_slots", "staffing_requirements", "role_staffing_requirements", "staff_requests"} {
		if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE period_id = $1`, table), pid); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, st := range snap.Staff {
		if _, err := tx.Exec(ctx, `INSERT INTO staff (id, period_id, name, role, max_days_per_week, min_days_per_week) VALUES ($1, $2, $3, $4, $5, $6)`,
			st.ID, pid, st.Name, st.Role, st.MaxDaysPerWeek, st.MinDaysPerWeek); err != nil {
			return fmt.Errorf("insert staff: %w", err)
		}
	}
	for _, slot := range snap.ShiftSlots {
		if _, err := tx.Exec(ctx, `INSERT INTO shift_slots (id, period_id, name, start_minute, end_minute) VALUES ($1, $2, $3, $4, $5)`,
			slot.ID, pid, slot.Name, slot.StartTime.Minutes(), slot.EndTime.Minutes()); err != nil {
			return fmt.Errorf("insert shift slot: %w", err)
		}
	}
	for _, r := range snap.StaffingRequirements {
		if _, err := tx.Exec(ctx, `INSERT INTO staffing_requirements (id, period_id, shift_slot_id, day_type, min_count) VALUES ($1, $2, $3, $4, $5)`,
			r.ID, pid, r.ShiftSlotID, string(r.DayType), r.MinCount); err != nil {
			return fmt.Errorf("insert staffing requirement: %w", err)
		}
	}
	for _, r := range snap.RoleStaffingRequirements {
		if _, err := tx.Exec(ctx, `INSERT INTO role_staffing_requirements (id, period_id, shift_slot_id, day_type, role, min_count) VALUES ($1, $2, $3, $4, $5, $6)`,
			r.ID, pid, r.ShiftSlotID, string(r.DayType), r.Role, r.MinCount); err != nil {
			return fmt.Errorf("insert role staffing requirement: %w", err)
		}
	}
	for _, r := range snap.StaffRequests {
		var slotID *uuid.UUID = r.ShiftSlotID
		if _, err := tx.Exec(ctx, `INSERT INTO staff_requests (id, period_id, staff_id, date, type, shift_slot_id) VALUES ($1, $2, $3, $4, $5, $6)`,
			r.ID, pid, r.StaffID, r.Date.Compact(), string(r.Type), slotID); err != nil {
			return fmt.Errorf("insert staff request: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (s *PostgresSnapshotStore) LoadSnapshot(ctx context.Context, periodID uuid.UUID) (domain.Snapshot, error) {
	var snap domain.Snapshot

	row := s.pool.QueryRow(ctx, `SELECT id, start_date, end_date, status FROM schedule_periods WHERE id = $1`, periodID)
	period, err := scanPeriod(row)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load period: %w", err)
	}
	snap.Period = period

	staffRows, err := s.pool.Query(ctx, `SELECT id, name, role, max_days_per_week, min_days_per_week FROM staff WHERE period_id = $1`, periodID)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load staff: %w", err)
	}
	defer staffRows.Close()
	for staffRows.Next() {
		var st domain.Staff
		if err := staffRows.Scan(&st.ID, &st.Name, &st.Role, &st.MaxDaysPerWeek, &st.MinDaysPerWeek); err != nil {
			return domain.Snapshot{}, fmt.Errorf("scan staff: %w", err)
		}
		snap.Staff = append(snap.Staff, st)
	}

	slotRows, err := s.pool.Query(ctx, `SELECT id, name, start_minute, end_minute FROM shift_slots WHERE period_id = $1`, periodID)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load shift slots: %w", err)
	}
	defer slotRows.Close()
	for slotRows.Next() {
		var slot domain.ShiftSlot
		var startMin, endMin int
		if err := slotRows.Scan(&slot.ID, &slot.Name, &startMin, &endMin); err != nil {
			return domain.Snapshot{}, fmt.Errorf("scan shift slot: %w", err)
		}
		slot.StartTime = domain.Clock(startMin)
		slot.EndTime = domain.Clock(endMin)
		snap.ShiftSlots = append(snap.ShiftSlots, slot)
	}

	reqRows, err := s.pool.Query(ctx, `SELECT id, shift_slot_id, day_type, min_count FROM staffing_requirements WHERE period_id = $1`, periodID)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load staffing requirements: %w", err)
	}
	defer reqRows.Close()
	for reqRows.Next() {
		var r domain.StaffingRequirement
		var dayType string
		if err := reqRows.Scan(&r.ID, &r.ShiftSlotID, &dayType, &r.MinCount); err != nil {
			return domain.Snapshot{}, fmt.Errorf("scan staffing requirement: %w", err)
		}
		r.DayType = domain.DayType(dayType)
		snap.StaffingRequirements = append(snap.StaffingRequirements, r)
	}

	roleReqRows, err := s.pool.Query(ctx, `SELECT id, shift_slot_id, day_type, role, min_count FROM role_staffing_requirements WHERE period_id = $1`, periodID)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load role staffing requirements: %w", err)
	}
	defer roleReqRows.Close()
	for roleReqRows.Next() {
		var r domain.RoleStaffingRequirement
		var dayType string
		if err := roleReqRows.Scan(&r.ID, &r.ShiftSlotID, &dayType, &r.Role, &r.MinCount); err != nil {
			return domain.Snapshot{}, fmt.Errorf("scan role staffing requirement: %w", err)
		}
		r.DayType = domain.DayType(dayType)
		snap.RoleStaffingRequirements = append(snap.RoleStaffingRequirements, r)
	}

	reqstRows, err := s.pool.Query(ctx, `SELECT id, staff_id, date, type, shift_slot_id FROM staff_requests WHERE period_id = $1`, periodID)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load staff requests: %w", err)
	}
	defer reqstRows.Close()
	for reqstRows.Next() {
		var r domain.StaffRequest
		var dateStr, typ string
		var slotID uuid.NullUUID
		if err := reqstRows.Scan(&r.ID, &r.StaffID, &dateStr, &typ, &slotID); err != nil {
			return domain.Snapshot{}, fmt.Errorf("scan staff request: %w", err)
		}
		date, err := domain.ParseCompact(dateStr)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("parse staff request date: %w", err)
		}
		r.Date = date
		r.Type = domain.RequestType(typ)
		if slotID.Valid {
			id := slotID.UUID
			r.ShiftSlotID = &id
		}
		snap.StaffRequests = append(snap.StaffRequests, r)
	}

	return snap, nil
}

func (s *PostgresSnapshotStore) SaveResult(ctx context.Context, periodID uuid.UUID, result domain.Result) error {
	payload, err := json.Marshal(resultPayload{Assignments: result.Assignments, Diagnostics: result.Diagnostics})
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO solve_results (period_id, status, message, payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (period_id) DO UPDATE SET status = $2, message = $3, payload = $4
	`, periodID, string(result.Status), result.Message, payload)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

func (s *PostgresSnapshotStore) LoadResult(ctx context.Context, periodID uuid.UUID) (domain.Result, bool, error) {
	var status, message string
	var payload []byte
	err := s.pool.QueryRow(ctx, `SELECT status, message, payload FROM solve_results WHERE period_id = $1`, periodID).
		Scan(&status, &message, &payload)
	if err == pgx.ErrNoRows {
		return domain.Result{}, false, nil
	}
	if err != nil {
		return domain.Result{}, false, fmt.Errorf("load result: %w", err)
	}
	var decoded resultPayload
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return domain.Result{}, false, fmt.Errorf("unmarshal result: %w", err)
	}
	return domain.Result{
		Status:      domain.Status(status),
		Message:     message,
		Assignments: decoded.Assignments,
		Diagnostics: decoded.Diagnostics,
	}, true, nil
}

// ListPublishedPeriods uses a plain database/sql + lib/pq connection rather
// than the pgx pool: this is the ad hoc reporting path spec.md §3.4
// describes, kept deliberately separate from the pgx-typed write path above.
func (s *PostgresSnapshotStore) ListPublishedPeriods(ctx context.Context) ([]domain.SchedulePeriod, error) {
	if s.reportDSN == "" {
		return s.listPublishedPeriodsViaPool(ctx)
	}

	db, err := sql.Open("postgres", s.reportDSN)
	if err != nil {
		return nil, fmt.Errorf("open reporting connection: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT id, start_date, end_date, status FROM schedule_periods WHERE status = 'published'`)
	if err != nil {
		return nil, fmt.Errorf("query published periods: %w", err)
	}
	defer rows.Close()

	var periods []domain.SchedulePeriod
	for rows.Next() {
		var id uuid.UUID
		var startStr, endStr, status string
		if err := rows.Scan(&id, &startStr, &endStr, &status); err != nil {
			return nil, fmt.Errorf("scan published period: %w", err)
		}
		start, err := domain.ParseCompact(startStr)
		if err != nil {
			return nil, fmt.Errorf("parse start date: %w", err)
		}
		end, err := domain.ParseCompact(endStr)
		if err != nil {
			return nil, fmt.Errorf("parse end date: %w", err)
		}
		periods = append(periods, domain.SchedulePeriod{ID: id, StartDate: start, EndDate: end, Status: domain.PeriodStatus(status)})
	}
	return periods, rows.Err()
}

func (s *PostgresSnapshotStore) listPublishedPeriodsViaPool(ctx context.Context) ([]domain.SchedulePeriod, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, start_date, end_date, status FROM schedule_periods WHERE status = 'published'`)
	if err != nil {
		return nil, fmt.Errorf("query published periods: %w", err)
	}
	defer rows.Close()

	var periods []domain.SchedulePeriod
	for rows.Next() {
		p, err := scanPeriodRows(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

// periodScanner is satisfied by both pgx.Row and pgx.Rows.
type periodScanner interface {
	Scan(dest ...any) error
}

func scanPeriod(row periodScanner) (domain.SchedulePeriod, error) {
	var id uuid.UUID
	var startStr, endStr, status string
	if err := row.Scan(&id, &startStr, &endStr, &status); err != nil {
		return domain.SchedulePeriod{}, err
	}
	start, err := domain.ParseCompact(startStr)
	if err != nil {
		return domain.SchedulePeriod{}, fmt.Errorf("parse start date: %w", err)
	}
	end, err := domain.ParseCompact(endStr)
	if err != nil {
		return domain.SchedulePeriod{}, fmt.Errorf("parse end date: %w", err)
	}
	return domain.SchedulePeriod{ID: id, StartDate: start, EndDate: end, Status: domain.PeriodStatus(status)}, nil
}

func scanPeriodRows(rows pgx.Rows) (domain.SchedulePeriod, error) {
	return scanPeriod(rows)
}

// resultPayload is the JSON shape stored in solve_results.payload: the parts
// of domain.Result too structurally varied (variable-length assignment and
// diagnostic slices) to justify their own normalized tables.
type resultPayload struct {
	Assignments []domain.Assignment    `json:"assignments"`
	Diagnostics []domain.DiagnosticItem `json:"diagnostics"`
}
