package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure Go driver, no cgo toolchain required

	"github.com/felixgeelhaar/shiftsched/internal/scheduling/domain"
)

// SQLiteSnapshotStore is the CLI's local/offline SnapshotStore. Schema is
// created lazily on first use, so local mode works against a bare file with
// no external migration tool.
type SQLiteSnapshotStore struct {
	db *sql.DB
}

// NewSQLiteSnapshotStore wraps an existing *sql.DB (see
// internal/shared/infrastructure/database/sqlite for connection setup).
func NewSQLiteSnapshotStore(db *sql.DB) *SQLiteSnapshotStore {
	return &SQLiteSnapshotStore{db: db}
}

// EnsureSchema creates the tables this store needs if they do not already
// exist, called once at local-mode startup.
func (s *SQLiteSnapshotStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS schedule_periods (
			id TEXT PRIMARY KEY, start_date TEXT NOT NULL, end_date TEXT NOT NULL, status TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS staff (
			id TEXT PRIMARY KEY, period_id TEXT NOT NULL, name TEXT NOT NULL, role TEXT NOT NULL,
			max_days_per_week INTEGER NOT NULL, min_days_per_week INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS shift_slots (
			id TEXT PRIMARY KEY, period_id TEXT NOT NULL, name TEXT NOT NULL,
			start_minute INTEGER NOT NULL, end_minute INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS staffing_requirements (
			id TEXT PRIMARY KEY, period_id TEXT NOT NULL, shift_slot_id TEXT NOT NULL,
			day_type TEXT NOT NULL, min_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS role_staffing_requirements (
			id TEXT PRIMARY KEY, period_id TEXT NOT NULL, shift_slot_id TEXT NOT NULL,
			day_type TEXT NOT NULL, role TEXT NOT NULL, min_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS staff_requests (
			id TEXT PRIMARY KEY, period_id TEXT NOT NULL, staff_id TEXT NOT NULL,
			date TEXT NOT NULL, type TEXT NOT NULL, shift_slot_id TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS solve_results (
			period_id TEXT PRIMARY KEY, status TEXT NOT NULL, message TEXT NOT NULL, payload TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteSnapshotStore) SavePeriod(ctx context.Context, period domain.SchedulePeriod) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO schedule_periods (id, start_date, end_date, status) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET start_date = excluded.start_date, end_date = excluded.end_date, status = excluded.status
	`, period.ID.String(), period.StartDate.Compact(), period.EndDate.Compact(), string(period.Status))
	if err != nil {
		return fmt.Errorf("save period: %w", err)
	}
	return nil
}

func (s *SQLiteSnapshotStore) SaveSnapshot(ctx context.Context, snap domain.Snapshot) error {
	if err := s.SavePeriod(ctx, snap.Period); err != nil {
		return err
	}
	pid := snap.Period.ID.String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"staff", "shift_slots", "staffing_requirements", "role_staffing_requirements", "staff_requests"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE period_id = ?`, table), pid); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, st := range snap.Staff {
		if _, err := tx.ExecContext(ctx, `INSERT INTO staff (id, period_id, name, role, max_days_per_week, min_days_per_week) VALUES (?, ?, ?, ?, ?, ?)`,
			st.ID.String(), pid, st.Name, st.Role, st.MaxDaysPerWeek, st.MinDaysPerWeek); err != nil {
			return fmt.Errorf("insert staff: %w", err)
		}
	}
	for _, slot := range snap.ShiftSlots {
		if _, err := tx.ExecContext(ctx, `INSERT INTO shift_slots (id, period_id, name, start_minute, end_minute) VALUES (?, ?, ?, ?, ?)`,
			slot.ID.String(), pid, slot.Name, slot.StartTime.Minutes(), slot.EndTime.Minutes()); err != nil {
			return fmt.Errorf("insert shift slot: %w", err)
		}
	}
	for _, r := range snap.StaffingRequirements {
		if _, err := tx.ExecContext(ctx, `INSERT INTO staffing_requirements (id, period_id, shift_slot_id, day_type, min_count) VALUES (?, ?, ?, ?, ?)`,
			r.ID.String(), pid, r.ShiftSlotID.String(), string(r.DayType), r.MinCount); err != nil {
			return fmt.Errorf("insert staffing requirement: %w", err)
		}
	}
	for _, r := range snap.RoleStaffingRequirements {
		if _, err := tx.ExecContext(ctx, `INSERT INTO role_staffing_requirements (id, period_id, shift_slot_id, day_type, role, min_count) VALUES (?, ?, ?, ?, ?, ?)`,
			r.ID.String(), pid, r.ShiftSlotID.String(), string(r.DayType), r.Role, r.MinCount); err != nil {
			return fmt.Errorf("insert role staffing requirement: %w", err)
		}
	}
	for _, r := range snap.StaffRequests {
		var slotID any
		if r.ShiftSlotID != nil {
			slotID = r.ShiftSlotID.String()
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO staff_requests (id, period_id, staff_id, date, type, shift_slot_id) VALUES (?, ?, ?, ?, ?, ?)`,
			r.ID.String(), pid, r.StaffID.String(), r.Date.Compact(), string(r.Type), slotID); err != nil {
			return fmt.Errorf("insert staff request: %w", err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteSnapshotStore) LoadSnapshot(ctx context.Context, periodID uuid.UUID) (domain.Snapshot, error) {
	var snap domain.Snapshot

	var idStr, startStr, endStr, status string
	err := s.db.QueryRowContext(ctx, `SELECT id, start_date, end_date, status FROM schedule_periods WHERE id = ?`, periodID.String()).
		Scan(&idStr, &startStr, &endStr, &status)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load period: %w", err)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("parse period id: %w", err)
	}
	start, err := domain.ParseCompact(startStr)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("parse start date: %w", err)
	}
	end, err := domain.ParseCompact(endStr)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("parse end date: %w", err)
	}
	snap.Period = domain.SchedulePeriod{ID: id, StartDate: start, EndDate: end, Status: domain.PeriodStatus(status)}

	staffRows, err := s.db.QueryContext(ctx, `SELECT id, name, role, max_days_per_week, min_days_per_week FROM staff WHERE period_id = ?`, periodID.String())
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load staff: %w", err)
	}
	defer staffRows.Close()
	for staffRows.Next() {
		var stIDStr, name, role string
		var maxDays, minDays int
		if err := staffRows.Scan(&stIDStr, &name, &role, &maxDays, &minDays); err != nil {
			return domain.Snapshot{}, fmt.Errorf("scan staff: %w", err)
		}
		stID, err := uuid.Parse(stIDStr)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("parse staff id: %w", err)
		}
		snap.Staff = append(snap.Staff, domain.Staff{ID: stID, Name: name, Role: role, MaxDaysPerWeek: maxDays, MinDaysPerWeek: minDays})
	}

	slotRows, err := s.db.QueryContext(ctx, `SELECT id, name, start_minute, end_minute FROM shift_slots WHERE period_id = ?`, periodID.String())
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load shift slots: %w", err)
	}
	defer slotRows.Close()
	for slotRows.Next() {
		var slotIDStr, name string
		var startMin, endMin int
		if err := slotRows.Scan(&slotIDStr, &name, &startMin, &endMin); err != nil {
			return domain.Snapshot{}, fmt.Errorf("scan shift slot: %w", err)
		}
		slotID, err := uuid.Parse(slotIDStr)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("parse shift slot id: %w", err)
		}
		snap.ShiftSlots = append(snap.ShiftSlots, domain.ShiftSlot{ID: slotID, Name: name, StartTime: domain.Clock(startMin), EndTime: domain.Clock(endMin)})
	}

	reqRows, err := s.db.QueryContext(ctx, `SELECT id, shift_slot_id, day_type, min_count FROM staffing_requirements WHERE period_id = ?`, periodID.String())
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load staffing requirements: %w", err)
	}
	defer reqRows.Close()
	for reqRows.Next() {
		var idStr, slotIDStr, dayType string
		var minCount int
		if err := reqRows.Scan(&idStr, &slotIDStr, &dayType, &minCount); err != nil {
			return domain.Snapshot{}, fmt.Errorf("scan staffing requirement: %w", err)
		}
		rid, err := uuid.Parse(idStr)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("parse requirement id: %w", err)
		}
		slotID, err := uuid.Parse(slotIDStr)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("parse requirement slot id: %w", err)
		}
		snap.StaffingRequirements = append(snap.StaffingRequirements, domain.StaffingRequirement{
			ID: rid, ShiftSlotID: slotID, DayType: domain.DayType(dayType), MinCount: minCount,
		})
	}

	roleReqRows, err := s.db.QueryContext(ctx, `SELECT id, shift_slot_id, day_type, role, min_count FROM role_staffing_requirements WHERE period_id = ?`, periodID.String())
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load role staffing requirements: %w", err)
	}
	defer roleReqRows.Close()
	for roleReqRows.Next() {
		var idStr, slotIDStr, dayType, role string
		var minCount int
		if err := roleReqRows.Scan(&idStr, &slotIDStr, &dayType, &role, &minCount); err != nil {
			return domain.Snapshot{}, fmt.Errorf("scan role staffing requirement: %w", err)
		}
		rid, err := uuid.Parse(idStr)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("parse role requirement id: %w", err)
		}
		slotID, err := uuid.Parse(slotIDStr)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("parse role requirement slot id: %w", err)
		}
		snap.RoleStaffingRequirements = append(snap.RoleStaffingRequirements, domain.RoleStaffingRequirement{
			ID: rid, ShiftSlotID: slotID, DayType: domain.DayType(dayType), Role: role, MinCount: minCount,
		})
	}

	reqstRows, err := s.db.QueryContext(ctx, `SELECT id, staff_id, date, type, shift_slot_id FROM staff_requests WHERE period_id = ?`, periodID.String())
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load staff requests: %w", err)
	}
	defer reqstRows.Close()
	for reqstRows.Next() {
		var idStr, staffIDStr, dateStr, typ string
		var slotIDStr sql.NullString
		if err := reqstRows.Scan(&idStr, &staffIDStr, &dateStr, &typ, &slotIDStr); err != nil {
			return domain.Snapshot{}, fmt.Errorf("scan staff request: %w", err)
		}
		rid, err := uuid.Parse(idStr)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("parse staff request id: %w", err)
		}
		staffID, err := uuid.Parse(staffIDStr)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("parse staff request staff id: %w", err)
		}
		date, err := domain.ParseCompact(dateStr)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("parse staff request date: %w", err)
		}
		req := domain.StaffRequest{ID: rid, StaffID: staffID, Date: date, Type: domain.RequestType(typ)}
		if slotIDStr.Valid && slotIDStr.String != "" {
			slotID, err := uuid.Parse(slotIDStr.String)
			if err != nil {
				return domain.Snapshot{}, fmt.Errorf("parse staff request slot id: %w", err)
			}
			req.ShiftSlotID = &slotID
		}
		snap.StaffRequests = append(snap.StaffRequests, req)
	}

	return snap, nil
}

func (s *SQLiteSnapshotStore) SaveResult(ctx context.Context, periodID uuid.UUID, result domain.Result) error {
	payload, err := json.Marshal(resultPayload{Assignments: result.Assignments, Diagnostics: result.Diagnostics})
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO solve_results (period_id, status, message, payload) VALUES (?, ?, ?, ?)
		ON CONFLICT(period_id) DO UPDATE SET status = excluded.status, message = excluded.message, payload = excluded.payload
	`, periodID.String(), string(result.Status), result.Message, string(payload))
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

func (s *SQLiteSnapshotStore) LoadResult(ctx context.Context, periodID uuid.UUID) (domain.Result, bool, error) {
	var status, message, payload string
	err := s.db.QueryRowContext(ctx, `SELECT status, message, payload FROM solve_results WHERE period_id = ?`, periodID.String()).
		Scan(&status, &message, &payload)
	if err == sql.ErrNoRows {
		return domain.Result{}, false, nil
	}
	if err != nil {
		return domain.Result{}, false, fmt.Errorf("load result: %w", err)
	}
	var decoded resultPayload
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return domain.Result{}, false, fmt.Errorf("unmarshal result: %w", err)
	}
	return domain.Result{
		Status:      domain.Status(status),
		Message:     message,
		Assignments: decoded.Assignments,
		Diagnostics: decoded.Diagnostics,
	}, true, nil
}

func (s *SQLiteSnapshotStore) ListPublishedPeriods(ctx context.Context) ([]domain.SchedulePeriod, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, start_date, end_date, status FROM schedule_periods WHERE status = 'published'`)
	if err != nil {
		return nil, fmt.Errorf("query published periods: %w", err)
	}
	defer rows.Close()

	var periods []domain.SchedulePeriod
	for rows.Next() {
		var idStr, startStr, endStr, status string
		if err := rows.Scan(&idStr, &startStr, &endStr, &status); err != nil {
			return nil, fmt.Errorf("scan published period: %w", err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("parse period id: %w", err)
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

var _ SnapshotStore = (*SQLiteSnapshotStore)(nil)
var _ SnapshotStore = (*PostgresSnapshotStore)(nil)
