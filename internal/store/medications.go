// ABOUTME: Medication persistence: create, date-range paging, mark taken, delete
// ABOUTME: is_taken is stored as 0/1 and surfaced as a bool

package store

import (
	"context"
	"errors"
)

var errMissingActualTime = errors.New("invalid record: actual_time is required")

const medicationColumns = `id, user_id, created_at, drug_name, type, dose, unit, timing,
	insulin_type, insulin_duration, scheduled_time, actual_time, is_taken, notes`

func scanMedication(row rowScanner) (Medication, error) {
	var (
		m     Medication
		taken int
	)
	err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.CreatedAt,
		&m.DrugName,
		&m.Type,
		&m.Dose,
		&m.Unit,
		&m.Timing,
		&m.InsulinType,
		&m.InsulinDuration,
		&m.ScheduledTime,
		&m.ActualTime,
		&taken,
		&m.Notes,
	)
	m.IsTaken = taken == 1
	return m, err
}

// CreateMedication inserts a scheduled dose and echoes it back.
func (s *SQLiteStore) CreateMedication(ctx context.Context, m *Medication) (*Medication, error) {
	const op = "create medication"
	if err := Validate(op, m); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO Medications (` + medicationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.exec(ctx, op, query,
		m.ID,
		m.UserID,
		m.CreatedAt,
		m.DrugName,
		m.Type,
		m.Dose,
		m.Unit,
		m.Timing,
		m.InsulinType,
		m.InsulinDuration,
		m.ScheduledTime,
		m.ActualTime,
		boolToInt(m.IsTaken),
		m.Notes,
	)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("created medication", "id", m.ID, "user_id", m.UserID)
	return m, nil
}

// ListMedications returns one page of a user's medications in
// [q.StartDate, q.EndDate), newest first.
func (s *SQLiteStore) ListMedications(ctx context.Context, q RangeQuery) (*PagedResult[Medication], error) {
	return listRange(ctx, s, "list medications", tableMedications, medicationColumns, q, scanMedication)
}

// MarkMedicationTaken sets is_taken and records when the dose was actually
// administered. scheduled_time is untouched. Returns NotFound for an unknown id.
func (s *SQLiteStore) MarkMedicationTaken(ctx context.Context, id, actualTime string) error {
	const op = "mark medication taken"
	if actualTime == "" {
		return newError(KindConstraintViolation, op, errMissingActualTime)
	}

	n, err := s.exec(ctx, op, `UPDATE Medications SET is_taken = 1, actual_time = ? WHERE id = ?`, actualTime, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return newError(KindNotFound, op, nil)
	}

	s.logger.Debug("marked medication taken", "id", id, "actual_time", actualTime)
	return nil
}

// DeleteMedication removes a medication. Unknown ids are not an error.
func (s *SQLiteStore) DeleteMedication(ctx context.Context, id string) error {
	n, err := s.exec(ctx, "delete medication", `DELETE FROM Medications WHERE id = ?`, id)
	if err != nil {
		return err
	}
	s.logger.Debug("deleted medication", "id", id, "rows_affected", n)
	return nil
}
