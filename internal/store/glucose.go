// ABOUTME: Blood glucose persistence: create, date-range paging, delete
// ABOUTME: Mirrors the food entry layout with its own column list

package store

import "context"

const glucoseColumns = `id, user_id, created_at, value, measurement_time, measurement_time_exact,
	before_meal_glucose, after_meal_glucose, related_meal, notes, device_name, device_serial`

func scanBloodGlucose(row rowScanner) (BloodGlucose, error) {
	var g BloodGlucose
	err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.CreatedAt,
		&g.Value,
		&g.MeasurementTime,
		&g.MeasurementTimeExact,
		&g.BeforeMealGlucose,
		&g.AfterMealGlucose,
		&g.RelatedMeal,
		&g.Notes,
		&g.DeviceName,
		&g.DeviceSerial,
	)
	return g, err
}

// CreateBloodGlucose inserts a glucose reading and echoes it back.
func (s *SQLiteStore) CreateBloodGlucose(ctx context.Context, g *BloodGlucose) (*BloodGlucose, error) {
	const op = "create blood glucose"
	if err := Validate(op, g); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO BloodGlucose (` + glucoseColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.exec(ctx, op, query,
		g.ID,
		g.UserID,
		g.CreatedAt,
		g.Value,
		g.MeasurementTime,
		g.MeasurementTimeExact,
		g.BeforeMealGlucose,
		g.AfterMealGlucose,
		g.RelatedMeal,
		g.Notes,
		g.DeviceName,
		g.DeviceSerial,
	)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("created blood glucose", "id", g.ID, "user_id", g.UserID)
	return g, nil
}

// ListBloodGlucose returns one page of a user's readings in
// [q.StartDate, q.EndDate), newest first.
func (s *SQLiteStore) ListBloodGlucose(ctx context.Context, q RangeQuery) (*PagedResult[BloodGlucose], error) {
	return listRange(ctx, s, "list blood glucose", tableBloodGlucose, glucoseColumns, q, scanBloodGlucose)
}

// DeleteBloodGlucose removes a reading. Unknown ids are not an error.
func (s *SQLiteStore) DeleteBloodGlucose(ctx context.Context, id string) error {
	n, err := s.exec(ctx, "delete blood glucose", `DELETE FROM BloodGlucose WHERE id = ?`, id)
	if err != nil {
		return err
	}
	s.logger.Debug("deleted blood glucose", "id", id, "rows_affected", n)
	return nil
}
