// ABOUTME: Food entry persistence: create, date-range paging, delete
// ABOUTME: Rows are decoded through an explicit column list

package store

import "context"

const foodColumns = `id, user_id, created_at, meal_type, meal_time, food_name, quantity,
	calories, carbohydrates, protein, fat, gi, gl, source, image_path, notes`

func scanFoodEntry(row rowScanner) (FoodEntry, error) {
	var e FoodEntry
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.CreatedAt,
		&e.MealType,
		&e.MealTime,
		&e.FoodName,
		&e.Quantity,
		&e.Calories,
		&e.Carbohydrates,
		&e.Protein,
		&e.Fat,
		&e.GI,
		&e.GL,
		&e.Source,
		&e.ImagePath,
		&e.Notes,
	)
	return e, err
}

// CreateFoodEntry inserts a food entry and echoes it back.
// An unknown user_id or duplicate id is a ConstraintViolation.
func (s *SQLiteStore) CreateFoodEntry(ctx context.Context, e *FoodEntry) (*FoodEntry, error) {
	const op = "create food entry"
	if err := Validate(op, e); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO FoodEntries (` + foodColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.exec(ctx, op, query,
		e.ID,
		e.UserID,
		e.CreatedAt,
		e.MealType,
		e.MealTime,
		e.FoodName,
		e.Quantity,
		e.Calories,
		e.Carbohydrates,
		e.Protein,
		e.Fat,
		e.GI,
		e.GL,
		e.Source,
		e.ImagePath,
		e.Notes,
	)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("created food entry", "id", e.ID, "user_id", e.UserID)
	return e, nil
}

// ListFoodEntries returns one page of a user's food entries in
// [q.StartDate, q.EndDate), newest first.
func (s *SQLiteStore) ListFoodEntries(ctx context.Context, q RangeQuery) (*PagedResult[FoodEntry], error) {
	return listRange(ctx, s, "list food entries", tableFoodEntries, foodColumns, q, scanFoodEntry)
}

// DeleteFoodEntry removes a food entry. Unknown ids are not an error.
func (s *SQLiteStore) DeleteFoodEntry(ctx context.Context, id string) error {
	n, err := s.exec(ctx, "delete food entry", `DELETE FROM FoodEntries WHERE id = ?`, id)
	if err != nil {
		return err
	}
	s.logger.Debug("deleted food entry", "id", id, "rows_affected", n)
	return nil
}
