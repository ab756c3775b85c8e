// ABOUTME: Aggregate summaries over a user's food entries and glucose readings
// ABOUTME: Uses the same [start, end) created_at window as the paged queries

package store

import (
	"context"
	"fmt"
)

// GetFoodStats totals a user's food entries in [start, end) and breaks
// calories down by meal type.
func (s *SQLiteStore) GetFoodStats(ctx context.Context, userID, start, end string) (*FoodStats, error) {
	const op = "get food stats"
	where, args := RangeQuery{UserID: userID, StartDate: start, EndDate: end}.predicate()

	stats := &FoodStats{CaloriesByMeal: map[string]float64{}}
	err := s.withTx(ctx, func(ctx context.Context, tx dbtx) error {
		totals := `
			SELECT COUNT(*),
				COALESCE(SUM(calories), 0.0),
				COALESCE(SUM(carbohydrates), 0.0),
				COALESCE(SUM(protein), 0.0),
				COALESCE(SUM(fat), 0.0)
			FROM FoodEntries
			WHERE ` + where
		if err := tx.QueryRowContext(ctx, totals, args...).Scan(
			&stats.EntryCount,
			&stats.TotalCalories,
			&stats.TotalCarbohydrates,
			&stats.TotalProtein,
			&stats.TotalFat,
		); err != nil {
			return fmt.Errorf("summing food entries: %w", err)
		}

		byMeal := `
			SELECT meal_type, SUM(calories)
			FROM FoodEntries
			WHERE ` + where + `
			GROUP BY meal_type
		`
		rows, err := tx.QueryContext(ctx, byMeal, args...)
		if err != nil {
			return fmt.Errorf("grouping by meal: %w", err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var (
				meal     MealType
				calories float64
			)
			if err := rows.Scan(&meal, &calories); err != nil {
				return fmt.Errorf("scanning meal group: %w", err)
			}
			stats.CaloriesByMeal[meal.String()] = calories
		}
		return rows.Err()
	})
	if err != nil {
		return nil, classify(op, err)
	}

	s.logger.Debug("computed food stats", "user_id", userID, "entries", stats.EntryCount)
	return stats, nil
}

// GetGlucoseStats computes count, mean, min and max of a user's readings in
// [start, end), plus the mean per measurement time. All values are zero when
// there are no readings.
func (s *SQLiteStore) GetGlucoseStats(ctx context.Context, userID, start, end string) (*GlucoseStats, error) {
	const op = "get glucose stats"
	where, args := RangeQuery{UserID: userID, StartDate: start, EndDate: end}.predicate()

	stats := &GlucoseStats{AverageByMeasurementTime: map[string]float64{}}
	err := s.withTx(ctx, func(ctx context.Context, tx dbtx) error {
		summary := `
			SELECT COUNT(*),
				COALESCE(AVG(value), 0.0),
				COALESCE(MIN(value), 0.0),
				COALESCE(MAX(value), 0.0)
			FROM BloodGlucose
			WHERE ` + where
		if err := tx.QueryRowContext(ctx, summary, args...).Scan(
			&stats.Count,
			&stats.Average,
			&stats.Min,
			&stats.Max,
		); err != nil {
			return fmt.Errorf("summarizing readings: %w", err)
		}

		byTime := `
			SELECT measurement_time, AVG(value)
			FROM BloodGlucose
			WHERE ` + where + `
			GROUP BY measurement_time
		`
		rows, err := tx.QueryContext(ctx, byTime, args...)
		if err != nil {
			return fmt.Errorf("grouping by measurement time: %w", err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var (
				mt  MeasurementTime
				avg float64
			)
			if err := rows.Scan(&mt, &avg); err != nil {
				return fmt.Errorf("scanning measurement group: %w", err)
			}
			stats.AverageByMeasurementTime[mt.String()] = avg
		}
		return rows.Err()
	})
	if err != nil {
		return nil, classify(op, err)
	}

	s.logger.Debug("computed glucose stats", "user_id", userID, "readings", stats.Count)
	return stats, nil
}
