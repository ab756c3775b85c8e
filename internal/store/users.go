// ABOUTME: User persistence: create, lookup by email or id, full update, delete
// ABOUTME: Password hashes are stored verbatim and never touched by updates

package store

import (
	"context"
	"errors"
)

var errMissingImmutable = errors.New("invalid record: password_hash and created_at are required")

const userColumns = `id, username, email, phone, password_hash, created_at, birthday, gender,
	height, diabetes_type, diagnosis_date, treatment_plan,
	target_weight, target_hba1c, target_calories, target_carbohydrates`

func scanUser(row rowScanner) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.Phone,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.Birthday,
		&u.Gender,
		&u.Height,
		&u.DiabetesType,
		&u.DiagnosisDate,
		&u.TreatmentPlan,
		&u.TargetWeight,
		&u.TargetHbA1c,
		&u.TargetCalories,
		&u.TargetCarbohydrates,
	)
	return u, err
}

// CreateUser inserts a user. A duplicate id or email is a ConstraintViolation.
func (s *SQLiteStore) CreateUser(ctx context.Context, u *User) (*User, error) {
	const op = "create user"
	if err := Validate(op, u); err != nil {
		return nil, err
	}
	// Immutable after creation, so only required here.
	if u.PasswordHash == "" || u.CreatedAt == "" {
		return nil, newError(KindConstraintViolation, op, errMissingImmutable)
	}

	query := `
		INSERT INTO Users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.exec(ctx, op, query,
		u.ID,
		u.Username,
		u.Email,
		u.Phone,
		u.PasswordHash,
		u.CreatedAt,
		u.Birthday,
		u.Gender,
		u.Height,
		u.DiabetesType,
		u.DiagnosisDate,
		u.TreatmentPlan,
		u.TargetWeight,
		u.TargetHbA1c,
		u.TargetCalories,
		u.TargetCarbohydrates,
	)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("created user", "id", u.ID)
	return u, nil
}

// GetUserByEmail returns the user with the given email, or nil if none.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.getUser(ctx, "get user by email", `SELECT `+userColumns+` FROM Users WHERE email = ?`, email)
}

// GetUserByID returns the user with the given id, or nil if none.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*User, error) {
	return s.getUser(ctx, "get user by id", `SELECT `+userColumns+` FROM Users WHERE id = ?`, id)
}

func (s *SQLiteStore) getUser(ctx context.Context, op, query string, arg string) (*User, error) {
	var u User
	found, err := s.queryRow(ctx, op, query, []any{arg}, func(row rowScanner) error {
		var err error
		u, err = scanUser(row)
		return err
	})
	if err != nil || !found {
		return nil, err
	}
	return &u, nil
}

// UpdateUser replaces every mutable field of the user keyed by u.ID and
// returns the stored record. id, password_hash and created_at are left as
// stored. Returns NotFound if no user has that id.
func (s *SQLiteStore) UpdateUser(ctx context.Context, u *User) (*User, error) {
	const op = "update user"
	if err := Validate(op, u); err != nil {
		return nil, err
	}

	query := `
		UPDATE Users SET
			username = ?, email = ?, phone = ?, birthday = ?,
			gender = ?, height = ?, diabetes_type = ?, diagnosis_date = ?,
			treatment_plan = ?, target_weight = ?, target_hba1c = ?,
			target_calories = ?, target_carbohydrates = ?
		WHERE id = ?
	`
	n, err := s.exec(ctx, op, query,
		u.Username,
		u.Email,
		u.Phone,
		u.Birthday,
		u.Gender,
		u.Height,
		u.DiabetesType,
		u.DiagnosisDate,
		u.TreatmentPlan,
		u.TargetWeight,
		u.TargetHbA1c,
		u.TargetCalories,
		u.TargetCarbohydrates,
		u.ID,
	)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, newError(KindNotFound, op, nil)
	}

	s.logger.Debug("updated user", "id", u.ID)

	updated, err := s.GetUserByID(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, newError(KindNotFound, op, nil)
	}
	return updated, nil
}

// DeleteUser removes a user and, through ON DELETE CASCADE, every record
// that references it. Deleting an unknown id succeeds.
func (s *SQLiteStore) DeleteUser(ctx context.Context, id string) error {
	n, err := s.exec(ctx, "delete user", `DELETE FROM Users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	s.logger.Debug("deleted user", "id", id, "rows_affected", n)
	return nil
}
