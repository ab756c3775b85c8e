// ABOUTME: Tests for user persistence
// ABOUTME: Covers round-trip, uniqueness, update semantics and cascading delete

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullUser() *User {
	return &User{
		ID:                  "user-1",
		Username:            "alice",
		Email:               "alice@example.com",
		Phone:               strPtr("555-0100"),
		PasswordHash:        "$2a$10$opaque",
		CreatedAt:           "2024-01-01T08:00:00",
		Birthday:            strPtr("1980-05-04"),
		Gender:              GenderFemale,
		Height:              165.5,
		DiabetesType:        DiabetesType2,
		DiagnosisDate:       strPtr("2019-03-01"),
		TreatmentPlan:       TreatmentOralMedication,
		TargetWeight:        floatPtr(60),
		TargetHbA1c:         floatPtr(6.5),
		TargetCalories:      floatPtr(1800),
		TargetCarbohydrates: floatPtr(200),
	}
}

func TestCreateUser_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	u := fullUser()

	created, err := store.CreateUser(ctx, u)
	require.NoError(t, err)
	assert.Same(t, u, created, "create echoes the caller's record")

	byID, err := store.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, byID)

	byEmail, err := store.GetUserByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u, byEmail)
}

func TestCreateUser_OptionalFieldsNil(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	u := &User{
		ID:           "user-2",
		Username:     "bob",
		Email:        "bob@example.com",
		PasswordHash: "hash",
		CreatedAt:    "2024-01-01T08:00:00",
	}
	_, err := store.CreateUser(ctx, u)
	require.NoError(t, err)

	got, err := store.GetUserByID(ctx, "user-2")
	require.NoError(t, err)
	assert.Equal(t, u, got)
	assert.Nil(t, got.Phone)
	assert.Nil(t, got.TargetHbA1c)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	createTestUser(t, store, "user-1", "same@example.com")

	_, err := store.CreateUser(ctx, &User{
		ID:           "user-2",
		Username:     "other",
		Email:        "same@example.com",
		PasswordHash: "hash",
		CreatedAt:    "2024-01-02T00:00:00",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConstraintViolation)
}

func TestCreateUser_DuplicateID(t *testing.T) {
	store := newTestStore(t)

	createTestUser(t, store, "user-1", "a@example.com")

	_, err := store.CreateUser(context.Background(), &User{
		ID:           "user-1",
		Username:     "other",
		Email:        "b@example.com",
		PasswordHash: "hash",
		CreatedAt:    "2024-01-02T00:00:00",
	})
	assert.ErrorIs(t, err, ErrConstraintViolation)
}

func TestCreateUser_Invalid(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(u *User)
	}{
		{"missing id", func(u *User) { u.ID = "" }},
		{"missing email", func(u *User) { u.Email = "" }},
		{"negative height", func(u *User) { u.Height = -1 }},
		{"gender out of range", func(u *User) { u.Gender = 7 }},
		{"missing password hash", func(u *User) { u.PasswordHash = "" }},
		{"missing created_at", func(u *User) { u.CreatedAt = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := fullUser()
			tt.mutate(u)
			_, err := store.CreateUser(ctx, u)
			assert.ErrorIs(t, err, ErrConstraintViolation)
		})
	}

	got, err := store.GetUserByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, got, "no invalid record was inserted")
}

func TestGetUser_NotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	got, err := store.GetUserByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = store.GetUserByEmail(ctx, "missing@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	original := fullUser()
	_, err := store.CreateUser(ctx, original)
	require.NoError(t, err)

	changed := *fullUser()
	changed.Username = "alice2"
	changed.Email = "alice2@example.com"
	changed.Phone = nil
	changed.Height = 166
	changed.TreatmentPlan = TreatmentInsulin
	changed.TargetHbA1c = floatPtr(7)
	changed.PasswordHash = "attempted-overwrite"
	changed.CreatedAt = "2030-01-01T00:00:00"

	updated, err := store.UpdateUser(ctx, &changed)
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, "alice2@example.com", updated.Email)
	assert.Nil(t, updated.Phone)
	assert.Equal(t, 166.0, updated.Height)
	assert.Equal(t, TreatmentInsulin, updated.TreatmentPlan)
	assert.Equal(t, 7.0, *updated.TargetHbA1c)

	// Immutable through update
	assert.Equal(t, original.PasswordHash, updated.PasswordHash)
	assert.Equal(t, original.CreatedAt, updated.CreatedAt)

	got, err := store.GetUserByEmail(ctx, "alice2@example.com")
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestUpdateUser_NotFound(t *testing.T) {
	store := newTestStore(t)

	u := fullUser()
	u.ID = "missing"
	_, err := store.UpdateUser(context.Background(), u)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUser_EmailTaken(t *testing.T) {
	store := newTestStore(t)

	createTestUser(t, store, "user-1", "a@example.com")
	b := createTestUser(t, store, "user-2", "b@example.com")

	b.Email = "a@example.com"
	_, err := store.UpdateUser(context.Background(), b)
	assert.ErrorIs(t, err, ErrConstraintViolation)
}

func TestDeleteUser_Cascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	createTestUser(t, store, "user-1", "a@example.com")
	createTestUser(t, store, "user-2", "b@example.com")

	_, err := store.CreateFoodEntry(ctx, testFoodEntry("food-1", "user-1", "2024-01-10T12:00:00"))
	require.NoError(t, err)
	_, err = store.CreateBloodGlucose(ctx, testGlucose("bg-1", "user-1", "2024-01-10T12:00:00", 6.1))
	require.NoError(t, err)
	_, err = store.CreateMedication(ctx, testMedication("med-1", "user-1", "2024-01-10T12:00:00"))
	require.NoError(t, err)
	_, err = store.CreateChatMessage(ctx, testChatMessage("msg-1", "user-1", "2024-01-10T12:00:00"))
	require.NoError(t, err)
	_, err = store.CreateFoodEntry(ctx, testFoodEntry("food-2", "user-2", "2024-01-10T12:00:00"))
	require.NoError(t, err)

	require.NoError(t, store.DeleteUser(ctx, "user-1"))

	got, err := store.GetUserByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	for _, table := range []string{"FoodEntries", "BloodGlucose", "Medications", "ChatMessages"} {
		var n int
		err := store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+` WHERE user_id = ?`, "user-1").Scan(&n)
		require.NoError(t, err)
		assert.Zero(t, n, "rows left in %s", table)
	}

	other, err := store.ListFoodEntries(ctx, wideRange("user-2"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), other.Total, "other users are untouched")
}

func TestDeleteUser_Idempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.DeleteUser(ctx, "missing"))

	createTestUser(t, store, "user-1", "a@example.com")
	require.NoError(t, store.DeleteUser(ctx, "user-1"))
	require.NoError(t, store.DeleteUser(ctx, "user-1"))
}
