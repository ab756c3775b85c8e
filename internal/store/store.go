// ABOUTME: HealthStore interface implemented by SQLiteStore and MockStore
// ABOUTME: Callers depend on this rather than on a concrete backend

package store

import "context"

// HealthStore is the operation surface of the on-device health record store.
// Every error returned is a *Error; absent point lookups return (nil, nil).
type HealthStore interface {
	// Initialize prepares storage and creates all tables. Safe to repeat.
	Initialize(ctx context.Context) error

	// Users
	CreateUser(ctx context.Context, u *User) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	UpdateUser(ctx context.Context, u *User) (*User, error)
	DeleteUser(ctx context.Context, id string) error

	// Food entries
	CreateFoodEntry(ctx context.Context, e *FoodEntry) (*FoodEntry, error)
	ListFoodEntries(ctx context.Context, q RangeQuery) (*PagedResult[FoodEntry], error)
	DeleteFoodEntry(ctx context.Context, id string) error
	GetFoodStats(ctx context.Context, userID, start, end string) (*FoodStats, error)

	// Blood glucose
	CreateBloodGlucose(ctx context.Context, g *BloodGlucose) (*BloodGlucose, error)
	ListBloodGlucose(ctx context.Context, q RangeQuery) (*PagedResult[BloodGlucose], error)
	DeleteBloodGlucose(ctx context.Context, id string) error
	GetGlucoseStats(ctx context.Context, userID, start, end string) (*GlucoseStats, error)

	// Medications
	CreateMedication(ctx context.Context, m *Medication) (*Medication, error)
	ListMedications(ctx context.Context, q RangeQuery) (*PagedResult[Medication], error)
	MarkMedicationTaken(ctx context.Context, id, actualTime string) error
	DeleteMedication(ctx context.Context, id string) error

	// Chat
	CreateChatMessage(ctx context.Context, m *ChatMessage) (*ChatMessage, error)
	GetChatHistory(ctx context.Context, userID string, limit int) ([]ChatMessage, error)

	// Close releases any resources held by the store
	Close() error
}
