// ABOUTME: Command handlers translating host commands into store operations
// ABOUTME: Every method returns a Response envelope and never a raw error

package commands

import (
	"context"
	"log/slog"

	"github.com/2389/vitanote/internal/store"
)

// Result strings returned by commands that have no record to echo.
const (
	MsgInitialized = "Database initialized successfully"
	MsgDeleted     = "Deleted"
	MsgMarkedTaken = "Marked as taken"
)

// Handler exposes the health store as host commands.
type Handler struct {
	store  store.HealthStore
	logger *slog.Logger
}

// NewHandler creates a Handler over s. A nil logger uses slog.Default.
func NewHandler(s store.HealthStore, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:  s,
		logger: logger.With("component", "commands"),
	}
}

// respond converts a store result into an envelope, logging failures.
func respond[T any](h *Handler, command string, data T, err error) Response[T] {
	if err != nil {
		h.logger.Warn("command failed", "command", command, "kind", store.KindOf(err), "error", err)
		return Fail[T](err)
	}
	return OK(data)
}

// respondPtr is respond for store methods returning *T.
func respondPtr[T any](h *Handler, command string, data *T, err error) Response[T] {
	if err != nil {
		h.logger.Warn("command failed", "command", command, "kind", store.KindOf(err), "error", err)
		return Fail[T](err)
	}
	return Found(data)
}

// Init prepares the database.
func (h *Handler) Init(ctx context.Context) Response[string] {
	return respond(h, "db_init", MsgInitialized, h.store.Initialize(ctx))
}

// CreateUser stores a new user.
func (h *Handler) CreateUser(ctx context.Context, u *store.User) Response[store.User] {
	created, err := h.store.CreateUser(ctx, u)
	return respondPtr(h, "user_create", created, err)
}

// GetUserByEmail looks up a user. No match is success with nil data.
func (h *Handler) GetUserByEmail(ctx context.Context, email string) Response[store.User] {
	u, err := h.store.GetUserByEmail(ctx, email)
	return respondPtr(h, "user_get_by_email", u, err)
}

// GetUserByID looks up a user. No match is success with nil data.
func (h *Handler) GetUserByID(ctx context.Context, id string) Response[store.User] {
	u, err := h.store.GetUserByID(ctx, id)
	return respondPtr(h, "user_get_by_id", u, err)
}

// UpdateUser replaces a user's mutable fields.
func (h *Handler) UpdateUser(ctx context.Context, u *store.User) Response[store.User] {
	updated, err := h.store.UpdateUser(ctx, u)
	return respondPtr(h, "user_update", updated, err)
}

// DeleteUser removes a user and everything it owns.
func (h *Handler) DeleteUser(ctx context.Context, id string) Response[string] {
	return respond(h, "user_delete", MsgDeleted, h.store.DeleteUser(ctx, id))
}

// CreateFoodEntry stores a food entry.
func (h *Handler) CreateFoodEntry(ctx context.Context, e *store.FoodEntry) Response[store.FoodEntry] {
	created, err := h.store.CreateFoodEntry(ctx, e)
	return respondPtr(h, "food_entry_create", created, err)
}

// GetFoodEntriesByUser pages a user's food entries in [start, end).
func (h *Handler) GetFoodEntriesByUser(ctx context.Context, q store.RangeQuery) Response[store.PagedResult[store.FoodEntry]] {
	page, err := h.store.ListFoodEntries(ctx, q)
	return respondPtr(h, "food_entry_get_by_user", page, err)
}

// DeleteFoodEntry removes a food entry.
func (h *Handler) DeleteFoodEntry(ctx context.Context, id string) Response[string] {
	return respond(h, "food_entry_delete", MsgDeleted, h.store.DeleteFoodEntry(ctx, id))
}

// FoodStats summarizes a user's food entries in [start, end).
func (h *Handler) FoodStats(ctx context.Context, userID, start, end string) Response[store.FoodStats] {
	stats, err := h.store.GetFoodStats(ctx, userID, start, end)
	return respondPtr(h, "food_stats", stats, err)
}

// CreateBloodGlucose stores a glucose reading.
func (h *Handler) CreateBloodGlucose(ctx context.Context, g *store.BloodGlucose) Response[store.BloodGlucose] {
	created, err := h.store.CreateBloodGlucose(ctx, g)
	return respondPtr(h, "blood_glucose_create", created, err)
}

// GetBloodGlucoseByUser pages a user's readings in [start, end).
func (h *Handler) GetBloodGlucoseByUser(ctx context.Context, q store.RangeQuery) Response[store.PagedResult[store.BloodGlucose]] {
	page, err := h.store.ListBloodGlucose(ctx, q)
	return respondPtr(h, "blood_glucose_get_by_user", page, err)
}

// DeleteBloodGlucose removes a reading.
func (h *Handler) DeleteBloodGlucose(ctx context.Context, id string) Response[string] {
	return respond(h, "blood_glucose_delete", MsgDeleted, h.store.DeleteBloodGlucose(ctx, id))
}

// GlucoseStats summarizes a user's readings in [start, end).
func (h *Handler) GlucoseStats(ctx context.Context, userID, start, end string) Response[store.GlucoseStats] {
	stats, err := h.store.GetGlucoseStats(ctx, userID, start, end)
	return respondPtr(h, "glucose_stats", stats, err)
}

// CreateMedication stores a scheduled dose.
func (h *Handler) CreateMedication(ctx context.Context, m *store.Medication) Response[store.Medication] {
	created, err := h.store.CreateMedication(ctx, m)
	return respondPtr(h, "medication_create", created, err)
}

// GetMedicationsByUser pages a user's medications in [start, end).
func (h *Handler) GetMedicationsByUser(ctx context.Context, q store.RangeQuery) Response[store.PagedResult[store.Medication]] {
	page, err := h.store.ListMedications(ctx, q)
	return respondPtr(h, "medication_get_by_user", page, err)
}

// MarkMedicationTaken records that a dose was administered at actualTime.
func (h *Handler) MarkMedicationTaken(ctx context.Context, id, actualTime string) Response[string] {
	return respond(h, "medication_mark_taken", MsgMarkedTaken, h.store.MarkMedicationTaken(ctx, id, actualTime))
}

// DeleteMedication removes a medication.
func (h *Handler) DeleteMedication(ctx context.Context, id string) Response[string] {
	return respond(h, "medication_delete", MsgDeleted, h.store.DeleteMedication(ctx, id))
}

// CreateChatMessage appends to a user's chat log.
func (h *Handler) CreateChatMessage(ctx context.Context, m *store.ChatMessage) Response[store.ChatMessage] {
	created, err := h.store.CreateChatMessage(ctx, m)
	return respondPtr(h, "chat_message_create", created, err)
}

// GetChatHistory returns the newest take messages, newest first.
func (h *Handler) GetChatHistory(ctx context.Context, userID string, take int) Response[[]store.ChatMessage] {
	messages, err := h.store.GetChatHistory(ctx, userID, take)
	return respond(h, "chat_message_get_history", messages, err)
}
