// ABOUTME: Name-keyed command registry for invoking handlers with JSON arguments
// ABOUTME: Argument keys follow the host's camelCase convention (userId, pageSize)

package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/2389/vitanote/internal/store"
)

// ErrUnknownCommand is returned by Dispatch for a name with no handler.
var ErrUnknownCommand = errors.New("unknown command")

// ErrInvalidArgs is returned by Dispatch when the arguments cannot be decoded
// or a required argument is missing.
var ErrInvalidArgs = errors.New("invalid arguments")

// CommandFunc runs one command against h with raw JSON arguments and returns
// its Response envelope.
type CommandFunc func(ctx context.Context, h *Handler, args json.RawMessage) (any, error)

// Command is a registered host command.
type Command struct {
	Name        string
	Description string
	Args        []string
	Run         CommandFunc
}

type idArgs struct {
	ID string `json:"id"`
}

type emailArgs struct {
	Email string `json:"email"`
}

type rangeArgs struct {
	UserID    string `json:"userId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Page      int    `json:"page"`
	PageSize  int    `json:"pageSize"`
}

func (a rangeArgs) query() store.RangeQuery {
	return store.RangeQuery{
		UserID:    a.UserID,
		StartDate: a.StartDate,
		EndDate:   a.EndDate,
		Page:      a.Page,
		PageSize:  a.PageSize,
	}
}

type markTakenArgs struct {
	ID         string `json:"id"`
	ActualTime string `json:"actualTime"`
}

type historyArgs struct {
	UserID string `json:"userId"`
	Take   int    `json:"take"`
}

type userArgs struct {
	User *store.User `json:"user"`
}

type foodArgs struct {
	Entry *store.FoodEntry `json:"entry"`
}

type glucoseArgs struct {
	Entry *store.BloodGlucose `json:"entry"`
}

type medicationArgs struct {
	Entry *store.Medication `json:"entry"`
}

type chatArgs struct {
	Message *store.ChatMessage `json:"message"`
}

// decode unmarshals args into a fresh In. Empty args decode to the zero value.
func decode[In any](args json.RawMessage) (In, error) {
	var in In
	if len(args) == 0 {
		return in, nil
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return in, fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	return in, nil
}

func missing(name string) error {
	return fmt.Errorf("%w: missing %q", ErrInvalidArgs, name)
}

var registry = []Command{
	{
		Name:        "db_init",
		Description: "Create the database and its tables",
		Run: func(ctx context.Context, h *Handler, _ json.RawMessage) (any, error) {
			return h.Init(ctx), nil
		},
	},
	{
		Name:        "user_create",
		Description: "Create a user",
		Args:        []string{"user"},
		Run: func(ctx context.Context, h *Handler, args json.RawMessage) (any, error) {
			in, err := decode[userArgs](args)
			if err != nil {
				return nil, err
			}
			if in.User == nil {
				return nil, missing("user")
			}
			return h.CreateUser(ctx, in.User), nil
		},
	},
	{
		Name:        "user_get_by_email",
		Description: "Look up a user by email",
		Args:        []string{"email"},
		Run: func(ctx context.Context, h *Handler, args json.RawMessage) (any, error) {
			in, err := decode[emailArgs](args)
			if err != nil {
				return nil, err
			}
			return h.GetUserByEmail(ctx, in.Email), nil
		},
	},
	{
		Name:        "user_get_by_id",
		Description: "Look up a user by id",
		Args:        []string{"id"},
		Run: func(ctx context.Context, h *Handler, args json.RawMessage) (any, error) {
			in, err := decode[idArgs](args)
			if err != nil {
				return nil, err
			}
			return h.GetUserByID(ctx, in.ID), nil
		},
	},
	{
		Name:        "user_update",
		Description: "Replace a user's profile fields",
		Args:        []string{"user"},
		Run: func(ctx context.Context, h *Handler, args json.RawMessage) (any, error) {
			in, err := decode[userArgs](args)
			if err != nil {
				return nil, err
			}
			if in.User == nil {
				return nil, missing("user")
			}
			return h.UpdateUser(ctx, in.User), nil
		},
	},
	{
		Name:        "user_delete",
		Description: "Delete a user and all of its records",
		Args:        []string{"id"},
		Run: func(ctx context.Context, h *Handler, args json.RawMessage) (any, error) {
			in, err := decode[idArgs](args)
			if err != nil {
				return nil, err
			}
			return h.DeleteUser(ctx, in.ID), nil
		},
	},
	{
		Name:        "food_entry_create",
		Description: "Log a food entry",
		Args:        []string{"entry"},
		Run: func(ctx context.Context, h *Handler, args json.RawMessage) (any, error) {
			in, err := decode[foodArgs](args)
			if err != nil {
				return nil, err
			}
			if in.Entry == nil {
				return nil, missing("entry")
			}
			return h.CreateFoodEntry(ctx, in.Entry), nil
		},
	},
	{
		Name:        "food_entry_get_by_user",
		Description: "Page a user's food entries in a date range",
		Args:        []string{"userId", "startDate", "endDate", "page", "pageSize"},
		Run: func(ctx context.Context, h *Handler, args json.RawMessage) (any, error) {
			in, err := decode[rangeArgs](args)
			if err != nil {
				return nil, err
			}
			return h.GetFoodEntriesByUser(ctx, in.query()), nil
		},
	},
	{
		Name:        "food_entry_delete",
		Description: "Delete a food entry",
		Args:        []string{"id"},
		Run: func(ctx context.Context, h *Handler, args json.RawMessage) (any, error) {
			in, err := decode[idArgs](args)
			if err != nil {
				return nil, err
			}
			return h.DeleteFoodEntry(ctx, in.ID), nil
		},
	},
	{
		Name:        "food_stats",
		Description: "Summarize a user's food entries in a date range",
		Args:        []string{"userId", "startDate", "endDate"},
		Run: func(ctx context.Context, h *Handler, args json.RawMessage) (any, error) {
			in, err := decode[rangeArgs](args)
			if err != nil {
				return nil, err
			}
			return h.FoodStats(ctx, in.UserID, in.StartDate, in.EndDate), nil
		},
	},
	{
		Name:        "blood_glucose_create",
		Description: "Log a blood glucose reading",
		Args:        []string{"entry"},
		Run: func(ctx context.Context, h *Handler, args json.RawMessage) (any, error) {
			in, err := decode[glucoseArgs](args)
			if err != nil {
				return nil, err
			}
			if in.Entry == nil {
				return nil, missing("entry")
			}
			return h.CreateBloodGlucose(ctx, in.Entry), nil
		},
	},
	{
		Name:        "blood_glucose_get_by_user",
		Description: "Page a user's glucose readings in a date range",
		Args:        []string{"userId", "startDate", "endDate", "page", "pageSize"},
		Run: func(ctx context.Context, h *Handler, args json.RawMessage) (any, error) {
			in, err := decode[rangeArgs](args)
			if err != nil {
				return nil, err
			}
			return h.GetBloodGlucoseByUser(ctx, in.query()), nil
		},
	},
	{
		Name:        "blood_glucose_delete",
		Description: "Delete a glucose reading",
		Args:        []string{"id"},
		Run: func(ctx context.Context, h *Handler, args json.RawMessage) (any, error) {
			in, err := decode[idArgs](args)
			if err != nil {
				return nil, err
			}
			return h.DeleteBloodGlucose(ctx, in.ID), nil
		},
	},
	{
		Name:        "glucose_stats",
		Description: "Summarize a user's glucose readings in a date range",
		Args:        []string{"userId", "startDate", "endDate"},
		Run: func(ctx context.Context, h *Handler, args json.RawMessage) (any, error) {
			in, err := decode[rangeArgs](args)
			if err != nil {
				return nil, err
			}
			return h.GlucoseStats(ctx, in.UserID, in.StartDate, in.EndDate), nil
		},
	},
	{
		Name:        "medication_create",
		Description: "Schedule a medication dose",
		Args:        []string{"entry"},
		Run: func(ctx context.Context, h *Handler, args json.RawMessage) (any, error) {
			in, err := decode[medicationArgs](args)
			if err != nil {
				return nil, err
			}
			if in.Entry == nil {
				return nil, missing("entry")
			}
			return h.CreateMedication(ctx, in.Entry), nil
		},
	},
	{
		Name:        "medication_get_by_user",
		Description: "Page a user's medications in a date range",
		Args:        []string{"userId", "startDate", "endDate", "page", "pageSize"},
		Run: func(ctx context.Context, h *Handler, args json.RawMessage) (any, error) {
			in, err := decode[rangeArgs](args)
			if err != nil {
				return nil, err
			}
			return h.GetMedicationsByUser(ctx, in.query()), nil
		},
	},
	{
		Name:        "medication_mark_taken",
		Description: "Mark a medication dose as taken",
		Args:        []string{"id", "actualTime"},
		Run: func(ctx context.Context, h *Handler, args json.RawMessage) (any, error) {
			in, err := decode[markTakenArgs](args)
			if err != nil {
				return nil, err
			}
			return h.MarkMedicationTaken(ctx, in.ID, in.ActualTime), nil
		},
	},
	{
		Name:        "medication_delete",
		Description: "Delete a medication",
		Args:        []string{"id"},
		Run: func(ctx context.Context, h *Handler, args json.RawMessage) (any, error) {
			in, err := decode[idArgs](args)
			if err != nil {
				return nil, err
			}
			return h.DeleteMedication(ctx, in.ID), nil
		},
	},
	{
		Name:        "chat_message_create",
		Description: "Append a chat message",
		Args:        []string{"message"},
		Run: func(ctx context.Context, h *Handler, args json.RawMessage) (any, error) {
			in, err := decode[chatArgs](args)
			if err != nil {
				return nil, err
			}
			if in.Message == nil {
				return nil, missing("message")
			}
			return h.CreateChatMessage(ctx, in.Message), nil
		},
	},
	{
		Name:        "chat_message_get_history",
		Description: "Fetch a user's most recent chat messages",
		Args:        []string{"userId", "take"},
		Run: func(ctx context.Context, h *Handler, args json.RawMessage) (any, error) {
			in, err := decode[historyArgs](args)
			if err != nil {
				return nil, err
			}
			return h.GetChatHistory(ctx, in.UserID, in.Take), nil
		},
	},
}

var byName = func() map[string]*Command {
	m := make(map[string]*Command, len(registry))
	for i := range registry {
		m[registry[i].Name] = &registry[i]
	}
	return m
}()

// Commands returns every registered command sorted by name.
func Commands() []Command {
	out := make([]Command, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the command registered under name.
func Lookup(name string) (Command, bool) {
	c, ok := byName[name]
	if !ok {
		return Command{}, false
	}
	return *c, true
}

// Dispatch runs the named command with JSON arguments. Store failures are
// reported inside the returned envelope; the error result is reserved for
// unknown commands and undecodable arguments.
func (h *Handler) Dispatch(ctx context.Context, name string, args json.RawMessage) (any, error) {
	c, ok := byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	h.logger.Debug("dispatching command", "command", name)
	return c.Run(ctx, h, args)
}
