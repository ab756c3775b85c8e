// ABOUTME: Fills in caller-owned record fields before a create command
// ABOUTME: Missing ids get a UUID and missing created_at gets the current time

package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/2389/vitanote/internal/store"
)

var (
	now   = time.Now
	newID = uuid.NewString
)

// recordKeys maps create commands to the argument holding their record.
var recordKeys = map[string]string{
	"user_create":          "user",
	"food_entry_create":    "entry",
	"blood_glucose_create": "entry",
	"medication_create":    "entry",
	"chat_message_create":  "message",
}

// stampRecord assigns id and created_at on the record argument of a create
// command when the caller left them empty. Other commands pass through.
func stampRecord(command string, payload []byte) ([]byte, error) {
	key, ok := recordKeys[command]
	if !ok || len(payload) == 0 {
		return payload, nil
	}

	var args map[string]json.RawMessage
	if err := json.Unmarshal(payload, &args); err != nil {
		return nil, fmt.Errorf("parsing arguments: %w", err)
	}
	raw, ok := args[key]
	if !ok {
		return payload, nil
	}

	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", key, err)
	}
	if record == nil {
		return payload, nil
	}

	if isBlank(record["id"]) {
		record["id"] = newID()
	}
	if isBlank(record["created_at"]) {
		record["created_at"] = store.FormatTimestamp(now())
	}

	stamped, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", key, err)
	}
	args[key] = stamped
	return json.Marshal(args)
}

func isBlank(v any) bool {
	s, ok := v.(string)
	return v == nil || (ok && s == "")
}
