// ABOUTME: Tests for CLI helpers
// ABOUTME: Covers config path priority, logger setup and the invoke round trip

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/vitanote/internal/commands"
	"github.com/2389/vitanote/internal/config"
)

func TestGetConfigPath(t *testing.T) {
	t.Run("env var wins", func(t *testing.T) {
		t.Setenv("VITANOTE_CONFIG", "/etc/vitanote.toml")
		assert.Equal(t, "/etc/vitanote.toml", getConfigPath())
	})

	t.Run("xdg config home", func(t *testing.T) {
		t.Setenv("VITANOTE_CONFIG", "")
		t.Setenv("XDG_CONFIG_HOME", "/xdg")
		assert.Equal(t, filepath.Join("/xdg", "vitanote", "config.yaml"), getConfigPath())
	})

	t.Run("home directory", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("VITANOTE_CONFIG", "")
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("HOME", home)
		assert.Equal(t, filepath.Join(home, ".config", "vitanote", "config.yaml"), getConfigPath())
	})
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := setupLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "component", "store")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"component":"store"`)
}

func TestColorHandler(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	tests := []struct {
		name string
		log  func(l *slog.Logger)
		want []string
	}{
		{
			name: "component tag",
			log:  func(l *slog.Logger) { l.With("component", "store").Debug("opened", "path", "/tmp/x.db") },
			want: []string{"DBG [store] opened", " path=/tmp/x.db"},
		},
		{
			name: "quoted values",
			log:  func(l *slog.Logger) { l.Info("saved", "note", "two words", "empty", "") },
			want: []string{"INF saved", ` note="two words"`, ` empty=""`},
		},
		{
			name: "groups",
			log: func(l *slog.Logger) {
				l.With("op", "list").WithGroup("page").Warn("listed", "size", 20, slog.Group("range", "start", "a"))
			},
			want: []string{"WRN listed", " op=list", " page.size=20", " page.range.start=a"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(setupLogger(config.LoggingConfig{Level: "debug", Format: "text"}, &buf))

			out := buf.String()
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			assert.NotContains(t, out, "component=")
			assert.True(t, strings.HasSuffix(out, "\n"))
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}

func TestRunInvoke(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("database:\n  dir: \""+dir+"\"\nlogging:\n  level: error\n"), 0o644))
	t.Setenv("VITANOTE_CONFIG", configPath)
	fixStamp(t)

	ctx := context.Background()
	invoke := func(args ...string) (map[string]any, error) {
		var out bytes.Buffer
		err := runInvoke(ctx, args, strings.NewReader(""), &out)
		var resp map[string]any
		if out.Len() > 0 {
			require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
		}
		return resp, err
	}

	resp, err := invoke("db_init")
	require.NoError(t, err)
	assert.Equal(t, commands.MsgInitialized, resp["data"])

	resp, err = invoke("user_create", `{"user":{"username":"alice","email":"alice@example.com","password_hash":"h"}}`)
	require.NoError(t, err)
	data := resp["data"].(map[string]any)
	assert.Equal(t, "generated-id", data["id"])

	var stdin bytes.Buffer
	stdin.WriteString(`{"email":"alice@example.com"}`)
	var out bytes.Buffer
	require.NoError(t, runInvoke(ctx, []string{"user_get_by_email", "-"}, &stdin, &out))
	assert.Contains(t, out.String(), `"username": "alice"`)

	resp, err = invoke("medication_mark_taken", `{"id":"missing","actualTime":"2024-03-01T10:00:00"}`)
	assert.ErrorIs(t, err, errCommandFailed)
	assert.Equal(t, false, resp["success"])

	_, err = invoke("not_a_command")
	assert.ErrorIs(t, err, commands.ErrUnknownCommand)

	_, err = invoke()
	assert.Error(t, err)

	_, err = os.Stat(filepath.Join(dir, "vitanote.db"))
	assert.NoError(t, err, "database created in configured dir")
}

func TestRunCommands(t *testing.T) {
	var buf bytes.Buffer
	runCommands(&buf)
	out := buf.String()
	assert.Contains(t, out, "food_entry_get_by_user")
	assert.Contains(t, out, "pageSize")
}
