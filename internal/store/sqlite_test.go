// ABOUTME: Tests for SQLite store lifecycle
// ABOUTME: Covers initialization, schema idempotence, location fallback and closed-store errors

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(context.Background(), WithPath(dbPath))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
	if store.Path() != dbPath {
		t.Errorf("Path() = %q, want %q", store.Path(), dbPath)
	}
}

func TestOpen_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "test.db")

	store, err := Open(context.Background(), WithPath(dbPath))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created in nested directory")
	}
}

func TestOpen_DirectoryNotCreatable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := Open(context.Background(), WithPath(filepath.Join(blocker, "db", "test.db")))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestInitialize_Idempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Initialize(ctx))
	require.NoError(t, store.Initialize(ctx))

	for _, table := range Tables {
		var count int
		err := store.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s", table)
	}
}

func TestInitialize_DataSurvivesReinitialize(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	createTestUser(t, store, "user-1", "a@example.com")
	require.NoError(t, store.Initialize(ctx))

	got, err := store.GetUserByID(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestInitialize_ForeignKeysEnabled(t *testing.T) {
	store := newTestStore(t)

	var enabled int
	err := store.db.QueryRowContext(context.Background(), `PRAGMA foreign_keys`).Scan(&enabled)
	require.NoError(t, err)
	assert.Equal(t, 1, enabled)
}

func TestInitialize_PragmasOnEveryConnection(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// No idle connections: each query below runs on a freshly opened one.
	store.db.SetMaxIdleConns(0)

	for i := 0; i < 2; i++ {
		var fk, timeout int
		require.NoError(t, store.db.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk))
		require.NoError(t, store.db.QueryRowContext(ctx, `PRAGMA busy_timeout`).Scan(&timeout))
		assert.Equal(t, 1, fk)
		assert.Equal(t, busyTimeoutMillis, timeout)
	}

	_, err := store.CreateFoodEntry(ctx, testFoodEntry("food-1", "ghost", "2024-01-10T12:00:00"))
	assert.ErrorIs(t, err, ErrConstraintViolation, "foreign keys enforced on a new connection")
}

func TestDSN(t *testing.T) {
	assert.Equal(t,
		"/tmp/v.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		dsn(DriverModernc, "/tmp/v.db"))
	assert.Equal(t,
		"/tmp/v.db?_foreign_keys=1&_busy_timeout=5000&_journal_mode=WAL",
		dsn(DriverCGO, "/tmp/v.db"))
}

func TestNotInitialized(t *testing.T) {
	store := New(WithPath(filepath.Join(t.TempDir(), "test.db")))
	ctx := context.Background()

	_, err := store.GetUserByID(ctx, "user-1")
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	_, err = store.ListFoodEntries(ctx, RangeQuery{UserID: "user-1"})
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	err = store.DeleteMedication(ctx, "med-1")
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	_, err = store.GetChatHistory(ctx, "user-1", 10)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestClose_ThenReinitialize(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	store, err := Open(ctx, WithPath(dbPath))
	require.NoError(t, err)
	createTestUser(t, store, "user-1", "a@example.com")

	require.NoError(t, store.Close())
	assert.Equal(t, "", store.Path())
	require.NoError(t, store.Close(), "second close is a no-op")

	_, err = store.GetUserByID(ctx, "user-1")
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	require.NoError(t, store.Initialize(ctx))
	defer store.Close()

	got, err := store.GetUserByID(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a@example.com", got.Email)
}

func TestInitialize_UsesDirResolver(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "host")

	store, err := Open(context.Background(), WithDirResolver(StaticDir(dir)))
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, DefaultFileName), store.Path())
}

func TestInitialize_CustomFileName(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(context.Background(), WithDirResolver(StaticDir(dir)), WithFileName("other.db"))
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "other.db"), store.Path())
}

func TestResolveDataDir_Order(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("exercises XDG resolution")
	}
	logger := New().logger

	xdg := t.TempDir()
	t.Setenv("XDG_DATA_HOME", xdg)

	t.Run("host resolver wins", func(t *testing.T) {
		got := resolveDataDir(StaticDir("/host/dir"), logger)
		assert.Equal(t, "/host/dir", got)
	})

	t.Run("failing resolver falls back to local data dir", func(t *testing.T) {
		failing := DirResolverFunc(func() (string, error) {
			return "", errors.New("no host context")
		})
		got := resolveDataDir(failing, logger)
		assert.Equal(t, filepath.Join(xdg, AppDirName), got)
	})

	t.Run("empty resolver falls back to local data dir", func(t *testing.T) {
		got := resolveDataDir(StaticDir(""), logger)
		assert.Equal(t, filepath.Join(xdg, AppDirName), got)
	})

	t.Run("no resolver uses local data dir", func(t *testing.T) {
		got := resolveDataDir(nil, logger)
		assert.Equal(t, filepath.Join(xdg, AppDirName), got)
	})

	t.Run("no local data dir uses ./data", func(t *testing.T) {
		t.Setenv("XDG_DATA_HOME", "")
		t.Setenv("HOME", "")
		got := resolveDataDir(nil, logger)
		assert.Equal(t, filepath.Join(".", "data"), got)
	})
}

func TestLocalDataDir_HomeFallback(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("exercises XDG resolution")
	}
	home := t.TempDir()
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", home)

	dir, err := LocalDataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local", "share"), dir)
}

func TestNew_PagingOptions(t *testing.T) {
	store := New(WithPaging(10, 5))
	assert.Equal(t, 10, store.pageSize)
	assert.Equal(t, 5, store.historySize)

	store = New(WithPaging(0, -1))
	assert.Equal(t, DefaultPageSize, store.pageSize)
	assert.Equal(t, DefaultHistoryLimit, store.historySize)
}

func TestValidDriver(t *testing.T) {
	assert.True(t, ValidDriver(DriverModernc))
	assert.True(t, ValidDriver(DriverCGO))
	assert.False(t, ValidDriver("postgres"))
}

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := Open(context.Background(), WithPath(filepath.Join(t.TempDir(), "test.db")))
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func createTestUser(t *testing.T, s HealthStore, id, email string) *User {
	t.Helper()

	u := &User{
		ID:           id,
		Username:     "user " + id,
		Email:        email,
		PasswordHash: "hash-" + id,
		CreatedAt:    "2024-01-01T00:00:00",
		Height:       170,
	}
	created, err := s.CreateUser(context.Background(), u)
	require.NoError(t, err)
	return created
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func TestResolvePath(t *testing.T) {
	dir := t.TempDir()
	store := New(WithDirResolver(StaticDir(dir)))
	assert.Equal(t, filepath.Join(dir, DefaultFileName), store.ResolvePath())
	assert.Equal(t, "", store.Path(), "nothing opened yet")

	explicit := New(WithPath("/tmp/x.db"), WithDirResolver(StaticDir(dir)))
	assert.Equal(t, "/tmp/x.db", explicit.ResolvePath())
}
