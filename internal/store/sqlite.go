// ABOUTME: SQLite implementation of the health store using modernc.org/sqlite
// ABOUTME: Owns storage location resolution, the single connection and schema creation

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// SQLiteStore implements HealthStore on a single SQLite file.
// All statements run over one pooled connection, so writes are serialized
// and per-connection pragmas (foreign keys) always apply.
type SQLiteStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	logger *slog.Logger

	resolver    DirResolver
	explicit    string
	fileName    string
	driver      string
	pageSize    int
	historySize int
}

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithDirResolver sets the host-provided data directory, tried first.
func WithDirResolver(r DirResolver) Option {
	return func(s *SQLiteStore) { s.resolver = r }
}

// WithPath bypasses directory resolution and opens the given file.
func WithPath(path string) Option {
	return func(s *SQLiteStore) { s.explicit = path }
}

// WithFileName overrides DefaultFileName inside the resolved directory.
func WithFileName(name string) Option {
	return func(s *SQLiteStore) {
		if name != "" {
			s.fileName = name
		}
	}
}

// WithDriver selects the database/sql driver name (DriverModernc or DriverCGO).
func WithDriver(name string) Option {
	return func(s *SQLiteStore) {
		if name != "" {
			s.driver = name
		}
	}
}

// WithLogger replaces the default component logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *SQLiteStore) {
		if l != nil {
			s.logger = l.With("component", "store")
		}
	}
}

// WithPaging sets the page size used when a range query leaves it unset and
// the default chat history limit. Non-positive values keep the defaults.
func WithPaging(defaultSize, historyLimit int) Option {
	return func(s *SQLiteStore) {
		if defaultSize > 0 {
			s.pageSize = defaultSize
		}
		if historyLimit > 0 {
			s.historySize = historyLimit
		}
	}
}

// New creates an unopened store. Call Initialize before any other method.
func New(opts ...Option) *SQLiteStore {
	s := &SQLiteStore{
		logger:      slog.Default().With("component", "store"),
		fileName:    DefaultFileName,
		driver:      DriverModernc,
		pageSize:    DefaultPageSize,
		historySize: DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open is New followed by Initialize.
func Open(ctx context.Context, opts ...Option) (*SQLiteStore, error) {
	s := New(opts...)
	if err := s.Initialize(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Initialize resolves the storage location, creates its directory, opens the
// database and creates all tables if absent. Calling it again on an open
// store re-runs the idempotent schema creation only.
func (s *SQLiteStore) Initialize(ctx context.Context) error {
	const op = "initialize"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		path := s.ResolvePath()

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return newError(KindStorageUnavailable, op, fmt.Errorf("creating database directory: %w", err))
		}

		db, err := openDB(ctx, s.driver, path)
		if err != nil {
			return newError(KindStorageUnavailable, op, err)
		}
		s.db = db
		s.path = path
		s.logger.Info("SQLite store opened", "path", path, "driver", s.driver)
	}

	if err := createSchema(ctx, s.db); err != nil {
		return classify(op, fmt.Errorf("creating schema: %w", err))
	}
	return nil
}

// ResolvePath returns the database file Initialize would open, without
// touching the filesystem.
func (s *SQLiteStore) ResolvePath() string {
	if s.explicit != "" {
		return s.explicit
	}
	return filepath.Join(resolveDataDir(s.resolver, s.logger), s.fileName)
}

func openDB(ctx context.Context, driver, path string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn(driver, path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return db, nil
}

// Path returns the database file in use, or "" before Initialize.
func (s *SQLiteStore) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// Close closes the database connection. A later Initialize resolves the
// location again and reopens.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	s.logger.Info("closing SQLite store", "path", s.path)
	err := s.db.Close()
	s.db = nil
	s.path = ""
	if err != nil {
		return newError(KindStorageUnavailable, "close", err)
	}
	return nil
}

var errNotInitialized = errors.New("store is not initialized")

// handle returns the open database or a StorageUnavailable error.
func (s *SQLiteStore) handle(op string) (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, newError(KindStorageUnavailable, op, errNotInitialized)
	}
	return s.db, nil
}

// dbtx is the subset of database/sql shared by *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn in a transaction, committing on success and rolling back on
// error or panic.
func (s *SQLiteStore) withTx(ctx context.Context, fn func(ctx context.Context, tx dbtx) error) (err error) {
	db, err := s.handle("transaction")
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(ctx, tx)
}

// exec runs a single mutating statement and returns the affected row count.
func (s *SQLiteStore) exec(ctx context.Context, op, query string, args ...any) (int64, error) {
	db, err := s.handle(op)
	if err != nil {
		return 0, err
	}
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, classify(op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, classify(op, fmt.Errorf("getting rows affected: %w", err))
	}
	return n, nil
}

// queryRow runs a single-row lookup. A missing row yields (false, nil).
func (s *SQLiteStore) queryRow(ctx context.Context, op, query string, args []any, scan func(rowScanner) error) (bool, error) {
	db, err := s.handle(op)
	if err != nil {
		return false, err
	}
	err = scan(db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, classify(op, err)
	}
	return true, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Ensure SQLiteStore implements HealthStore
var _ HealthStore = (*SQLiteStore)(nil)
