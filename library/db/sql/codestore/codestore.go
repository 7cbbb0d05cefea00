// Package codestore persists workspace source files in a relational table.
//
// Every row is keyed by (workspace_id, file_name) so multi-file imports
// cannot leave a file's content and its bookkeeping out of sync, which the
// previous flat key layout allowed.
package codestore

import (
	"context"
	"database/sql"
	"regexp"
	"strings"
	"time"

	errors "github.com/Laisky/errors/v2"
)

var (
	_ Interface = new(Store)

	regexpWorkspaceID = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)
	regexpFileName    = regexp.MustCompile(`^[a-zA-Z0-9_./-]{1,128}$`)
	regexpTableName   = regexp.MustCompile(`^[a-zA-Z0-9_]{1,64}$`)

	// ErrNotFound is returned when the (workspace, file) pair has no row.
	ErrNotFound = errors.New("file not found")
)

// File is one persisted source file.
type File struct {
	WorkspaceID string    `json:"workspace_id"`
	FileName    string    `json:"file_name"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Interface is the code store interface.
type Interface interface {
	Upsert(ctx context.Context, workspaceID, fileName, source string) error
	Get(ctx context.Context, workspaceID, fileName string) (*File, error)
	ListFiles(ctx context.Context, workspaceID string) ([]File, error)
	Exists(ctx context.Context, workspaceID, fileName string) (bool, error)
	Del(ctx context.Context, workspaceID, fileName string) error
}

// Store is a code store backed by a sql database.
type Store struct {
	opt *option
	db  *sql.DB
}

type option struct {
	tableName string
}

// Option is a function that configures the store
type Option func(*option) error

func applyOpts(opts ...Option) (*option, error) {
	// fill default
	o := &option{
		tableName: "workspace_files",
	}

	// apply opts
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	return o, nil
}

// WithTableName is a option to set table name
func WithTableName(tableName string) Option {
	return func(o *option) error {
		if !regexpTableName.MatchString(tableName) {
			return errors.Errorf("invalid table name: %s", tableName)
		}
		o.tableName = tableName
		return nil
	}
}

// New create a new code store
func New(db *sql.DB, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}

	opt, err := applyOpts(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "apply opts")
	}

	s := &Store{
		opt: opt,
		db:  db,
	}

	if err := s.setup(); err != nil {
		return nil, errors.Wrap(err, "setup code store")
	}

	return s, nil
}

func (s *Store) setup() error {
	stmt := `
CREATE TABLE IF NOT EXISTS ` + s.opt.tableName + ` (
  workspace_id TEXT NOT NULL,
  file_name TEXT NOT NULL,
  source TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL,
  PRIMARY KEY (workspace_id, file_name)
)`

	if _, err := s.db.Exec(stmt); err != nil {
		return errors.Wrap(err, "create code store table")
	}

	return nil
}

func (s *Store) validKeys(workspaceID, fileName string) error {
	if !regexpWorkspaceID.MatchString(workspaceID) {
		return errors.Errorf("invalid workspace id: %s", workspaceID)
	}
	if !regexpFileName.MatchString(fileName) ||
		strings.Contains(fileName, "..") {
		return errors.Errorf("invalid file name: %s", fileName)
	}

	return nil
}

// Upsert stores the source for (workspace, file), last write wins.
func (s *Store) Upsert(ctx context.Context, workspaceID, fileName, source string) error {
	if err := s.validKeys(workspaceID, fileName); err != nil {
		return errors.WithStack(err)
	}

	now := time.Now().UTC()
	stmt := `
INSERT INTO ` + s.opt.tableName + ` (workspace_id, file_name, source, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT(workspace_id, file_name)
DO UPDATE SET source = EXCLUDED.source, updated_at = EXCLUDED.updated_at`

	if _, err := s.db.ExecContext(ctx, stmt,
		workspaceID, fileName, source, now, now); err != nil {
		return errors.Wrap(err, "upsert workspace file")
	}

	return nil
}

// Get retrieves the file's row, ErrNotFound when absent.
func (s *Store) Get(ctx context.Context, workspaceID, fileName string) (*File, error) {
	var doc File
	stmt := `SELECT workspace_id, file_name, source, created_at, updated_at FROM ` +
		s.opt.tableName + ` WHERE workspace_id = $1 AND file_name = $2 LIMIT 1`
	err := s.db.QueryRowContext(ctx, stmt, workspaceID, fileName).
		Scan(&doc.WorkspaceID, &doc.FileName, &doc.Source, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(ErrNotFound, "%s/%s", workspaceID, fileName)
		}
		return nil, errors.Wrap(err, "failed to get workspace file")
	}

	return &doc, nil
}

// ListFiles returns every file stored for the workspace, ordered by name.
func (s *Store) ListFiles(ctx context.Context, workspaceID string) ([]File, error) {
	stmt := `SELECT workspace_id, file_name, source, created_at, updated_at FROM ` +
		s.opt.tableName + ` WHERE workspace_id = $1 ORDER BY file_name`
	rows, err := s.db.QueryContext(ctx, stmt, workspaceID)
	if err != nil {
		return nil, errors.Wrap(err, "query workspace files")
	}
	defer rows.Close()

	var files []File
	for rows.Next() {
		var doc File
		if err = rows.Scan(&doc.WorkspaceID, &doc.FileName,
			&doc.Source, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "scan workspace file")
		}
		files = append(files, doc)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate workspace files")
	}

	return files, nil
}

// Exists checks whether the (workspace, file) pair has a row.
func (s *Store) Exists(ctx context.Context, workspaceID, fileName string) (bool, error) {
	_, err := s.Get(ctx, workspaceID, fileName)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, errors.Wrap(err, "failed to check existence")
	}

	return true, nil
}

// Del removes the file from the store.
func (s *Store) Del(ctx context.Context, workspaceID, fileName string) error {
	stmt := `DELETE FROM ` + s.opt.tableName + ` WHERE workspace_id = $1 AND file_name = $2`
	if _, err := s.db.ExecContext(ctx, stmt, workspaceID, fileName); err != nil {
		return errors.Wrap(err, "failed to delete workspace file")
	}
	return nil
}
