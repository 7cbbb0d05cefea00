// Package dao provides data access for workspace persistence.
package dao

import (
	"context"

	"github.com/Laisky/supabuilder-api/internal/web/builder/model"
	"github.com/Laisky/supabuilder-api/library/db/sql/codestore"
	"github.com/Laisky/supabuilder-api/library/log"

	errors "github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
)

var Instance *Type

type Type struct {
	store codestore.Interface
}

func Initialize(ctx context.Context) {
	model.Initialize(ctx)

	store, err := codestore.New(model.BuilderDB)
	if err != nil {
		log.Logger.Panic("create code store", zap.Error(err))
	}

	Instance = New(store)
}

func New(store codestore.Interface) *Type {
	return &Type{store: store}
}

// SaveFile upserts one source file, last write wins.
func (d *Type) SaveFile(ctx context.Context, workspaceID, fileName, source string) error {
	return errors.Wrap(
		d.store.Upsert(ctx, workspaceID, fileName, source),
		"upsert workspace file")
}

// GetFile loads one source file; codestore.ErrNotFound when absent.
func (d *Type) GetFile(ctx context.Context, workspaceID, fileName string) (*codestore.File, error) {
	file, err := d.store.Get(ctx, workspaceID, fileName)
	if err != nil {
		return nil, errors.Wrap(err, "get workspace file")
	}

	return file, nil
}

// ListFiles loads every file for the workspace.
func (d *Type) ListFiles(ctx context.Context, workspaceID string) ([]codestore.File, error) {
	files, err := d.store.ListFiles(ctx, workspaceID)
	if err != nil {
		return nil, errors.Wrap(err, "list workspace files")
	}

	return files, nil
}
