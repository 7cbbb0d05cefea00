package service

import (
	"context"

	"github.com/Laisky/supabuilder-api/internal/web/builder/dao"
	"github.com/Laisky/supabuilder-api/library/db/sql/codestore"
	"github.com/Laisky/supabuilder-api/library/log"

	errors "github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const importConcurrency = 4

// Workspaces allocates workspace identities and persists their code.
//
// Persistence is best-effort by design: a lost save must never block the
// conversational flow, so storage failures are logged and swallowed.
type Workspaces struct {
	dao       *dao.Type
	editorURL string
}

func NewWorkspaces(d *dao.Type, editorURL string) *Workspaces {
	return &Workspaces{dao: d, editorURL: editorURL}
}

// Create allocates a fresh workspace identity. Identities are never
// reused within the process lifetime, even for identical content.
func (w *Workspaces) Create(ctx context.Context) string {
	id := "ws-" + uuid.New().String()
	log.Logger.Debug("create workspace", zap.String("workspace_id", id))
	return id
}

// SaveCode upserts one file into the workspace, last write wins. Storage
// failure degrades to a no-op.
func (w *Workspaces) SaveCode(ctx context.Context, workspaceID, fileName, source string) {
	if err := w.dao.SaveFile(ctx, workspaceID, fileName, source); err != nil {
		log.Logger.Warn("save workspace code",
			zap.Error(err),
			zap.String("workspace_id", workspaceID),
			zap.String("file_name", fileName))
	}
}

// LoadCode reads one file back. Absence is not an error: ok is false both
// for never-saved files and for an unavailable store.
func (w *Workspaces) LoadCode(ctx context.Context, workspaceID, fileName string) (source string, ok bool) {
	file, err := w.dao.GetFile(ctx, workspaceID, fileName)
	if err != nil {
		if !errors.Is(err, codestore.ErrNotFound) {
			log.Logger.Warn("load workspace code",
				zap.Error(err),
				zap.String("workspace_id", workspaceID),
				zap.String("file_name", fileName))
		}
		return "", false
	}

	return file.Source, true
}

// ImportFiles bulk-imports files into the workspace, each save
// best-effort. Returns early only when the context is cancelled.
func (w *Workspaces) ImportFiles(ctx context.Context, workspaceID string, files map[string]string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(importConcurrency)

	for fileName, source := range files {
		g.Go(func() error {
			w.SaveCode(gctx, workspaceID, fileName, source)
			return gctx.Err()
		})
	}

	return errors.Wrap(g.Wait(), "import workspace files")
}

// ListFiles returns every file stored for the workspace.
func (w *Workspaces) ListFiles(ctx context.Context, workspaceID string) ([]codestore.File, error) {
	files, err := w.dao.ListFiles(ctx, workspaceID)
	if err != nil {
		return nil, errors.Wrap(err, "list workspace files")
	}

	return files, nil
}

// OpenExternally hands the workspace off to the editor surface and
// returns its location. Fire-and-forget: it does not wait for the editor
// to be ready.
func (w *Workspaces) OpenExternally(ctx context.Context, workspaceID string) string {
	location := w.editorURL + "?workspace=" + workspaceID
	log.Logger.Info("hand workspace to editor",
		zap.String("workspace_id", workspaceID),
		zap.String("location", location))
	return location
}
