// Package service implements the builder core: intent classification,
// response synthesis, workspace sessions and the deployment state machine.
package service

import (
	"context"
	"time"

	"github.com/Laisky/supabuilder-api/internal/web/builder/dao"
	"github.com/Laisky/supabuilder-api/internal/web/builder/model"

	gconfig "github.com/Laisky/go-config/v2"
)

const (
	defaultRevertDelay = 3 * time.Second
	defaultEditorURL   = "/editor"
)

var Instance *Type

type Type struct {
	Blobs       *BlobStore
	Extractor   *Extractor
	Synthesizer *Synthesizer
	Workspaces  *Workspaces
	Deployer    *Deployer
	Sessions    *Sessions
}

func Initialize(ctx context.Context) {
	dao.Initialize(ctx)

	Instance = New(dao.Instance)
}

func New(d *dao.Type) *Type {
	revertDelay := gconfig.Shared.GetDuration("settings.builder.deploy.revert_delay")
	if revertDelay <= 0 {
		revertDelay = defaultRevertDelay
	}

	editorURL := gconfig.Shared.GetString("settings.builder.editor_url")
	if editorURL == "" {
		editorURL = defaultEditorURL
	}

	blobs := NewBlobStore()
	return &Type{
		Blobs:       blobs,
		Extractor:   NewExtractor(blobs),
		Synthesizer: NewSynthesizer(model.NewRegistry()),
		Workspaces:  NewWorkspaces(d, editorURL),
		Deployer:    NewDeployer(SimulatedProvisioner{}, revertDelay),
		Sessions:    NewSessions(),
	}
}
