package service

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Laisky/supabuilder-api/internal/web/builder/model"
	"github.com/Laisky/supabuilder-api/library/log"

	errors "github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
)

// ErrDeployInProgress rejects a deploy while the workspace already has an
// outstanding attempt. The status field is shared per workspace, so
// overlapping attempts must be refused instead of silently interleaved.
var ErrDeployInProgress = errors.New("deployment already in progress for workspace")

const defaultWorkspaceKey = "default"

// Provisioner performs the actual provisioning call. The real build and
// hosting pipeline is out of scope; implementations only have to report
// the resulting locations.
type Provisioner interface {
	Provision(ctx context.Context, platform model.Platform,
		code, fileName string, fileTree map[string]string) (url, repoURL string, err error)
}

// SimulatedProvisioner fabricates deployment locations from the file
// name. It stands in for the hosting providers during development.
type SimulatedProvisioner struct{}

func (SimulatedProvisioner) Provision(_ context.Context, platform model.Platform,
	_, fileName string, _ map[string]string) (url, repoURL string, err error) {
	slug := deploySlug(fileName)
	repoURL = "https://github.com/supabuilder/" + slug
	if platform == model.PlatformVercel {
		url = "https://" + slug + ".vercel.app"
	}

	return url, repoURL, nil
}

func deploySlug(fileName string) string {
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "app"
	}

	return slug
}

type deployState struct {
	status model.DeployStatus
	gen    uint64
}

// Deployer drives the per-workspace deployment status through
// idle -> in-progress -> succeeded|failed -> idle. Terminal states revert
// to idle after a fixed delay; the delay is a display affordance, not a
// retry.
type Deployer struct {
	provisioner Provisioner
	revertDelay time.Duration

	mu     sync.Mutex
	states map[string]*deployState

	// transitionHook observes every status transition, keyed by
	// workspace. Tests use it to assert transition order.
	transitionHook func(workspaceKey string, status model.DeployStatus)
}

func NewDeployer(provisioner Provisioner, revertDelay time.Duration) *Deployer {
	return &Deployer{
		provisioner: provisioner,
		revertDelay: revertDelay,
		states:      map[string]*deployState{},
	}
}

// Status reports the workspace's current deployment status.
func (d *Deployer) Status(workspaceID string) model.DeployStatus {
	d.mu.Lock()
	defer d.mu.Unlock()

	if st, ok := d.states[workspaceKey(workspaceID)]; ok {
		return st.status
	}

	return model.DeployStatusIdle
}

// Deploy runs one attempt against the platform. One invocation is one
// attempt: no retry, and a provisioning failure resolves to a failed
// attempt instead of an error. The only error condition is an attempt
// already in progress for the same workspace.
func (d *Deployer) Deploy(ctx context.Context, workspaceID string, platform model.Platform,
	code, fileName string, fileTree map[string]string) (model.DeploymentAttempt, error) {
	key := workspaceKey(workspaceID)

	d.mu.Lock()
	st, ok := d.states[key]
	if !ok {
		st = &deployState{status: model.DeployStatusIdle}
		d.states[key] = st
	}
	if st.status == model.DeployStatusInProgress {
		d.mu.Unlock()
		return model.DeploymentAttempt{Platform: platform, Status: st.status},
			errors.WithStack(ErrDeployInProgress)
	}
	st.gen++
	gen := st.gen
	d.setStatusLocked(key, st, model.DeployStatusInProgress)
	d.mu.Unlock()

	attempt := model.DeploymentAttempt{
		Platform: platform,
		Status:   model.DeployStatusInProgress,
	}

	url, repoURL, err := d.provisioner.Provision(ctx, platform, code, fileName, fileTree)
	if err != nil {
		log.Logger.Warn("provision deployment",
			zap.Error(err),
			zap.String("workspace_id", workspaceID),
			zap.String("platform", string(platform)))
		attempt.Status = model.DeployStatusFailed
	} else {
		attempt.Status = model.DeployStatusSucceeded
		attempt.URL = url
		attempt.RepoURL = repoURL
	}

	d.mu.Lock()
	d.setStatusLocked(key, st, attempt.Status)
	d.mu.Unlock()

	// auto-revert the shared status once the terminal state has been on
	// display long enough; a newer attempt supersedes the pending revert
	time.AfterFunc(d.revertDelay, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if st.gen == gen {
			d.setStatusLocked(key, st, model.DeployStatusIdle)
		}
	})

	return attempt, nil
}

func (d *Deployer) setStatusLocked(key string, st *deployState, status model.DeployStatus) {
	st.status = status
	if d.transitionHook != nil {
		d.transitionHook(key, status)
	}
}

func workspaceKey(workspaceID string) string {
	if workspaceID == "" {
		return defaultWorkspaceKey
	}

	return workspaceID
}
