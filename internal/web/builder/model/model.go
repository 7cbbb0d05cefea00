// Package model defines the builder domain types.
package model

import (
	"time"
)

// Category is the closed set of operation types the classifier can assign
// to a user turn. Classification is total: every turn gets exactly one.
type Category string

const (
	CategoryImageAnalysis   Category = "image-analysis"
	CategoryZipExtraction   Category = "zip-extraction"
	CategoryFigmaConversion Category = "figma-conversion"
	CategoryFileAnalysis    Category = "file-analysis"
	CategoryGithubClone     Category = "github-clone"
	CategoryWebsiteClone    Category = "website-clone"
	CategoryAppBuild        Category = "app-build"
	CategoryDebug           Category = "debug"
	CategoryNone            Category = "none"
)

// Role marks who authored a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ActionDescriptor describes what operation was inferred from a user turn
// and what downstream action it implies. Produced once per assistant turn,
// immutable afterwards.
type ActionDescriptor struct {
	Category      Category          `json:"category"`
	OpenWorkspace bool              `json:"open_workspace"`
	Parameters    map[string]string `json:"parameters"`
	ModelUsed     string            `json:"model_used"`
	ProviderUsed  string            `json:"provider_used"`
}

// Attachment is a normalized file attachment carried by a message.
type Attachment struct {
	Name      string `json:"name"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
	Content   string `json:"content,omitempty"`
	BlobRef   string `json:"blob_ref,omitempty"`
}

// Message is one conversation turn. Never mutated after it is appended to
// a session's history.
type Message struct {
	ID          string            `json:"id"`
	Role        Role              `json:"role"`
	Text        string            `json:"text"`
	CreatedAt   time.Time         `json:"created_at"`
	Attachments []Attachment      `json:"attachments,omitempty"`
	Action      *ActionDescriptor `json:"action,omitempty"`
}

// Workspace is a named bundle of generated source files.
type Workspace struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Files     map[string]string `json:"files"`
}

// Platform is a deployment target.
type Platform string

const (
	// PlatformVercel deploys the frontend and reports both a site URL and
	// the backing repository URL.
	PlatformVercel Platform = "vercel"
	// PlatformGithub pushes the code and reports the repository URL only.
	PlatformGithub Platform = "github"
)

// ParsePlatform maps a wire value onto a Platform.
func ParsePlatform(raw string) (Platform, bool) {
	switch Platform(raw) {
	case PlatformVercel, PlatformGithub:
		return Platform(raw), true
	default:
		return "", false
	}
}

// DeployStatus is the deployment state machine's status value.
type DeployStatus string

const (
	DeployStatusIdle       DeployStatus = "idle"
	DeployStatusInProgress DeployStatus = "in-progress"
	DeployStatusSucceeded  DeployStatus = "succeeded"
	DeployStatusFailed     DeployStatus = "failed"
)

// DeploymentAttempt is one invocation of the deploy state machine.
// Each attempt is independent; no two attempts share mutable state.
type DeploymentAttempt struct {
	Platform Platform     `json:"platform"`
	Status   DeployStatus `json:"status"`
	URL      string       `json:"url,omitempty"`
	RepoURL  string       `json:"repo_url,omitempty"`
}
