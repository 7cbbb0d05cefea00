// Package dto defines the wire types exchanged with the builder frontend.
package dto

import (
	"time"

	"github.com/Laisky/supabuilder-api/internal/web/builder/model"
)

// FileUpload is a raw attachment as submitted by the client,
// content transported as base64 like the rest of the upload endpoints.
type FileUpload struct {
	Name       string `json:"name" binding:"required"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
	ContentB64 string `json:"content_b64"`
}

// FileDescriptor is the normalized form of an upload. At most one of
// Content/BlobRef is set; both empty means only metadata survived.
type FileDescriptor struct {
	Name      string `json:"name"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
	Content   string `json:"content,omitempty"`
	BlobRef   string `json:"blob_ref,omitempty"`
}

// HistoryMessage is a prior conversation turn replayed by the client.
type HistoryMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatRequest is the chat transport request.
type ChatRequest struct {
	Message   string           `json:"message"`
	ModelID   string           `json:"model_id"`
	SessionID string           `json:"session_id"`
	History   []HistoryMessage `json:"history"`
	Files     []FileUpload     `json:"files"`
}

// ChatResponse is the chat transport response.
type ChatResponse struct {
	Narrative      string                  `json:"narrative"`
	NarrativeHTML  string                  `json:"narrative_html"`
	Action         *model.ActionDescriptor `json:"action"`
	ModelID        string                  `json:"model_id"`
	SessionID      string                  `json:"session_id"`
	WorkspaceID    string                  `json:"workspace_id,omitempty"`
	EditorLocation string                  `json:"editor_location,omitempty"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// DeployRequest is the deploy transport request.
type DeployRequest struct {
	Platform    string            `json:"platform" binding:"required"`
	Code        string            `json:"code"`
	FileName    string            `json:"file_name"`
	FileTree    map[string]string `json:"file_tree"`
	WorkspaceID string            `json:"workspace_id"`
}

// DeployResponse is the deploy transport response.
type DeployResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	RepoURL string `json:"repo_url,omitempty"`
	Error   string `json:"error,omitempty"`
}

// WorkspaceOpenRequest asks for a fresh workspace, optionally pre-seeded
// with one file.
type WorkspaceOpenRequest struct {
	Code     string `json:"code"`
	FileName string `json:"file_name"`
}

// WorkspaceOpenResponse reports the allocated workspace identity and the
// editor surface location it was handed to.
type WorkspaceOpenResponse struct {
	WorkspaceID string `json:"workspace_id"`
	Location    string `json:"location"`
}

// WorkspaceImportRequest bulk-imports files into a workspace.
type WorkspaceImportRequest struct {
	Files map[string]string `json:"files" binding:"required"`
}

// WorkspaceImportResponse acknowledges a bulk import.
type WorkspaceImportResponse struct {
	Success bool `json:"success"`
}

// WorkspaceFileResponse carries one stored file back to the client.
type WorkspaceFileResponse struct {
	FileName string `json:"file_name"`
	Source   string `json:"source"`
}
