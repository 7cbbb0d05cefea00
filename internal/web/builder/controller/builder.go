// Package controller exposes the builder REST endpoints.
package controller

import (
	"context"
	"net/http"

	"github.com/Laisky/supabuilder-api/internal/web/builder/dto"
	"github.com/Laisky/supabuilder-api/internal/web/builder/model"
	"github.com/Laisky/supabuilder-api/internal/web/builder/service"

	errors "github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

const apologyNarrative = "Sorry, something went wrong on my side. " +
	"Please try that again."

var Instance *Type

type Type struct {
	svc *service.Type
}

func Initialize(ctx context.Context) {
	service.Initialize(ctx)

	Instance = New(service.Instance)
}

func New(svc *service.Type) *Type {
	return &Type{svc: svc}
}

// RegisterRoutes mounts the builder endpoints on the server.
func (t *Type) RegisterRoutes(server *gin.Engine) {
	server.POST("/api/chat", t.Chat)
	server.POST("/api/deploy", t.Deploy)
	server.POST("/api/workspace/open", t.OpenWorkspace)
	server.POST("/api/workspace/:id/files", t.ImportFiles)
	server.GET("/api/workspace/:id/files", t.ListFiles)
	server.GET("/api/workspace/:id/files/:name", t.GetFile)
}

// Chat runs one conversational turn: extract attachments, classify the
// intent, synthesize the narrative and conditionally open a workspace.
func (t *Type) Chat(ctx *gin.Context) {
	logger := gmw.GetLogger(ctx).Named("chat")

	var req dto.ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request"})
		return
	}
	if req.Message == "" && len(req.Files) == 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "message is required"})
		return
	}

	sess := t.svc.Sessions.GetOrCreate(req.SessionID)
	if !sess.Begin() {
		// one outstanding turn per conversation; the UI disables
		// submission, so a second request is a client racing itself
		ctx.JSON(http.StatusTooManyRequests,
			dto.ErrorResponse{Error: "a turn is already in progress"})
		return
	}
	defer sess.End()

	seedHistory(sess, req.History)

	resp, err := t.runTurn(ctx.Request.Context(), sess, req)
	if err != nil {
		logger.Error("chat turn", zap.Error(err))
		// the failed turn still leaves the history valid
		sess.Append(service.NewAssistantMessage(apologyNarrative, nil))
		ctx.JSON(http.StatusInternalServerError,
			dto.ErrorResponse{Error: "something went wrong, please try again"})
		return
	}

	logger.Info("classified turn",
		zap.String("session_id", sess.ID),
		zap.String("category", string(resp.Action.Category)))
	ctx.JSON(http.StatusOK, resp)
}

func (t *Type) runTurn(ctx context.Context, sess *service.Session, req dto.ChatRequest) (*dto.ChatResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "turn context")
	}

	descs := t.svc.Extractor.ExtractAll(req.Files)
	sess.Append(service.NewUserMessage(req.Message, toAttachments(descs)))

	category, params := service.Classify(req.Message, descs)
	narrative, action := t.svc.Synthesizer.Synthesize(
		category, params, fileNames(descs), req.ModelID)

	resp := &dto.ChatResponse{
		Narrative:     narrative,
		NarrativeHTML: t.svc.Synthesizer.NarrativeHTML(narrative),
		Action:        &action,
		ModelID:       req.ModelID,
		SessionID:     sess.ID,
	}

	if action.OpenWorkspace {
		resp.WorkspaceID = t.svc.Workspaces.Create(ctx)
		resp.EditorLocation = t.svc.Workspaces.OpenExternally(ctx, resp.WorkspaceID)
	}

	sess.Append(service.NewAssistantMessage(narrative, &action))
	return resp, nil
}

// Deploy runs one deployment attempt against the chosen platform.
func (t *Type) Deploy(ctx *gin.Context) {
	logger := gmw.GetLogger(ctx).Named("deploy")

	var req dto.DeployRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest,
			dto.DeployResponse{Success: false, Error: "invalid request"})
		return
	}

	platform, ok := model.ParsePlatform(req.Platform)
	if !ok {
		ctx.JSON(http.StatusBadRequest,
			dto.DeployResponse{Success: false, Error: "unknown platform: " + req.Platform})
		return
	}

	if req.WorkspaceID != "" && req.Code != "" && req.FileName != "" {
		t.svc.Workspaces.SaveCode(ctx.Request.Context(),
			req.WorkspaceID, req.FileName, req.Code)
	}

	attempt, err := t.svc.Deployer.Deploy(ctx.Request.Context(),
		req.WorkspaceID, platform, req.Code, req.FileName, req.FileTree)
	if err != nil {
		if errors.Is(err, service.ErrDeployInProgress) {
			ctx.JSON(http.StatusConflict,
				dto.DeployResponse{Success: false, Error: err.Error()})
			return
		}
		logger.Error("deploy", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError,
			dto.DeployResponse{Success: false, Error: "deploy failed"})
		return
	}

	if attempt.Status != model.DeployStatusSucceeded {
		ctx.JSON(http.StatusOK,
			dto.DeployResponse{Success: false, Error: "deployment failed"})
		return
	}

	logger.Info("deployed workspace",
		zap.String("workspace_id", req.WorkspaceID),
		zap.String("platform", string(platform)),
		zap.String("url", attempt.URL))
	ctx.JSON(http.StatusOK, dto.DeployResponse{
		Success: true,
		URL:     attempt.URL,
		RepoURL: attempt.RepoURL,
	})
}

// OpenWorkspace allocates a fresh workspace, optionally pre-seeded with
// one file, and hands it to the editor surface.
func (t *Type) OpenWorkspace(ctx *gin.Context) {
	var req dto.WorkspaceOpenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request"})
		return
	}

	workspaceID := t.svc.Workspaces.Create(ctx.Request.Context())
	if req.Code != "" && req.FileName != "" {
		t.svc.Workspaces.SaveCode(ctx.Request.Context(),
			workspaceID, req.FileName, req.Code)
	}

	ctx.JSON(http.StatusOK, dto.WorkspaceOpenResponse{
		WorkspaceID: workspaceID,
		Location:    t.svc.Workspaces.OpenExternally(ctx.Request.Context(), workspaceID),
	})
}

// ImportFiles bulk-imports files into an existing workspace.
func (t *Type) ImportFiles(ctx *gin.Context) {
	logger := gmw.GetLogger(ctx).Named("import_files")

	var req dto.WorkspaceImportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request"})
		return
	}

	workspaceID := ctx.Param("id")
	if err := t.svc.Workspaces.ImportFiles(ctx.Request.Context(),
		workspaceID, req.Files); err != nil {
		logger.Warn("import files", zap.Error(err))
	}

	ctx.JSON(http.StatusOK, dto.WorkspaceImportResponse{Success: true})
}

// ListFiles returns every file stored for the workspace.
func (t *Type) ListFiles(ctx *gin.Context) {
	logger := gmw.GetLogger(ctx).Named("list_files")

	files, err := t.svc.Workspaces.ListFiles(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		logger.Warn("list files", zap.Error(err))
		ctx.JSON(http.StatusOK, []dto.WorkspaceFileResponse{})
		return
	}

	resp := []dto.WorkspaceFileResponse{}
	if err := copier.Copy(&resp, &files); err != nil {
		logger.Warn("map workspace files", zap.Error(err))
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetFile returns one stored file; absence is a valid empty result,
// surfaced as 404 by the transport.
func (t *Type) GetFile(ctx *gin.Context) {
	source, ok := t.svc.Workspaces.LoadCode(ctx.Request.Context(),
		ctx.Param("id"), ctx.Param("name"))
	if !ok {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
		return
	}

	ctx.JSON(http.StatusOK, dto.WorkspaceFileResponse{
		FileName: ctx.Param("name"),
		Source:   source,
	})
}

func seedHistory(sess *service.Session, history []dto.HistoryMessage) {
	if sess.Len() > 0 || len(history) == 0 {
		return
	}

	for _, h := range history {
		sess.Append(model.Message{
			ID:        h.ID,
			Role:      model.Role(h.Role),
			Text:      h.Text,
			CreatedAt: h.CreatedAt,
		})
	}
}

func toAttachments(descs []dto.FileDescriptor) []model.Attachment {
	if len(descs) == 0 {
		return nil
	}

	out := make([]model.Attachment, 0, len(descs))
	for _, d := range descs {
		out = append(out, model.Attachment{
			Name:      d.Name,
			MimeType:  d.MimeType,
			SizeBytes: d.SizeBytes,
			Content:   d.Content,
			BlobRef:   d.BlobRef,
		})
	}

	return out
}

func fileNames(descs []dto.FileDescriptor) []string {
	if len(descs) == 0 {
		return nil
	}

	names := make([]string, 0, len(descs))
	for _, d := range descs {
		names = append(names, d.Name)
	}

	return names
}
