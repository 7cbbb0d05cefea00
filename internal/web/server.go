// Package web gin server
package web

import (
	"net/http"
	"net/url"
	"strings"

	ginMw "github.com/Laisky/gin-middlewares/v7"
	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/Laisky/supabuilder-api/internal/web/builder/controller"
	"github.com/Laisky/supabuilder-api/library/log"
)

var (
	server = gin.New()
)

func RunServer(addr string) {
	server.Use(
		gin.Recovery(),
		ginMw.NewLoggerMiddleware(
			ginMw.WithLoggerMwColored(),
			ginMw.WithLevel(log.Logger.Level().String()),
			ginMw.WithLogger(log.Logger.Named("gin")),
		),
		allowCORS,
	)
	if !gconfig.Shared.GetBool("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := ginMw.EnableMetric(server); err != nil {
		log.Logger.Panic("enable metric server", zap.Error(err))
	}

	server.Any("/health", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "hello, world")
	})

	controller.Instance.RegisterRoutes(server)

	if editor := newEditorSPAHandler(log.Logger.Named("editor")); editor != nil {
		server.Any("/editor/*filepath", gin.WrapH(http.StripPrefix("/editor", editor)))
	}

	log.Logger.Info("listening on http", zap.String("addr", addr))
	log.Logger.Panic("httpServer exit", zap.Error(server.Run(addr)))
}

func allowCORS(ctx *gin.Context) {
	origin := ctx.Request.Header.Get("Origin")
	allowedOrigin := ""

	if origin != "" {
		parsedOriginURL, err := url.Parse(origin)
		if err == nil {
			host := strings.ToLower(parsedOriginURL.Hostname())
			if originAllowed(host) {
				allowedOrigin = origin
			}
		}
	}

	if allowedOrigin != "" {
		ctx.Header("Access-Control-Allow-Origin", allowedOrigin)
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS, HEAD")
		ctx.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept, Origin, X-CSRF-Token, X-Requested-With")
		ctx.Header("Access-Control-Max-Age", "86400") // 24 hours
		ctx.Header("Vary", "Origin")                  // Indicate that the response varies based on the Origin header

		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}
	} else if origin != "" && ctx.Request.Method == http.MethodOptions {
		// If Origin is present, but not allowed, and it's an OPTIONS request (preflight)
		// Deny the preflight request from disallowed origins.
		ctx.AbortWithStatus(http.StatusForbidden)
		return
	}

	ctx.Next()
}

// originAllowed matches the host against settings.builder.allowed_origins.
// Entries starting with "." allow the domain and every subdomain;
// localhost is always allowed for the local editor.
func originAllowed(host string) bool {
	if host == "localhost" || host == "127.0.0.1" {
		return true
	}

	for _, allowed := range gconfig.Shared.GetStringSlice("settings.builder.allowed_origins") {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		switch {
		case allowed == "":
			continue
		case allowed == "*":
			return true
		case strings.HasPrefix(allowed, "."):
			if host == strings.TrimPrefix(allowed, ".") || strings.HasSuffix(host, allowed) {
				return true
			}
		case host == allowed:
			return true
		}
	}

	return false
}
