// Package router registers the HTTP API routes.
package router

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/keyauth"

	"resume-parser-go/internal/api/handler"
	"resume-parser-go/internal/parser"
	"resume-parser-go/internal/storage"
)

// RegisterRoutes wires the API. When apiKey is non-empty the parse routes
// require a matching bearer token; the health probe stays open.
func RegisterRoutes(h *server.Hertz, parseHandler *handler.ParseHandler, apiKey string) {
	h.GET("/api/v1/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})

	api := h.Group("/api/v1")
	if apiKey != "" {
		api.Use(keyauth.New(
			keyauth.WithKeyLookUp("header:Authorization", "Bearer"),
			keyauth.WithValidator(func(c context.Context, ctx *app.RequestContext, key string) (bool, error) {
				return key == apiKey, nil
			}),
		))
	}

	api.POST("/resumes/parse", func(c context.Context, ctx *app.RequestContext) {
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "missing multipart field \"file\""})
			return
		}
		method := ctx.PostForm("method")

		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "opening upload failed"})
			return
		}
		defer file.Close()

		resp, err := parseHandler.HandleParse(c, file, fileHeader.Size, fileHeader.Filename, method)
		if err != nil {
			status := consts.StatusInternalServerError
			if errors.Is(err, parser.ErrEmptyInput) {
				status = consts.StatusUnprocessableEntity
			}
			ctx.JSON(status, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, resp)
	})

	api.GET("/resumes/:uuid", func(c context.Context, ctx *app.RequestContext) {
		submissionUUID := ctx.Param("uuid")
		rec, err := parseHandler.GetRecord(c, submissionUUID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				ctx.JSON(consts.StatusNotFound, utils.H{"error": "no record for " + submissionUUID})
				return
			}
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, rec)
	})
}
