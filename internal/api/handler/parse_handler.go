// Package handler coordinates the parse request flow: load and normalize
// the document, run the extraction engine, cache, archive and persist.
package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/loader"
	"resume-parser-go/internal/parser"
	"resume-parser-go/internal/storage"
	"resume-parser-go/internal/storage/models"
	"resume-parser-go/internal/types"
)

// ParseHandler owns one upload's journey through the pipeline.
type ParseHandler struct {
	cfg    *config.Config
	engine *parser.Engine
	loader *loader.Loader
	store  *storage.Storage
	logger zerolog.Logger
}

// NewParseHandler wires the handler. store components may be nil when the
// corresponding concern is disabled.
func NewParseHandler(cfg *config.Config, engine *parser.Engine, docLoader *loader.Loader, store *storage.Storage, logger zerolog.Logger) *ParseHandler {
	return &ParseHandler{
		cfg:    cfg,
		engine: engine,
		loader: docLoader,
		store:  store,
		logger: logger,
	}
}

// ParseResponse is the API payload for one parse submission.
type ParseResponse struct {
	SubmissionUUID string              `json:"submission_uuid"`
	Record         *types.ResumeRecord `json:"record"`
	Comparison     *types.Comparison   `json:"comparison,omitempty"`
	Cached         bool                `json:"cached"`
}

// HandleParse processes one uploaded file: extract text, parse with the
// requested method (falling back to the configured default), consulting
// the cache first. Archival and persistence failures are logged but do not
// fail the request once a record exists.
func (h *ParseHandler) HandleParse(ctx context.Context, r io.Reader, size int64, filename, method string) (*ParseResponse, error) {
	if method == "" {
		method = h.cfg.Parser.Method
	}
	switch types.ParseMethod(method) {
	case types.MethodRule, types.MethodSemantic, types.MethodBoth:
	default:
		return nil, fmt.Errorf("unknown parse method %q", method)
	}
	if limit := int64(h.cfg.Server.MaxUploadMB) << 20; limit > 0 && size > limit {
		return nil, fmt.Errorf("upload of %d bytes exceeds the %dMB limit", size, h.cfg.Server.MaxUploadMB)
	}

	fileBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	format, err := loader.FormatForPath(filename)
	if err != nil {
		return nil, err
	}
	doc, err := h.loader.Load(ctx, bytes.NewReader(fileBytes), filename, format)
	if err != nil {
		return nil, err
	}

	// The submission ID is a V5 UUID over the normalized text and method,
	// so resubmitting the same content maps to the same record.
	submissionUUID := uuid.NewV5(uuid.NamespaceOID, doc.Text+"\x00"+method).String()

	if result, ok := h.cachedResult(ctx, doc.Text, method); ok {
		return &ParseResponse{
			SubmissionUUID: submissionUUID,
			Record:         result.Record,
			Comparison:     result.Comparison,
			Cached:         true,
		}, nil
	}

	result, err := h.engine.Parse(ctx, doc.Text, types.ParseMethod(method))
	if err != nil {
		return nil, err
	}

	h.cacheResult(ctx, doc.Text, method, result)
	archiveObject := h.archive(ctx, submissionUUID, filename, fileBytes)
	h.persist(ctx, submissionUUID, filename, string(doc.Format), method, archiveObject, result)

	return &ParseResponse{
		SubmissionUUID: submissionUUID,
		Record:         result.Record,
		Comparison:     result.Comparison,
	}, nil
}

func (h *ParseHandler) cachedResult(ctx context.Context, text, method string) (*parser.Result, bool) {
	if h.store == nil || h.store.Cache == nil {
		return nil, false
	}
	payload, ok, err := h.store.Cache.Get(ctx, storage.CacheKey(text, method))
	if err != nil {
		h.logger.Warn().Err(err).Msg("cache lookup failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var result parser.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		h.logger.Warn().Err(err).Msg("discarding undecodable cache entry")
		return nil, false
	}
	return &result, true
}

func (h *ParseHandler) cacheResult(ctx context.Context, text, method string, result *parser.Result) {
	if h.store == nil || h.store.Cache == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		h.logger.Warn().Err(err).Msg("marshaling result for cache failed")
		return
	}
	if err := h.store.Cache.Set(ctx, storage.CacheKey(text, method), payload); err != nil {
		h.logger.Warn().Err(err).Msg("cache write failed")
	}
}

func (h *ParseHandler) archive(ctx context.Context, submissionUUID, filename string, fileBytes []byte) string {
	if h.store == nil || h.store.Archive == nil {
		return ""
	}
	objectName := fmt.Sprintf("uploads/%s%s", submissionUUID, filepath.Ext(filename))
	stored, err := h.store.Archive.Store(ctx, objectName, bytes.NewReader(fileBytes), int64(len(fileBytes)), contentTypeFor(filename))
	if err != nil {
		h.logger.Warn().Err(err).Str("object", objectName).Msg("archiving original file failed")
		return ""
	}
	return stored
}

func contentTypeFor(filename string) string {
	switch filepath.Ext(filename) {
	case ".pdf":
		return "application/pdf"
	case ".txt", ".md", ".text":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

func (h *ParseHandler) persist(ctx context.Context, submissionUUID, filename, format, method, archiveObject string, result *parser.Result) {
	if h.store == nil || h.store.DB == nil {
		return
	}
	recordJSON, err := json.Marshal(result.Record)
	if err != nil {
		h.logger.Warn().Err(err).Msg("marshaling record for persistence failed")
		return
	}
	rec := &models.ParseRecord{
		SubmissionUUID: submissionUUID,
		FileName:       filename,
		SourceFormat:   format,
		Method:         method,
		ParsingMethod:  result.Record.Metadata.ParsingMethod,
		TextLength:     result.Record.Metadata.TextLength,
		ArchiveObject:  archiveObject,
		Record:         recordJSON,
	}
	if result.Comparison != nil {
		if cmpJSON, err := json.Marshal(result.Comparison); err == nil {
			rec.Comparison = cmpJSON
		}
	}
	if err := h.store.DB.SaveParseRecord(ctx, rec); err != nil {
		h.logger.Warn().Err(err).Str("submission_uuid", submissionUUID).Msg("persisting parse record failed")
	}
}

// GetRecord fetches a previously persisted parse record.
func (h *ParseHandler) GetRecord(ctx context.Context, submissionUUID string) (*models.ParseRecord, error) {
	if h.store == nil || h.store.DB == nil {
		return nil, fmt.Errorf("record persistence is not enabled")
	}
	return h.store.DB.GetParseRecord(ctx, submissionUUID)
}
