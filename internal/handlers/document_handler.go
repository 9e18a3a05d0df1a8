// Package handlers implements the remote document host: the small HTTP
// service a school runs as the shared source of truth for its schedule app
// installs. Reads are unauthenticated raw JSON; writes go through a
// contents-style endpoint with base64 payloads and an optimistic revision
// check.
package handlers

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Memaso-max/schedule-sync-service/internal/repositories"
)

// Artifacts the host serves. Anything else is a 404.
var artifactKeys = map[string]string{
	"data.json":      "remote:data.json",
	"data_meta.json": "remote:data_meta.json",
}

type DocumentHandler struct {
	kv     repositories.KeyValueStore
	logger *slog.Logger
}

func NewDocumentHandler(kv repositories.KeyValueStore, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{kv: kv, logger: logger}
}

// GetRaw serves the artifact body as-is, the way raw.githubusercontent.com
// would.
func (h *DocumentHandler) GetRaw(c *gin.Context) {
	key, ok := artifactKeys[c.Param("path")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown document"})
		return
	}
	content, err := h.kv.Get(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, repositories.ErrKeyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not initialized"})
			return
		}
		h.logger.Error("reading document failed", "error", err, "key", key)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(content))
}

// GetContents returns the revisioned view of an artifact: its base64 content
// plus the revision identifier writes must be conditioned on.
func (h *DocumentHandler) GetContents(c *gin.Context) {
	key, ok := artifactKeys[c.Param("path")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown document"})
		return
	}
	content, err := h.kv.Get(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, repositories.ErrKeyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not initialized"})
			return
		}
		h.logger.Error("reading document failed", "error", err, "key", key)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"path":    c.Param("path"),
		"sha":     revisionOf(content),
		"content": base64.StdEncoding.EncodeToString([]byte(content)),
	})
}

type putContentsRequest struct {
	Message string `json:"message" binding:"required"`
	Content string `json:"content" binding:"required"`
	SHA     string `json:"sha"`
}

// PutContents replaces an artifact. When the stored revision differs from the
// one the writer read, the write is rejected with 409 so the writer can
// re-read and retry.
func (h *DocumentHandler) PutContents(c *gin.Context) {
	key, ok := artifactKeys[c.Param("path")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown document"})
		return
	}

	var req putContentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	decoded, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content must be base64"})
		return
	}

	current, err := h.kv.Get(c.Request.Context(), key)
	switch {
	case err == nil:
		if req.SHA != "" && req.SHA != revisionOf(current) {
			c.JSON(http.StatusConflict, gin.H{"error": "document was updated concurrently"})
			return
		}
	case errors.Is(err, repositories.ErrKeyNotFound):
		// First write; no revision to check.
	default:
		h.logger.Error("reading document failed", "error", err, "key", key)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}

	if err := h.kv.Set(c.Request.Context(), key, string(decoded)); err != nil {
		h.logger.Error("writing document failed", "error", err, "key", key)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}

	h.logger.Info("document updated", "path", c.Param("path"), "message", req.Message)
	c.JSON(http.StatusOK, gin.H{
		"content": gin.H{
			"path": c.Param("path"),
			"sha":  revisionOf(string(decoded)),
		},
	})
}

// Health reports liveness.
func (h *DocumentHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// revisionOf derives the opaque revision identifier from content. Writers
// never interpret it; they only echo it back.
func revisionOf(content string) string {
	sum := sha1.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}
