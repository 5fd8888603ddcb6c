package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"meddocs/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay free of business logic; all orchestration lives in the
// service layer.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService) {
	api := app.Group("/api")

	api.Get("/health", HealthCheck())
	api.Get("/ready", ReadyCheck(db))

	api.Get("/documents", ListDocuments(docSvc))
	api.Post("/documents/upload", UploadDocument(docSvc))
	api.Get("/documents/:id", DownloadDocument(docSvc))
	api.Delete("/documents/:id", DeleteDocument(docSvc))
}

// HealthCheck is a trivial liveness probe with no dependencies.
//
// @Summary Liveness probe
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/health [get]
func HealthCheck() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// ReadyCheck reports whether the metadata index is reachable.
//
// @Summary Readiness probe
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /api/ready [get]
func ReadyCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ready"})
	}
}

// ListDocuments returns every stored document's metadata, newest first.
//
// @Summary List documents
// @Produce json
// @Success 200 {object} map[string][]model.Document
// @Router /api/documents [get]
func ListDocuments(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := docSvc.List(c.UserContext())
		if err != nil {
			logEvent(c, "error", "list_failed", map[string]any{"error": err.Error()})
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"documents": docs})
	}
}

// UploadDocument accepts a multipart PDF upload under the field name
// "document" and returns the canonical stored record.
//
// @Summary Upload a PDF document
// @Accept mpfd
// @Produce json
// @Param document formData file true "PDF file"
// @Success 201 {object} map[string]any
// @Failure 400 {object} errorPayload
// @Router /api/documents/upload [post]
func UploadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("document")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "document file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		doc, err := docSvc.Upload(c.UserContext(), f, fh.Filename)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNotPDF):
				return writeError(c, fiber.StatusBadRequest, "INVALID_FILE_TYPE", err.Error())
			case errors.Is(err, service.ErrEmptyFile):
				return writeError(c, fiber.StatusBadRequest, "EMPTY_FILE", err.Error())
			case errors.Is(err, service.ErrTooLarge):
				return writeError(c, fiber.StatusBadRequest, "FILE_TOO_LARGE", err.Error())
			}
			logEvent(c, "error", "upload_failed", map[string]any{
				"filename": fh.Filename,
				"error":    err.Error(),
			})
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message":  "Document uploaded successfully",
			"document": doc,
		})
	}
}

// DownloadDocument streams a document's content with its original filename.
//
// @Summary Download a document
// @Produce application/pdf
// @Param id path int true "Document ID"
// @Success 200 {file} binary
// @Failure 404 {object} errorPayload
// @Router /api/documents/{id} [get]
func DownloadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		rc, doc, err := docSvc.Download(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrBlobMissing) {
				// Invariant violation: the index row exists but the blob is
				// gone. Clients see a plain not-found; operators see this.
				logEvent(c, "warn", "blob_missing", map[string]any{
					"document_id": id,
					"error":       err.Error(),
				})
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			logEvent(c, "error", "download_failed", map[string]any{
				"document_id": id,
				"error":       err.Error(),
			})
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.OriginalName))
		// fasthttp closes the stream reader after the response is sent.
		return c.SendStream(rc, int(doc.Size))
	}
}

// DeleteDocument removes a document's content and metadata.
//
// @Summary Delete a document
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errorPayload
// @Router /api/documents/{id} [delete]
func DeleteDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		if err := docSvc.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			logEvent(c, "error", "delete_failed", map[string]any{
				"document_id": id,
				"error":       err.Error(),
			})
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		return c.JSON(fiber.Map{"message": "Document deleted successfully"})
	}
}

func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
