package handler

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"journalapi/internal/service"
	"journalapi/internal/storage"
)

// audioFormField is the multipart form field carrying the uploaded recording.
const audioFormField = "audio_file"

// textEntryRequest is the JSON body accepted by the text entry endpoint.
type textEntryRequest struct {
	Content string `json:"content"`
}

// Root returns a simple welcome payload so hitting the bare host is not a 404.
func Root() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "journal api", "docs": "/swagger/index.html"})
	}
}

// HealthCheck reports readiness: it verifies DB connectivity with a short timeout.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a plain liveness endpoint with no dependency checks.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// TranscribeAudio accepts an audio upload (multipart field: audio_file),
// transcribes it and returns the text without persisting a journal entry.
func TranscribeAudio(svc service.JournalService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile(audioFormField)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "audio_file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		language := c.Query("language", "en")

		res, err := svc.TranscribeUpload(c.UserContext(), f, fh.Filename, language)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// CreateJournalFromAudio uploads a recording, transcribes it and persists the
// transcription as a journal entry owned by ownerID.
func CreateJournalFromAudio(svc service.JournalService, ownerID int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile(audioFormField)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "audio_file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		language := c.Query("language", "en")

		entry, err := svc.CreateFromAudio(c.UserContext(), f, fh.Filename, language, ownerID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(entry)
	}
}

// CreateJournalFromText persists a typed journal entry. The body may be a JSON
// object with a "content" field or a raw text payload.
func CreateJournalFromText(svc service.JournalService, ownerID int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		content := ""
		ct := c.Get(fiber.HeaderContentType)
		if strings.HasPrefix(ct, fiber.MIMEApplicationJSON) {
			var req textEntryRequest
			if err := c.BodyParser(&req); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed JSON body")
			}
			content = req.Content
		} else {
			content = string(c.Body())
		}

		entry, err := svc.CreateFromText(c.UserContext(), content, ownerID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(entry)
	}
}

// GetJournal fetches a single journal entry by its numeric ID.
func GetJournal(svc service.JournalService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		entry, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(entry)
	}
}

// ListJournals returns the owner's entries, newest first, with limit & offset.
func ListJournals(svc service.JournalService, ownerID int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil || limit < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil || offset < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), ownerID, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// RetranscribeJournal re-runs transcription on the stored audio of an existing
// entry and updates its content with the fresh text.
func RetranscribeJournal(svc service.JournalService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		language := c.Query("language", "en")

		res, err := svc.Retranscribe(c.UserContext(), id, language)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// writeServiceError translates service-layer sentinel errors into the
// standardized error envelope without leaking internals.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, storage.ErrUnsupportedFormat):
		return writeError(c, fiber.StatusBadRequest, "UNSUPPORTED_FORMAT", "unsupported audio format")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "journal entry not found")
	case errors.Is(err, service.ErrNoAudio):
		return writeError(c, fiber.StatusBadRequest, "NO_AUDIO", "journal entry has no audio attached")
	case errors.Is(err, service.ErrAudioMissing):
		return writeError(c, fiber.StatusBadRequest, "AUDIO_MISSING", "stored audio file is missing")
	case errors.Is(err, service.ErrTranscription):
		return writeError(c, fiber.StatusInternalServerError, "TRANSCRIPTION_FAILED", "transcription failed")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.JournalService, ownerID int64) {
	app.Get("/", Root())

	// Readiness checks DB connectivity; liveness does not.
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")

	api.Post("/transcribe", TranscribeAudio(svc))

	api.Post("/journal/audio", CreateJournalFromAudio(svc, ownerID))
	api.Post("/journal/text", CreateJournalFromText(svc, ownerID))
	api.Get("/journal", ListJournals(svc, ownerID))
	api.Get("/journal/:id/transcribe", RetranscribeJournal(svc))
	api.Get("/journal/:id", GetJournal(svc))
}
