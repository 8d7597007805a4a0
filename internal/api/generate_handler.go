package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"cardforge/internal/api/shared"
	"cardforge/internal/domain"
	"cardforge/internal/extractor"
	"cardforge/internal/generation"
	"cardforge/internal/task"
)

// GenerateHandler accepts generation requests and exposes their status.
// Requests are processed asynchronously: the handler stores a pending
// result, enqueues a task, and returns immediately.
type GenerateHandler struct {
	orchestrator *generation.Orchestrator
	queue        task.QueueWriter
	logger       *slog.Logger
}

// NewGenerateHandler creates a GenerateHandler.
func NewGenerateHandler(
	orchestrator *generation.Orchestrator,
	queue task.QueueWriter,
	logger *slog.Logger,
) *GenerateHandler {
	return &GenerateHandler{
		orchestrator: orchestrator,
		queue:        queue,
		logger:       logger.With("component", "generate_handler"),
	}
}

// Generate handles POST /api/generate requests.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var body GenerateRequest
	if err := shared.DecodeJSON(r, &body); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request format")
		return
	}
	if err := shared.ValidateRequest(body); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "validation error: "+err.Error())
		return
	}

	req, err := h.buildRequest(body)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.orchestrator.Accept(req)
	if err := h.queue.Enqueue(generation.NewTask(req, h.orchestrator)); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.logger.Info("generation request accepted",
		"request_id", req.ID,
		"template", req.TemplateName,
		"card_count", req.CardCount)

	shared.RespondWithJSON(w, r, http.StatusAccepted, GenerateResponse{
		RequestID: req.ID,
		Status:    domain.RequestStatusPending,
	})
}

// Status handles GET /api/requests/{id} requests.
func (h *GenerateHandler) Status(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request ID")
		return
	}

	res, err := h.orchestrator.Status(id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newStatusResponse(res))
}

// buildRequest converts the API payload into a generation request,
// extracting text from any uploaded files.
func (h *GenerateHandler) buildRequest(body GenerateRequest) (generation.Request, error) {
	content := strings.TrimSpace(body.Content)

	var sourceNames []string
	for _, file := range body.SourceFiles {
		doc, err := extractor.Extract(file.Name, file.Data)
		if err != nil {
			return generation.Request{}, fmt.Errorf("extract %q: %w", file.Name, err)
		}
		if content != "" {
			content += "\n\n"
		}
		content += doc.Text
		sourceNames = append(sourceNames, file.Name)
	}
	if strings.TrimSpace(content) == "" {
		return generation.Request{}, fmt.Errorf("%w: no content to generate from", domain.ErrValidation)
	}

	formats := make([]domain.ExportFormat, 0, len(body.Formats))
	for _, raw := range body.Formats {
		format, err := domain.ParseFormat(raw)
		if err != nil {
			return generation.Request{}, err
		}
		formats = append(formats, format)
	}

	req := generation.NewRequest(content)
	req.DeckName = strings.TrimSpace(body.DeckName)
	req.TemplateName = body.TemplateName
	req.CardCount = body.CardCount
	req.Difficulty = body.Difficulty
	req.Tags = domain.NormalizeTags(body.Tags)
	req.Formats = formats
	req.SourceFiles = sourceNames
	return req, nil
}
