package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/diarioapp/diario/internal/analysis"
	"github.com/diarioapp/diario/internal/common"
	"github.com/diarioapp/diario/internal/googlesync"
	"github.com/diarioapp/diario/internal/journal"
	"github.com/diarioapp/diario/internal/storage"
)

// GoogleService is the slice of googlesync the handlers need.
type GoogleService interface {
	AuthURL(userID string) (string, error)
	HandleCallback(ctx context.Context, code, state string) error
	ConnectionStatus(ctx context.Context, userID string) (googlesync.Status, error)
	Disconnect(ctx context.Context, userID string) error
	CreateEvent(ctx context.Context, userID string, in googlesync.EventInput) (*googlesync.EventResult, error)
	CreateTask(ctx context.Context, userID string, in googlesync.TaskInput) (*googlesync.TaskResult, error)
}

// Handler holds API route handlers.
type Handler struct {
	journal *journal.Service
	google  GoogleService
	appURL  string
}

// NewHandler creates a new Handler. google may be nil when Google sync
// is not configured; its routes then answer 503.
func NewHandler(svc *journal.Service, google GoogleService, appURL string) *Handler {
	return &Handler{journal: svc, google: google, appURL: appURL}
}

// Analyze handles POST /api/analyze: segment the submitted text into
// cards and persist day, entry, and cards.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	userID := requestUserID(r)

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	result, err := h.journal.Analyze(r.Context(), userID, req.Text, req.TodayDate)
	if err != nil {
		h.writeAnalyzeError(w, userID, err)
		return
	}

	writeJSON(w, http.StatusOK, AnalyzeResponse{
		Success:    true,
		DayID:      result.DayID,
		EntryID:    result.EntryID,
		Cards:      toCardDetails(result.Cards),
		CardsCount: len(result.Cards),
	})
}

func (h *Handler) writeAnalyzeError(w http.ResponseWriter, userID string, err error) {
	var parseErr *analysis.ParseError
	switch {
	case errors.Is(err, common.ErrEmptyText):
		writeJSON(w, http.StatusBadRequest, errorBody("text cannot be empty"))
	case errors.As(err, &parseErr):
		writeJSON(w, http.StatusInternalServerError, errResponse{
			Error: "model did not return valid JSON",
			Raw:   parseErr.Raw,
		})
	case errors.Is(err, journal.ErrSaveDay):
		slog.Error("analyze: day persistence failed", slog.String("user_id", userID), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to save day"))
	case errors.Is(err, journal.ErrSaveEntry):
		slog.Error("analyze: entry persistence failed", slog.String("user_id", userID), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to save entry"))
	case errors.Is(err, journal.ErrSaveCards):
		slog.Error("analyze: card persistence failed", slog.String("user_id", userID), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to save cards"))
	default:
		slog.Error("analyze failed", slog.String("user_id", userID), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("analysis failed"))
	}
}

// ListCards handles GET /api/days/{date}/cards.
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	cards, err := h.journal.ListCards(r.Context(), requestUserID(r), date)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidDate) {
			writeJSON(w, http.StatusBadRequest, errorBody("date must be YYYY-MM-DD"))
			return
		}
		slog.Error("list cards failed", slog.String("date", date), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, CardListResponse{
		Cards: toCardDetails(cards),
		Total: len(cards),
	})
}

// UpdateCard handles PATCH /api/cards/{id}. Only today's cards may be
// edited.
func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	cardID := chi.URLParam(r, "id")

	var req UpdateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	card, err := h.journal.UpdateCard(r.Context(), requestUserID(r), cardID, req.Title, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		case errors.Is(err, common.ErrForbidden):
			writeJSON(w, http.StatusForbidden, errorBody("cards from past days are read only"))
		default:
			slog.Error("update card failed", slog.String("card_id", cardID), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, toCardDetail(*card))
}

// DeleteCard handles DELETE /api/cards/{id}.
func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "id")
	if err := h.journal.DeleteCard(r.Context(), requestUserID(r), cardID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("delete card failed", slog.String("card_id", cardID), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
