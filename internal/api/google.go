package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/diarioapp/diario/internal/common"
	"github.com/diarioapp/diario/internal/googlesync"
	"github.com/diarioapp/diario/internal/service"
)

func (h *Handler) requireGoogle(w http.ResponseWriter) bool {
	if h.google == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("google sync not configured"))
		return false
	}
	return true
}

// GoogleAuth handles GET /api/auth/google: redirect to the consent
// screen with the user ID carried in the state parameter.
func (h *Handler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	if !h.requireGoogle(w) {
		return
	}
	url, err := h.google.AuthURL(requestUserID(r))
	if err != nil {
		slog.Error("google auth url failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// GoogleCallback handles GET /api/auth/google/callback. Outcomes are
// reported to the frontend via a redirect query parameter, matching the
// browser flow Google sends the user back through.
func (h *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if !h.requireGoogle(w) {
		return
	}
	q := r.URL.Query()
	if errParam := q.Get("error"); errParam != "" {
		http.Redirect(w, r, h.appURL+"?google_error="+errParam, http.StatusTemporaryRedirect)
		return
	}
	code, state := q.Get("code"), q.Get("state")
	if code == "" || state == "" {
		http.Redirect(w, r, h.appURL+"?google_error=missing_params", http.StatusTemporaryRedirect)
		return
	}

	if err := h.google.HandleCallback(r.Context(), code, state); err != nil {
		slog.Error("google callback failed", slog.String("error", err.Error()))
		http.Redirect(w, r, h.appURL+"?google_error=token_exchange_failed", http.StatusTemporaryRedirect)
		return
	}
	http.Redirect(w, r, h.appURL, http.StatusTemporaryRedirect)
}

// GoogleStatus handles GET /api/auth/google/status.
func (h *Handler) GoogleStatus(w http.ResponseWriter, r *http.Request) {
	if !h.requireGoogle(w) {
		return
	}
	status, err := h.google.ConnectionStatus(r.Context(), requestUserID(r))
	if err != nil {
		slog.Error("google status failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// GoogleDisconnect handles POST /api/auth/google/disconnect.
func (h *Handler) GoogleDisconnect(w http.ResponseWriter, r *http.Request) {
	if !h.requireGoogle(w) {
		return
	}
	if err := h.google.Disconnect(r.Context(), requestUserID(r)); err != nil {
		slog.Error("google disconnect failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to disconnect"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// CalendarSync handles POST /api/google/calendar/sync: create a
// calendar event for a card and mark the card synced.
func (h *Handler) CalendarSync(w http.ResponseWriter, r *http.Request) {
	if !h.requireGoogle(w) {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	userID := requestUserID(r)

	var req CalendarSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	result, err := h.google.CreateEvent(r.Context(), userID, googlesync.EventInput{
		CardID:          req.CardID,
		Title:           req.Title,
		Description:     req.Description,
		StartDate:       req.StartDate,
		StartTime:       req.StartTime,
		EndDate:         req.EndDate,
		EndTime:         req.EndTime,
		ReminderMinutes: req.Reminder,
	})
	if err != nil {
		h.writeSyncError(w, "calendar", err)
		return
	}

	h.markSynced(r, userID, req.CardID, service.SyncCalendar)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"eventId":   result.EventID,
		"eventLink": result.Link,
	})
}

// TasksSync handles POST /api/google/tasks/sync.
func (h *Handler) TasksSync(w http.ResponseWriter, r *http.Request) {
	if !h.requireGoogle(w) {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	userID := requestUserID(r)

	var req TaskSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	result, err := h.google.CreateTask(r.Context(), userID, googlesync.TaskInput{
		CardID:  req.CardID,
		Title:   req.Title,
		Notes:   req.Notes,
		DueDate: req.DueDate,
	})
	if err != nil {
		h.writeSyncError(w, "tasks", err)
		return
	}

	h.markSynced(r, userID, req.CardID, service.SyncTasks)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"taskId":   result.TaskID,
		"taskLink": result.Link,
	})
}

func (h *Handler) writeSyncError(w http.ResponseWriter, surface string, err error) {
	if errors.Is(err, common.ErrNotConnected) {
		writeJSON(w, http.StatusBadRequest, errorBody("google account not connected"))
		return
	}
	slog.Error("google sync failed", slog.String("surface", surface), slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errorBody("failed to sync with google "+surface))
}

// markSynced flags the card after a successful push. The external write
// already happened, so a local failure is logged, not surfaced.
func (h *Handler) markSynced(r *http.Request, userID, cardID string, kind service.SyncKind) {
	if err := h.journal.MarkCardSynced(r.Context(), userID, cardID, kind); err != nil {
		slog.Warn("failed to mark card synced",
			slog.String("card_id", cardID),
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()))
	}
}
