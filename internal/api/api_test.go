package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/diarioapp/diario/internal/analysis"
	"github.com/diarioapp/diario/internal/googlesync"
	"github.com/diarioapp/diario/internal/journal"
	"github.com/diarioapp/diario/internal/model"
	"github.com/diarioapp/diario/internal/service"
	"github.com/diarioapp/diario/internal/storage"
)

// fakeAnalyzer returns a fixed set of cards, or a configured error.
type fakeAnalyzer struct {
	cards []model.Card
	err   error
}

func (f *fakeAnalyzer) Analyze(_ context.Context, req service.AnalysisRequest) ([]model.Card, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.Card, len(f.cards))
	copy(out, f.cards)
	return out, nil
}

// fakeGoogle records sync calls without touching the network.
type fakeGoogle struct {
	statusResult googlesync.Status
	eventErr     error
	taskErr      error
	events       []googlesync.EventInput
	tasksCreated []googlesync.TaskInput
	disconnected bool
}

func (f *fakeGoogle) AuthURL(userID string) (string, error) {
	return "https://accounts.google.com/o/oauth2/v2/auth?state=" + userID, nil
}

func (f *fakeGoogle) HandleCallback(_ context.Context, code, state string) error {
	if code == "bad" {
		return errors.New("exchange failed")
	}
	return nil
}

func (f *fakeGoogle) ConnectionStatus(_ context.Context, _ string) (googlesync.Status, error) {
	return f.statusResult, nil
}

func (f *fakeGoogle) Disconnect(_ context.Context, _ string) error {
	f.disconnected = true
	return nil
}

func (f *fakeGoogle) CreateEvent(_ context.Context, _ string, in googlesync.EventInput) (*googlesync.EventResult, error) {
	if f.eventErr != nil {
		return nil, f.eventErr
	}
	f.events = append(f.events, in)
	return &googlesync.EventResult{EventID: "evt-1"}, nil
}

func (f *fakeGoogle) CreateTask(_ context.Context, _ string, in googlesync.TaskInput) (*googlesync.TaskResult, error) {
	if f.taskErr != nil {
		return nil, f.taskErr
	}
	f.tasksCreated = append(f.tasksCreated, in)
	return &googlesync.TaskResult{TaskID: "task-1"}, nil
}

func sampleCards() []model.Card {
	return []model.Card{
		{
			Type:          model.TypeTask,
			Title:         "Call dentist",
			Content:       "I need to call the dentist.",
			Color:         model.ColorGreen,
			DetectedDate:  "2026-01-17",
			HasTaskAction: true,
			Position:      0,
		},
		{
			Type:     model.TypeEmotion,
			Title:    "Woke up happy",
			Content:  "I woke up really happy.",
			Color:    model.ColorAmber,
			Mood:     model.MoodHappy,
			Position: 1,
		},
	}
}

// testEnv builds a real SQLite-backed environment around fakes for the
// analyzer and Google.
func testEnv(t *testing.T, analyzer service.Analyzer, google GoogleService, token string) (http.Handler, *storage.SQLiteStorage) {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStorage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	svc := journal.NewService(store, analyzer, slog.Default())
	router := NewRouter(svc, google, RouterConfig{
		AuthEnabled: token != "",
		Token:       token,
		UserID:      "user-1",
		AppURL:      "http://localhost:3000",
	})
	return router, store
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func today() string { return time.Now().Format("2006-01-02") }

func TestAnalyzePersistsDayEntryCards(t *testing.T) {
	router, store := testEnv(t, &fakeAnalyzer{cards: sampleCards()}, nil, "")

	w := doJSON(t, router, http.MethodPost, "/api/analyze", "", map[string]string{
		"text":      "Today I woke up happy. I need to call the dentist tomorrow.",
		"todayDate": today(),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("analyze status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp AnalyzeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Success || resp.CardsCount != 2 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.DayID == "" || resp.EntryID == "" {
		t.Error("expected day and entry IDs in response")
	}

	cards, err := store.ListCards(context.Background(), "user-1", today())
	if err != nil {
		t.Fatalf("ListCards: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 persisted cards, got %d", len(cards))
	}
	if cards[0].Title != "Call dentist" || cards[0].Position != 0 {
		t.Errorf("unexpected first card: %+v", cards[0])
	}
}

func TestAnalyzeEmptyText(t *testing.T) {
	router, _ := testEnv(t, &fakeAnalyzer{}, nil, "")

	w := doJSON(t, router, http.MethodPost, "/api/analyze", "", map[string]string{"text": "   "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAnalyzeParseFailureCarriesRawResponse(t *testing.T) {
	analyzer := &fakeAnalyzer{err: &analysis.ParseError{
		Err: errors.New("invalid character"),
		Raw: "Sure! Here you go: ...",
	}}
	router, store := testEnv(t, analyzer, nil, "")

	w := doJSON(t, router, http.MethodPost, "/api/analyze", "", map[string]string{
		"text": "some text", "todayDate": today(),
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var resp errResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Raw != "Sure! Here you go: ..." {
		t.Errorf("expected raw response in body, got %+v", resp)
	}

	// A parse failure must persist nothing.
	if _, err := store.GetDay(context.Background(), "user-1", today()); err == nil {
		t.Error("expected no day row after parse failure")
	}
}

func TestAnalyzeRequiresAuthWhenEnabled(t *testing.T) {
	router, _ := testEnv(t, &fakeAnalyzer{cards: sampleCards()}, nil, "secret")

	w := doJSON(t, router, http.MethodPost, "/api/analyze", "", map[string]string{"text": "hello"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/analyze", "wrong", map[string]string{"text": "hello"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/analyze", "secret", map[string]string{
		"text": "hello", "todayDate": today(),
	})
	if w.Code != http.StatusOK {
		t.Errorf("good token: status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestListCards(t *testing.T) {
	router, _ := testEnv(t, &fakeAnalyzer{cards: sampleCards()}, nil, "")

	doJSON(t, router, http.MethodPost, "/api/analyze", "", map[string]string{
		"text": "hello", "todayDate": today(),
	})

	w := doJSON(t, router, http.MethodGet, "/api/days/"+today()+"/cards", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp CardListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 2 {
		t.Errorf("total = %d, want 2", resp.Total)
	}
	if resp.Cards[0].Date != today() {
		t.Errorf("card date = %q, want %s", resp.Cards[0].Date, today())
	}

	w = doJSON(t, router, http.MethodGet, "/api/days/not-a-date/cards", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad date: status = %d, want 400", w.Code)
	}
}

func TestUpdateCardTodayOnly(t *testing.T) {
	router, store := testEnv(t, &fakeAnalyzer{cards: sampleCards()}, nil, "")

	// Today's card can be edited.
	doJSON(t, router, http.MethodPost, "/api/analyze", "", map[string]string{
		"text": "hello", "todayDate": today(),
	})
	cards, _ := store.ListCards(context.Background(), "user-1", today())
	w := doJSON(t, router, http.MethodPatch, "/api/cards/"+cards[0].ID, "", map[string]string{
		"title": "Edited title", "content": "Edited content",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("patch status = %d, body = %s", w.Code, w.Body.String())
	}
	var detail CardDetail
	_ = json.Unmarshal(w.Body.Bytes(), &detail)
	if detail.Title != "Edited title" {
		t.Errorf("title = %q", detail.Title)
	}

	// A past day's card is read only.
	doJSON(t, router, http.MethodPost, "/api/analyze", "", map[string]string{
		"text": "old entry", "todayDate": "2020-05-01",
	})
	oldCards, _ := store.ListCards(context.Background(), "user-1", "2020-05-01")
	w = doJSON(t, router, http.MethodPatch, "/api/cards/"+oldCards[0].ID, "", map[string]string{
		"title": "nope", "content": "nope",
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("past-day patch status = %d, want 403", w.Code)
	}

	// Unknown card is a 404.
	w = doJSON(t, router, http.MethodPatch, "/api/cards/does-not-exist", "", map[string]string{
		"title": "x", "content": "y",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("missing card patch status = %d, want 404", w.Code)
	}
}

func TestDeleteCard(t *testing.T) {
	router, store := testEnv(t, &fakeAnalyzer{cards: sampleCards()}, nil, "")

	doJSON(t, router, http.MethodPost, "/api/analyze", "", map[string]string{
		"text": "hello", "todayDate": today(),
	})
	cards, _ := store.ListCards(context.Background(), "user-1", today())

	w := doJSON(t, router, http.MethodDelete, "/api/cards/"+cards[0].ID, "", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodDelete, "/api/cards/"+cards[0].ID, "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}

func TestGoogleStatusAndDisconnect(t *testing.T) {
	google := &fakeGoogle{statusResult: googlesync.Status{Connected: true, Scopes: "calendar tasks"}}
	router, _ := testEnv(t, &fakeAnalyzer{}, google, "")

	w := doJSON(t, router, http.MethodGet, "/api/auth/google/status", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var status googlesync.Status
	_ = json.Unmarshal(w.Body.Bytes(), &status)
	if !status.Connected {
		t.Error("expected connected status")
	}

	w = doJSON(t, router, http.MethodPost, "/api/auth/google/disconnect", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("disconnect status = %d", w.Code)
	}
	if !google.disconnected {
		t.Error("expected disconnect call")
	}
}

func TestGoogleAuthRedirects(t *testing.T) {
	router, _ := testEnv(t, &fakeAnalyzer{}, &fakeGoogle{}, "")

	w := doJSON(t, router, http.MethodGet, "/api/auth/google", "", nil)
	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", w.Code)
	}
	if loc := w.Header().Get("Location"); loc == "" {
		t.Error("expected Location header")
	}
}

func TestGoogleCallbackRedirectsToApp(t *testing.T) {
	router, _ := testEnv(t, &fakeAnalyzer{}, &fakeGoogle{}, "")

	w := doJSON(t, router, http.MethodGet, "/api/auth/google/callback?code=ok&state=abc", "", nil)
	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "http://localhost:3000" {
		t.Errorf("location = %q", loc)
	}

	w = doJSON(t, router, http.MethodGet, "/api/auth/google/callback?code=bad&state=abc", "", nil)
	if loc := w.Header().Get("Location"); loc != "http://localhost:3000?google_error=token_exchange_failed" {
		t.Errorf("error location = %q", loc)
	}

	w = doJSON(t, router, http.MethodGet, "/api/auth/google/callback", "", nil)
	if loc := w.Header().Get("Location"); loc != "http://localhost:3000?google_error=missing_params" {
		t.Errorf("missing params location = %q", loc)
	}
}

func TestCalendarSyncMarksCard(t *testing.T) {
	google := &fakeGoogle{}
	router, store := testEnv(t, &fakeAnalyzer{cards: sampleCards()}, google, "")

	doJSON(t, router, http.MethodPost, "/api/analyze", "", map[string]string{
		"text": "hello", "todayDate": today(),
	})
	cards, _ := store.ListCards(context.Background(), "user-1", today())

	w := doJSON(t, router, http.MethodPost, "/api/google/calendar/sync", "", map[string]any{
		"cardId":    cards[0].ID,
		"title":     cards[0].Title,
		"startDate": "2026-01-17",
		"startTime": "09:00",
		"endDate":   "2026-01-17",
		"endTime":   "10:00",
		"reminder":  30,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("sync status = %d, body = %s", w.Code, w.Body.String())
	}
	if len(google.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(google.events))
	}

	got, err := store.GetCardByID(context.Background(), "user-1", cards[0].ID)
	if err != nil {
		t.Fatalf("GetCardByID: %v", err)
	}
	if !got.SyncedCalendar {
		t.Error("expected card marked calendar-synced")
	}
}

func TestTasksSyncMarksCard(t *testing.T) {
	google := &fakeGoogle{}
	router, store := testEnv(t, &fakeAnalyzer{cards: sampleCards()}, google, "")

	doJSON(t, router, http.MethodPost, "/api/analyze", "", map[string]string{
		"text": "hello", "todayDate": today(),
	})
	cards, _ := store.ListCards(context.Background(), "user-1", today())

	w := doJSON(t, router, http.MethodPost, "/api/google/tasks/sync", "", map[string]any{
		"cardId":  cards[0].ID,
		"title":   cards[0].Title,
		"dueDate": "2026-01-17",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("sync status = %d, body = %s", w.Code, w.Body.String())
	}
	if len(google.tasksCreated) != 1 {
		t.Fatalf("expected 1 task, got %d", len(google.tasksCreated))
	}

	got, err := store.GetCardByID(context.Background(), "user-1", cards[0].ID)
	if err != nil {
		t.Fatalf("GetCardByID: %v", err)
	}
	if !got.SyncedTasks {
		t.Error("expected card marked tasks-synced")
	}
}

func TestSyncValidation(t *testing.T) {
	router, _ := testEnv(t, &fakeAnalyzer{}, &fakeGoogle{}, "")

	// Missing required fields.
	w := doJSON(t, router, http.MethodPost, "/api/google/calendar/sync", "", map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty calendar sync status = %d, want 400", w.Code)
	}
	w = doJSON(t, router, http.MethodPost, "/api/google/tasks/sync", "", map[string]any{"title": "t"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("tasks sync without card status = %d, want 400", w.Code)
	}
}

func TestGoogleRoutesWithoutService(t *testing.T) {
	router, _ := testEnv(t, &fakeAnalyzer{}, nil, "")

	w := doJSON(t, router, http.MethodGet, "/api/auth/google/status", "", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}
