package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	appanalysis "github.com/moodsense-ai/moodsense/internal/application/analysis"
	"github.com/moodsense-ai/moodsense/internal/domain/advice"
	domain "github.com/moodsense-ai/moodsense/internal/domain/analysis"
	"github.com/moodsense-ai/moodsense/internal/domain/fusion"
	"github.com/moodsense-ai/moodsense/internal/domain/reply"
)

type fakeRepo struct {
	rows map[domain.AnalysisID]*domain.Analysis
}

func (f *fakeRepo) Save(ctx context.Context, a *domain.Analysis) error {
	f.rows[a.ID] = a
	return nil
}

func (f *fakeRepo) Get(ctx context.Context, id domain.AnalysisID) (*domain.Analysis, error) {
	a, ok := f.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (f *fakeRepo) Latest(ctx context.Context, modality domain.Modality, limit int) ([]*domain.Analysis, error) {
	var out []*domain.Analysis
	for _, a := range f.rows {
		if modality == "" || a.Modality == modality {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeRepo) Count(ctx context.Context, modality domain.Modality) (int64, error) {
	list, _ := f.Latest(ctx, modality, 0)
	return int64(len(list)), nil
}

func (f *fakeRepo) Paginate(ctx context.Context, modality domain.Modality, page, pageSize int) (domain.PaginatedResult, error) {
	list, _ := f.Latest(ctx, modality, 0)
	return domain.PaginatedResult{Data: list, Page: page, PageSize: pageSize, Total: int64(len(list)), TotalPages: 1}, nil
}

type fakeText struct{}

func (fakeText) AnalyzeText(ctx context.Context, message string) (*domain.TextResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, domain.ErrEmptyMessage
	}
	return &domain.TextResult{
		Emotion:    domain.EmotionAnger,
		RiskLevel:  domain.RiskHigh,
		Confidence: 0.8,
		Sentiment:  "negative",
	}, nil
}

type fakeVoice struct{}

func (fakeVoice) AnalyzeVoice(ctx context.Context, audio []byte) (*domain.VoiceResult, error) {
	return &domain.VoiceResult{
		Tone:        "Neutral",
		Emotion:     domain.EmotionNeutral,
		StressLevel: 0.1,
		RiskLevel:   domain.RiskLow,
	}, nil
}

type fakeFace struct{}

func (fakeFace) AnalyzeFace(ctx context.Context, image []byte) (*domain.FaceResult, error) {
	return &domain.FaceResult{
		FaceDetected: true,
		Emotion:      domain.EmotionJoy,
		Confidence:   0.9,
		RiskLevel:    domain.RiskLow,
		FacesCount:   1,
	}, nil
}

type testClock struct{}

func (testClock) Now() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

func newTestRouter() (http.Handler, *fakeRepo) {
	repo := &fakeRepo{rows: map[domain.AnalysisID]*domain.Analysis{}}
	svc := &appanalysis.Service{
		Repo:    repo,
		Text:    fakeText{},
		Voice:   fakeVoice{},
		Face:    fakeFace{},
		Advice:  advice.NewEngine(),
		Replies: reply.NewGenerator(),
		Fusion:  fusion.NewEngine(),
		Clock:   testClock{},
		Log:     zerolog.Nop(),
	}
	limits := Limits{
		MaxAudioBytes:   10 << 20,
		MaxImageBytes:   5 << 20,
		MaxMessageChars: 4000,
		AudioExtensions: []string{".wav"},
	}
	health := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
	return NewRouter(svc, limits, health), repo
}

func TestTextAnalyzeEndpoint(t *testing.T) {
	router, repo := newTestRouter()

	body := `{"message": "I am so angry right now"}`
	req := httptest.NewRequest(http.MethodPost, "/api/text/analyze", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res appanalysis.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Emotion != domain.EmotionAnger {
		t.Errorf("emotion = %v", res.Emotion)
	}
	if len(res.Replies) == 0 {
		t.Error("expected suggested replies")
	}
	if len(repo.rows) != 1 {
		t.Errorf("repo rows = %d, want 1", len(repo.rows))
	}
}

func TestTextAnalyzeEmptyMessageIsBadRequest(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/text/analyze", strings.NewReader(`{"message": "  "}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Error == "" {
		t.Error("expected an error message")
	}
}

func TestGetUnknownAnalysisIsNotFound(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/analysis/does-not-exist", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestVoiceAnalyzeMultipart(t *testing.T) {
	router, _ := newTestRouter()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("audio_file", "clip.wav")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("RIFF....WAVE"))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/voice/analyze", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestVoiceAnalyzeRejectsWrongExtension(t *testing.T) {
	router, _ := newTestRouter()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, _ := w.CreateFormFile("audio_file", "clip.mp3")
	fw.Write([]byte("ID3"))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/voice/analyze", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCombinedEndpointNoSignals(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/analysis/combined", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCombinedEndpointFusesStoredAnalyses(t *testing.T) {
	router, repo := newTestRouter()

	id := domain.NewID(domain.ModalityText)
	repo.rows[id] = &domain.Analysis{
		ID:         id,
		Modality:   domain.ModalityText,
		Emotion:    domain.EmotionAnger,
		RiskLevel:  domain.RiskHigh,
		Confidence: 0.8,
	}

	body := `{"text_analysis_id": "` + string(id) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/analysis/combined", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var res appanalysis.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.RiskLevel != domain.RiskHigh {
		t.Errorf("fused risk = %v, want HIGH", res.RiskLevel)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	router, repo := newTestRouter()

	id := domain.NewID(domain.ModalityText)
	repo.rows[id] = &domain.Analysis{ID: id, Modality: domain.ModalityText, Emotion: domain.EmotionJoy, RiskLevel: domain.RiskLow}

	req := httptest.NewRequest(http.MethodGet, "/api/text/history?limit=5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var payload struct {
		Count int               `json:"count"`
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Count != 1 || len(payload.Items) != 1 {
		t.Errorf("count = %d items = %d", payload.Count, len(payload.Items))
	}
}

func TestHistoryInvalidTypeIsBadRequest(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/analysis/history?type=video", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
