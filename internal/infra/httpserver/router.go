package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appanalysis "github.com/moodsense-ai/moodsense/internal/application/analysis"
	domai "github.com/moodsense-ai/moodsense/internal/domain/ai"
	domain "github.com/moodsense-ai/moodsense/internal/domain/analysis"
	"github.com/moodsense-ai/moodsense/internal/middleware"
)

// Limits carries the request-size caps the handlers enforce.
type Limits struct {
	MaxAudioBytes   int64
	MaxImageBytes   int64
	MaxMessageChars int
	AudioExtensions []string
}

type Router struct {
	svc    *appanalysis.Service
	limits Limits
}

func NewRouter(svc *appanalysis.Service, limits Limits, health http.HandlerFunc) http.Handler {
	r := &Router{svc: svc, limits: limits}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	mux.Use(middleware.MetricsMiddleware)

	mux.Get("/health", health)
	mux.Method(http.MethodGet, "/metrics", promhttp.Handler())

	mux.Route("/api", func(rt chi.Router) {
		rt.Post("/text/analyze", r.wrap(r.handleAnalyzeText))
		rt.Get("/text/history", r.wrap(r.historyHandler(domain.ModalityText)))

		rt.Post("/voice/analyze", r.wrap(r.handleAnalyzeVoice))
		rt.Get("/voice/history", r.wrap(r.historyHandler(domain.ModalityVoice)))

		rt.Post("/face/analyze", r.wrap(r.handleAnalyzeFace))
		rt.Get("/face/history", r.wrap(r.historyHandler(domain.ModalityFace)))

		rt.Post("/analysis/combined", r.wrap(r.handleAnalyzeCombined))
		rt.Get("/analysis/dashboard", r.wrap(r.handleDashboard))
		rt.Get("/analysis/history", r.wrap(r.handleHistory))
		rt.Get("/analysis/{id}", r.wrap(r.handleGet))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

type errorPayload struct {
	Error string `json:"error"`
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, domain.ErrNotFound):
				status = http.StatusNotFound
			case errors.Is(err, domain.ErrInvalidInput):
				status = http.StatusBadRequest
			case errors.Is(err, domai.ErrQuotaExceeded):
				status = http.StatusTooManyRequests
			}
			writeJSON(w, status, errorPayload{Error: err.Error()})
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// POST /api/text/analyze
// Body: {"message": "...", "conversation_id": "..."}
func (r *Router) handleAnalyzeText(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Message        string `json:"message"`
		ConversationID string `json:"conversation_id"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return errors.Join(domain.ErrInvalidInput, err)
	}
	if err := middleware.ValidateMessage(body.Message, r.limits.MaxMessageChars); err != nil {
		return err
	}

	res, err := r.svc.AnalyzeText(req.Context(), appanalysis.TextCommand{
		Message:        middleware.SanitizeString(body.Message),
		ConversationID: body.ConversationID,
	})
	if err != nil {
		return err
	}

	middleware.RecordAnalysis(string(domain.ModalityText), string(res.RiskLevel))
	return writeJSON(w, http.StatusOK, res)
}

// POST /api/voice/analyze
// Multipart form: audio_file + optional consent=true
func (r *Router) handleAnalyzeVoice(w http.ResponseWriter, req *http.Request) error {
	cmd, err := r.readUpload(req, "audio_file", r.limits.MaxAudioBytes)
	if err != nil {
		return err
	}
	if err := middleware.ValidateAudioUpload(cmd.Filename, int64(len(cmd.Data)), r.limits.MaxAudioBytes, r.limits.AudioExtensions); err != nil {
		return err
	}

	res, err := r.svc.AnalyzeVoice(req.Context(), cmd)
	if err != nil {
		return err
	}

	middleware.RecordAnalysis(string(domain.ModalityVoice), string(res.RiskLevel))
	return writeJSON(w, http.StatusOK, res)
}

// POST /api/face/analyze
// Multipart form: image_file + optional consent=true
func (r *Router) handleAnalyzeFace(w http.ResponseWriter, req *http.Request) error {
	cmd, err := r.readUpload(req, "image_file", r.limits.MaxImageBytes)
	if err != nil {
		return err
	}
	if err := middleware.ValidateImageUpload(int64(len(cmd.Data)), r.limits.MaxImageBytes); err != nil {
		return err
	}

	res, err := r.svc.AnalyzeFace(req.Context(), cmd)
	if err != nil {
		return err
	}

	middleware.RecordAnalysis(string(domain.ModalityFace), string(res.RiskLevel))
	return writeJSON(w, http.StatusOK, res)
}

// POST /api/analysis/combined
// Body: {"text_analysis_id": "...", "voice_analysis_id": "...", "face_analysis_id": "..."}
func (r *Router) handleAnalyzeCombined(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		TextID  string `json:"text_analysis_id"`
		VoiceID string `json:"voice_analysis_id"`
		FaceID  string `json:"face_analysis_id"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return errors.Join(domain.ErrInvalidInput, err)
	}

	res, err := r.svc.AnalyzeCombined(req.Context(), appanalysis.CombinedCommand{
		TextID:  body.TextID,
		VoiceID: body.VoiceID,
		FaceID:  body.FaceID,
	})
	if err != nil {
		return err
	}

	middleware.RecordAnalysis(string(domain.ModalityCombined), string(res.RiskLevel))
	return writeJSON(w, http.StatusOK, res)
}

// GET /api/analysis/dashboard
func (r *Router) handleDashboard(w http.ResponseWriter, req *http.Request) error {
	stats, err := r.svc.Dashboard(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, stats)
}

// GET /api/analysis/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	a, err := r.svc.Get(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, a)
}

// GET /api/analysis/history?limit=&type=&page=&page_size=
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	modality, err := domain.ParseModality(req.URL.Query().Get("type"))
	if err != nil {
		return err
	}

	if pageStr := req.URL.Query().Get("page"); pageStr != "" {
		page, _ := strconv.Atoi(pageStr)
		size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))
		result, err := r.svc.Paginate(req.Context(), modality, page, middleware.ValidateLimit(size))
		if err != nil {
			return err
		}
		return writeJSON(w, http.StatusOK, result)
	}

	return r.writeHistory(w, req, modality)
}

// historyHandler builds the per-modality GET history handler.
func (r *Router) historyHandler(modality domain.Modality) handlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		return r.writeHistory(w, req, modality)
	}
}

func (r *Router) writeHistory(w http.ResponseWriter, req *http.Request, modality domain.Modality) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	list, err := r.svc.History(req.Context(), modality, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.Analysis{}
	}
	return writeJSON(w, http.StatusOK, map[string]any{
		"count": len(list),
		"items": list,
	})
}

// readUpload pulls one file out of a multipart form along with the
// retention consent flag.
func (r *Router) readUpload(req *http.Request, field string, maxBytes int64) (appanalysis.MediaCommand, error) {
	if err := req.ParseMultipartForm(maxBytes); err != nil {
		return appanalysis.MediaCommand{}, errors.Join(domain.ErrInvalidInput, err)
	}

	file, header, err := req.FormFile(field)
	if err != nil {
		return appanalysis.MediaCommand{}, errors.Join(domain.ErrInvalidInput, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return appanalysis.MediaCommand{}, err
	}

	return appanalysis.MediaCommand{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
		Consent:     req.FormValue("consent") == "true",
	}, nil
}
