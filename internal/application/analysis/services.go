package analysis

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/moodsense-ai/moodsense/internal/application"
	"github.com/moodsense-ai/moodsense/internal/domain/advice"
	domain "github.com/moodsense-ai/moodsense/internal/domain/analysis"
	"github.com/moodsense-ai/moodsense/internal/domain/conversation"
	"github.com/moodsense-ai/moodsense/internal/domain/fusion"
	"github.com/moodsense-ai/moodsense/internal/domain/reply"
)

// Service implements the analysis use-cases. Safe for concurrent use.
type Service struct {
	Repo    domain.Repository
	Convos  conversation.Repository
	Media   domain.MediaStore
	Text    domain.TextAnalyzer
	Voice   domain.VoiceAnalyzer
	Face    domain.FaceAnalyzer
	Advice  *advice.Engine
	Replies *reply.Generator
	Fusion  *fusion.Engine
	Clock   application.Clock
	Log     zerolog.Logger

	// StoreMedia gates persistence of uploaded audio/images. When false,
	// media is analyzed in memory and discarded.
	StoreMedia bool
}

//
// ==== USE CASES ====
//

type TextCommand struct {
	Message        string
	ConversationID string
}

type MediaCommand struct {
	Filename    string
	ContentType string
	Data        []byte

	// Consent is the caller's per-request opt-in to media retention.
	Consent bool
}

type CombinedCommand struct {
	TextID  string
	VoiceID string
	FaceID  string
}

// Result is the response shape shared by the analyze use-cases.
type Result struct {
	AnalysisID     string             `json:"analysis_id"`
	Emotion        domain.Emotion     `json:"emotion"`
	RiskLevel      domain.RiskLevel   `json:"risk_level"`
	Confidence     float64            `json:"confidence"`
	Details        map[string]any     `json:"details,omitempty"`
	Advice         advice.Advice      `json:"advice"`
	Replies        []string           `json:"suggested_replies,omitempty"`
	Warnings       []string           `json:"warnings,omitempty"`
	ConversationID string             `json:"conversation_id,omitempty"`
	MediaURL       string             `json:"media_url,omitempty"`
	DurationMS     int64              `json:"duration_ms"`
}

// AnalyzeText classifies a message, stores the record and updates the
// conversation trend when a conversation id is supplied.
func (s *Service) AnalyzeText(ctx context.Context, cmd TextCommand) (*Result, error) {
	start := s.Clock.Now()

	res, err := s.Text.AnalyzeText(ctx, cmd.Message)
	if err != nil {
		return nil, err
	}

	a := &domain.Analysis{
		ID:         domain.NewID(domain.ModalityText),
		CreatedAt:  start,
		Modality:   domain.ModalityText,
		InputText:  cmd.Message,
		Emotion:    res.Emotion,
		RiskLevel:  res.RiskLevel,
		Confidence: res.Confidence,
		Details: map[string]any{
			"emotion_breakdown":  res.EmotionBreakdown,
			"is_sarcastic":       res.IsSarcastic,
			"sarcasm_confidence": res.SarcasmConfidence,
			"sentiment":          res.Sentiment,
			"sentiment_score":    res.SentimentScore,
		},
		ConversationID: cmd.ConversationID,
	}
	return s.finish(ctx, a, start, "")
}

// AnalyzeVoice extracts acoustic features from an uploaded recording.
// The audio bytes are only persisted when media retention is enabled.
func (s *Service) AnalyzeVoice(ctx context.Context, cmd MediaCommand) (*Result, error) {
	start := s.Clock.Now()

	res, err := s.Voice.AnalyzeVoice(ctx, cmd.Data)
	if err != nil {
		return nil, err
	}

	a := &domain.Analysis{
		ID:         domain.NewID(domain.ModalityVoice),
		CreatedAt:  start,
		Modality:   domain.ModalityVoice,
		Emotion:    res.Emotion,
		RiskLevel:  res.RiskLevel,
		Confidence: res.StressLevel,
		Details: map[string]any{
			"tone":           res.Tone,
			"stress_level":   res.StressLevel,
			"features":       res.Features,
			"interpretation": res.Interpretation,
		},
	}
	url, key := s.storeMedia(ctx, a.ID, cmd)
	a.MediaURL = url
	return s.finish(ctx, a, start, key)
}

// AnalyzeFace classifies the facial expression in an uploaded image.
func (s *Service) AnalyzeFace(ctx context.Context, cmd MediaCommand) (*Result, error) {
	start := s.Clock.Now()

	res, err := s.Face.AnalyzeFace(ctx, cmd.Data)
	if err != nil {
		return nil, err
	}

	a := &domain.Analysis{
		ID:         domain.NewID(domain.ModalityFace),
		CreatedAt:  start,
		Modality:   domain.ModalityFace,
		Emotion:    res.Emotion,
		RiskLevel:  res.RiskLevel,
		Confidence: res.Confidence,
		Details: map[string]any{
			"face_detected":     res.FaceDetected,
			"faces_count":       res.FacesCount,
			"detailed_emotions": res.DetailedEmotions,
			"message":           res.Message,
		},
	}
	url, key := s.storeMedia(ctx, a.ID, cmd)
	a.MediaURL = url
	return s.finish(ctx, a, start, key)
}

// AnalyzeCombined fuses previously stored analyses into one risk
// assessment. Missing ids are tolerated; at least one signal must
// resolve.
func (s *Service) AnalyzeCombined(ctx context.Context, cmd CombinedCommand) (*Result, error) {
	start := s.Clock.Now()

	signals := map[string]fusion.Signal{}
	for source, id := range map[string]string{
		"text":  cmd.TextID,
		"voice": cmd.VoiceID,
		"face":  cmd.FaceID,
	} {
		if id == "" {
			continue
		}
		stored, err := s.Repo.Get(ctx, domain.AnalysisID(id))
		if errors.Is(err, domain.ErrNotFound) {
			s.Log.Warn().Str("source", source).Str("id", id).Msg("combined analysis references missing record")
			continue
		}
		if err != nil {
			return nil, err
		}
		signals[source] = signalFrom(stored)
	}

	if len(signals) == 0 {
		return nil, domain.ErrNoSignals
	}

	assessment := s.Fusion.Combine(signals)

	a := &domain.Analysis{
		ID:         domain.NewID(domain.ModalityCombined),
		CreatedAt:  start,
		Modality:   domain.ModalityCombined,
		Emotion:    assessment.DominantEmotion,
		RiskLevel:  assessment.RiskLevel,
		Confidence: assessment.Confidence,
		Details: map[string]any{
			"risk_score":      assessment.RiskScore,
			"signals":         assessment.Signals,
			"signal_conflict": assessment.SignalConflict,
			"recommendations": assessment.Recommendations,
			"explanation":     assessment.Explanation,
		},
	}
	return s.finish(ctx, a, start, "")
}

// Get returns one stored analysis by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Analysis, error) {
	return s.Repo.Get(ctx, domain.AnalysisID(id))
}

// History returns the latest analyses, newest first.
func (s *Service) History(ctx context.Context, modality domain.Modality, limit int) ([]*domain.Analysis, error) {
	return s.Repo.Latest(ctx, modality, limit)
}

// Paginate returns one page of analyses for the given modality.
func (s *Service) Paginate(ctx context.Context, modality domain.Modality, page, pageSize int) (domain.PaginatedResult, error) {
	return s.Repo.Paginate(ctx, modality, page, pageSize)
}

// DashboardStats summarizes recent activity for the dashboard endpoint.
type DashboardStats struct {
	TotalAnalyses       int64              `json:"total_analyses"`
	ByModality          map[string]int64   `json:"by_modality"`
	EmotionDistribution map[string]int     `json:"emotion_distribution"`
	RiskDistribution    map[string]int     `json:"risk_distribution"`
	RecentTrend         fusion.Trend       `json:"recent_trend"`
	Recent              []*domain.Analysis `json:"recent"`
}

// Dashboard aggregates counts and distributions over the latest records.
func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	total, err := s.Repo.Count(ctx, "")
	if err != nil {
		return nil, err
	}

	byModality := map[string]int64{}
	for _, m := range []domain.Modality{domain.ModalityText, domain.ModalityVoice, domain.ModalityFace, domain.ModalityCombined} {
		n, err := s.Repo.Count(ctx, m)
		if err != nil {
			return nil, err
		}
		byModality[string(m)] = n
	}

	recent, err := s.Repo.Latest(ctx, "", 20)
	if err != nil {
		return nil, err
	}

	emotions := map[string]int{}
	risks := map[string]int{}
	// Latest is newest-first; the trend wants chronological order.
	history := make([]domain.RiskLevel, len(recent))
	for i, a := range recent {
		emotions[string(a.Emotion)]++
		risks[string(a.RiskLevel)]++
		history[len(recent)-1-i] = a.RiskLevel
	}

	return &DashboardStats{
		TotalAnalyses:       total,
		ByModality:          byModality,
		EmotionDistribution: emotions,
		RiskDistribution:    risks,
		RecentTrend:         s.Fusion.DetectEscalation(history),
		Recent:              recent,
	}, nil
}

//
// ==== internals ====
//

// finish attaches advice, replies and warnings, persists the record and
// shapes the response. mediaKey names an already-uploaded object so it
// can be cleaned up if the record never makes it to the database.
func (s *Service) finish(ctx context.Context, a *domain.Analysis, start time.Time, mediaKey string) (*Result, error) {
	adv := s.Advice.Generate(a.Emotion, a.RiskLevel)
	replies := s.Replies.Generate(a.Emotion)

	a.Suggestions = replies
	a.Warnings = warningsFor(a.RiskLevel)
	a.DurationMS = s.Clock.Now().Sub(start).Milliseconds()

	if a.Modality == domain.ModalityText && a.ConversationID != "" {
		if err := s.updateConversation(ctx, a); err != nil {
			s.Log.Warn().Err(err).Str("conversation_id", a.ConversationID).Msg("conversation update failed")
		}
	}

	if err := s.Repo.Save(ctx, a); err != nil {
		s.removeMedia(ctx, mediaKey)
		return nil, err
	}

	return &Result{
		AnalysisID:     string(a.ID),
		Emotion:        a.Emotion,
		RiskLevel:      a.RiskLevel,
		Confidence:     a.Confidence,
		Details:        a.Details,
		Advice:         adv,
		Replies:        replies,
		Warnings:       a.Warnings,
		ConversationID: a.ConversationID,
		MediaURL:       a.MediaURL,
		DurationMS:     a.DurationMS,
	}, nil
}

// storeMedia uploads the raw bytes when retention is enabled. Upload
// failures degrade to in-memory analysis instead of failing the request.
// The object key is returned alongside the URL for later cleanup.
func (s *Service) storeMedia(ctx context.Context, id domain.AnalysisID, cmd MediaCommand) (string, string) {
	if !s.StoreMedia || !cmd.Consent || s.Media == nil {
		return "", ""
	}

	ext := strings.ToLower(filepath.Ext(cmd.Filename))
	key := fmt.Sprintf("%s/%s%s", modalityPrefix(id), id, ext)
	url, err := s.Media.PutBytes(ctx, key, cmd.Data, cmd.ContentType)
	if err != nil {
		s.Log.Warn().Err(err).Str("key", key).Msg("media upload failed")
		return "", ""
	}
	return url, key
}

// removeMedia deletes an uploaded object whose analysis row was never
// persisted, so no orphan lingers in the bucket.
func (s *Service) removeMedia(ctx context.Context, key string) {
	if key == "" || s.Media == nil {
		return
	}
	if err := s.Media.Remove(ctx, key); err != nil {
		s.Log.Warn().Err(err).Str("key", key).Msg("orphaned media cleanup failed")
	}
}

func modalityPrefix(id domain.AnalysisID) string {
	if strings.HasSuffix(string(id), string(domain.ModalityFace)) {
		return "face"
	}
	return "voice"
}

// updateConversation upserts the rolling per-thread trend. A missing
// conversation starts a new one.
func (s *Service) updateConversation(ctx context.Context, a *domain.Analysis) error {
	now := s.Clock.Now()

	c, err := s.Convos.Get(ctx, a.ConversationID)
	if errors.Is(err, domain.ErrNotFound) {
		c = &conversation.Conversation{ID: a.ConversationID, StartedAt: now}
	} else if err != nil {
		return err
	}

	score := a.RiskLevel.Score()
	prevAvg := c.AvgRiskScore

	c.TotalMessages++
	c.AvgRiskScore += (score - c.AvgRiskScore) / float64(c.TotalMessages)
	c.DominantEmotion = string(a.Emotion)
	c.LastUpdated = now

	switch {
	case c.TotalMessages < 3:
		c.RiskTrend = "stable"
	case score > prevAvg+0.1:
		c.RiskTrend = "escalating"
	case score < prevAvg-0.1:
		c.RiskTrend = "improving"
	default:
		c.RiskTrend = "stable"
	}

	return s.Convos.Save(ctx, c)
}

// signalFrom rebuilds a fusion signal from a stored analysis row.
func signalFrom(a *domain.Analysis) fusion.Signal {
	sig := fusion.Signal{
		Emotion:    a.Emotion,
		RiskLevel:  a.RiskLevel,
		Confidence: a.Confidence,
	}
	if a.Modality == domain.ModalityVoice {
		if tone, ok := a.Details["tone"].(string); ok {
			sig.Tone = tone
		}
		sig.StressLevel = toFloat(a.Details["stress_level"])
	}
	return sig
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	}
	return 0
}

func warningsFor(level domain.RiskLevel) []string {
	switch level {
	case domain.RiskCritical:
		return []string{"Critical risk detected - immediate attention required"}
	case domain.RiskHigh:
		return []string{"High risk detected - de-escalation recommended"}
	}
	return nil
}
