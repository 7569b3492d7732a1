package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	domain "github.com/moodsense-ai/moodsense/internal/domain/analysis"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

const analysisColumns = `
id, created_at, modality, input_text, media_url, emotion, risk_level, confidence,
details_json, suggestions_json, warnings_json, conversation_id, duration_ms`

// Save inserts or updates an analysis record
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO analyses
(id, created_at, modality, input_text, media_url, emotion, risk_level, confidence,
 details_json, suggestions_json, warnings_json, conversation_id, duration_ms)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
ON CONFLICT (id) DO UPDATE SET
 emotion = EXCLUDED.emotion,
 risk_level = EXCLUDED.risk_level,
 confidence = EXCLUDED.confidence,
 media_url = EXCLUDED.media_url,
 details_json = EXCLUDED.details_json,
 suggestions_json = EXCLUDED.suggestions_json,
 warnings_json = EXCLUDED.warnings_json,
 duration_ms = EXCLUDED.duration_ms;
`
	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q,
		a.ID, created, a.Modality, a.InputText, a.MediaURL,
		a.Emotion, a.RiskLevel, a.Confidence,
		jsonObject(a.Details), jsonArray(a.Suggestions), jsonArray(a.Warnings),
		a.ConversationID, a.DurationMS,
	)
	return err
}

// Get by ID
func (r *AnalysisRepository) Get(ctx context.Context, id domain.AnalysisID) (*domain.Analysis, error) {
	q := `SELECT ` + analysisColumns + ` FROM analyses WHERE id=$1 LIMIT 1;`
	a, err := scanAnalysis(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return a, err
}

// Latest analyses ordered by created_at desc, optionally filtered by modality
func (r *AnalysisRepository) Latest(ctx context.Context, modality domain.Modality, limit int) ([]*domain.Analysis, error) {
	if limit <= 0 {
		limit = 20
	}

	q := `SELECT ` + analysisColumns + ` FROM analyses`
	args := []any{}
	if modality != "" {
		q += ` WHERE modality=$1`
		args = append(args, modality)
	}
	q += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Count returns the total number of analyses, optionally by modality
func (r *AnalysisRepository) Count(ctx context.Context, modality domain.Modality) (int64, error) {
	q := `SELECT COUNT(*) FROM analyses`
	args := []any{}
	if modality != "" {
		q += ` WHERE modality=$1`
		args = append(args, modality)
	}

	var count int64
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Paginate returns a page of analyses ordered by created_at desc
func (r *AnalysisRepository) Paginate(ctx context.Context, modality domain.Modality, page, pageSize int) (domain.PaginatedResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	q := `SELECT ` + analysisColumns + ` FROM analyses`
	args := []any{}
	if modality != "" {
		q += ` WHERE modality=$1`
		args = append(args, modality)
	}
	q += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d;`, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("querying analyses: %w", err)
	}
	defer rows.Close()

	var list []*domain.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return domain.PaginatedResult{}, fmt.Errorf("scanning row: %w", err)
		}
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("iterating rows: %w", err)
	}

	total, err := r.Count(ctx, modality)
	if err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("getting total count: %w", err)
	}

	return domain.PaginatedResult{
		Data:       list,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*domain.Analysis, error) {
	var a domain.Analysis
	var details, suggestions, warnings string
	var inputText, mediaURL, conversationID sql.NullString
	if err := row.Scan(
		&a.ID, &a.CreatedAt, &a.Modality, &inputText, &mediaURL,
		&a.Emotion, &a.RiskLevel, &a.Confidence,
		&details, &suggestions, &warnings, &conversationID, &a.DurationMS,
	); err != nil {
		return nil, err
	}
	a.InputText = inputText.String
	a.MediaURL = mediaURL.String
	a.ConversationID = conversationID.String

	// Detail blobs are stored as JSON text; a corrupt blob should not make
	// the whole row unreadable.
	_ = json.Unmarshal([]byte(details), &a.Details)
	_ = json.Unmarshal([]byte(suggestions), &a.Suggestions)
	_ = json.Unmarshal([]byte(warnings), &a.Warnings)
	return &a, nil
}
