package analysis

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, a *Analysis) error
	Get(ctx context.Context, id AnalysisID) (*Analysis, error)
	Latest(ctx context.Context, modality Modality, limit int) ([]*Analysis, error)
	Count(ctx context.Context, modality Modality) (int64, error)
	Paginate(ctx context.Context, modality Modality, page, pageSize int) (PaginatedResult, error)
}

// MediaStore port for uploaded audio/image artifacts.
type MediaStore interface {
	PutBytes(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
}

// Analyzer ports. Each implementation maps raw input onto an emotion,
// a risk level and modality-specific detail.
type TextAnalyzer interface {
	AnalyzeText(ctx context.Context, message string) (*TextResult, error)
}

type VoiceAnalyzer interface {
	AnalyzeVoice(ctx context.Context, audio []byte) (*VoiceResult, error)
}

type FaceAnalyzer interface {
	AnalyzeFace(ctx context.Context, image []byte) (*FaceResult, error)
}
