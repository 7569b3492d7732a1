package middleware

import (
	"errors"
	"strings"
	"testing"

	"github.com/moodsense-ai/moodsense/internal/domain/analysis"
)

func TestValidateMessage(t *testing.T) {
	if err := ValidateMessage("hello", 100); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := ValidateMessage("   ", 100); !errors.Is(err, analysis.ErrInvalidInput) {
		t.Errorf("blank message error = %v, want ErrInvalidInput", err)
	}

	long := strings.Repeat("a", 101)
	if err := ValidateMessage(long, 100); !errors.Is(err, analysis.ErrInvalidInput) {
		t.Errorf("oversize message error = %v, want ErrInvalidInput", err)
	}

	// Zero max disables the length cap.
	if err := ValidateMessage(long, 0); err != nil {
		t.Errorf("unexpected error with no cap: %v", err)
	}
}

func TestValidateAudioUpload(t *testing.T) {
	exts := []string{".wav"}

	if err := ValidateAudioUpload("clip.wav", 1024, 10<<20, exts); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateAudioUpload("CLIP.WAV", 1024, 10<<20, exts); err != nil {
		t.Errorf("extension match should be case-insensitive: %v", err)
	}
	if err := ValidateAudioUpload("clip.mp3", 1024, 10<<20, exts); !errors.Is(err, analysis.ErrInvalidInput) {
		t.Errorf("wrong extension error = %v", err)
	}
	if err := ValidateAudioUpload("clip.wav", 0, 10<<20, exts); !errors.Is(err, analysis.ErrInvalidInput) {
		t.Errorf("empty file error = %v", err)
	}
	if err := ValidateAudioUpload("clip.wav", 11<<20, 10<<20, exts); !errors.Is(err, analysis.ErrInvalidInput) {
		t.Errorf("oversize file error = %v", err)
	}
}

func TestValidateImageUpload(t *testing.T) {
	if err := ValidateImageUpload(1024, 5<<20); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateImageUpload(0, 5<<20); !errors.Is(err, analysis.ErrInvalidInput) {
		t.Errorf("empty image error = %v", err)
	}
	if err := ValidateImageUpload(6<<20, 5<<20); !errors.Is(err, analysis.ErrInvalidInput) {
		t.Errorf("oversize image error = %v", err)
	}
}

func TestValidateLimit(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 20},
		{-5, 20},
		{50, 50},
		{100, 100},
		{500, 100},
	}
	for _, c := range cases {
		if got := ValidateLimit(c.in); got != c.want {
			t.Errorf("ValidateLimit(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("hello\x00world"); got != "helloworld" {
		t.Errorf("null byte not stripped: %q", got)
	}
	if got := SanitizeString("  padded  "); got != "padded" {
		t.Errorf("whitespace not trimmed: %q", got)
	}
	if got := SanitizeString("line1\nline2\tend"); got != "line1\nline2\tend" {
		t.Errorf("newline/tab should survive: %q", got)
	}
	if got := SanitizeString("bell\x07ring"); got != "bellring" {
		t.Errorf("control char not stripped: %q", got)
	}
}
