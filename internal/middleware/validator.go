package middleware

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/moodsense-ai/moodsense/internal/domain/analysis"
)

// Input validation and sanitization utilities

// ValidateMessage checks the text payload before analysis
func ValidateMessage(message string, maxChars int) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("message cannot be empty: %w", analysis.ErrInvalidInput)
	}
	if maxChars > 0 && len(message) > maxChars {
		return fmt.Errorf("message exceeds %d characters: %w", maxChars, analysis.ErrInvalidInput)
	}
	return nil
}

// ValidateAudioUpload checks filename extension and payload size
func ValidateAudioUpload(filename string, size int64, maxBytes int64, allowedExts []string) error {
	if size <= 0 {
		return fmt.Errorf("audio file is empty: %w", analysis.ErrInvalidInput)
	}
	if maxBytes > 0 && size > maxBytes {
		return fmt.Errorf("audio file exceeds %d bytes: %w", maxBytes, analysis.ErrInvalidInput)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range allowedExts {
		if ext == strings.ToLower(allowed) {
			return nil
		}
	}
	return fmt.Errorf("unsupported audio format %q (allowed: %s): %w",
		ext, strings.Join(allowedExts, ", "), analysis.ErrInvalidInput)
}

// ValidateImageUpload checks payload size; format sniffing happens in the analyzer
func ValidateImageUpload(size int64, maxBytes int64) error {
	if size <= 0 {
		return fmt.Errorf("image file is empty: %w", analysis.ErrInvalidInput)
	}
	if maxBytes > 0 && size > maxBytes {
		return fmt.Errorf("image file exceeds %d bytes: %w", maxBytes, analysis.ErrInvalidInput)
	}
	return nil
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}
