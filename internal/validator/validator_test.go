package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"potato-classifier/internal/models"
	"potato-classifier/internal/validator"
)

func candidate(mimeType string, size int64) models.CandidateFile {
	return models.CandidateFile{Name: "potato", MIMEType: mimeType, Size: size}
}

func TestValidate_UnsupportedTypeRegardlessOfSize(t *testing.T) {
	types := []string{"image/gif", "image/webp", "application/pdf", "text/plain", "", "IMAGE/PNG", "image/png; charset=binary"}
	sizes := []int64{0, 1, validator.MaxFileSize, validator.MaxFileSize + 1, 50 << 20}

	for _, mimeType := range types {
		for _, size := range sizes {
			result := validator.Validate(candidate(mimeType, size))
			assert.False(t, result.Accepted, "%q/%d", mimeType, size)
			assert.Equal(t, models.ErrorUnsupportedType, result.Reason, "%q/%d", mimeType, size)
		}
	}
}

func TestValidate_TooLarge(t *testing.T) {
	for _, mimeType := range []string{"image/jpeg", "image/jpg", "image/png"} {
		for _, size := range []int64{validator.MaxFileSize + 1, 12 * 1000 * 1000, 1 << 30} {
			result := validator.Validate(candidate(mimeType, size))
			assert.Equal(t, validator.Rejected(models.ErrorTooLarge), result, "%q/%d", mimeType, size)
		}
	}
}

func TestValidate_Accepted(t *testing.T) {
	for _, mimeType := range []string{"image/jpeg", "image/jpg", "image/png"} {
		for _, size := range []int64{0, 1, 2 * 1000 * 1000, validator.MaxFileSize} {
			result := validator.Validate(candidate(mimeType, size))
			assert.True(t, result.Accepted, "%q/%d", mimeType, size)
			assert.Empty(t, result.Reason)
		}
	}
}

func TestValidate_Idempotent(t *testing.T) {
	files := []models.CandidateFile{
		candidate("image/png", 2<<20),
		candidate("image/jpeg", 12<<20),
		candidate("image/bmp", 10),
	}
	for _, f := range files {
		assert.Equal(t, validator.Validate(f), validator.Validate(f))
	}
}

func TestMaxFileSizeIsBinaryMegabytes(t *testing.T) {
	assert.Equal(t, int64(10485760), validator.MaxFileSize)
}
