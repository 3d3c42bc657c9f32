// Package validator decides whether a picked file may be submitted for
// classification.
package validator

import "potato-classifier/internal/models"

// MaxFileSize is the largest accepted upload, 10 MiB.
const MaxFileSize int64 = 10 * 1024 * 1024

var allowedTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
}

// Result is Accepted, or a rejection carrying Reason.
type Result struct {
	Accepted bool
	Reason   models.ErrorKind
}

func Accepted() Result {
	return Result{Accepted: true}
}

func Rejected(reason models.ErrorKind) Result {
	return Result{Reason: reason}
}

// Validate checks the declared type before the size, so an oversized file of
// the wrong type reports the type problem.
func Validate(file models.CandidateFile) Result {
	if !AllowedType(file.MIMEType) {
		return Rejected(models.ErrorUnsupportedType)
	}
	if file.Size > MaxFileSize {
		return Rejected(models.ErrorTooLarge)
	}
	return Accepted()
}

func AllowedType(mimeType string) bool {
	_, ok := allowedTypes[mimeType]
	return ok
}
