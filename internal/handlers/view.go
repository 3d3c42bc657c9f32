package handlers

import (
	"potato-classifier/internal/models"
	"potato-classifier/internal/submission"
)

const previewRoute = "/api/v1/previews/"

// SessionView renders a submission state for presenters. It only reads s.
func SessionView(s submission.State) models.SessionResponse {
	view := models.SessionResponse{
		Phase:        string(s.Phase),
		SubmissionID: s.SubmissionID,
		CanSubmit:    s.CanSubmit(),
	}
	if s.File != nil {
		view.File = &models.FileInfo{
			Filename: s.File.Name,
			MIMEType: s.File.MIMEType,
			Size:     s.File.Size,
		}
	}
	if s.Preview != nil {
		view.PreviewURL = previewRoute + s.Preview.ID
	}

	switch s.Phase {
	case submission.PhaseRejected:
		view.Error = &models.FailureInfo{Kind: s.Reason, Message: s.Reason.Message("")}
	case submission.PhaseFailed:
		if s.Failure != nil {
			view.Error = &models.FailureInfo{Kind: s.Failure.Kind, Message: s.Failure.Message}
		}
	case submission.PhaseSucceeded:
		view.Result = s.Result
	}
	return view
}
