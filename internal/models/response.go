package models

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type FileInfo struct {
	Filename string `json:"filename"`
	MIMEType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

type FailureInfo struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// SessionResponse is the read-only view of the submission workflow handed to
// presenters.
type SessionResponse struct {
	Phase        string            `json:"phase"`
	SubmissionID uint64            `json:"submission_id"`
	File         *FileInfo         `json:"file,omitempty"`
	PreviewURL   string            `json:"preview_url,omitempty"`
	Result       *PredictionResult `json:"result,omitempty"`
	Error        *FailureInfo      `json:"error,omitempty"`
	CanSubmit    bool              `json:"can_submit"`
}

type SubmitResponse struct {
	Accepted bool            `json:"accepted"`
	Session  SessionResponse `json:"session"`
}
