package models

// CandidateFile is the image a user picked. It is never modified after
// capture; Size is the declared byte length, which may exceed len(Data) when
// the bytes were not fully buffered.
type CandidateFile struct {
	Name     string
	MIMEType string
	Size     int64
	Data     []byte
}

func NewCandidateFile(name, mimeType string, data []byte) CandidateFile {
	return CandidateFile{
		Name:     name,
		MIMEType: mimeType,
		Size:     int64(len(data)),
		Data:     data,
	}
}
