// Package submission sequences validation, preview and upload for a single
// picked image.
//
// The workflow is a finite state machine. State is a tagged value and Reduce
// is a pure function from (state, event) to the next state plus the effects
// the Controller must perform. Only the Controller talks to the preview store
// and the prediction client.
package submission

import (
	"potato-classifier/internal/models"
	"potato-classifier/internal/preview"
	"potato-classifier/internal/validator"
)

type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseReady      Phase = "ready"
	PhaseRejected   Phase = "rejected"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// IsTerminal reports whether a submission cycle has ended in p.
func IsTerminal(p Phase) bool {
	switch p {
	case PhaseRejected, PhaseSucceeded, PhaseFailed:
		return true
	default:
		return false
	}
}

// Failure is the payload of PhaseFailed.
type Failure struct {
	Kind    models.ErrorKind
	Message string
}

// State is the single source of truth for what the user sees. Which payload
// fields are set depends on Phase:
//
//	idle        none
//	ready       File, Preview
//	rejected    Reason
//	submitting  File, Preview
//	succeeded   File, Preview, Result
//	failed      File, Preview, Failure
//
// SubmissionID and InFlight are bookkeeping carried through every phase.
type State struct {
	Phase   Phase
	File    *models.CandidateFile
	Preview *preview.Handle
	Reason  models.ErrorKind
	Result  *models.PredictionResult
	Failure *Failure

	// SubmissionID is the identifier of the latest upload; it only grows.
	SubmissionID uint64
	// InFlight is the identifier of the upload still outstanding, or zero.
	// It may refer to an upload whose outcome will be disregarded.
	InFlight uint64
}

// CanSubmit reports whether a submit event would start an upload.
func (s State) CanSubmit() bool {
	if s.File == nil || s.InFlight != 0 {
		return false
	}
	return s.Phase == PhaseReady || s.Phase == PhaseFailed
}

type Event interface {
	isEvent()
}

// Picked is a new file choice together with its validation verdict.
type Picked struct {
	File    models.CandidateFile
	Verdict validator.Result
}

// Submitted is the user asking to classify the current file.
type Submitted struct{}

// Resolved is the outcome of the upload with identifier ID. Exactly one of
// Result and Err is set.
type Resolved struct {
	ID     uint64
	Result *models.PredictionResult
	Err    error
}

func (Picked) isEvent()    {}
func (Submitted) isEvent() {}
func (Resolved) isEvent()  {}

// Effects lists the side effects a transition requires.
type Effects struct {
	// Release is the preview to give back to the store.
	Release *preview.Handle
	// CreatePreview asks for a preview of the new state's File.
	CreatePreview bool
	// Upload asks for the new state's File to be sent under SubmissionID.
	Upload bool
}

// Reduce returns the state following ev and the effects needed to get there.
// Events that are not allowed in s return s unchanged with no effects.
func Reduce(s State, ev Event) (State, Effects) {
	switch ev := ev.(type) {
	case Picked:
		return reducePicked(s, ev)
	case Submitted:
		return reduceSubmitted(s)
	case Resolved:
		return reduceResolved(s, ev)
	default:
		return s, Effects{}
	}
}

func reducePicked(s State, ev Picked) (State, Effects) {
	fx := Effects{Release: s.Preview}
	next := State{
		SubmissionID: s.SubmissionID,
		InFlight:     s.InFlight,
	}
	if !ev.Verdict.Accepted {
		next.Phase = PhaseRejected
		next.Reason = ev.Verdict.Reason
		return next, fx
	}
	file := ev.File
	next.Phase = PhaseReady
	next.File = &file
	fx.CreatePreview = true
	return next, fx
}

func reduceSubmitted(s State) (State, Effects) {
	if !s.CanSubmit() {
		return s, Effects{}
	}
	id := s.SubmissionID + 1
	return State{
		Phase:        PhaseSubmitting,
		File:         s.File,
		Preview:      s.Preview,
		SubmissionID: id,
		InFlight:     id,
	}, Effects{Upload: true}
}

func reduceResolved(s State, ev Resolved) (State, Effects) {
	if ev.ID == 0 || ev.ID != s.InFlight {
		return s, Effects{}
	}
	s.InFlight = 0
	// A pick while submitting moved the machine on; the outcome is dropped.
	if s.Phase != PhaseSubmitting || ev.ID != s.SubmissionID {
		return s, Effects{}
	}

	next := State{
		File:         s.File,
		Preview:      s.Preview,
		SubmissionID: s.SubmissionID,
	}
	if ev.Err != nil || ev.Result == nil {
		kind, msg := describe(ev.Err)
		next.Phase = PhaseFailed
		next.Failure = &Failure{Kind: kind, Message: msg}
		return next, Effects{}
	}
	next.Phase = PhaseSucceeded
	next.Result = ev.Result
	return next, Effects{}
}
