package submission

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"potato-classifier/internal/models"
	"potato-classifier/internal/predict"
	"potato-classifier/internal/preview"
	"potato-classifier/internal/validator"
)

var (
	ErrNoFile   = errors.New("no file selected")
	ErrRejected = errors.New("the selected file was rejected")
	ErrBusy     = errors.New("a submission is already in progress")
	ErrFinished = errors.New("the current file has already been classified")
	ErrClosed   = errors.New("controller is closed")
)

// Uploader sends one file for classification. *predict.Client implements it.
type Uploader interface {
	Submit(ctx context.Context, file models.CandidateFile) (*models.PredictionResult, error)
}

// Controller owns the submission State and its preview. It is safe for
// concurrent use; events are applied one at a time.
type Controller struct {
	mu       sync.Mutex
	state    State
	changed  chan struct{}
	closed   bool
	subs     map[int]chan State
	nextSub  int
	previews *preview.Store
	uploader Uploader
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewController(previews *preview.Store, uploader Uploader, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		state:    State{Phase: PhaseIdle},
		changed:  make(chan struct{}),
		subs:     make(map[int]chan State),
		previews: previews,
		uploader: uploader,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// PickFile validates file and makes it the current selection, discarding the
// previous file, its preview, and the outcome of any upload still running.
func (c *Controller) PickFile(file models.CandidateFile) State {
	verdict := validator.Validate(file)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.state
	}

	if c.state.Phase == PhaseSubmitting {
		c.logger.Info("disregarding in-flight submission", "submission_id", c.state.SubmissionID)
	}
	next, fx := Reduce(c.state, Picked{File: file, Verdict: verdict})
	c.previews.Release(fx.Release)
	if fx.CreatePreview {
		next.Preview = c.previews.Create(*next.File)
	}
	c.apply(next)

	if verdict.Accepted {
		c.logger.Info("file accepted", "filename", file.Name, "mime_type", file.MIMEType, "size", file.Size)
	} else {
		c.logger.Info("file rejected", "filename", file.Name, "mime_type", file.MIMEType,
			"size", file.Size, "reason", verdict.Reason)
	}
	return next
}

// Submit starts classifying the current file. When the state does not allow
// a submission it changes nothing and returns an error saying why.
func (c *Controller) Submit() (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.state, ErrClosed
	}

	next, fx := Reduce(c.state, Submitted{})
	if !fx.Upload {
		return c.state, refusal(c.state)
	}
	c.apply(next)

	id := next.SubmissionID
	file := *next.File
	c.logger.Info("submission started", "submission_id", id, "filename", file.Name)

	c.wg.Add(1)
	go c.upload(id, file)
	return next, nil
}

func (c *Controller) upload(id uint64, file models.CandidateFile) {
	defer c.wg.Done()
	result, err := c.uploader.Submit(c.ctx, file)
	c.resolve(Resolved{ID: id, Result: result, Err: err})
}

func (c *Controller) resolve(ev Resolved) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.state.Phase == PhaseSubmitting && c.state.SubmissionID == ev.ID
	next, _ := Reduce(c.state, ev)
	c.apply(next)

	switch {
	case !current:
		c.logger.Info("discarded outcome of superseded submission", "submission_id", ev.ID)
	case next.Phase == PhaseFailed:
		c.logger.Warn("submission failed", "submission_id", ev.ID,
			"kind", next.Failure.Kind, "error", ev.Err)
	default:
		c.logger.Info("submission succeeded", "submission_id", ev.ID, "label", next.Result.Label)
	}
}

// Await blocks until no upload for the current file is running and returns
// the state at that point.
func (c *Controller) Await(ctx context.Context) (State, error) {
	for {
		c.mu.Lock()
		s, changed := c.state, c.changed
		c.mu.Unlock()
		if s.Phase != PhaseSubmitting {
			return s, nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return s, ctx.Err()
		}
	}
}

// Subscribe delivers every new state to the returned channel until cancel is
// called. Slow readers miss intermediate states but always see the latest.
func (c *Controller) Subscribe() (<-chan State, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan State, 1)
	ch <- c.state
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch

	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if _, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(ch)
		}
	}
}

// Close abandons any running upload, waits for it to return and releases the
// live preview.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.previews.Release(c.state.Preview)
	c.state.Preview = nil
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
}

// apply must be called with mu held.
func (c *Controller) apply(next State) {
	c.state = next
	close(c.changed)
	c.changed = make(chan struct{})
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- next
	}
}

func refusal(s State) error {
	switch {
	case s.Phase == PhaseSubmitting || s.InFlight != 0:
		return ErrBusy
	case s.Phase == PhaseRejected:
		return ErrRejected
	case s.Phase == PhaseSucceeded:
		return ErrFinished
	default:
		return ErrNoFile
	}
}

func describe(err error) (models.ErrorKind, string) {
	var pe *predict.Error
	if errors.As(err, &pe) {
		return pe.Kind, pe.Message()
	}
	return models.ErrorUnknown, models.ErrorUnknown.Message("")
}
