package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"
	"potato-classifier/internal/app"
	"potato-classifier/internal/handlers"
	"potato-classifier/internal/models"
	"potato-classifier/internal/submission"
	"potato-classifier/internal/validator"
)

// sniffLen is how much of an oversized file is read to detect its type.
const sniffLen = 3072

var retryBackoffs = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

var errNotClassified = errors.New("image was not classified")

func newClassifyCmd(opts *rootOptions) *cobra.Command {
	var retries int
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "classify <image>",
		Short: "Classify one JPG or PNG potato image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}

			file, err := ReadImage(args[0])
			if err != nil {
				return err
			}

			a := app.New(cfg, logger)
			defer a.Close()

			state, err := Classify(cmd.Context(), a.Controller, file, retries, backoffWait, logger)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(handlers.SessionView(state)); err != nil {
					return err
				}
			} else {
				Render(cmd.OutOrStdout(), state)
			}

			if state.Phase != submission.PhaseSucceeded {
				return errNotClassified
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&retries, "retries", 0, "Resubmit up to N times after a timeout, network or server error")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the session state as JSON")
	return cmd
}

// ReadImage captures a file from disk with its detected MIME type. Files over
// the size limit are not read in full; the validator rejects them by size.
func ReadImage(path string) (models.CandidateFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.CandidateFile{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return models.CandidateFile{}, fmt.Errorf("failed to stat image: %w", err)
	}
	if info.IsDir() {
		return models.CandidateFile{}, fmt.Errorf("%s is a directory", path)
	}

	var r io.Reader = f
	if info.Size() > validator.MaxFileSize {
		r = io.LimitReader(f, sniffLen)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return models.CandidateFile{}, fmt.Errorf("failed to read image: %w", err)
	}

	return models.CandidateFile{
		Name:     filepath.Base(path),
		MIMEType: mimetype.Detect(data).String(),
		Size:     info.Size(),
		Data:     data,
	}, nil
}

// Classify runs one submission cycle for file. A failed attempt with a
// retryable kind is resubmitted up to retries times, waiting between attempts.
func Classify(ctx context.Context, c *submission.Controller, file models.CandidateFile, retries int,
	wait func(ctx context.Context, attempt int) error, logger *slog.Logger) (submission.State, error) {
	state := c.PickFile(file)
	if state.Phase == submission.PhaseRejected {
		return state, nil
	}

	for attempt := 0; ; attempt++ {
		if _, err := c.Submit(); err != nil {
			return c.State(), fmt.Errorf("failed to submit: %w", err)
		}
		state, err := c.Await(ctx)
		if err != nil {
			return state, err
		}
		if state.Phase != submission.PhaseFailed || attempt >= retries || !state.Failure.Kind.Retryable() {
			return state, nil
		}
		logger.Warn("retrying submission", "attempt", attempt+1, "kind", state.Failure.Kind)
		if err := wait(ctx, attempt); err != nil {
			return state, err
		}
	}
}

func backoffWait(ctx context.Context, attempt int) error {
	d := retryBackoffs[len(retryBackoffs)-1]
	if attempt < len(retryBackoffs) {
		d = retryBackoffs[attempt]
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Render prints the outcome of a cycle for people.
func Render(w io.Writer, s submission.State) {
	switch s.Phase {
	case submission.PhaseSucceeded:
		fmt.Fprintf(w, "Prediction: %s", s.Result.Label.Title())
		if s.Result.Confidence != nil {
			fmt.Fprintf(w, " (confidence %.1f%%)", *s.Result.Confidence)
		}
		fmt.Fprintln(w)
	case submission.PhaseRejected:
		fmt.Fprintf(w, "Error: %s\n", s.Reason.Message(""))
	case submission.PhaseFailed:
		fmt.Fprintf(w, "Error: %s\n", s.Failure.Message)
	default:
		fmt.Fprintf(w, "Status: %s\n", s.Phase)
	}
}
