// Package generate bounds document generation with a timeout.
//
// Writing an archive or finalizing a print document is the last step of an
// export and the only one allowed to fail it. [Run] executes the generation
// function under a deadline, converts a panic inside it into an error, and
// reports a generation that neither returns nor fails in time as TIMEOUT.
// Nothing is installed globally; the deadline and the recovery are scoped to
// the call.
package generate

import (
	"context"
	"time"

	"github.com/matzehuels/boardexport/pkg/errors"
)

// DefaultTimeout is used when Run is given a non-positive timeout.
const DefaultTimeout = 20 * time.Second

// Func produces the bytes of a document. It should stop when ctx is done.
type Func func(ctx context.Context) ([]byte, error)

type result struct {
	data []byte
	err  error
}

// Run calls fn and waits at most timeout for it.
//
// Errors are coded: TIMEOUT when the deadline passes first, GENERATION_FAILED
// when fn returns an uncoded error or panics. Coded errors returned by fn are
// passed through unchanged. If fn is still running when the deadline passes
// it is abandoned; its context is cancelled and its result discarded.
func Run(ctx context.Context, timeout time.Duration, fn Func) ([]byte, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: errors.New(errors.ErrCodeGenerationFailed, "generation panicked: %v", r)}
			}
		}()
		data, err := fn(ctx)
		done <- result{data: data, err: err}
	}()

	select {
	case res := <-done:
		if res.err == nil {
			return res.data, nil
		}
		if errors.GetCode(res.err) != "" {
			return nil, res.err
		}
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.Wrap(errors.ErrCodeTimeout, res.err, "generation timed out after %s", timeout)
		}
		return nil, errors.Wrap(errors.ErrCodeGenerationFailed, res.err, "generation failed")
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "generation timed out after %s", timeout)
		}
		return nil, errors.Wrap(errors.ErrCodeGenerationFailed, ctx.Err(), "generation cancelled")
	}
}
