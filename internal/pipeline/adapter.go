// Package pipeline orchestrates parallel document conversion runs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spherical/pdf-converter/internal/domain"
)

// Adapter invokes a converter with per-document fault isolation. Errors
// and panics raised by the converter are folded into a failure outcome
// for that document only, so a worker survives any single document.
type Adapter struct {
	converter domain.Converter
	timeout   time.Duration
}

// NewAdapter creates an adapter around converter. A timeout of zero
// means conversions run unbounded.
func NewAdapter(converter domain.Converter, timeout time.Duration) *Adapter {
	return &Adapter{
		converter: converter,
		timeout:   timeout,
	}
}

// Process converts a single document. It never returns an error: every
// failure mode becomes a terminal outcome on the result.
func (a *Adapter) Process(ctx context.Context, doc domain.Document) domain.DocumentResult {
	started := time.Now()

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	md, err := a.convert(ctx, doc)
	elapsed := time.Since(started)

	if err != nil {
		return domain.DocumentResult{
			Document: doc,
			Outcome:  domain.FailureOutcome(classify(err), err.Error(), elapsed),
		}
	}

	return domain.DocumentResult{
		Document: doc,
		Outcome:  domain.SuccessOutcome(md, elapsed),
	}
}

// convert calls the converter with panic recovery so a crash inside the
// conversion of one document surfaces as an ordinary error.
func (a *Adapter) convert(ctx context.Context, doc domain.Document) (md *domain.MarkdownDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			md = nil
			err = &panicError{value: r}
		}
	}()
	return a.converter.ConvertFile(ctx, doc.Path)
}

// panicError carries a recovered panic value through the error chain.
type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic during conversion: %v", e.value)
}

// classify maps a conversion error onto the closed set of error kinds.
func classify(err error) domain.ErrorKind {
	var pe *panicError
	if errors.As(err, &pe) {
		msg := strings.ToLower(fmt.Sprint(pe.value))
		if strings.Contains(msg, "out of memory") || strings.Contains(msg, "cannot allocate") {
			return domain.ErrKindResource
		}
		return domain.ErrKindPanic
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.ErrKindTimeout
	case errors.Is(err, domain.ErrUnreadable), errors.Is(err, os.ErrNotExist), errors.Is(err, os.ErrPermission):
		return domain.ErrKindUnreadable
	case errors.Is(err, domain.ErrCorrupt):
		return domain.ErrKindCorrupt
	default:
		return domain.ErrKindConversion
	}
}
