package core

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var ErrInterrupted = errors.New("interrupted")

// Run feeds rows from src into t until the source is exhausted, a row fails
// or ctx is done. The context is checked before every ParseMore call, so a
// row that is already being handled always completes. The transcoder is
// finished on every return path.
func Run(ctx context.Context, src RowSource, t Transcoder) (err error) {
	defer func() {
		ferr := t.Finish()
		if err == nil && ferr != nil {
			err = fmt.Errorf("t.Finish: %w", ferr)
		}
	}()

	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", ErrInterrupted, context.Cause(ctx))
		}

		perr := src.ParseMore(t)
		if errors.Is(perr, io.EOF) {
			return nil
		}
		if perr != nil {
			return fmt.Errorf("src.ParseMore: %w", perr)
		}
	}
}
