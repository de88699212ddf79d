package async

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

// Dispatch executes a handler function asynchronously with proper context and panic recovery
//
// Parameters:
//   - ctx: Original context (values will be preserved, but cancellation won't affect the async handler)
//   - handler: Function to execute asynchronously
//
// Behavior:
//   - Creates a new background context with preserved logger
//   - Executes handler in a new goroutine
//   - Recovers from panics and logs them
//   - Logs errors returned by handler
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	newCtx := newBackgroundContext(ctx)

	go func() {
		_ = safeCall(newCtx, handler)
	}()
}

// ForEach runs fn for every item with at most limit calls in flight.
//
// Each item is handled exactly once. A failing or panicking item is logged and
// does not stop its siblings. Items not yet started when ctx is cancelled are
// skipped, and ForEach returns ctx.Err().
func ForEach[T any](ctx context.Context, items []T, limit int, fn func(ctx context.Context, item T) error) error {
	if limit < 1 {
		limit = 1
	}

	var eg errgroup.Group
	eg.SetLimit(limit)

	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			_ = safeCall(ctx, func(ctx context.Context) error {
				return fn(ctx, item)
			})
			return nil
		})
	}

	_ = eg.Wait()
	return ctx.Err()
}

// safeCall runs handler, converting a panic into a logged error
func safeCall(ctx context.Context, handler func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			logger := ctxlog.From(ctx)
			logger.Error("panic in async handler",
				"recover", r,
				"stack", string(stack))
			err = goerr.New("panic in async handler", goerr.V("recover", r))
		}
	}()

	if err := handler(ctx); err != nil {
		logger := ctxlog.From(ctx)
		logger.Error("error in async handler", "error", err)
		return err
	}
	return nil
}

// newBackgroundContext creates a new background context preserving important values
//
// Preserved values:
//   - ctxlog logger
//
// Returns: New context.Background() with preserved values
func newBackgroundContext(ctx context.Context) context.Context {
	newCtx := context.Background()
	newCtx = ctxlog.With(newCtx, ctxlog.From(ctx))
	return newCtx
}
