package async_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/ctdl/pkg/utils/async"
)

// recorder collects error records for inspection from other goroutines
type recorder struct {
	mu      sync.Mutex
	entries []string
	notify  chan struct{}
}

func newRecorder() *recorder {
	return &recorder{notify: make(chan struct{}, 16)}
}

func (r *recorder) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (r *recorder) Handle(_ context.Context, rec slog.Record) error {
	var b strings.Builder
	b.WriteString(rec.Message)
	rec.Attrs(func(a slog.Attr) bool {
		b.WriteString(" " + a.Key + "=" + a.Value.String())
		return true
	})

	r.mu.Lock()
	r.entries = append(r.entries, b.String())
	r.mu.Unlock()

	select {
	case r.notify <- struct{}{}:
	default:
	}
	return nil
}

func (r *recorder) WithAttrs([]slog.Attr) slog.Handler { return r }
func (r *recorder) WithGroup(string) slog.Handler      { return r }

func (r *recorder) wait(t *testing.T) string {
	t.Helper()
	select {
	case <-r.notify:
	case <-time.After(time.Second):
		t.Fatal("no error was logged")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Join(r.entries, "\n")
}

func TestDispatch(t *testing.T) {
	t.Run("outlives the parent context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		release := make(chan struct{})
		result := make(chan error, 1)

		async.Dispatch(ctx, func(ctx context.Context) error {
			<-release
			result <- ctx.Err()
			return nil
		})

		cancel()
		close(release)

		select {
		case err := <-result:
			gt.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("handler did not run")
		}
	})

	t.Run("keeps the logger", func(t *testing.T) {
		rec := newRecorder()
		ctx := ctxlog.With(context.Background(), slog.New(rec))

		async.Dispatch(ctx, func(ctx context.Context) error {
			return errors.New("watcher stopped")
		})

		gt.True(t, strings.Contains(rec.wait(t), "watcher stopped"))
	})

	t.Run("logs a panic with its stack", func(t *testing.T) {
		rec := newRecorder()
		ctx := ctxlog.With(context.Background(), slog.New(rec))

		async.Dispatch(ctx, func(ctx context.Context) error {
			panic("signal handler broke")
		})

		out := rec.wait(t)
		gt.True(t, strings.Contains(out, "panic in async handler"))
		gt.True(t, strings.Contains(out, "signal handler broke"))
		gt.True(t, strings.Contains(out, "goroutine"))
	})
}

func TestForEach(t *testing.T) {
	t.Run("handles every item exactly once", func(t *testing.T) {
		items := make([]int, 50)
		for i := range items {
			items[i] = i
		}

		var mu sync.Mutex
		seen := map[int]int{}
		err := async.ForEach(context.Background(), items, 4, func(ctx context.Context, item int) error {
			mu.Lock()
			defer mu.Unlock()
			seen[item]++
			return nil
		})

		gt.NoError(t, err)
		gt.Equal(t, len(seen), 50)
		for _, n := range seen {
			gt.Equal(t, n, 1)
		}
	})

	t.Run("never exceeds the limit", func(t *testing.T) {
		items := make([]int, 20)

		var inFlight, peak atomic.Int32
		err := async.ForEach(context.Background(), items, 3, func(ctx context.Context, item int) error {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			return nil
		})

		gt.NoError(t, err)
		gt.True(t, peak.Load() <= 3)
		gt.True(t, peak.Load() >= 1)
	})

	t.Run("errors and panics do not stop other items", func(t *testing.T) {
		items := []int{0, 1, 2, 3, 4, 5}

		var done atomic.Int32
		err := async.ForEach(context.Background(), items, 2, func(ctx context.Context, item int) error {
			defer done.Add(1)
			switch item {
			case 1:
				return errors.New("item failed")
			case 3:
				panic("item panicked")
			}
			return nil
		})

		gt.NoError(t, err)
		gt.Equal(t, done.Load(), int32(6))
	})

	t.Run("stops scheduling after cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		items := make([]int, 100)

		var started atomic.Int32
		err := async.ForEach(ctx, items, 1, func(ctx context.Context, item int) error {
			if started.Add(1) == 3 {
				cancel()
			}
			return nil
		})

		gt.Error(t, err)
		gt.True(t, errors.Is(err, context.Canceled))
		gt.True(t, started.Load() < 100)
	})

	t.Run("non-positive limit runs sequentially", func(t *testing.T) {
		var order []int
		err := async.ForEach(context.Background(), []int{1, 2, 3}, 0, func(ctx context.Context, item int) error {
			order = append(order, item)
			return nil
		})

		gt.NoError(t, err)
		gt.Equal(t, order, []int{1, 2, 3})
	})
}
