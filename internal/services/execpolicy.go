package services

import (
  "context"
  "time"
)

// ExecPolicy decides where a generation attempt runs. Inline blocks the
// caller until the attempt finishes; background detaches it so the request
// can return while generation continues.
type ExecPolicy interface {
  Run(ctx context.Context, task func(ctx context.Context))
}

// InlinePolicy runs the task synchronously on the caller's context.
type InlinePolicy struct{}

func (InlinePolicy) Run(ctx context.Context, task func(ctx context.Context)) {
  task(ctx)
}

// BackgroundPolicy runs the task on its own goroutine with a fresh timeout
// context, so cancellation of the originating request does not abort it.
type BackgroundPolicy struct {
  Timeout time.Duration
}

func (p BackgroundPolicy) Run(ctx context.Context, task func(ctx context.Context)) {
  timeout := p.Timeout
  if timeout <= 0 {
    timeout = 5 * time.Minute
  }
  go func() {
    runCtx, cancel := context.WithTimeout(context.Background(), timeout)
    defer cancel()
    task(runCtx)
  }()
}
