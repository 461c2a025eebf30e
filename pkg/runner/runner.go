package runner

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
)

// WithSignals derives a context canceled on CtrlC or SIGTERM.
// A second signal exits the process immediately.
func WithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
			signal.Stop(sigCh)
			return
		}
		glog.Info("stop requested")
		cancel()
		<-sigCh
		glog.Error("stop requested again, force exit")
		os.Exit(2)
	}()
	return ctx, cancel
}

// RunWithContextCancel runs a func which doesn't accept a context.
// onCancel is called only when the context is canceled, and is expected
// to unblock fn.
func RunWithContextCancel(ctx context.Context, onCancel func(), fn func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()
	select {
	case <-ctx.Done():
		if onCancel != nil {
			onCancel()
		}
		<-errCh
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// RunWithContextCloser ensures closer.Close is called exactly once,
// either on cancel or after fn returns. A Close error is reported
// together with the error from fn.
func RunWithContextCloser(ctx context.Context, closer io.Closer, fn func() error) error {
	var closeErr error
	closed := false
	err := RunWithContextCancel(ctx, func() {
		closeErr, closed = closer.Close(), true
	}, fn)
	if !closed {
		closeErr = closer.Close()
	}
	var errs AggregatedError
	return errs.Add(err, closeErr).Aggregate()
}
