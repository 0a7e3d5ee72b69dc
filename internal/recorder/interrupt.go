package recorder

import (
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Stopper is the controller surface the interrupt coordinator drives.
type Stopper interface {
	// RequestStop asks the session to stop. Never blocks.
	RequestStop(reason StopReason)

	// Done closes when the session has reached a terminal state.
	Done() <-chan struct{}
}

// Coordinator turns SIGINT/SIGTERM into a graceful stop. If the session
// does not wind down within the exit wait, or a second signal arrives, the
// process exits immediately with a distinguished status.
type Coordinator struct {
	notify   func(chan<- os.Signal, ...os.Signal)
	cancel   func(chan<- os.Signal)
	exit     func(int)
	exitWait time.Duration

	mu    sync.Mutex
	sigCh chan os.Signal
}

// NewCoordinator returns a coordinator wired to the real signal machinery
// and os.Exit.
func NewCoordinator() *Coordinator {
	return &Coordinator{
		notify:   signal.Notify,
		cancel:   signal.Stop,
		exit:     os.Exit,
		exitWait: InterruptExitWait,
	}
}

// Arm registers the interrupt handler for one session. Re-arming replaces
// the prior registration.
func (c *Coordinator) Arm(session Stopper) {
	c.mu.Lock()
	if c.sigCh != nil {
		c.cancel(c.sigCh)
		close(c.sigCh)
	}
	ch := make(chan os.Signal, 2)
	c.sigCh = ch
	c.mu.Unlock()

	c.notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go c.watch(ch, session)
}

// Disarm removes the current registration.
func (c *Coordinator) Disarm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sigCh != nil {
		c.cancel(c.sigCh)
		close(c.sigCh)
		c.sigCh = nil
	}
}

func (c *Coordinator) watch(ch chan os.Signal, session Stopper) {
	sig, ok := <-ch
	if !ok {
		return
	}
	slog.Warn("interrupt received, stopping", "signal", sig.String())
	session.RequestStop(ReasonInterrupt)

	select {
	case <-session.Done():
		// Wound down in time; the main flow reports the outcome.
	case <-time.After(c.exitWait):
		slog.Error("session did not stop in time, exiting", "waited", c.exitWait)
		c.exit(ExitInterruptStuck)
	case sig, ok := <-ch:
		if !ok {
			return
		}
		slog.Error("second interrupt, exiting", "signal", sig.String())
		c.exit(ExitInterruptStuck)
	}
}
