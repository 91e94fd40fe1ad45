// Package sync orchestrates the cross-device snapshot flow: pull the remote
// document into local state on start, on a fixed interval and on demand, and
// push the full local snapshot after mutations once a debounce window of
// quiescence has passed.
package sync

import (
	"context"
	"errors"
	"fmt"
	stdsync "sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/klinikapp/klinikd/internal/client/notify"
	"github.com/klinikapp/klinikd/internal/client/state"
	"github.com/klinikapp/klinikd/internal/models"
	"github.com/klinikapp/klinikd/internal/relay"
)

// Status is the engine's state machine position.
type Status string

const (
	StatusDisabled Status = "disabled"
	StatusIdle     Status = "idle"
	StatusPulling  Status = "pulling"
	StatusPushing  Status = "pushing"
	StatusError    Status = "error"
)

// Indicator maps the machine state to the operator-facing connectivity label.
func (s Status) Indicator() string {
	switch s {
	case StatusDisabled:
		return "offline"
	case StatusPulling, StatusPushing:
		return "syncing"
	case StatusError:
		return "error"
	default:
		return "online"
	}
}

// ErrDisabled is returned by sync operations while cloud sync is off.
var ErrDisabled = errors.New("cloud sync is disabled")

// ErrMissingClinicID rejects enabling sync without an identifier to address
// the remote document.
var ErrMissingClinicID = errors.New("clinic id is required to enable cloud sync")

// RelayClient is the subset of the relay API the engine needs.
type RelayClient interface {
	Fetch(ctx context.Context, id string) (models.Snapshot, error)
	Replace(ctx context.Context, id string, snap models.Snapshot) error
}

// Options tune the engine's timing and status reporting.
type Options struct {
	// Debounce is the quiescence window after a mutation before a push
	// fires; further mutations inside the window coalesce into one push.
	Debounce time.Duration
	// PullInterval is the cadence of the background pull.
	PullInterval time.Duration
	// OnStatus, when set, observes every status change.
	OnStatus func(Status)
}

const (
	defaultDebounce     = 2 * time.Second
	defaultPullInterval = 45 * time.Second
	opTimeout           = 30 * time.Second
)

// Engine drives pull and push between the application state and the relay.
type Engine struct {
	state    *state.State
	relay    RelayClient
	notifier *notify.Instance
	log      *zap.Logger

	debounce     time.Duration
	pullInterval time.Duration
	onStatus     func(Status)

	mu        stdsync.Mutex
	status    Status
	lastErr   error
	clinicID  string
	pushTimer *time.Timer
	cron      *cron.Cron
}

// New builds a disabled engine. The caller wires it as the state layer's
// mutation hook and enables it once a clinic id is known.
func New(st *state.State, rc RelayClient, notifier *notify.Instance, log *zap.Logger, opts Options) *Engine {
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	if opts.PullInterval <= 0 {
		opts.PullInterval = defaultPullInterval
	}
	e := &Engine{
		state:        st,
		relay:        rc,
		notifier:     notifier,
		log:          log,
		debounce:     opts.Debounce,
		pullInterval: opts.PullInterval,
		onStatus:     opts.OnStatus,
		status:       StatusDisabled,
	}
	st.SetOnMutate(e.MutationObserved)
	return e
}

// Status returns the current machine state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Err returns the most recent surfaced sync failure, nil after a success.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// ClinicID returns the identifier sync is enabled with, empty when disabled.
func (e *Engine) ClinicID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clinicID
}

// Enable turns cloud sync on for the given clinic id: the engine leaves
// Disabled, starts the periodic pull and runs an initial pull in the
// background. Enabling with the id already in use is a no-op; enabling with a
// different id tears the old schedule down first, so no pending push can
// address the previous clinic's document.
func (e *Engine) Enable(clinicID string) error {
	if clinicID == "" {
		return ErrMissingClinicID
	}

	e.mu.Lock()
	if e.status != StatusDisabled {
		if e.clinicID == clinicID {
			e.mu.Unlock()
			return nil
		}
		e.disableLocked()
	}
	e.clinicID = clinicID
	e.setStatusLocked(StatusIdle)

	c := cron.New()
	_, err := c.AddFunc(fmt.Sprintf("@every %s", e.pullInterval), func() {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		if err := e.Pull(ctx); err != nil {
			e.log.Warn("scheduled pull failed", zap.Error(err))
		}
	})
	if err != nil {
		e.clinicID = ""
		e.setStatusLocked(StatusDisabled)
		e.mu.Unlock()
		return fmt.Errorf("schedule pull: %w", err)
	}
	c.Start()
	e.cron = c
	e.mu.Unlock()

	e.log.Info("cloud sync enabled",
		zap.String("clinicId", clinicID),
		zap.Duration("pullInterval", e.pullInterval))

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		if err := e.Pull(ctx); err != nil {
			e.log.Warn("initial pull failed", zap.Error(err))
		}
	}()
	return nil
}

// Disable turns cloud sync off from any state. A pending debounced push is
// cancelled so nothing is pushed after logout, and the pull timer is stopped.
func (e *Engine) Disable() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disableLocked()
}

// disableLocked requires e.mu held.
func (e *Engine) disableLocked() {
	if e.pushTimer != nil {
		e.pushTimer.Stop()
		e.pushTimer = nil
	}
	if e.cron != nil {
		e.cron.Stop()
		e.cron = nil
	}
	e.clinicID = ""
	e.lastErr = nil
	e.setStatusLocked(StatusDisabled)
}

// Close tears the engine down; identical to Disable.
func (e *Engine) Close() {
	e.Disable()
}

// MutationObserved is the state layer's mutation hook. The local write is
// already durable by the time it runs; it only (re)arms the debounce timer so
// rapid successive mutations produce a single push of the final state.
func (e *Engine) MutationObserved() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status == StatusDisabled {
		return
	}
	if e.pushTimer != nil {
		e.pushTimer.Reset(e.debounce)
		return
	}
	e.pushTimer = time.AfterFunc(e.debounce, e.firePush)
}

func (e *Engine) firePush() {
	e.mu.Lock()
	e.pushTimer = nil
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := e.Push(ctx); err != nil && !errors.Is(err, ErrDisabled) {
		e.log.Warn("debounced push failed", zap.Error(err))
	}
}

// Push replaces the remote document with the current local snapshot. A
// failure never rolls back local data; it is surfaced and the engine returns
// to Idle.
func (e *Engine) Push(ctx context.Context) error {
	e.mu.Lock()
	if e.status == StatusDisabled {
		e.mu.Unlock()
		return ErrDisabled
	}
	id := e.clinicID
	e.setStatusLocked(StatusPushing)
	e.mu.Unlock()

	snap := e.state.SnapshotNow()
	err := e.relay.Replace(ctx, id, snap)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status == StatusDisabled {
		// Disabled mid-flight; do not resurrect any other state.
		return err
	}
	e.lastErr = err
	e.setStatusLocked(StatusIdle)
	if err != nil {
		e.log.Warn("push failed, local data unaffected", zap.Error(err))
		return err
	}
	e.log.Info("pushed snapshot", zap.String("clinicId", id))
	return nil
}

// Pull fetches the remote document and applies it to local state and store
// with the defensive field-by-field merge. On failure local data is left
// untouched, the engine records the error and the next scheduled tick
// retries.
func (e *Engine) Pull(ctx context.Context) error {
	e.mu.Lock()
	if e.status == StatusDisabled {
		e.mu.Unlock()
		return ErrDisabled
	}
	if e.status == StatusPulling || e.status == StatusPushing {
		e.mu.Unlock()
		return nil
	}
	id := e.clinicID
	e.setStatusLocked(StatusPulling)
	e.mu.Unlock()

	snap, err := e.relay.Fetch(ctx, id)

	e.mu.Lock()
	if e.status == StatusDisabled {
		e.mu.Unlock()
		return err
	}
	if err != nil {
		e.lastErr = err
		e.setStatusLocked(StatusError)
		e.mu.Unlock()
		if errors.Is(err, relay.ErrNotFound) {
			e.log.Warn("clinic id no longer resolves at the relay, re-provision needed",
				zap.String("clinicId", id))
		} else {
			e.log.Warn("pull failed, local data unchanged", zap.Error(err))
		}
		return err
	}
	e.lastErr = nil
	e.mu.Unlock()

	e.state.ApplySnapshot(snap)
	// Other same-device instances rehydrate from the store.
	e.notifier.Publish(notify.Event{Key: "snapshot"})

	e.mu.Lock()
	if e.status != StatusDisabled {
		e.setStatusLocked(StatusIdle)
	}
	e.mu.Unlock()

	e.log.Info("pulled snapshot", zap.String("clinicId", id))
	return nil
}

// setStatusLocked requires e.mu held.
func (e *Engine) setStatusLocked(s Status) {
	if e.status == s {
		return
	}
	e.status = s
	if e.onStatus != nil {
		go e.onStatus(s)
	}
}
