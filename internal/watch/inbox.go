package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mdocx/internal/config"
	"mdocx/internal/errors"
	"mdocx/internal/intake"
	"mdocx/internal/log"
	"mdocx/internal/workflow"
)

// InboxStatus summarises what the inbox has done so far.
type InboxStatus struct {
	Running      bool
	Directory    string
	LastActivity time.Time
	Converted    int
	Failed       int
}

// Result reports one processed drop. Output is empty on failure.
type Result struct {
	Source string
	Output string
	Err    error
}

// Inbox feeds dropped files through a workflow driver one at a time. Files
// that arrive while a conversion is running wait in the watcher's queue
// rather than being submitted and dropped by the busy guard.
type Inbox struct {
	dir     string
	watcher *Watcher
	driver  *workflow.Driver

	callback func(Result)

	mutex        sync.RWMutex
	running      bool
	lastActivity time.Time
	converted    int
	failed       int
}

// NewInbox watches the configured inbox directory and converts matching
// files with d.
func NewInbox(cfg *config.Config, d *workflow.Driver) (*Inbox, error) {
	if cfg.Inbox.Directory == "" {
		return nil, errors.NewConfigError("no inbox directory configured", "inbox.directory", errors.InvalidConfig, nil)
	}
	w, err := New(cfg.Inbox.Pattern)
	if err != nil {
		return nil, errors.NewConfigError("invalid inbox pattern", "inbox.pattern", errors.InvalidConfig, err)
	}
	return &Inbox{dir: cfg.Inbox.Directory, watcher: w, driver: d}, nil
}

// Watcher exposes the underlying watcher, for tuning before Run.
func (in *Inbox) Watcher() *Watcher { return in.watcher }

// SetCallback registers fn to be told about every processed drop.
func (in *Inbox) SetCallback(fn func(Result)) {
	in.mutex.Lock()
	defer in.mutex.Unlock()
	in.callback = fn
}

// Run watches the inbox until ctx is cancelled. It owns the driver's loop
// for as long as it runs.
func (in *Inbox) Run(ctx context.Context) error {
	if err := in.watcher.AddDirectory(in.dir); err != nil {
		return err
	}
	if err := in.watcher.Start(); err != nil {
		return fmt.Errorf("error starting watcher: %w", err)
	}
	defer in.watcher.Stop()

	in.setRunning(true)
	defer in.setRunning(false)

	drops := in.watcher.Drops()
	for {
		select {
		case <-ctx.Done():
			return nil
		case drop, ok := <-drops:
			if !ok {
				return nil
			}
			in.process(ctx, drop)
		}
	}
}

func (in *Inbox) process(ctx context.Context, drop Drop) {
	in.mutex.Lock()
	in.lastActivity = drop.Timestamp
	in.mutex.Unlock()

	res := Result{Source: drop.Path}
	cand, err := intake.FromPath(drop.Path)
	if err == nil {
		var s workflow.State
		s, err = in.driver.ConvertFile(ctx, cand)
		if err == nil {
			res.Output = s.LastPath()
		}
	}
	res.Err = err

	logger := log.LogWithFields(log.F("file", drop.Path))
	in.mutex.Lock()
	if err != nil {
		in.failed++
		logger.WithError(err).Warn("inbox conversion failed")
	} else {
		in.converted++
		logger.With(log.F("output", res.Output)).Info("inbox conversion complete")
	}
	cb := in.callback
	in.mutex.Unlock()

	if cb != nil {
		cb(res)
	}
}

func (in *Inbox) setRunning(running bool) {
	in.mutex.Lock()
	in.running = running
	in.mutex.Unlock()
}

// Status returns the current inbox statistics.
func (in *Inbox) Status() InboxStatus {
	in.mutex.RLock()
	defer in.mutex.RUnlock()
	return InboxStatus{
		Running:      in.running,
		Directory:    in.dir,
		LastActivity: in.lastActivity,
		Converted:    in.converted,
		Failed:       in.failed,
	}
}
