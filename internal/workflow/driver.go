package workflow

import (
	"context"
	"sync"

	"mdocx/internal/errors"
	"mdocx/internal/intake"

	tea "github.com/charmbracelet/bubbletea"
)

// Driver runs the reducer without a terminal, for the CLI, the GUI and the
// inbox watcher. Update is only ever called from the goroutine running Run
// or ConvertFile; commands run on their own goroutines and report back
// through a queue.
type Driver struct {
	mu       sync.RWMutex
	state    State
	msgs     chan tea.Msg
	onChange func(State)
}

// NewDriver wraps s.
func NewDriver(s State) *Driver {
	return &Driver{state: s, msgs: make(chan tea.Msg, 64)}
}

// OnChange registers fn to be called with every new state. It runs on the
// loop goroutine and must not block.
func (d *Driver) OnChange(fn func(State)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onChange = fn
}

// State returns a snapshot of the current state.
func (d *Driver) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// Start runs the state's Init command.
func (d *Driver) Start() {
	d.Exec(d.State().Init())
}

// Dispatch queues msg for the loop. It is safe to call from any goroutine.
func (d *Driver) Dispatch(msg tea.Msg) {
	d.msgs <- msg
}

// Exec runs cmd in the background and queues what it returns. Batches fan
// out so each command reports independently.
func (d *Driver) Exec(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	go func() {
		msg := cmd()
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				d.Exec(c)
			}
			return
		}
		if msg != nil {
			d.Dispatch(msg)
		}
	}()
}

func (d *Driver) apply(msg tea.Msg) State {
	d.mu.Lock()
	next, cmd := d.state.Update(msg)
	d.state = next
	fn := d.onChange
	d.mu.Unlock()

	d.Exec(cmd)
	if fn != nil {
		fn(next)
	}
	return next
}

// Run processes queued messages until until reports true or ctx ends. A nil
// until runs until ctx ends.
func (d *Driver) Run(ctx context.Context, until func(State) bool) (State, error) {
	s := d.State()
	for {
		if until != nil && until(s) {
			return s, nil
		}
		select {
		case <-ctx.Done():
			return s, ctx.Err()
		case msg := <-d.msgs:
			s = d.apply(msg)
		}
	}
}

// ConvertFile ingests cand, submits it and waits for the conversion to
// finish. It returns the final state and, when the file was rejected or the
// conversion failed, the error shown on the status line.
func (d *Driver) ConvertFile(ctx context.Context, cand intake.Candidate) (State, error) {
	s := d.apply(FileChosenMsg{Candidate: cand})
	if err := s.Err(); err != nil {
		return s, err
	}

	before := s.Finished()
	s = d.apply(SubmitMsg{})
	if !s.Busy() {
		if err := s.Err(); err != nil {
			return s, err
		}
		return s, errors.New("a conversion is already in progress")
	}

	s, err := d.Run(ctx, func(s State) bool { return s.Finished() > before })
	if err != nil {
		return s, err
	}
	if s.LastOutcome() == Failed {
		return s, errors.Wrap(s.Err(), s.Status.Current().Text)
	}
	return s, nil
}
