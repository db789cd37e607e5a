package manager

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

// spinnerFrames are the braille animation frames shown next to a provider
// while it is still initializing.
var spinnerFrames = []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}

// tickInterval is how often idle spinners advance a frame.
const tickInterval = 50 * time.Millisecond

// ANSI cursor control. The display owns the output writer for the duration
// of the bootstrap; nothing else may write to it concurrently.
const (
	ansiClearLine = "\x1b[2K"
	ansiCarriage  = "\r"
)

func ansiCursorUp(n int) string   { return fmt.Sprintf("\x1b[%dA", n) }
func ansiCursorDown(n int) string { return fmt.Sprintf("\x1b[%dB", n) }

type msgKind int

const (
	msgAdd msgKind = iota
	msgRemove
)

// loadingMsg is one advisory signal from the bootstrapper to the display.
type loadingMsg struct {
	kind msgKind
	name string
}

// providerRow tracks one provider's line in the display output.
type providerRow struct {
	row     int
	frame   int
	started time.Time
	done    bool
}

// display renders live bootstrap progress. It owns all of its state (row
// positions, spinner frames, timers) exclusively; the bootstrapper only
// talks to it through the message channel.
type display struct {
	out  io.Writer
	rows int
	seen map[string]*providerRow
}

func newDisplay(out io.Writer) *display {
	return &display{
		out:  out,
		seen: make(map[string]*providerRow),
	}
}

// run consumes msgs on a dedicated goroutine until the channel is closed.
// The returned channel yields the display's exit error exactly once.
func (d *display) run(msgs <-chan loadingMsg) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- d.loop(msgs)
	}()
	return done
}

func (d *display) loop(msgs <-chan loadingMsg) error {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case m, ok := <-msgs:
			if !ok {
				return nil
			}
			var err error
			switch m.kind {
			case msgAdd:
				err = d.add(m.name)
			case msgRemove:
				err = d.finish(m.name)
			}
			if err != nil {
				return err
			}
		case <-ticker.C:
			if err := d.tick(); err != nil {
				return err
			}
		}
	}
}

// add prints a new status line for name and records its row.
func (d *display) add(name string) error {
	d.seen[name] = &providerRow{
		row:     d.rows,
		started: time.Now(),
	}
	d.rows++

	if _, err := fmt.Fprintf(d.out, "%c Initializing ", spinnerFrames[0]); err != nil {
		return err
	}
	if _, err := color.New(color.FgBlue).Fprintf(d.out, "%s\n", name); err != nil {
		return err
	}
	return nil
}

// finish rewrites name's status line as completed and marks it done so
// future ticks skip it. A Remove for a name that was never added is
// ignored.
func (d *display) finish(name string) error {
	st, ok := d.seen[name]
	if !ok {
		return nil
	}
	st.done = true
	elapsed := time.Since(st.started).Seconds()
	dist := d.rows - st.row

	if _, err := fmt.Fprint(d.out, ansiCursorUp(dist), ansiClearLine, ansiCarriage); err != nil {
		return err
	}
	if _, err := color.New(color.FgGreen).Fprint(d.out, "✓ "); err != nil {
		return err
	}
	if _, err := color.New(color.FgBlue).Fprint(d.out, name); err != nil {
		return err
	}
	if _, err := fmt.Fprint(d.out, " loaded in "); err != nil {
		return err
	}
	if _, err := color.New(color.FgYellow).Fprintf(d.out, "%.2f s", elapsed); err != nil {
		return err
	}
	if _, err := fmt.Fprint(d.out, ansiCursorDown(dist), ansiCarriage); err != nil {
		return err
	}
	return nil
}

// tick advances the spinner of every provider still loading.
func (d *display) tick() error {
	for _, st := range d.seen {
		if st.done {
			continue
		}
		st.frame = (st.frame + 1) % len(spinnerFrames)
		dist := d.rows - st.row
		if _, err := fmt.Fprint(d.out, ansiCursorUp(dist), ansiCarriage, string(spinnerFrames[st.frame]), ansiCursorDown(dist)); err != nil {
			return err
		}
	}
	return nil
}
