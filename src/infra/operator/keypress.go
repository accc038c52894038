package operator

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

const ctrlC = 0x03

// Keypress lets an operator cut a timed wait short with any key. When the
// input is not a terminal it degrades to a plain timed wait.
type Keypress struct {
	in          *os.File
	interactive bool
	once        sync.Once
	keys        chan byte
}

// NewKeypress creates a keypress signal reading from in.
func NewKeypress(in *os.File) *Keypress {
	return &Keypress{
		in:          in,
		interactive: in != nil && term.IsTerminal(int(in.Fd())),
		keys:        make(chan byte, 1),
	}
}

// Interactive reports whether keystrokes can end a wait.
func (k *Keypress) Interactive() bool {
	return k.interactive
}

// Wait blocks for d, until a key is pressed, or until ctx is done.
// It returns true only when a key ended the wait.
func (k *Keypress) Wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	if !k.interactive {
		select {
		case <-timer.C:
		case <-ctx.Done():
		}
		return false
	}

	k.once.Do(func() { go k.read() })
	k.drain()

	fd := int(k.in.Fd())
	if state, err := term.MakeRaw(fd); err != nil {
		slog.Debug("Keypress.Wait: could not switch terminal to raw mode", "error", err)
	} else {
		defer term.Restore(fd, state)
	}

	select {
	case key := <-k.keys:
		if key == ctrlC {
			// Raw mode swallows the interrupt; deliver it ourselves.
			if p, err := os.FindProcess(os.Getpid()); err == nil {
				p.Signal(os.Interrupt)
			}
			return false
		}
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}

// drain discards keys typed while nobody was waiting.
func (k *Keypress) drain() {
	for {
		select {
		case <-k.keys:
		default:
			return
		}
	}
}

func (k *Keypress) read() {
	buf := make([]byte, 1)
	for {
		n, err := k.in.Read(buf)
		if err != nil {
			if err != io.EOF {
				slog.Debug("Keypress.read: stopped reading input", "error", err)
			}
			return
		}
		if n == 0 {
			continue
		}
		select {
		case k.keys <- buf[0]:
		default:
		}
	}
}
