package cmd

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// spinner draws a text progress indicator while a long call runs.
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
	started bool
}

func newSpinner(out io.Writer, message string) (s *spinner) {
	s = &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	return s
}

// start must be called at most once.
func (s *spinner) start() {
	s.started = true

	go func() {
		defer close(s.done)

		frames := []string{"|", "/", "-", "\\"}
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		_, _ = fmt.Fprintf(s.out, "%s ", s.message)
		for i := 0; ; i++ {
			select {
			case <-s.stop:
				_, _ = fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.message)+2))
				return
			case <-ticker.C:
				_, _ = fmt.Fprintf(s.out, "\r%s %s", s.message, frames[i%len(frames)])
			}
		}
	}()
}

// finish clears the line and waits for the drawing goroutine. Safe to call repeatedly.
func (s *spinner) finish() {
	if !s.started {
		return
	}
	s.once.Do(func() {
		close(s.stop)
		<-s.done
	})
}
