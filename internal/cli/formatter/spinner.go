package formatter

import (
	"fmt"
	"io"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerTick = 80 * time.Millisecond

// Spinner animates a one-line status on w while a slow call is in flight.
// After the first second it also shows the elapsed time, since AI calls can
// run up to their timeout.
type Spinner struct {
	w       io.Writer
	message string

	once sync.Once
	quit chan struct{}
	wg   sync.WaitGroup
}

func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{w: w, message: message, quit: make(chan struct{})}
}

// Start begins drawing. Call Stop to clear the line.
func (s *Spinner) Start() {
	s.wg.Add(1)
	go s.run(time.Now())
}

func (s *Spinner) run(started time.Time) {
	defer s.wg.Done()
	ticker := time.NewTicker(spinnerTick)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-s.quit:
			fmt.Fprint(s.w, "\r\033[K")
			return
		case <-ticker.C:
			fmt.Fprintf(s.w, "\r  %s %s", StylePurple.Render(spinnerFrames[frame%len(spinnerFrames)]), s.label(time.Since(started)))
		}
	}
}

func (s *Spinner) label(elapsed time.Duration) string {
	if elapsed < time.Second {
		return Dim(s.message)
	}
	return Dim(fmt.Sprintf("%s (%ds)", s.message, int(elapsed.Seconds())))
}

// Stop clears the spinner line and waits for the drawing goroutine to exit.
// Later calls are no-ops.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		close(s.quit)
		s.wg.Wait()
	})
}

// StartSpinner starts a spinner on w and returns its Stop.
func StartSpinner(w io.Writer, message string) func() {
	s := NewSpinner(w, message)
	s.Start()
	return s.Stop
}
