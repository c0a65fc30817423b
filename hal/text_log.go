package hal

import (
	"strings"
	"sync"
)

// logText stands in for the character LCD by logging each new screen.
type logText struct {
	mu     sync.Mutex
	logger Logger
	last   string
}

func (t *logText) WriteLines(lines ...string) error {
	s := strings.Join(lines, " | ")
	t.mu.Lock()
	defer t.mu.Unlock()
	if s == t.last {
		return nil
	}
	t.last = s
	t.logger.WriteLineString("lcd: " + s)
	return nil
}
