//go:build !tinygo

package hal

import (
	"errors"
	"os"

	"golang.org/x/term"
)

// termKeys maps raw terminal keys to buttons: '1', '2' and '3' press the
// buttons, 'q' or Ctrl-C quits.
type termKeys struct {
	fd    int
	state *term.State
}

var errNotTerminal = errors.New("stdin is not a terminal")

func startTermKeys(h *hostHAL, quit func()) (*termKeys, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errNotTerminal
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	k := &termKeys{fd: fd, state: state}

	// The reader blocks in Read and ends with the process.
	go func() {
		buf := make([]byte, 16)
		for {
			n, err := os.Stdin.Read(buf)
			for _, b := range buf[:n] {
				if !k.key(h, b) {
					quit()
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()
	h.logger.WriteLineString("keys: 1=wave 2=rate 3=duty q=quit")
	return k, nil
}

// key handles one byte and reports whether reading should continue.
func (k *termKeys) key(h *hostHAL, b byte) bool {
	switch b {
	case '1', '2', '3':
		_ = h.press(int(b - '1'))
	case 'q', 'Q', 0x03:
		return false
	}
	return true
}

func (k *termKeys) stop() {
	if k.state != nil {
		_ = term.Restore(k.fd, k.state)
		k.state = nil
	}
}
