//go:build tinygo && bootdebug

package app

import (
	"machine"
	"sync"
	"time"

	"wavegen/hal"
)

var (
	bootDiagMu    sync.Mutex
	bootDiagStep  string
	bootDiagStart sync.Once
)

// bootStep records the boot stage and, on the first call, starts streaming
// it to the log and USB CDC every 250 ms so a hang can be located without a
// debugger.
func bootStep(h hal.HAL, msg string) {
	bootDiagMu.Lock()
	bootDiagStep = msg
	bootDiagMu.Unlock()

	bootDiagStart.Do(func() {
		l := h.Logger()
		go func() {
			for {
				bootDiagMu.Lock()
				step := bootDiagStep
				bootDiagMu.Unlock()

				line := "bootdiag: " + step
				if l != nil {
					l.WriteLineString(line)
				}
				if usb := machine.USBCDC; usb != nil {
					_, _ = usb.Write([]byte(line + "\r\n"))
				}
				if step == "ready" {
					return
				}
				time.Sleep(250 * time.Millisecond)
			}
		}()
	})
}
