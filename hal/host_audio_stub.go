//go:build !tinygo && !cgo

package hal

import "errors"

var errAudioNeedsCgo = errors.New("audio requires cgo (build/run with CGO_ENABLED=1)")

func startOtoMonitor(*monitor) (func(), error) { return nil, errAudioNeedsCgo }

func startEbitenMonitor(*monitor) (func(), error) { return nil, errAudioNeedsCgo }
