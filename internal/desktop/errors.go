package desktop

import "errors"

// ErrDuplicateTitle is returned by CreateWindow when the title is already
// registered and the registry rejects duplicates.
var ErrDuplicateTitle = errors.New("window title already exists")

// ErrMinimized is returned by ToggleMaximize on a minimized window.
var ErrMinimized = errors.New("window is minimized")

// ErrLoopClosed is returned when work is submitted to a stopped loop.
var ErrLoopClosed = errors.New("desktop loop closed")
