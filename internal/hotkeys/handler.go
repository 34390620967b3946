// Package hotkeys grabs desktop-wide keys on X11 and forwards them to the
// running desktop over IPC. The terminal never sees a bare modifier, so the
// dwell trigger depends on this helper.
package hotkeys

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/termdesk/internal/ipc"
	"github.com/1broseidon/termdesk/internal/launcher"
	"github.com/1broseidon/termdesk/internal/logging"
	"github.com/1broseidon/termdesk/internal/x11"
)

// Sender is the part of the IPC client the handler drives.
type Sender interface {
	ToggleLauncher() (*ipc.LauncherData, error)
	Key(key string, down bool) error
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	sender Sender
	logger *slog.Logger

	mu        sync.Mutex
	modifiers map[string]bool
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler on conn.
func NewHandler(conn *x11.Connection, sender Sender, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	h := &Handler{
		sender:    sender,
		logger:    logger,
		modifiers: make(map[string]bool),
	}
	if conn != nil {
		h.xu = conn.XUtil
		h.root = conn.Root
		ignoreModsOnce.Do(func() {
			configureIgnoreMods(h.xu)
		})
	}
	return h
}

// RegisterToggle grabs keySequence (xgbutil syntax, e.g. "Mod4-space") and
// toggles the launcher on every press.
func (h *Handler) RegisterToggle(keySequence string) error {
	err := keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		if _, err := h.sender.ToggleLauncher(); err != nil {
			h.logger.Warn("toggle launcher failed", "error", err)
		}
	}).Connect(h.xu, h.root, keySequence, true)
	if err != nil {
		return fmt.Errorf("failed to register toggle hotkey %q: %w", keySequence, err)
	}
	return nil
}

// RegisterModifier grabs the left and right keys of the dwell modifier and
// forwards presses and releases. While the modifier is held the keyboard
// grab routes every other key here too, so chords reach the desktop as
// ordinary presses and cancel the dwell.
func (h *Handler) RegisterModifier(name, goos string) error {
	syms := ModifierKeysyms(name, goos)
	if len(syms) == 0 {
		return fmt.Errorf("modifier %q has no grabbable keys", name)
	}
	for _, sym := range syms {
		err := keybind.KeyPressFun(func(*xgbutil.XUtil, xevent.KeyPressEvent) {}).
			Connect(h.xu, h.root, sym, true)
		if err != nil {
			return fmt.Errorf("failed to grab %s: %w", sym, err)
		}
		h.mu.Lock()
		h.modifiers[strings.ToLower(sym)] = true
		h.mu.Unlock()
	}

	xevent.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		h.forward(keyName(xu, ev.State, ev.Detail), true)
	}).Connect(h.xu, h.root)
	xevent.KeyReleaseFun(func(xu *xgbutil.XUtil, ev xevent.KeyReleaseEvent) {
		h.forward(keyName(xu, ev.State, ev.Detail), false)
	}).Connect(h.xu, h.root)
	return nil
}

// forward sends one key transition. Releases of anything but the modifier
// are dropped; the trigger only cares about modifier releases.
func (h *Handler) forward(name string, down bool) {
	name = strings.ToLower(name)
	if name == "" {
		return
	}
	h.mu.Lock()
	isModifier := h.modifiers[name]
	h.mu.Unlock()
	if !down && !isModifier {
		return
	}
	if err := h.sender.Key(name, down); err != nil {
		h.logger.Warn("forward key failed", "key", name, "down", down, "error", err)
	}
}

func keyName(xu *xgbutil.XUtil, state uint16, code xproto.Keycode) string {
	if s := keybind.LookupString(xu, state, code); s != "" {
		return s
	}
	return fmt.Sprintf("keycode-%d", code)
}

// ModifierKeysyms returns the X keysyms of a modifier's physical keys,
// e.g. Super_L and Super_R for "super".
func ModifierKeysyms(name, goos string) []string {
	var out []string
	for _, alias := range launcher.ModifierAliases(name, goos) {
		base, side, ok := strings.Cut(alias, "_")
		if !ok || (side != "l" && side != "r") || base == "" {
			continue
		}
		out = append(out, strings.ToUpper(base[:1])+base[1:]+"_"+strings.ToUpper(side))
	}
	return out
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
