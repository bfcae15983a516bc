package hotkeys

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/tbsim/internal/platform"
)

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Binding ties a key sequence to a named command.
type Binding struct {
	Command string
	Keys    string
}

// Resolve pairs configured key sequences with known commands, sorted by
// command name. Unknown command names are an error.
func Resolve(keys map[string]string, commands map[string]func()) ([]Binding, error) {
	out := make([]Binding, 0, len(keys))
	for name, seq := range keys {
		if _, ok := commands[name]; !ok {
			return nil, fmt.Errorf("unknown hotkey command %q", name)
		}
		out = append(out, Binding{Command: name, Keys: seq})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Command < out[j].Command
	})
	return out, nil
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	post   func(func())
	logger *slog.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler. Callbacks are handed to post so they
// run on the main loop.
func NewHandler(backend platform.Backend, post func(func()), logger *slog.Logger) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok {
		return nil, fmt.Errorf("global hotkeys: %w", platform.ErrUnsupported)
	}
	if logger == nil {
		logger = slog.Default()
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:     xu,
		root:   accessor.RootWindow(),
		post:   post,
		logger: logger,
	}, nil
}

// RegisterAll binds every configured hotkey. A binding that fails to grab is
// logged and skipped so one conflict does not disable the rest.
func (h *Handler) RegisterAll(keys map[string]string, commands map[string]func()) error {
	bindings, err := Resolve(keys, commands)
	if err != nil {
		return err
	}
	for _, b := range bindings {
		callback := commands[b.Command]
		name := b.Command
		if err := h.RegisterFunc(b.Keys, func() {
			h.logger.Debug("hotkey triggered", "command", name)
			callback()
		}); err != nil {
			h.logger.Warn("failed to register hotkey", "command", b.Command, "keys", b.Keys, "error", err)
			continue
		}
		h.logger.Info("hotkey registered", "command", b.Command, "keys", b.Keys)
	}
	return nil
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		h.post(callback)
	}).Connect(h.xu, h.root, keySequence, true)
}

// UnregisterAll releases every grab on the root window, for config reloads.
func (h *Handler) UnregisterAll() {
	keybind.Detach(h.xu, h.root)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	xevent.IgnoreMods = ignoreMasks(caps, numLock, scrollLock)
}

// ignoreMasks returns every combination of the distinct non-zero lock masks,
// including the empty one.
func ignoreMasks(locks ...uint16) []uint16 {
	var base []uint16
	seen := map[uint16]bool{0: true}
	for _, m := range locks {
		if !seen[m] {
			seen[m] = true
			base = append(base, m)
		}
	}

	out := []uint16{0}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		out = append(out, mask)
	}
	return out
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
