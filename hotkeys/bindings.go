// Package hotkeys binds external trigger activations (key chords, in
// practice) to action names. The OS-level registration mechanism stays
// behind the Registrar capability; this package only keeps the mapping and
// fans activations out on a single channel.
package hotkeys

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Handle is the opaque low-level token the registrar hands back for one
// registered trigger.
type Handle uint64

// Registrar is the OS-layer trigger capability.
type Registrar interface {
	RegisterHotkey(spec string) (Handle, error)
	UnregisterHotkey(h Handle) error
}

// DisabledSpec marks a binding that is configured but switched off; Register
// treats it (and the empty spec) as a refusal.
const DisabledSpec = "off"

// Bindings is the trigger binding table. Activation callbacks arrive
// concurrently with register/unregister calls, so the maps are
// RWMutex-guarded.
type Bindings struct {
	registrar Registrar
	logger    *zap.Logger

	mu       sync.RWMutex
	byAction map[string]Handle
	byHandle map[Handle]string

	triggered chan string
}

func New(registrar Registrar, logger *zap.Logger) *Bindings {
	return &Bindings{
		registrar: registrar,
		logger:    logger,
		byAction:  make(map[string]Handle),
		byHandle:  make(map[Handle]string),
		triggered: make(chan string, 16),
	}
}

// Register binds action to the trigger described by spec. It returns false
// when the spec is disabled or when the registrar refuses it, e.g. a
// conflicting chord.
func (b *Bindings) Register(action, spec string) bool {
	spec = strings.TrimSpace(spec)
	if spec == "" || strings.EqualFold(spec, DisabledSpec) {
		return false
	}

	h, err := b.registrar.RegisterHotkey(spec)
	if err != nil {
		b.logger.Warn("hotkey registration refused", zap.String("action", action), zap.String("spec", spec), zap.Error(err))
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if old, exists := b.byAction[action]; exists {
		// Rebinding: drop the previous trigger first.
		_ = b.registrar.UnregisterHotkey(old)
		delete(b.byHandle, old)
	}
	b.byAction[action] = h
	b.byHandle[h] = action
	return true
}

// Unregister removes the binding for action. Unknown actions are a no-op.
func (b *Bindings) Unregister(action string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	h, ok := b.byAction[action]
	if !ok {
		return
	}
	_ = b.registrar.UnregisterHotkey(h)
	delete(b.byAction, action)
	delete(b.byHandle, h)
}

// UnregisterAll drops every binding.
func (b *Bindings) UnregisterAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for action, h := range b.byAction {
		_ = b.registrar.UnregisterHotkey(h)
		delete(b.byAction, action)
		delete(b.byHandle, h)
	}
}

// Activate is the callback for the trigger source. It resolves the handle
// to its action name and publishes it on the Triggered channel. Activations
// for unknown handles, and activations arriving faster than the consumer
// drains them, are dropped.
func (b *Bindings) Activate(h Handle) {
	b.mu.RLock()
	action, ok := b.byHandle[h]
	b.mu.RUnlock()
	if !ok {
		return
	}
	select {
	case b.triggered <- action:
	default:
		b.logger.Warn("activation dropped, consumer lagging", zap.String("action", action))
	}
}

// Triggered is the notification stream of activated action names.
func (b *Bindings) Triggered() <-chan string {
	return b.triggered
}
