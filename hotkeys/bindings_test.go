package hotkeys

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRegistrar hands out sequential handles and can refuse specs.
type fakeRegistrar struct {
	mu      sync.Mutex
	next    Handle
	refuse  map[string]bool
	active  map[Handle]string
	dropped []Handle
}

func newFakeRegistrar() *fakeRegistrar {
	return &fakeRegistrar{refuse: make(map[string]bool), active: make(map[Handle]string)}
}

func (f *fakeRegistrar) RegisterHotkey(spec string) (Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refuse[spec] {
		return 0, errors.New("chord already taken")
	}
	f.next++
	f.active[f.next] = spec
	return f.next, nil
}

func (f *fakeRegistrar) UnregisterHotkey(h Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.active, h)
	f.dropped = append(f.dropped, h)
	return nil
}

func receiveAction(t *testing.T, b *Bindings) string {
	t.Helper()
	select {
	case action := <-b.Triggered():
		return action
	case <-time.After(time.Second):
		t.Fatal("no activation published")
		return ""
	}
}

func TestRegisterAndActivate(t *testing.T) {
	reg := newFakeRegistrar()
	b := New(reg, zap.NewNop())

	require.True(t, b.Register("launcher.show", "ctrl+space"))

	b.Activate(1)
	assert.Equal(t, "launcher.show", receiveAction(t, b))
}

func TestRegisterDisabledSpec(t *testing.T) {
	reg := newFakeRegistrar()
	b := New(reg, zap.NewNop())

	assert.False(t, b.Register("launcher.show", "off"))
	assert.False(t, b.Register("launcher.show", "OFF"))
	assert.False(t, b.Register("launcher.show", ""))
	assert.Empty(t, reg.active, "disabled specs never reach the registrar")
}

func TestRegisterRefusedByRegistrar(t *testing.T) {
	reg := newFakeRegistrar()
	reg.refuse["ctrl+space"] = true
	b := New(reg, zap.NewNop())

	assert.False(t, b.Register("launcher.show", "ctrl+space"))
}

func TestRebindReplacesOldTrigger(t *testing.T) {
	reg := newFakeRegistrar()
	b := New(reg, zap.NewNop())

	require.True(t, b.Register("launcher.show", "ctrl+space"))
	require.True(t, b.Register("launcher.show", "alt+space"))

	assert.Equal(t, []Handle{1}, reg.dropped)

	// The stale handle no longer routes anywhere.
	b.Activate(1)
	b.Activate(2)
	assert.Equal(t, "launcher.show", receiveAction(t, b))
	select {
	case extra := <-b.Triggered():
		t.Fatalf("unexpected second activation %q", extra)
	default:
	}
}

func TestUnregister(t *testing.T) {
	reg := newFakeRegistrar()
	b := New(reg, zap.NewNop())

	require.True(t, b.Register("launcher.show", "ctrl+space"))
	b.Unregister("launcher.show")
	assert.Empty(t, reg.active)

	// Unknown action is a no-op.
	b.Unregister("never.bound")

	b.Activate(1)
	select {
	case action := <-b.Triggered():
		t.Fatalf("activation after unregister: %q", action)
	default:
	}
}

func TestUnregisterAll(t *testing.T) {
	reg := newFakeRegistrar()
	b := New(reg, zap.NewNop())

	require.True(t, b.Register("launcher.show", "ctrl+space"))
	require.True(t, b.Register("audio.mute", "ctrl+m"))

	b.UnregisterAll()
	assert.Empty(t, reg.active)
}

func TestConcurrentActivationAndRegistration(t *testing.T) {
	reg := newFakeRegistrar()
	b := New(reg, zap.NewNop())
	require.True(t, b.Register("launcher.show", "ctrl+space"))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			b.Activate(1)
		}
	}()
	for i := 0; i < 50; i++ {
		b.Register("audio.mute", "ctrl+m")
		b.Unregister("audio.mute")
	}
	<-done

	// Drain whatever made it through; the point is no corruption or panic.
	for {
		select {
		case <-b.Triggered():
		default:
			return
		}
	}
}
