package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"launchbox/engine"
	"launchbox/model"
	"launchbox/verbs"
)

type noopRunner struct{}

func (noopRunner) RunTarget(string) error { return nil }

type noopSink struct{}

func (noopSink) NotifyBuiltIn(string, string) {}

func newTestApp(t *testing.T, cmds ...model.Command) *App {
	t.Helper()
	registry, err := verbs.NewRegistry(zap.NewNop())
	require.NoError(t, err)
	eng := engine.New(engine.NewCatalog(cmds), registry, noopRunner{}, noopSink{}, false, zap.NewNop())
	return NewApp(eng, nil, 10)
}

func TestActivationResetsSearch(t *testing.T) {
	app := newTestApp(t,
		model.Command{ID: "1", Label: "firefox", Kind: model.KindRun},
		model.Command{ID: "2", Label: "calculator", Kind: model.KindRun},
	)

	app.searchInput.SetValue("fire")
	app.refresh()
	require.Len(t, app.results, 1)

	got, _ := app.Update(ActivationMsg{Action: ActionShow})
	updated := got.(*App)
	assert.Equal(t, "", updated.searchInput.Value())
	assert.Len(t, updated.results, 2, "cleared query ranks the whole catalog again")
}

func TestActivationIgnoresUnknownAction(t *testing.T) {
	app := newTestApp(t, model.Command{ID: "1", Label: "firefox", Kind: model.KindRun})

	app.searchInput.SetValue("fire")
	app.refresh()

	got, _ := app.Update(ActivationMsg{Action: "no.such.action"})
	updated := got.(*App)
	assert.Equal(t, "fire", updated.searchInput.Value())
}
