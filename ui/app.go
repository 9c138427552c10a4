// Package ui is the reference terminal host for the launcher core: a search
// bar over the ranked catalog, enter to execute.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"launchbox/db"
	"launchbox/engine"
	"launchbox/model"
)

// ActionShow is the trigger action that surfaces the launcher.
const ActionShow = "launcher.show"

// ActivationMsg carries a triggered hotkey action into the program.
type ActivationMsg struct {
	Action string
}

type App struct {
	engine  *engine.Engine
	catalog *db.DB // nil when running without persistence
	topN    int

	results []model.SearchResult
	cursor  int
	width   int
	height  int
	err     string
	status  string

	searchInput textinput.Model
}

func NewApp(eng *engine.Engine, database *db.DB, topN int) *App {
	search := textinput.New()
	search.Placeholder = "Search commands..."
	search.Focus()

	a := &App{
		engine:      eng,
		catalog:     database,
		topN:        topN,
		searchInput: search,
	}
	a.refresh()
	return a
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width - 4  // account for app padding
		a.height = msg.Height - 2 // account for app padding
		return a, nil

	case ActivationMsg:
		if msg.Action == ActionShow {
			a.searchInput.SetValue("")
			a.searchInput.Focus()
			a.refresh()
		}
		return a, nil

	case tea.KeyMsg:
		a.err = ""
		a.status = ""

		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit

		case "up", "ctrl+k":
			if a.cursor > 0 {
				a.cursor--
			}

		case "down", "ctrl+j":
			if a.cursor < len(a.results)-1 {
				a.cursor++
			}

		case "enter":
			if len(a.results) > 0 {
				a.executeSelected()
			}

		case "esc":
			if a.searchInput.Value() == "" {
				return a, tea.Quit
			}
			a.searchInput.SetValue("")
			a.refresh()

		default:
			var cmd tea.Cmd
			a.searchInput, cmd = a.searchInput.Update(msg)
			a.refresh()
			return a, cmd
		}
	}

	return a, nil
}

func (a *App) refresh() {
	a.results = a.engine.Search(a.searchInput.Value(), a.topN)
	if a.cursor >= len(a.results) {
		a.cursor = max(0, len(a.results)-1)
	}
}

func (a *App) executeSelected() {
	selected := a.results[a.cursor].Command

	ok := a.engine.Execute(context.Background(), selected.ID)
	if ok {
		a.status = "Launched " + selected.Label
	} else {
		a.err = "Failed: " + selected.Label
	}

	// Usage counters changed either way; persist and re-rank.
	if a.catalog != nil {
		if cmd, found := a.engine.Catalog().Get(selected.ID); found {
			if err := a.catalog.UpdateUsage(cmd.ID, cmd.HitCount, cmd.LastRunAt); err != nil {
				a.err = err.Error()
			}
		}
	}
	a.refresh()
}

func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("launchbox"))
	b.WriteString("\n\n")

	b.WriteString(a.searchInput.View())
	b.WriteString("\n\n")

	listHeight := a.height - 8
	if listHeight < 3 {
		listHeight = 3
	}
	b.WriteString(a.renderList(listHeight))

	b.WriteString("\n")
	if a.err != "" {
		b.WriteString(errorStyle.Render(a.err))
		b.WriteString("\n")
	} else if a.status != "" {
		b.WriteString(successStyle.Render(a.status))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("↑/↓ select · enter launch · esc clear · ctrl+c quit"))

	return appStyle.Render(b.String())
}

func (a *App) renderList(height int) string {
	if len(a.results) == 0 {
		return normalStyle.Render("No matches.") + "\n"
	}

	var b strings.Builder
	for i, res := range a.results {
		if i >= height {
			break
		}
		line := res.Command.Label
		if res.Command.Category != "" {
			line = categoryStyle.Render(res.Command.Category+": ") + line
		}
		if i == a.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(normalStyle.Render("  " + line))
		}
		if res.Command.Args != "" && i == a.cursor {
			b.WriteString(argsPreviewStyle.Render(fmt.Sprintf("  %s", res.Command.Args)))
		}
		b.WriteString("\n")
	}
	return b.String()
}
