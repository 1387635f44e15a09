// Package menu renders the interactive status menu in the terminal.
package menu

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/eliteGoblin/focusd/keep_awake/internal/domain"
	"github.com/eliteGoblin/focusd/keep_awake/internal/target"
)

// Action is a menu item the user can trigger.
type Action int

const (
	ToggleEnabled Action = iota
	ToggleFloating
	ToggleLaunchAtLogin
)

func (a Action) String() string {
	switch a {
	case ToggleEnabled:
		return "toggle enabled"
	case ToggleFloating:
		return "toggle floating"
	case ToggleLaunchAtLogin:
		return "toggle launch at login"
	default:
		return "unknown"
	}
}

// Controller performs menu actions against the running agent.
type Controller interface {
	Perform(a Action) error
}

// StatusMsg carries a fresh status snapshot into the model.
type StatusMsg domain.Status

type actionDoneMsg struct {
	action Action
	err    error
}

// Model is the bubbletea model for the status menu.
type Model struct {
	app     target.App
	ctrl    Controller
	version string

	status    domain.Status
	hasStatus bool
	lastErr   error
	quitting  bool
}

// New creates the menu model.
func New(app target.App, ctrl Controller, version string) Model {
	return Model{app: app, ctrl: ctrl, version: version}
}

// StatusLine is the one-line summary shown at the top of the menu.
func StatusLine(s domain.Status, app target.App) string {
	switch {
	case !s.TargetRunning:
		return app.Name + ": Not Running"
	case !s.Enabled:
		return app.Name + ": Running (Disabled)"
	case s.AssertionActive:
		return app.Name + ": Active (No Sleep)"
	default:
		return app.Name + ": Active"
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StatusMsg:
		m.status = domain.Status(msg)
		m.hasStatus = true
		return m, nil

	case actionDoneMsg:
		m.lastErr = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.handleKeypress(msg)
	}
	return m, nil
}

func (m Model) handleKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "e":
		return m, m.perform(ToggleEnabled)
	case "f":
		return m, m.perform(ToggleFloating)
	case "l":
		return m, m.perform(ToggleLaunchAtLogin)
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) perform(a Action) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return actionDoneMsg{action: a, err: ctrl.Perform(a)}
	}
}

// Quitting reports whether the user asked to quit.
func (m Model) Quitting() bool {
	return m.quitting
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	title := "keepawake"
	if m.version != "" {
		title += " " + m.version
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	if !m.hasStatus {
		b.WriteString(statusIdle.Render("Starting..."))
	} else {
		b.WriteString(m.renderStatus())
	}
	b.WriteString("\n\n")

	b.WriteString(m.item(m.status.Enabled, "Enabled", "e"))
	b.WriteString(m.item(m.status.FloatingState == domain.FloatingActive, "Float "+m.app.Name+" Windows", "f"))
	if m.status.FloatingState == domain.FloatingPermissionPending {
		b.WriteString(hintStyle.Render("    Grant Accessibility access in System Settings, then press f again"))
		b.WriteString("\n")
	}
	b.WriteString(m.item(m.status.LaunchAtLogin, "Launch at Login", "l"))
	b.WriteString(fmt.Sprintf("    Quit %s\n", keyStyle.Render("(q)")))

	if m.lastErr != nil && !errors.Is(m.lastErr, domain.ErrPermissionDenied) {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.lastErr.Error()))
	}

	return boxStyle.Render(b.String())
}

func (m Model) renderStatus() string {
	line := StatusLine(m.status, m.app)
	switch {
	case m.status.TargetRunning && m.status.Enabled && m.status.AssertionActive:
		return statusActive.Render(line)
	case m.status.TargetRunning && m.status.Enabled:
		return statusDegraded.Render(line)
	default:
		return statusIdle.Render(line)
	}
}

func (m Model) item(checked bool, label, key string) string {
	mark := "[ ]"
	if checked {
		mark = "[x]"
	}
	return fmt.Sprintf("%s %s %s\n", mark, label, keyStyle.Render("("+key+")"))
}
