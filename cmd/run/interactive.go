package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/function-runtime/engine"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	revisionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	logStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err      error
	eng      *engine.Engine
	fn       *engine.Function
	filename string
	input    textarea.Model
	output   string
	logs     []string
	state    modelState
}

type modelState int

const (
	stateEditInput modelState = iota
	stateShowResult
)

func newInteractiveModel(filename, initialInput string) *interactiveModel {
	ta := textarea.New()
	ta.Placeholder = `{"cart": {"lines": []}}`
	ta.SetWidth(60)
	ta.SetHeight(10)
	ta.SetValue(initialInput)
	ta.Focus()

	return &interactiveModel{
		filename: filename,
		input:    ta,
		state:    stateEditInput,
	}
}

type loadedMsg struct {
	err error
	eng *engine.Engine
	fn  *engine.Function
}

type invokeResultMsg struct {
	err    error
	output string
	logs   []string
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadFunction
}

func (m *interactiveModel) loadFunction() tea.Msg {
	ctx := context.Background()

	data, err := os.ReadFile(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}

	eng, err := engine.New(ctx)
	if err != nil {
		return loadedMsg{err: err}
	}

	fn, err := eng.LoadFunction(ctx, data)
	if err != nil {
		eng.Close(ctx)
		return loadedMsg{err: err}
	}

	return loadedMsg{eng: eng, fn: fn}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			ctx := context.Background()
			if m.fn != nil {
				m.fn.Close(ctx)
			}
			if m.eng != nil {
				m.eng.Close(ctx)
			}
			return m, tea.Quit

		case "ctrl+r":
			if m.state == stateEditInput && m.fn != nil {
				return m, m.invokeFunction
			}

		case "enter":
			if m.state == stateShowResult {
				m.state = stateEditInput
				m.output = ""
				m.logs = nil
				m.input.Focus()
				return m, nil
			}

		case "q":
			if m.state == stateShowResult {
				ctx := context.Background()
				if m.fn != nil {
					m.fn.Close(ctx)
				}
				if m.eng != nil {
					m.eng.Close(ctx)
				}
				return m, tea.Quit
			}

		case "esc":
			if m.state == stateShowResult {
				m.state = stateEditInput
				m.output = ""
				m.logs = nil
				m.input.Focus()
				return m, nil
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.eng = msg.eng
		m.fn = msg.fn

	case invokeResultMsg:
		m.err = msg.err
		m.output = msg.output
		m.logs = msg.logs
		m.state = stateShowResult
		m.input.Blur()
	}

	if m.state == stateEditInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) invokeFunction() tea.Msg {
	ctx := context.Background()

	res, err := m.fn.Invoke(ctx, []byte(m.input.Value()))
	if err != nil {
		return invokeResultMsg{err: err}
	}

	return invokeResultMsg{output: string(res.Output), logs: res.Logs}
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress ctrl+c to quit.", m.err))
	}

	if m.fn == nil {
		return "Loading function..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Function Runner"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString(" ")
	b.WriteString(revisionStyle.Render(fmt.Sprintf("(API v%d)", m.fn.Revision())))
	b.WriteString("\n\n")

	switch m.state {
	case stateEditInput:
		b.WriteString("Input JSON:\n\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("ctrl+r run • ctrl+c quit"))

	case stateShowResult:
		b.WriteString("Result:\n\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.output))
		}
		if len(m.logs) > 0 {
			b.WriteString("\n\nLogs:\n")
			for _, line := range m.logs {
				b.WriteString(logStyle.Render("  " + line))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter edit input • q quit"))
	}

	return b.String()
}

func runInteractive(filename, inputFile string) error {
	initial := "{}"
	if inputFile != "" {
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return err
		}
		initial = string(data)
	}

	p := tea.NewProgram(newInteractiveModel(filename, initial), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
