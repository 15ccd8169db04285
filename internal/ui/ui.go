package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/dbchat/dbchat/internal/database"
	"github.com/dbchat/dbchat/internal/formatter"
	"github.com/dbchat/dbchat/internal/models"
	"github.com/dbchat/dbchat/internal/monitor"
	"github.com/dbchat/dbchat/internal/tasks"
)

const (
	inputHeight  = 3
	chromeHeight = 7 // input, status bar, help, borders
	maxTableRows = 20
)

// ModelOpts configures the chat TUI.
type ModelOpts struct {
	ProviderName string                // Shown in the status bar
	DatabaseName string                // Shown in the title
	Samples      <-chan monitor.Sample // Optional live system usage feed
}

// Model represents the chat TUI application state.
type Model struct {
	ctx      context.Context
	engine   tasks.Engine
	opts     ModelOpts
	width    int
	height   int
	ready    bool
	thinking bool

	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap

	history      []models.ChatMessage
	transcript   []string
	progressChan chan tasks.ProgressUpdate
	answerChan   chan answerMsg
	progress     tasks.ProgressUpdate
	sample       monitor.Sample
	err          error
}

// NewModel creates a new chat TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine tasks.Engine, opts ModelOpts) *Model {
	input := textarea.New()
	input.Placeholder = "Type a message..."
	input.Prompt = "┃ "
	input.SetHeight(inputHeight)
	input.CharLimit = 500
	input.ShowLineNumbers = false
	input.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.title

	return &Model{
		ctx:     ctx,
		engine:  engine,
		opts:    opts,
		input:   input,
		spinner: s,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init starts the cursor blink and, when configured, the system usage feed.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if m.opts.Samples != nil {
		cmds = append(cmds, m.waitForSample())
	}
	return tea.Batch(cmds...)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-chromeHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - chromeHeight
		}
		m.input.SetWidth(msg.Width - 2)
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+l":
			m.history = nil
			m.transcript = nil
			m.err = nil
			m.refreshTranscript()
			return m, nil
		case "enter":
			if !m.thinking {
				return m, m.submit()
			}
			return m, nil
		}

	case answerMsg:
		m.thinking = false
		m.progressChan = nil
		m.answerChan = nil
		if msg.err != nil {
			m.err = msg.err
			m.appendLine(styles.err.Render(fmt.Sprintf("Error: %v", msg.err)))
			return m, nil
		}
		m.appendAnswer(msg.answer)
		return m, nil

	case progressMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case sampleMsg:
		m.sample = monitor.Sample(msg)
		return m, m.waitForSample()

	case spinner.TickMsg:
		if m.thinking {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View renders the transcript, the input box, and the status bar.
func (m *Model) View() string {
	if !m.ready {
		return "Starting..."
	}

	var footer string
	if m.thinking {
		footer = fmt.Sprintf("%s %s", m.spinner.View(), styles.help.Render(m.progress.Message))
	} else {
		footer = m.input.View()
	}

	return fmt.Sprintf("%s\n%s\n%s\n%s",
		m.viewport.View(),
		footer,
		m.statusBar(),
		m.help.View(m.keys),
	)
}

func (m *Model) statusBar() string {
	parts := []string{}
	if m.opts.DatabaseName != "" {
		parts = append(parts, m.opts.DatabaseName)
	}
	if m.opts.ProviderName != "" {
		parts = append(parts, m.opts.ProviderName)
	}
	if !m.sample.Taken.IsZero() {
		parts = append(parts, m.sample.String())
	}
	return styles.help.Render(strings.Join(parts, " · "))
}

// submit sends the composed question through the engine in the background.
func (m *Model) submit() tea.Cmd {
	question := strings.TrimSpace(m.input.Value())
	if question == "" {
		return nil
	}

	m.input.Reset()
	m.thinking = true
	m.err = nil
	m.progress = tasks.ProgressUpdate{Message: "Thinking..."}

	m.appendLine(styles.title.Render("You: ") + m.wrap(question))

	// Snapshot of the conversation before this question; the engine gets
	// the question separately.
	history := append([]models.ChatMessage(nil), m.history...)
	m.history = append(m.history, models.ChatMessage{Role: models.RoleUser, Content: question})

	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.answerChan = make(chan answerMsg, 1)

	progressChan, answerChan := m.progressChan, m.answerChan
	go func() {
		answer, err := m.engine.Ask(m.ctx, progressChan, question, history)
		answerChan <- answerMsg{answer: answer, err: err}
	}()

	return tea.Batch(m.spinner.Tick, m.waitForProgress())
}

// waitForProgress yields the next engine update, or the final answer once
// the pipeline finishes.
func (m *Model) waitForProgress() tea.Cmd {
	progressChan, answerChan := m.progressChan, m.answerChan
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}
		select {
		case update := <-progressChan:
			return progressMsg(update)
		case result := <-answerChan:
			return result
		}
	}
}

func (m *Model) waitForSample() tea.Cmd {
	samples := m.opts.Samples
	return func() tea.Msg {
		sample, ok := <-samples
		if !ok {
			return nil
		}
		return sampleMsg(sample)
	}
}

// appendAnswer renders one pipeline result into the transcript.
func (m *Model) appendAnswer(answer *tasks.Answer) {
	if answer == nil {
		return
	}

	var b strings.Builder
	b.WriteString(styles.ok.Render("AI: "))
	b.WriteString(m.wrap(answer.Text))

	if answer.SQL != "" && !answer.Fallback {
		b.WriteString("\n\n")
		b.WriteString(styles.help.Render(answer.SQL))
	}

	if answer.Chart != "" {
		b.WriteString("\n\n")
		b.WriteString(answer.Chart)
	} else if answer.Results != nil && !answer.Results.Empty() {
		b.WriteString("\n\n")
		b.WriteString(m.renderResults(answer.Results))
	}

	m.appendLine(b.String())
	m.history = append(m.history, models.ChatMessage{Role: models.RoleAssistant, Content: answer.Text})
}

// renderResults shows at most maxTableRows rows so a long result doesn't
// swallow the transcript.
func (m *Model) renderResults(results *database.ResultSet) string {
	shown := results
	truncated := 0
	if len(results.Rows) > maxTableRows {
		shown = &database.ResultSet{Columns: results.Columns, Rows: results.Rows[:maxTableRows]}
		truncated = len(results.Rows) - maxTableRows
	}

	out := strings.TrimRight(formatter.RenderTable(shown), "\n")
	if truncated > 0 {
		out += "\n" + styles.help.Render(fmt.Sprintf("... %d more rows", truncated))
	}
	return out
}

// appendLine adds one block to the transcript and scrolls to the bottom.
func (m *Model) appendLine(line string) {
	m.transcript = append(m.transcript, line)
	m.refreshTranscript()
}

func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.transcript, "\n\n"))
	m.viewport.GotoBottom()
}

// wrap word-wraps prose to the current terminal width.
func (m *Model) wrap(s string) string {
	width := m.width - 4
	if width <= 0 {
		width = 76
	}
	return wordwrap.String(s, width)
}
