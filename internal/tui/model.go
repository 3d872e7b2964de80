package tui

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/sportchat/internal/chat"
	"github.com/diogo/sportchat/internal/models"
	"github.com/diogo/sportchat/internal/render"
)

const sendLabel = "[ Send ]"

// clipboardWrite is swapped in tests
var clipboardWrite = clipboard.WriteAll

// Message types for the TUI
type (
	// replyMsg carries the outcome of one exchange back to the event loop
	replyMsg struct {
		reply models.Message
	}
	copiedMsg struct {
		err error
	}
)

type focusArea int

const (
	focusInput focusArea = iota
	focusSend
)

// Options configures the chat program
type Options struct {
	BackendURL string
	Markdown   render.Options
}

// Model represents the TUI state
type Model struct {
	ctx        context.Context
	controller *chat.Controller
	backendURL string
	markdown   render.Options

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	focus    focusArea
	inflight int
	ready    bool
	notice   string

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model
func NewChatModel(ctx context.Context, controller *chat.Controller, opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask about any sport..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		ctx:        ctx,
		controller: controller,
		backendURL: opts.BackendURL,
		markdown:   opts.Markdown,
		textarea:   ta,
		spinner:    s,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4 // Header panel with border and margin
		inputHeight := 7  // Margin, border, label, textarea, send row
		statusHeight := 2 // Status bar with margin
		padding := 4      // Messages panel border and padding

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth-4, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth - 4
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab", "shift+tab":
			return m.toggleFocus()

		case "ctrl+y":
			return m, m.copyLastAnswer()

		case "pgup", "pgdown":
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd

		case "enter":
			return m.submit()

		case " ":
			if m.focus == focusSend {
				return m.submit()
			}
		}

		if m.focus == focusInput {
			m.notice = ""
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && m.onSendButton(msg.X, msg.Y) {
			return m.submit()
		}
		if tea.MouseEvent(msg).IsWheel() {
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

	case replyMsg:
		m.inflight--
		m.controller.Append(msg.reply)
		m.updateViewport()
		m.viewport.GotoBottom()

	case copiedMsg:
		if msg.err != nil {
			m.notice = "Copy failed: " + msg.err.Error()
		} else {
			m.notice = "Copied last answer to clipboard"
		}

	case spinner.TickMsg:
		if m.inflight > 0 {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	default:
		if m.focus == focusInput {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// submit takes the current input through the controller. Blank input is left
// in place and nothing is sent.
func (m Model) submit() (tea.Model, tea.Cmd) {
	ex, ok := m.controller.Submit(m.textarea.Value())
	if !ok {
		return m, nil
	}

	m.textarea.Reset()
	m.notice = ""
	m.inflight++
	m.updateViewport()
	m.viewport.GotoBottom()

	cmds := []tea.Cmd{m.resolve(ex)}
	if m.inflight == 1 {
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

// resolve runs one exchange off the event loop
func (m Model) resolve(ex *chat.Exchange) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return replyMsg{reply: ex.Resolve(ctx)}
	}
}

func (m Model) toggleFocus() (tea.Model, tea.Cmd) {
	if m.focus == focusInput {
		m.focus = focusSend
		m.textarea.Blur()
		return m, nil
	}
	m.focus = focusInput
	return m, m.textarea.Focus()
}

func (m Model) copyLastAnswer() tea.Cmd {
	last, ok := m.controller.Transcript().Last(models.SenderBot)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return copiedMsg{err: clipboardWrite(last.Text)}
	}
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4

	sections := []string{
		m.renderHeader(contentWidth),
		m.renderMessages(contentWidth),
		m.renderInput(contentWidth),
		m.renderStatusBar(contentWidth),
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(width int) string {
	headerContent := lipgloss.JoinHorizontal(
		lipgloss.Center,
		titleStyle.Render("⚽ Sport Expert"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(backendHost(m.backendURL)),
	)
	return headerStyle.Width(width).Render(headerContent)
}

func (m Model) renderMessages(width int) string {
	var content string
	if m.controller.Transcript().Len() == 0 {
		content = m.renderWelcome()
	} else {
		content = m.viewport.View()
	}

	return messagesAreaStyle.
		Width(width).
		Height(m.viewport.Height).
		Render(content)
}

func (m Model) renderInput(width int) string {
	var label string
	if m.inflight > 0 {
		label = m.spinner.View() + loadingStyle.Render(fmt.Sprintf(" waiting for %d %s", m.inflight, plural(m.inflight, "reply", "replies")))
	} else {
		label = inputLabelStyle.Render("You")
	}

	button := sendButtonStyle.Render(sendLabel)
	if m.focus == focusSend {
		button = sendButtonFocusedStyle.Render(sendLabel)
	}
	sendRow := button
	if m.notice != "" {
		sendRow = lipgloss.JoinHorizontal(lipgloss.Center, button, "  ", noticeStyle.Render(m.notice))
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		label,
		m.textarea.View(),
		sendRow,
	)
	return inputPanelStyle.Width(width).Render(content)
}

// onSendButton reports whether a screen cell lies on the send control.
// The input panel starts with a one line margin and a border, followed by the
// label and the textarea.
func (m Model) onSendButton(x, y int) bool {
	if !m.ready {
		return false
	}
	contentWidth := m.width - 4

	top := lipgloss.Height(m.renderHeader(contentWidth)) +
		lipgloss.Height(m.renderMessages(contentWidth))
	row := top + 1 + 1 + 1 + m.textarea.Height()

	left := 2 // border and padding
	right := left + lipgloss.Width(sendLabel)

	return y == row && x >= left && x < right
}

func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	icon := welcomeIconStyle.Width(width).Render("⚽")
	title := welcomeTitleStyle.Width(width).Render("Welcome to Sport Expert")
	subtitle := welcomeStyle.Width(width).Render("Ask a question and press Enter or click Send")

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		icon,
		"",
		title,
		"",
		subtitle,
		"",
	)

	contentHeight := lipgloss.Height(content)
	topPadding := (height - contentHeight) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Tab", "Focus"},
		{"Ctrl+Y", "Copy"},
		{"PgUp/PgDn", "Scroll"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		item := lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		)
		items = append(items, item)
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Center, strings.Join(items, "  │  "))
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

func (m *Model) updateViewport() {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}

	for i, msg := range m.controller.Transcript().Messages() {
		if i > 0 {
			content.WriteString("\n")
		}

		switch msg.Sender {
		case models.SenderUser:
			label := userLabelStyle.Render("● You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Text)
			content.WriteString(label + "\n" + bubble)

		case models.SenderBot:
			label := botLabelStyle.Render("⚽ Expert")
			rendered := render.Answer(msg.Text, m.markdown.WithWidth(bubbleWidth-4))
			bubble := botBubbleStyle.Width(bubbleWidth).Render(rendered)
			content.WriteString(label + "\n" + bubble)

		default:
			content.WriteString(systemStyle.Width(bubbleWidth).Render("⚠ " + msg.Text))
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

func backendHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// RunChat starts the interactive chat. Leaving the program cancels ctx for
// any request still in flight.
func RunChat(ctx context.Context, controller *chat.Controller, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewChatModel(ctx, controller, opts)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
