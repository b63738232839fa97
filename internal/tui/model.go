package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"travelchat/internal/domain"
	"travelchat/internal/fallback"
)

// ChatPort is the TUI-facing subset of the chat service.
type ChatPort interface {
	Chat(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error)
}

type turn struct {
	user string
	bot  string
	ai   bool
}

// replyMsg carries the outcome of one chat call back into Update.
type replyMsg struct {
	resp *domain.ChatResponse
	err  error
}

// Model is the Bubble Tea model for the chat console.
type Model struct {
	service     ChatPort
	input       textinput.Model
	viewport    viewport.Model
	turns       []turn
	suggestions []string
	cursor      int
	summary     string
	status      string
	waiting     bool
	ready       bool
}

// New creates a chat console over service. summary is shown under the title.
func New(service ChatPort, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about destinations, or press Enter to send the highlighted suggestion"
	ti.Focus()
	ti.CharLimit = 500
	vp := viewport.New(0, 0)
	return Model{
		service:     service,
		input:       ti,
		viewport:    vp,
		summary:     summary,
		suggestions: fallback.DefaultSuggestions[:],
		status:      "Namaste! Type a message and press Enter.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and reply events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + 2 + 1 + ih + 1 // header+summary, suggestions, status, input, spacer
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-th)
		m.refresh()
		return m, nil
	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			if n := len(m.turns); n > 0 {
				m.turns = m.turns[:n-1]
			}
			m.refresh()
			return m, nil
		}
		if len(m.turns) == 0 || msg.resp == nil {
			return m, nil
		}
		last := &m.turns[len(m.turns)-1]
		last.bot = msg.resp.Response
		last.ai = msg.resp.AIPowered
		if len(msg.resp.Suggestions) > 0 {
			m.suggestions = msg.resp.Suggestions
		}
		m.cursor = 0
		if msg.resp.AIPowered {
			m.status = "Answered by the AI assistant"
		} else {
			m.status = "Offline answer (AI assistant unavailable)"
		}
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			if m.waiting {
				return m, nil
			}
			text := strings.TrimSpace(m.input.Value())
			if text == "" && len(m.suggestions) > 0 {
				text = m.suggestions[m.cursor]
			}
			if text == "" {
				return m, nil
			}
			history := m.history()
			m.turns = append(m.turns, turn{user: text})
			m.input.SetValue("")
			m.waiting = true
			m.status = "Thinking..."
			m.refresh()
			return m, m.send(text, history)
		case "down":
			if len(m.suggestions) > 0 {
				m.cursor = (m.cursor + 1) % len(m.suggestions)
				return m, nil
			}
		case "up":
			if len(m.suggestions) > 0 {
				m.cursor = (m.cursor - 1 + len(m.suggestions)) % len(m.suggestions)
				return m, nil
			}
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) send(text string, history []domain.ChatTurn) tea.Cmd {
	service := m.service
	return func() tea.Msg {
		resp, err := service.Chat(context.Background(), &domain.ChatRequest{
			UserInput:           text,
			ConversationHistory: history,
			Timestamp:           time.Now().Format(time.RFC3339),
		})
		return replyMsg{resp: resp, err: err}
	}
}

func (m Model) history() []domain.ChatTurn {
	out := make([]domain.ChatTurn, 0, len(m.turns))
	for _, t := range m.turns {
		if t.bot != "" {
			out = append(out, domain.ChatTurn{User: t.user, Bot: t.bot})
		}
	}
	return out
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// View renders the console layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("AtithiVerse Travel Chat")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + summary + "\n" + transcript + "\n" + m.renderSuggestions() + "\n" + input + "\n" + status
}

func (m Model) renderSuggestions() string {
	parts := make([]string, len(m.suggestions))
	for i, s := range m.suggestions {
		if i == m.cursor {
			parts[i] = selectedStyle.Render("▸ " + s)
		} else {
			parts[i] = suggestionStyle.Render("  " + s)
		}
	}
	return "Suggestions (↑/↓):\n" + strings.Join(parts, " ")
}

func (m Model) renderTranscript() string {
	if len(m.turns) == 0 {
		return "No messages yet."
	}
	var b strings.Builder
	for i, t := range m.turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(userStyle.Render("You: "))
		b.WriteString(t.user)
		b.WriteString("\n")
		switch {
		case t.bot == "":
			b.WriteString(botStyle.Render("AtithiBot: "))
			b.WriteString("...")
		default:
			label := "AtithiBot: "
			if !t.ai {
				label = "AtithiBot (offline): "
			}
			b.WriteString(botStyle.Render(label))
			b.WriteString(highlightBestSentence(t.bot, t.user))
		}
	}
	return b.String()
}

var (
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	userStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	suggestionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	wordRe             = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentenceRe         = regexp.MustCompile(`[^.!?]+[.!?]+`)
)

// highlightBestSentence emphasises the reply sentence sharing the most
// words with the question. Replies with a single sentence are unchanged.
func highlightBestSentence(text, query string) string {
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) < 2 || strings.Join(sentences, "") != text {
		return text
	}
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 {
		return text
	}
	bestIdx, bestScore := -1, 0
	for i, s := range sentences {
		if score := tokenOverlapScore(qTokens, s); score > bestScore {
			bestScore, bestIdx = score, i
		}
	}
	if bestIdx < 0 {
		return text
	}
	var b strings.Builder
	for i, s := range sentences {
		if i == bestIdx {
			lead := s[:len(s)-len(strings.TrimLeft(s, " \n"))]
			b.WriteString(lead)
			b.WriteString(highlightStyle.Render(strings.TrimLeft(s, " \n")))
			continue
		}
		b.WriteString(s)
	}
	return b.String()
}

func toTokenSet(s string) map[string]struct{} {
	tokens := wordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	for t := range toTokenSet(sentence) {
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}

// Run starts the console and blocks until the user quits.
func Run(service ChatPort, summary string) error {
	_, err := tea.NewProgram(New(service, summary), tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("run chat console: %w", err)
	}
	return nil
}
