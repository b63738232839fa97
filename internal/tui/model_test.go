package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelchat/internal/domain"
	"travelchat/internal/fallback"
)

type stubChat struct {
	requests []*domain.ChatRequest
	resp     *domain.ChatResponse
	err      error
}

func (s *stubChat) Chat(_ context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	s.requests = append(s.requests, req)
	return s.resp, s.err
}

func sized(m Model) Model {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

func press(m Model, key tea.KeyType) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: key})
	return next.(Model), cmd
}

// roundTrip runs the command returned by Enter and feeds its message back.
func roundTrip(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next.(Model)
}

func TestEnter_SendsTypedMessage(t *testing.T) {
	svc := &stubChat{resp: &domain.ChatResponse{
		Response:    "Goa is sunny.",
		AIPowered:   true,
		Suggestions: []string{"a", "b", "c", "d"},
	}}
	m := sized(New(svc, "summary"))
	m.input.SetValue("  goa?  ")

	m, cmd := press(m, tea.KeyEnter)
	assert.True(t, m.waiting)
	assert.Equal(t, "", m.input.Value())
	m = roundTrip(t, m, cmd)

	require.Len(t, svc.requests, 1)
	assert.Equal(t, "goa?", svc.requests[0].UserInput)
	assert.False(t, m.waiting)
	require.Len(t, m.turns, 1)
	assert.Equal(t, "Goa is sunny.", m.turns[0].bot)
	assert.Equal(t, []string{"a", "b", "c", "d"}, m.suggestions)
	assert.Contains(t, m.View(), "Goa is sunny.")
}

func TestEnter_EmptyInputSendsSelectedSuggestion(t *testing.T) {
	svc := &stubChat{resp: &domain.ChatResponse{Response: "ok", Suggestions: fallback.DefaultSuggestions[:]}}
	m := sized(New(svc, ""))

	m, _ = press(m, tea.KeyDown)
	m, _ = press(m, tea.KeyDown)
	m, _ = press(m, tea.KeyUp)
	m, cmd := press(m, tea.KeyEnter)
	roundTrip(t, m, cmd)

	require.Len(t, svc.requests, 1)
	assert.Equal(t, fallback.DefaultSuggestions[1], svc.requests[0].UserInput)
}

func TestSuggestionCursorWraps(t *testing.T) {
	m := sized(New(&stubChat{}, ""))

	m, _ = press(m, tea.KeyUp)

	assert.Equal(t, len(fallback.DefaultSuggestions)-1, m.cursor)
}

func TestEnter_IgnoredWhileWaiting(t *testing.T) {
	svc := &stubChat{resp: &domain.ChatResponse{Response: "ok"}}
	m := sized(New(svc, ""))
	m.input.SetValue("hello")
	m, _ = press(m, tea.KeyEnter)

	m.input.SetValue("again")
	_, cmd := press(m, tea.KeyEnter)

	assert.Nil(t, cmd)
}

func TestReply_SendsHistoryOfCompletedTurns(t *testing.T) {
	svc := &stubChat{resp: &domain.ChatResponse{Response: "first answer"}}
	m := sized(New(svc, ""))
	m.input.SetValue("first")
	m, cmd := press(m, tea.KeyEnter)
	m = roundTrip(t, m, cmd)

	m.input.SetValue("second")
	m, cmd = press(m, tea.KeyEnter)
	roundTrip(t, m, cmd)

	require.Len(t, svc.requests, 2)
	assert.Empty(t, svc.requests[0].ConversationHistory)
	assert.Equal(t, []domain.ChatTurn{{User: "first", Bot: "first answer"}}, svc.requests[1].ConversationHistory)
}

func TestReply_ErrorDropsPendingTurn(t *testing.T) {
	svc := &stubChat{err: errors.New("user_input is required")}
	m := sized(New(svc, ""))
	m.input.SetValue("hi")

	m, cmd := press(m, tea.KeyEnter)
	m = roundTrip(t, m, cmd)

	assert.Empty(t, m.turns)
	assert.True(t, strings.HasPrefix(m.status, "Error:"))
}

func TestReply_OfflineLabel(t *testing.T) {
	svc := &stubChat{resp: &domain.ChatResponse{Response: fallback.Respond("hello"), AIPowered: false}}
	m := sized(New(svc, ""))
	m.input.SetValue("hello")

	m, cmd := press(m, tea.KeyEnter)
	m = roundTrip(t, m, cmd)

	assert.Contains(t, m.renderTranscript(), "AtithiBot (offline): ")
	assert.Contains(t, m.status, "Offline")
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		_, cmd := press(sized(New(&stubChat{}, "")), key)
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestView_NotReady(t *testing.T) {
	assert.Equal(t, "Loading...", New(&stubChat{}, "").View())
}

func TestHighlightBestSentence(t *testing.T) {
	text := "Goa has beaches. Kerala has backwaters."

	out := highlightBestSentence(text, "kerala backwaters")

	assert.Contains(t, out, "Goa has beaches.")
	assert.Contains(t, out, "Kerala has backwaters.")
	assert.Equal(t, "single sentence.", highlightBestSentence("single sentence.", "single"))
	assert.Equal(t, text, highlightBestSentence(text, "rajasthan"))
}
