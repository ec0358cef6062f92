package semantic

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"techpulse-app/core/interfaces"
	"techpulse-app/pkg/config"
)

// fakeModel replays canned responses
type fakeModel struct {
	replies []string
	err     error
	calls   int
	prompts []string
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	for _, msg := range messages {
		if msg.Role == schema.ChatMessageTypeSystem {
			m.prompts = append(m.prompts, msg.Parts[0].(llms.TextContent).Text)
		}
	}
	if len(m.replies) == 0 {
		return &llms.ContentResponse{}, nil
	}
	reply := m.replies[0]
	if len(m.replies) > 1 {
		m.replies = m.replies[1:]
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: reply}}}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestExtractEntities(t *testing.T) {
	model := &fakeModel{replies: []string{"```json\n" + `{"entities": [
		{"text": "Amazon Web Services", "class": "org"},
		{"text": " ", "class": "ORG"},
		{"text": "Seattle", "class": "GPE"}
	]}` + "\n```"}}
	e := NewWithModel(model, 0, nil)

	entities, err := e.ExtractEntities(context.Background(), "Amazon Web Services opened an office in Seattle")
	require.NoError(t, err)
	assert.Equal(t, []interfaces.Entity{
		{Text: "Amazon Web Services", Class: "ORG"},
		{Text: "Seattle", Class: "GPE"},
	}, entities)
	assert.Equal(t, 1, model.calls)
}

func TestExtractPhrases_RespectsTopN(t *testing.T) {
	model := &fakeModel{replies: []string{`{"phrases": [
		{"phrase": "serverless computing", "score": 0.9},
		{"phrase": "cold starts", "score": 0.7},
		{"phrase": "pricing", "score": 0.4},
	]}`}}
	e := NewWithModel(model, 0, nil)

	phrases, err := e.ExtractPhrases(context.Background(), "text", 2)
	require.NoError(t, err)
	require.Len(t, phrases, 2)
	assert.Equal(t, "serverless computing", phrases[0].Phrase)
	assert.InDelta(t, 0.7, phrases[1].Score, 1e-9)
	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "2 most relevant")
}

func TestExtractPhrases_ZeroTopN(t *testing.T) {
	model := &fakeModel{}
	phrases, err := NewWithModel(model, 0, nil).ExtractPhrases(context.Background(), "text", 0)
	assert.NoError(t, err)
	assert.Nil(t, phrases)
	assert.Zero(t, model.calls)
}

func TestComplete_RetriesMalformedJSON(t *testing.T) {
	model := &fakeModel{replies: []string{"not json at all", `{"entities": [{"text": "Azure", "class": "PRODUCT"}]}`}}
	e := NewWithModel(model, 0, nil)

	entities, err := e.ExtractEntities(context.Background(), "Azure")
	require.NoError(t, err)
	assert.Len(t, entities, 1)
	assert.Equal(t, 2, model.calls)
}

func TestComplete_GivesUpAfterRetries(t *testing.T) {
	model := &fakeModel{replies: []string{"still not json"}}
	_, err := NewWithModel(model, 0, nil).ExtractEntities(context.Background(), "x")
	assert.Error(t, err)
	assert.Equal(t, maxAttempts, model.calls)
}

func TestComplete_TransportErrorIsNotRetried(t *testing.T) {
	model := &fakeModel{err: errors.New("connection refused")}
	_, err := NewWithModel(model, 0, nil).ExtractEntities(context.Background(), "x")
	assert.Error(t, err)
	assert.Equal(t, 1, model.calls)
}

func TestComplete_NoChoices(t *testing.T) {
	_, err := NewWithModel(&fakeModel{}, 0, nil).ExtractEntities(context.Background(), "x")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a": 1}`, `{"a": 1}`},
		{`{phrase": "x"}`, `{"phrase": "x"}`},
		{`{"a": [1, 2,], }`, `{"a": [1, 2]}`},
		{`{text: "x", class: "ORG"}`, `{"text": "x","class": "ORG"}`},
	}
	for _, tt := range tests {
		got := repairJSON(tt.in)
		if strings.ReplaceAll(got, " ", "") != strings.ReplaceAll(tt.want, " ", "") {
			t.Errorf("repairJSON(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNew_RequiresModel(t *testing.T) {
	_, err := New(config.SemanticConfig{}, nil)
	assert.Error(t, err)
}
