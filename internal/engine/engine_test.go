package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/veridian-group/esia-cli/internal/catalog"
	"github.com/veridian-group/esia-cli/internal/resilience"
	"github.com/veridian-group/esia-cli/pkg/anthropic"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

func testTemplate() catalog.Template {
	return catalog.Template{
		Name:      "ProjectDescription",
		DomainKey: "project_description",
		Title:     "Project Description",
		Subtopics: []string{"proponent", "site", "components"},
	}
}

func TestExtract_Success(t *testing.T) {
	client := &mockClient{}
	client.On("CreateMessage", mock.Anything, mock.AnythingOfType("anthropic.MessageRequest")).
		Return(&anthropic.MessageResponse{
			Content: []anthropic.ContentBlock{{Type: "text", Text: `{"found": true, "fields": {"proponent": "Acme Energy", "capacity_mw": 50}}`}},
			Usage:   anthropic.TokenUsage{InputTokens: 900, OutputTokens: 60},
		}, nil).Once()

	eng := New(client, Config{Model: "claude-haiku-4-5-20251001"})
	result, err := eng.Extract(context.Background(), "The proponent Acme Energy proposes a 50 MW plant.", testTemplate())

	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.Equal(t, "Acme Energy", result.Fields["proponent"])
	assert.Equal(t, 900, result.Usage.InputTokens)
	client.AssertExpectations(t)
}

func TestExtract_NoInformation(t *testing.T) {
	client := &mockClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(&anthropic.MessageResponse{
			Content: []anthropic.ContentBlock{{Type: "text", Text: `{"found": false, "fields": {}}`}},
		}, nil).Once()

	eng := New(client, Config{Model: "claude-haiku-4-5-20251001"})
	result, err := eng.Extract(context.Background(), "Unrelated appendix text.", testTemplate())

	require.NoError(t, err)
	assert.False(t, result.Found)
	assert.Empty(t, result.Fields)
}

func TestExtract_MarkdownFencedResponse(t *testing.T) {
	client := &mockClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(&anthropic.MessageResponse{
			Content: []anthropic.ContentBlock{{Type: "text", Text: "```json\n{\"found\": true, \"fields\": {\"site\": \"12 km north of town\"}}\n```"}},
		}, nil).Once()

	eng := New(client, Config{Model: "claude-haiku-4-5-20251001"})
	result, err := eng.Extract(context.Background(), "text", testTemplate())

	require.NoError(t, err)
	assert.True(t, result.Found)
	assert.Equal(t, "12 km north of town", result.Fields["site"])
}

func TestExtract_TransientStatusWrapped(t *testing.T) {
	client := &mockClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, &anthropic.APIError{StatusCode: 429, Err: errors.New("rate limited")}).Once()

	eng := New(client, Config{Model: "claude-haiku-4-5-20251001"})
	_, err := eng.Extract(context.Background(), "text", testTemplate())

	require.Error(t, err)
	assert.True(t, resilience.IsTransient(err))
}

func TestExtract_PermanentStatusNotTransient(t *testing.T) {
	client := &mockClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, &anthropic.APIError{StatusCode: 400, Err: errors.New("invalid request")}).Once()

	eng := New(client, Config{Model: "claude-haiku-4-5-20251001"})
	_, err := eng.Extract(context.Background(), "text", testTemplate())

	require.Error(t, err)
	assert.False(t, resilience.IsTransient(err))
}

func TestExtract_UnparseableResponse(t *testing.T) {
	client := &mockClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(&anthropic.MessageResponse{
			Content: []anthropic.ContentBlock{{Type: "text", Text: "I could not determine the answer."}},
		}, nil).Once()

	eng := New(client, Config{Model: "claude-haiku-4-5-20251001"})
	_, err := eng.Extract(context.Background(), "text", testTemplate())

	assert.Error(t, err)
}

func TestParseResult_FoundButEmptyFields(t *testing.T) {
	result, err := parseResult(`{"found": true, "fields": {}}`)
	require.NoError(t, err)
	assert.False(t, result.Found)
}

func TestCleanJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, cleanJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSON(`{"a":1}`))
	assert.Equal(t, `{"a":1}`, cleanJSON("  {\"a\":1}  "))
}
