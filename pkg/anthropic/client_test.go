package anthropic

import (
	"errors"
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
)

func TestMessageResponse_Text(t *testing.T) {
	r := &MessageResponse{
		Content: []ContentBlock{
			{Type: "text", Text: "first "},
			{Type: "tool_use", Text: "ignored"},
			{Type: "text", Text: "second"},
		},
	}
	assert.Equal(t, "first second", r.Text())
}

func TestMessageResponse_Text_Empty(t *testing.T) {
	r := &MessageResponse{}
	assert.Equal(t, "", r.Text())
}

func TestStatusOf(t *testing.T) {
	base := &APIError{StatusCode: 429, Err: errors.New("rate limited")}

	assert.Equal(t, 429, StatusOf(base))
	// Survives wrapping.
	assert.Equal(t, 429, StatusOf(eris.Wrap(base, "engine: extract")))
	// Non-API errors carry no status.
	assert.Equal(t, 0, StatusOf(errors.New("plain")))
	assert.Equal(t, 0, StatusOf(nil))
}

func TestAPIError_Unwrap(t *testing.T) {
	inner := errors.New("overloaded")
	err := &APIError{StatusCode: 529, Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "overloaded", err.Error())
}

func TestToSDKMessages_Roles(t *testing.T) {
	msgs := toSDKMessages([]Message{
		{Role: "user", Content: "describe the project"},
		{Role: "assistant", Content: "the project is a solar farm"},
		{Role: "", Content: "defaults to user"},
	})

	assert.Len(t, msgs, 3)
	assert.Equal(t, sdk.MessageParamRoleUser, msgs[0].Role)
	assert.Equal(t, sdk.MessageParamRoleAssistant, msgs[1].Role)
	assert.Equal(t, sdk.MessageParamRoleUser, msgs[2].Role)
}
