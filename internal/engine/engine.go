// Package engine is the boundary to the LLM extraction collaborator: given
// section text and a resolved extraction template, it returns a structured
// field-value mapping or an explicit "no information found" result.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/veridian-group/esia-cli/internal/catalog"
	"github.com/veridian-group/esia-cli/internal/model"
	"github.com/veridian-group/esia-cli/internal/resilience"
	"github.com/veridian-group/esia-cli/pkg/anthropic"
)

const systemPrompt = `You extract structured facts from Environmental and Social Impact Assessment (ESIA) report sections. Respond with a single valid JSON object: {"found": <true|false>, "fields": {"<field>": <value>, ...}}. Set "found" to false and "fields" to {} when the text contains no information for the requested topic. Use null for individual fields the text does not cover.`

const userPrompt = `Topic: %s
Fields of interest: %s

Section text:
%s

Extract every fact relevant to the topic. Return only the JSON object.`

// maxSectionChars truncates oversized section bodies before prompting.
const maxSectionChars = 12000

// Result is the outcome of one extraction call. Found is false when the
// engine explicitly reported no information for the domain.
type Result struct {
	Found  bool
	Fields model.Fields
	Usage  model.TokenUsage
}

// Engine invokes the extraction collaborator for one (section, template)
// pair.
type Engine interface {
	Extract(ctx context.Context, sectionText string, tmpl catalog.Template) (*Result, error)
}

// Config holds the model parameters for extraction calls.
type Config struct {
	Model     string
	MaxTokens int64
}

// LLMEngine implements Engine over the Anthropic messages API. Transient
// upstream failures (429, 5xx) are wrapped as resilience.TransientError so
// the orchestrator's retry loop can distinguish them from permanent ones.
type LLMEngine struct {
	client anthropic.Client
	cfg    Config
}

// New creates an extraction engine over the given client.
func New(client anthropic.Client, cfg Config) *LLMEngine {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	return &LLMEngine{client: client, cfg: cfg}
}

func (e *LLMEngine) Extract(ctx context.Context, sectionText string, tmpl catalog.Template) (*Result, error) {
	text := sectionText
	if len(text) > maxSectionChars {
		text = text[:maxSectionChars]
	}

	fields := "any relevant facts"
	if len(tmpl.Subtopics) > 0 {
		fields = strings.Join(tmpl.Subtopics, ", ")
	}

	resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.cfg.Model,
		MaxTokens: e.cfg.MaxTokens,
		System:    systemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(userPrompt, tmpl.Title, fields, text)},
		},
	})
	if err != nil {
		if status := anthropic.StatusOf(err); resilience.IsTransientHTTPStatus(status) {
			return nil, resilience.NewTransientError(err, status)
		}
		return nil, eris.Wrapf(err, "engine: extract %s", tmpl.DomainKey)
	}

	result, err := parseResult(resp.Text())
	if err != nil {
		zap.L().Warn("engine: unparseable extraction response",
			zap.String("domain", tmpl.DomainKey),
			zap.Error(err),
		)
		return nil, eris.Wrapf(err, "engine: parse response for %s", tmpl.DomainKey)
	}

	result.Usage = model.TokenUsage{
		InputTokens:  int(resp.Usage.InputTokens),
		OutputTokens: int(resp.Usage.OutputTokens),
	}
	return result, nil
}

func parseResult(text string) (*Result, error) {
	text = cleanJSON(text)

	var payload struct {
		Found  bool         `json:"found"`
		Fields model.Fields `json:"fields"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, eris.Wrap(err, "unmarshal extraction payload")
	}

	if !payload.Found || len(payload.Fields) == 0 {
		return &Result{Found: false}, nil
	}
	return &Result{Found: true, Fields: payload.Fields}, nil
}

// cleanJSON strips markdown code fences that models sometimes wrap around
// JSON output.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		if i := strings.Index(text, "\n"); i >= 0 {
			text = text[i+1:]
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	return strings.TrimSpace(text)
}
