// Package agent asks the language model for outreach copy, call scripts and
// reply classifications.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/resilience"
	"github.com/sells-group/outreach-cli/pkg/anthropic"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-sonnet-4-5-20250929"

const (
	smsMaxTokens      = 256
	messageMaxTokens  = 1024
	scriptMaxTokens   = 1500
	classifyMaxTokens = 512
)

// MessageParams describes one piece of copy to generate. Template is expected
// to already have its variables filled.
type MessageParams struct {
	Contact  model.Contact
	Template string
	Tone     model.Tone
	Language string
	Channel  model.Channel
}

// Agent wraps an anthropic.Client with the prompts used for outreach.
type Agent struct {
	client anthropic.Client
	model  string
	retry  resilience.RetryConfig
}

// Option configures an Agent.
type Option func(*Agent)

// WithModel overrides the model ID.
func WithModel(m string) Option {
	return func(a *Agent) {
		if m != "" {
			a.model = m
		}
	}
}

// WithRetry overrides the retry policy for model calls.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(a *Agent) { a.retry = cfg }
}

// New creates an Agent backed by client.
func New(client anthropic.Client, opts ...Option) *Agent {
	a := &Agent{
		client: client,
		model:  DefaultModel,
		retry:  resilience.DefaultRetryConfig(),
	}
	for _, o := range opts {
		o(a)
	}
	if a.retry.ShouldRetry == nil {
		a.retry.ShouldRetry = retryable
	}
	if a.retry.OnRetry == nil {
		a.retry.OnRetry = resilience.RetryLogger("anthropic", "create_message")
	}
	return a
}

// GenerateMessage returns channel-appropriate copy for one contact. Email copy
// starts with a "Subject:" line.
func (a *Agent) GenerateMessage(ctx context.Context, p MessageParams) (string, error) {
	maxTokens := int64(messageMaxTokens)
	if p.Channel == model.ChannelSMS {
		maxTokens = smsMaxTokens
	}

	text, err := a.complete(ctx, "message", completion{prompt: buildMessagePrompt(p), maxTokens: maxTokens})
	if err != nil {
		return "", eris.Wrap(err, "agent: generate message")
	}
	return text, nil
}

// GenerateCallScript returns a structured call script. A response that does
// not parse as a script yields a plain fallback built from the template.
func (a *Agent) GenerateCallScript(ctx context.Context, p MessageParams) (*model.CallScript, error) {
	text, err := a.complete(ctx, "call_script", completion{prompt: buildCallScriptPrompt(p), maxTokens: scriptMaxTokens})
	if err != nil {
		return nil, eris.Wrap(err, "agent: generate call script")
	}

	var script model.CallScript
	if jerr := json.Unmarshal([]byte(extractJSON(text)), &script); jerr != nil {
		zap.L().Warn("agent: call script not parseable, using fallback",
			zap.String("contact", p.Contact.FullName),
			zap.Error(jerr),
		)
		return fallbackScript(p), nil
	}
	if script.ObjectionHandlers == nil {
		script.ObjectionHandlers = map[string]string{}
	}
	return &script, nil
}

func fallbackScript(p MessageParams) *model.CallScript {
	return &model.CallScript{
		Greeting:          "Hi " + p.Contact.FullName + ", this is an automated call.",
		MainPitch:         p.Template,
		ObjectionHandlers: map[string]string{},
		Closing:           "Thank you for your time.",
	}
}

// classification mirrors the JSON the model is asked to return. Pointers
// distinguish absent fields from zero values.
type classification struct {
	Intent          string   `json:"intent"`
	Confidence      *float64 `json:"confidence"`
	SuggestedReply  string   `json:"suggestedReply"`
	NeedsEscalation *bool    `json:"needsEscalation"`
	Reasoning       string   `json:"reasoning"`
}

// ClassifyReply labels an inbound reply. Malformed model output never fails:
// it yields FallbackAnalysis. Only transport errors are returned.
func (a *Agent) ClassifyReply(ctx context.Context, original, reply, replyContext string) (*model.ReplyAnalysis, error) {
	// Zero temperature keeps labels stable across retries of the same reply.
	text, err := a.complete(ctx, "classify_reply", completion{
		system:      classifySystem,
		prompt:      buildClassifyPrompt(original, reply, replyContext),
		maxTokens:   classifyMaxTokens,
		temperature: ptr(0.0),
	})
	if err != nil {
		return nil, eris.Wrap(err, "agent: classify reply")
	}
	return ParseClassification(text), nil
}

// FallbackAnalysis routes an unreadable classification to a human.
func FallbackAnalysis() *model.ReplyAnalysis {
	return &model.ReplyAnalysis{
		Intent:          model.IntentQuestion,
		Confidence:      30,
		NeedsEscalation: true,
	}
}

// ParseClassification turns raw model text into a ReplyAnalysis.
func ParseClassification(text string) *model.ReplyAnalysis {
	var c classification
	if err := json.Unmarshal([]byte(extractJSON(text)), &c); err != nil {
		return FallbackAnalysis()
	}

	intent := model.Intent(strings.TrimSpace(c.Intent))
	if !intent.Valid() || c.Confidence == nil || c.NeedsEscalation == nil {
		return FallbackAnalysis()
	}

	confidence := max(0, min(100, int(math.Round(*c.Confidence))))

	return &model.ReplyAnalysis{
		Intent:          intent,
		Confidence:      confidence,
		SuggestedReply:  strings.TrimSpace(c.SuggestedReply),
		NeedsEscalation: *c.NeedsEscalation,
		Reasoning:       c.Reasoning,
	}
}

// completion is one single-turn model call.
type completion struct {
	system      string
	prompt      string
	maxTokens   int64
	temperature *float64
}

func (a *Agent) complete(ctx context.Context, purpose string, c completion) (string, error) {
	req := anthropic.MessageRequest{
		Model:       a.model,
		MaxTokens:   c.maxTokens,
		Messages:    []anthropic.Message{{Role: "user", Content: c.prompt}},
		Temperature: c.temperature,
	}
	if c.system != "" {
		req.System = []anthropic.SystemBlock{{Text: c.system}}
	}

	resp, err := resilience.DoVal(ctx, a.retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return a.client.CreateMessage(ctx, req)
	})
	if err != nil {
		return "", err
	}

	resp.Usage.LogCost(a.model, purpose)
	return resp.Text(), nil
}

func ptr[T any](v T) *T { return &v }

// retryable reports whether a model call failure is worth another attempt.
func retryable(err error) bool {
	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode != 0 {
		return resilience.IsTransientHTTPStatus(apiErr.StatusCode)
	}
	return resilience.IsTransient(err)
}
