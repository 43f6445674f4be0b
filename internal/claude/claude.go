package claude

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/joshharrison/pathloom/internal/network"
	"github.com/joshharrison/pathloom/internal/schederr"
)

// ActivitySummary is the minimal activity info sent to Claude for
// precedence inference.
type ActivitySummary struct {
	Name     string `json:"name"`
	Duration int    `json:"duration_days"`
}

// PrecedenceEdge is a single inferred precedence pair.
type PrecedenceEdge struct {
	From   string `json:"from"` // activity that must finish first
	To     string `json:"to"`   // activity that waits
	Reason string `json:"reason"`
}

// InferResult holds the full response from Claude.
type InferResult struct {
	Edges   []PrecedenceEdge `json:"edges"`
	Summary string           `json:"summary"`
}

// Client wraps the Anthropic SDK for Claude API calls.
type Client struct {
	inner anthropic.Client
	model anthropic.Model
}

// NewClient creates a Claude client. apiKey defaults to ANTHROPIC_API_KEY env.
// model defaults to Claude Sonnet. Extra request options (base URL, retries)
// are passed through to the SDK.
func NewClient(apiKey, model string, opts ...option.RequestOption) (*Client, error) {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	inner := anthropic.NewClient(
		append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...,
	)

	m := anthropic.Model("claude-sonnet-4-5")
	if model != "" {
		m = anthropic.Model(model)
	}

	return &Client{inner: inner, model: m}, nil
}

const inferPrecedencePrompt = `You are an expert construction and project planner. Given the activities of a project with their durations in days, infer which activities must finish before others can start.

Rules:
- Only add a precedence when there is a strong causal reason (activity B cannot start until activity A is complete).
- Prefer fewer edges; do not add transitive or speculative precedences.
- Do not create cycles.
- Only use activity names from the provided list.
- An activity cannot precede itself.

Return your answer as JSON with this exact structure:
{
  "edges": [
    {"from": "<activity that must finish first>", "to": "<activity that waits>", "reason": "<short explanation>"}
  ],
  "summary": "<one paragraph summary of the precedence structure>"
}

Return ONLY the JSON object. No markdown fences, no commentary outside the JSON.

Here are the activities:
`

// buildPrompt constructs the full prompt for precedence inference.
func buildPrompt(acts []ActivitySummary) (string, error) {
	data, err := json.MarshalIndent(acts, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal activities: %w", err)
	}
	return inferPrecedencePrompt + string(data), nil
}

// Summarise returns the interior activities of acts in prompt form.
func Summarise(acts []network.Activity) []ActivitySummary {
	out := make([]ActivitySummary, 0, len(acts))
	for _, a := range acts {
		if a.IsExtreme() {
			continue
		}
		out = append(out, ActivitySummary{Name: a.Name, Duration: a.Duration})
	}
	return out
}

// InferPrecedence calls the Claude API to infer precedence pairs.
func (c *Client) InferPrecedence(ctx context.Context, acts []ActivitySummary) (*InferResult, error) {
	prompt, err := buildPrompt(acts)
	if err != nil {
		return nil, err
	}

	text, err := c.complete(ctx, "", prompt)
	if err != nil {
		return nil, err
	}
	text = stripJSONFences(text)

	var result InferResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("parse claude response: %w\nraw: %s", err, text)
	}

	return &result, nil
}

const summariseTrackingPrompt = `You are a project manager reviewing how a schedule was actually executed.

You will receive the critical path plan and a day-by-day replay of the execution log, where every start and finish is classified against its early and late bounds.

Produce a concise narrative covering:
- Which activities ran ahead of or behind schedule, and by how much.
- Whether any delay consumed all the slack of an activity or pushed past a late bound.
- An overall assessment of the project's timing.

Keep it to a few short paragraphs. Do not repeat the raw report verbatim.
`

// SummariseTracking sends a rendered plan and tracking report to Claude and
// returns a human-readable narrative of how the execution went.
func (c *Client) SummariseTracking(ctx context.Context, plan, tracking string) (string, error) {
	var userContent strings.Builder
	userContent.WriteString("## Plan\n\n")
	userContent.WriteString(plan)
	userContent.WriteString("\n\n## Execution replay\n\n")
	userContent.WriteString(tracking)

	text, err := c.complete(ctx, summariseTrackingPrompt, userContent.String())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// complete sends a single user message and concatenates the text blocks of
// the reply.
func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: int64(4096),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := c.inner.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("claude API call: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	return text, nil
}

// Apply merges the inferred pairs into edges and returns the result. Every
// name must be an interior activity of acts. Interior activities left
// without a predecessor are linked from Start, those without a successor to
// End, so the merged network is complete. A merged network with a cycle is
// rejected.
func (r *InferResult) Apply(acts []network.Activity, edges []network.Edge) ([]network.Edge, error) {
	table, err := network.NewActivityTable(acts)
	if err != nil {
		return nil, err
	}
	start, end := table.Extremes()
	if start == "" || end == "" {
		return nil, schederr.Configf("network needs a start and an end activity")
	}

	merged := append([]network.Edge{}, edges...)
	for _, e := range r.Edges {
		for _, name := range []string{e.From, e.To} {
			a, ok := table.Lookup(name)
			if !ok {
				return nil, schederr.Configf("inferred edge %s -> %s: unknown activity %q", e.From, e.To, name)
			}
			if a.IsExtreme() {
				return nil, schederr.Configf("inferred edge %s -> %s: %q is an extreme", e.From, e.To, name)
			}
		}
		if e.From == e.To {
			return nil, schederr.Configf("inferred edge %s -> %s: self edge", e.From, e.To)
		}
		merged = append(merged, network.Edge{From: e.From, To: e.To})
	}

	hasPred := make(map[string]bool)
	hasSucc := make(map[string]bool)
	for _, e := range merged {
		hasSucc[e.From] = true
		hasPred[e.To] = true
	}
	for _, a := range table.Interior() {
		if !hasPred[a.Name] {
			merged = append(merged, network.Edge{From: start, To: a.Name})
		}
		if !hasSucc[a.Name] {
			merged = append(merged, network.Edge{From: a.Name, To: end})
		}
	}

	n, err := network.Build(acts, merged)
	if err != nil {
		return nil, err
	}
	if cycle := n.DetectCycle(); cycle != nil {
		return nil, schederr.Cycle(cycle)
	}
	return n.Precedence.Edges(), nil
}

// stripJSONFences removes markdown code fences that Claude sometimes adds.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	// Remove ```json ... ``` or ``` ... ```
	if strings.HasPrefix(s, "```") {
		// Strip opening fence line
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		// Strip closing fence
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	return s
}
