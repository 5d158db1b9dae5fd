package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/ShayCichocki/tandem/internal/registry"
)

// AgentConfig describes one LLM-backed capability.
type AgentConfig struct {
	// Name is the unique capability name (e.g., "researcher").
	Name string
	// Description summarizes what the capability can do. It is shown to
	// the planner when it assigns steps.
	Description string
	// Model overrides the client's default model if non-empty.
	Model anthropic.Model
	// System is the system prompt for this capability.
	System string
	// Temperature is the default sampling temperature.
	Temperature float64
	// MaxTokens is the default response cap. Zero means 8192.
	MaxTokens int64
	// Tools enables the file/command tool loop for this capability.
	Tools bool
	// WorkDir is the working directory for tool execution.
	WorkDir string
	// MaxTurns bounds the tool loop. Zero means 50.
	MaxTurns int
}

// Agent is a capability backed by the Anthropic API, optionally running
// a bounded tool loop before returning final text.
type Agent struct {
	client   *Client
	cfg      AgentConfig
	executor *ToolExecutor
}

var _ registry.Capability = (*Agent)(nil)

// NewAgent creates a capability from the given config.
func NewAgent(client *Client, cfg AgentConfig) *Agent {
	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = 50
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 8192
	}
	if cfg.System == "" {
		cfg.System = fmt.Sprintf("You are %s. %s", cfg.Name, cfg.Description)
	}

	a := &Agent{client: client, cfg: cfg}
	if cfg.Tools {
		a.executor = NewToolExecutor(cfg.WorkDir)
	}
	return a
}

// Name returns the capability name.
func (a *Agent) Name() string { return a.cfg.Name }

// Description returns the capability description.
func (a *Agent) Description() string { return a.cfg.Description }

// Complete performs one completion round trip. When tools are enabled,
// the conversation continues until the model stops requesting tool calls
// or MaxTurns is reached; the concatenated text of the final assistant
// turn is returned.
func (a *Agent) Complete(ctx context.Context, prompt string, opts registry.CompleteOptions) (string, error) {
	model := a.client.Model()
	if a.cfg.Model != "" {
		model = a.client.TranslateModel(a.cfg.Model)
	}

	temperature := a.cfg.Temperature
	if opts.Temperature > 0 {
		temperature = opts.Temperature
	}

	maxTokens := a.cfg.MaxTokens
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}

	var tools []anthropic.ToolUnionParam
	if a.cfg.Tools {
		tools = ToolDefinitions()
	}

	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
	}

	for turn := 0; turn < a.cfg.MaxTurns; turn++ {
		resp, err := a.client.sdk().Messages.New(ctx, anthropic.MessageNewParams{
			Model:       model,
			MaxTokens:   maxTokens,
			Temperature: anthropic.Float(temperature),
			System: []anthropic.TextBlockParam{
				{Text: a.cfg.System},
			},
			Messages: messages,
			Tools:    tools,
		})
		if err != nil {
			return "", fmt.Errorf("completion for %s: %w", a.cfg.Name, err)
		}

		a.client.Tracker().Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

		var assistantBlocks []anthropic.ContentBlockParamUnion
		var toolResultBlocks []anthropic.ContentBlockParamUnion
		var text strings.Builder

		for _, block := range resp.Content {
			switch variant := block.AsAny().(type) {
			case anthropic.TextBlock:
				text.WriteString(variant.Text)
				assistantBlocks = append(assistantBlocks, anthropic.NewTextBlock(variant.Text))

			case anthropic.ToolUseBlock:
				result := a.executor.Execute(ctx, variant.Name, variant.Input)

				assistantBlocks = append(assistantBlocks,
					anthropic.NewToolUseBlock(variant.ID, variant.Input, variant.Name))
				toolResultBlocks = append(toolResultBlocks,
					anthropic.NewToolResultBlock(variant.ID, result.Content, result.IsError))
			}
		}

		if resp.StopReason == anthropic.StopReasonEndTurn {
			return text.String(), nil
		}

		messages = append(messages, anthropic.NewAssistantMessage(assistantBlocks...))
		if len(toolResultBlocks) > 0 {
			messages = append(messages, anthropic.NewUserMessage(toolResultBlocks...))
		}
	}

	return "", fmt.Errorf("capability %s exceeded %d turns without finishing", a.cfg.Name, a.cfg.MaxTurns)
}
