package llm

import (
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
)

func TestTranslateModelForBedrock(t *testing.T) {
	got := translateModelForBedrock(anthropic.ModelClaudeSonnet4_20250514)
	if !strings.HasPrefix(string(got), "us.anthropic.claude-sonnet-4-") {
		t.Errorf("expected bedrock inference profile, got %q", got)
	}

	// Unknown models pass through untouched.
	custom := anthropic.Model("some-custom-model")
	if got := translateModelForBedrock(custom); got != custom {
		t.Errorf("expected passthrough, got %q", got)
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	if _, err := NewClient(ClientConfig{}); err == nil {
		t.Error("expected error without api key")
	}
}

func TestNewClientDefaultModel(t *testing.T) {
	client, err := NewClient(ClientConfig{APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if client.Model() == "" {
		t.Error("expected a default model")
	}
}

func TestTokenTracker(t *testing.T) {
	tracker := NewTokenTracker()
	tracker.Add(100, 50)
	tracker.Add(200, 25)

	input, output := tracker.Total()
	if input != 300 || output != 75 {
		t.Errorf("unexpected totals: %d in, %d out", input, output)
	}
	if tracker.Calls() != 2 {
		t.Errorf("expected 2 calls, got %d", tracker.Calls())
	}
	if tracker.Cost() <= 0 {
		t.Error("expected a positive cost estimate")
	}

	tracker.Reset()
	input, output = tracker.Total()
	if input != 0 || output != 0 || tracker.Calls() != 0 {
		t.Error("reset should clear all counters")
	}
}

func TestAgentDefaults(t *testing.T) {
	client, err := NewClient(ClientConfig{APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	agent := NewAgent(client, AgentConfig{Name: "helper", Description: "does things"})
	if agent.Name() != "helper" {
		t.Errorf("unexpected name: %q", agent.Name())
	}
	if agent.Description() != "does things" {
		t.Errorf("unexpected description: %q", agent.Description())
	}
	if agent.cfg.MaxTurns != 50 {
		t.Errorf("expected default max turns, got %d", agent.cfg.MaxTurns)
	}
	if agent.cfg.MaxTokens != 8192 {
		t.Errorf("expected default max tokens, got %d", agent.cfg.MaxTokens)
	}
	if !strings.Contains(agent.cfg.System, "helper") {
		t.Errorf("expected derived system prompt, got %q", agent.cfg.System)
	}
	if agent.executor != nil {
		t.Error("tools disabled should leave executor nil")
	}
}
