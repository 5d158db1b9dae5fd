package main

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/ShayCichocki/tandem/internal/config"
	"github.com/ShayCichocki/tandem/internal/llm"
	"github.com/ShayCichocki/tandem/internal/orchestrator"
	"github.com/ShayCichocki/tandem/internal/planner"
	"github.com/ShayCichocki/tandem/internal/registry"
)

// buildClient creates the Anthropic client from config.
func buildClient(cfg *config.Config) (*llm.Client, error) {
	return llm.NewClient(llm.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		APIKey:        cfg.Anthropic.APIKey,
		UseAWSBedrock: cfg.Anthropic.UseBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	})
}

// buildRegistry creates the capability registry from configured agents.
func buildRegistry(cfg *config.Config, client *llm.Client) (*registry.Registry, error) {
	if len(cfg.Agents) == 0 {
		return nil, fmt.Errorf("no agents configured; run 'tandem init' or add agents to %s", config.GetUserConfigPath())
	}

	reg := registry.New()
	for _, agentCfg := range cfg.Agents {
		agent := llm.NewAgent(client, llm.AgentConfig{
			Name:        agentCfg.Name,
			Description: agentCfg.Description,
			Model:       anthropic.Model(agentCfg.Model),
			System:      agentCfg.System,
			Temperature: agentCfg.Temperature,
			Tools:       agentCfg.Tools,
			WorkDir:     agentCfg.WorkDir,
			MaxTurns:    agentCfg.MaxTurns,
		})
		if err := reg.Register(agent); err != nil {
			return nil, fmt.Errorf("register agent %q: %w", agentCfg.Name, err)
		}
	}
	return reg, nil
}

// orchestratorOverrides carries per-invocation settings layered on top of
// the config file.
type orchestratorOverrides struct {
	mode orchestrator.Mode
}

// buildOrchestrator assembles a fresh orchestrator from config. Each call
// yields an independent run with its own event stream.
func buildOrchestrator(cfg *config.Config, client *llm.Client, overrides orchestratorOverrides) (*orchestrator.Orchestrator, error) {
	reg, err := buildRegistry(cfg, client)
	if err != nil {
		return nil, err
	}

	pl, err := planner.New(reg, planner.Config{
		Capability:  cfg.PlannerName(),
		Temperature: cfg.Planning.Temperature,
	})
	if err != nil {
		return nil, err
	}

	mode := overrides.mode
	if mode == "" {
		mode = orchestrator.Mode(cfg.Planning.Mode)
	}

	opts := []orchestrator.Option{
		orchestrator.WithMode(mode),
		orchestrator.WithMaxIterations(cfg.Planning.MaxIterations),
		orchestrator.WithStepTimeout(cfg.Planning.StepTimeout),
	}
	if cfg.Planning.Summarizer != "" {
		opts = append(opts, orchestrator.WithSummarizer(cfg.Planning.Summarizer))
	}
	if cfg.Logging.Path != "" {
		opts = append(opts, orchestrator.WithLogger(orchestrator.NewDebugLogger(cfg.Logging.Path)))
	}

	return orchestrator.New(orchestrator.RequiredConfig{
		Registry: reg,
		Planner:  pl,
	}, opts...)
}
