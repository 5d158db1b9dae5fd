package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/tandem/internal/config"
	"github.com/ShayCichocki/tandem/internal/orchestrator"
	"github.com/ShayCichocki/tandem/internal/tui"
)

var (
	runMode string
	runTUI  bool
)

var runCmd = &cobra.Command{
	Use:   "run <task>",
	Short: "Run a task with capability orchestration",
	Long: `Run a task through the planning and execution pipeline.

The task is planned against the configured agents, executed as a
dependency-ordered set of steps, and summarized into one answer.

Planning modes (--mode):
  - full:      Generate the entire plan up front, then execute it in
               concurrent waves (default)
  - iterative: Plan one step at a time, each informed by the results
               of the steps before it

Independent steps run concurrently. A step's prompt includes the results
of every step it depends on. Use --tui to watch step status live.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTask,
}

func init() {
	runCmd.Flags().StringVar(&runMode, "mode", "", "Planning mode: full or iterative (default from config)")
	runCmd.Flags().BoolVar(&runTUI, "tui", false, "Watch step status in a live terminal interface")
}

func runTask(cmd *cobra.Command, args []string) (retErr error) {
	// Recover from panics and report them
	defer func() {
		if r := recover(); r != nil {
			retErr = fmt.Errorf("PANIC in runTask: %v", r)
		}
	}()

	task := strings.Join(args, " ")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var mode orchestrator.Mode
	if runMode != "" {
		mode = orchestrator.Mode(runMode)
		if !mode.Valid() {
			return fmt.Errorf("invalid mode %q: must be full or iterative", runMode)
		}
	}

	client, err := buildClient(cfg)
	if err != nil {
		return err
	}

	orch, err := buildOrchestrator(cfg, client, orchestratorOverrides{mode: mode})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nReceived interrupt, shutting down...")
		cancel()
	}()

	var answer string
	if runTUI {
		answer, err = runWithTUI(ctx, orch, task)
	} else {
		go consumeEventsHeadless(orch.Events())

		fmt.Printf("Starting task: %s\n", task)
		fmt.Printf("  Run ID: %s\n", orch.ID())
		fmt.Println()

		answer, err = orch.Run(ctx, task)
	}
	if err != nil {
		return fmt.Errorf("orchestration failed: %w", err)
	}

	fmt.Println()
	color.New(color.Bold).Println("Answer:")
	fmt.Println(answer)

	input, output := client.Tracker().Total()
	fmt.Println()
	color.New(color.Faint).Printf("%d API calls, %d in / %d out tokens, ~$%.4f\n",
		client.Tracker().Calls(), input, output, client.Tracker().Cost())

	return nil
}

// consumeEventsHeadless prints orchestrator events to stdout.
func consumeEventsHeadless(events <-chan orchestrator.Event) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	faint := color.New(color.Faint)

	for event := range events {
		switch event.Type {
		case orchestrator.EventPlanGenerated:
			fmt.Printf("Plan ready: %s\n", event.Message)
		case orchestrator.EventWaveStarted:
			faint.Printf("-- wave %d --\n", event.Wave)
		case orchestrator.EventStepStarted:
			yellow.Printf("  running %s (%s)\n", event.StepID, event.Capability)
		case orchestrator.EventStepCompleted:
			green.Printf("  done    %s\n", event.StepID)
		case orchestrator.EventStepFailed:
			red.Printf("  failed  %s: %v\n", event.StepID, event.Error)
		case orchestrator.EventSummaryStarted:
			fmt.Println("Summarizing...")
		}
	}
}

// runWithTUI runs the orchestrator behind a live TUI and returns the
// final answer once both finish.
func runWithTUI(ctx context.Context, orch *orchestrator.Orchestrator, task string) (string, error) {
	// Suppress log output while TUI is active (it corrupts the display)
	originalOutput := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(originalOutput)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program, _ := tui.NewProgram(task)

	go func() {
		for event := range orch.Events() {
			program.Send(tui.EventMsg(event))
		}
	}()

	type runResult struct {
		answer string
		err    error
	}
	orchDone := make(chan runResult, 1)
	go func() {
		answer, err := orch.Run(ctx, task)
		if err != nil {
			program.Send(tui.DoneMsg{Success: false, Message: err.Error()})
		} else {
			program.Send(tui.DoneMsg{Success: true, Message: "Task completed successfully"})
		}
		orchDone <- runResult{answer: answer, err: err}
	}()

	// The TUI owns the terminal until the user quits; the result is
	// printed after it exits. Quitting early cancels the run.
	if _, err := program.Run(); err != nil {
		cancel()
		<-orchDone
		return "", err
	}
	cancel()

	res := <-orchDone
	return res.answer, res.err
}
