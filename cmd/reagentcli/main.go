// Command reagentcli is an interactive console for the research agent with
// live streaming output. It runs entirely in-process against the demo
// corpus, so the only requirement is an OPENAI_API_KEY.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/joho/godotenv"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/journeyworks/reagent"
	"github.com/journeyworks/reagent/internal/demo"
	"github.com/journeyworks/reagent/models"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%sError: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	if os.Getenv("OPENAI_API_KEY") == "" {
		fmt.Fprintf(os.Stderr,
			"%sWARNING: OPENAI_API_KEY is not set; model calls will fail.%s\n",
			colorYellow, colorReset)
	}

	modelName := os.Getenv("REAGENT_MODEL")
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}
	llm, err := openai.New(openai.WithModel(modelName))
	if err != nil {
		return fmt.Errorf("init model: %w", err)
	}
	client := models.NewLCGClient(llm).WithModelName(modelName)

	corpus := demo.NewCorpus(42, 500, time.Now())
	registry := reagent.NewRegistry()
	if err := demo.NewToolSet(corpus).Register(registry); err != nil {
		return fmt.Errorf("register tools: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	executor := reagent.NewExecutor(client, registry, reagent.DefaultConfig()).
		WithLogger(logger)

	rl, err := readline.New(colorCyan + "research> " + colorReset)
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

	fmt.Printf("%sCustomer journey research console%s\n", colorBold, colorReset)
	fmt.Printf("%s%d journeys loaded, model %s. Type a question, or 'q' to quit.%s\n\n",
		colorDim, corpus.Len(), modelName, colorReset)

	var history []reagent.ConversationMessage
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or readline.ErrInterrupt
			return nil
		}
		query := strings.TrimSpace(line)
		switch query {
		case "":
			continue
		case "q", "quit", "exit":
			return nil
		}

		req := &reagent.ResearchRequest{
			Query:               query,
			ConversationHistory: history,
		}
		response, err := executor.ExecuteStreaming(
			context.Background(), req, "", reagent.EventSinkFunc(printEvent))
		if err != nil {
			fmt.Printf("%s%v%s\n\n", colorRed, err, colorReset)
			continue
		}
		printResponse(response)

		history = append(history,
			reagent.ConversationMessage{Role: reagent.RoleUser, Content: query},
			reagent.ConversationMessage{Role: reagent.RoleAssistant, Content: response.Answer},
		)
	}
}

func printEvent(ev reagent.Event) {
	switch e := ev.(type) {
	case reagent.ThinkingEvent:
		fmt.Printf("%s[%d] thinking...%s\n", colorDim, e.Iteration, colorReset)
	case reagent.ReasoningStepEvent:
		if e.Step.Thought != "" {
			fmt.Printf("%sThought: %s%s\n", colorDim, e.Step.Thought, colorReset)
		}
	case reagent.ToolCallEvent:
		fmt.Printf("%s-> %s%s\n", colorYellow, e.Tool, colorReset)
	case reagent.ToolResultEvent:
		status := colorGreen + "ok"
		if !e.Success {
			status = colorRed + "failed"
		}
		fmt.Printf("%s<- %s %s (%dms)%s\n", colorDim, e.Tool, status, e.DurationMs, colorReset)
	case reagent.ErrorEvent:
		fmt.Printf("%serror: %s%s\n", colorRed, e.Message, colorReset)
	}
}

func printResponse(r *reagent.ResearchResponse) {
	fmt.Printf("\n%s%s%s\n", colorBold, r.Answer, colorReset)
	fmt.Printf("%sconfidence %.2f | %d iterations | %d tool calls | %d sources%s\n",
		colorDim, r.Confidence, r.Stats.Iterations, r.Stats.ToolCalls, len(r.Sources), colorReset)
	for _, chart := range r.Charts {
		fmt.Printf("%schart: %s (%s, %d entries)%s\n",
			colorDim, chart.Title, chart.Type, len(chart.Entries), colorReset)
	}
	if len(r.FollowUpQuestions) > 0 {
		fmt.Printf("%sFollow-ups:%s\n", colorCyan, colorReset)
		for _, q := range r.FollowUpQuestions {
			fmt.Printf("  - %s\n", q)
		}
	}
	fmt.Println()
}
