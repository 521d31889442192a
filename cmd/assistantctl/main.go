package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"assistant-gateway/internal/assistant"
)

const usage = `Usage: assistantctl <command>

Commands:
  create   create the stock assistant and print its id
  list     list the assistants on the account
  update   replace an assistant's instructions (reads from stdin)

Environment:
  OPENAI_API_KEY        required
  OPENAI_BASE_URL       optional
  OPENAI_ASSISTANT_ID   required for update
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		fail("OPENAI_API_KEY is not set")
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	client := assistant.NewClient(assistant.ClientConfig{
		APIKey:  apiKey,
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
	}, logger)

	ctx := context.Background()
	switch os.Args[1] {
	case "create":
		runCreate(ctx, client)
	case "list":
		runList(ctx, client)
	case "update":
		runUpdate(ctx, client)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func runCreate(ctx context.Context, client *assistant.Client) {
	fmt.Println("Creating assistant...")
	created, err := client.CreateAssistant(ctx, assistant.CreateParams{})
	if err != nil {
		fail(fmt.Sprintf("create assistant: %v", err))
	}

	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s assistant created\n\n", green("ok:"))
	fmt.Printf("  Name:  %s\n", created.Name)
	fmt.Printf("  ID:    %s\n", created.ID)
	fmt.Printf("  Model: %s\n\n", created.Model)
	fmt.Printf("Add this line to your .env file:\n  %s\n", bold("OPENAI_ASSISTANT_ID="+created.ID))
}

func runList(ctx context.Context, client *assistant.Client) {
	assistants, err := client.ListAssistants(ctx)
	if err != nil {
		fail(fmt.Sprintf("list assistants: %v", err))
	}
	if len(assistants) == 0 {
		fmt.Println("No assistants found. Create one with: assistantctl create")
		return
	}

	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("Found %d assistant(s):\n\n", len(assistants))
	for i, a := range assistants {
		name := a.Name
		if name == "" {
			name = "Unnamed Assistant"
		}
		fmt.Printf("%d. %s\n", i+1, cyan(name))
		fmt.Printf("   ID: %s\n", a.ID)
		fmt.Printf("   Model: %s\n", a.Model)
		if a.Instructions != "" {
			instructions := a.Instructions
			if len(instructions) > 100 {
				instructions = instructions[:100] + "..."
			}
			fmt.Printf("   Instructions: %s\n", instructions)
		}
		fmt.Println()
	}
}

func runUpdate(ctx context.Context, client *assistant.Client) {
	assistantID := os.Getenv("OPENAI_ASSISTANT_ID")
	if assistantID == "" {
		fail("OPENAI_ASSISTANT_ID is not set")
	}

	instructions, err := io.ReadAll(os.Stdin)
	if err != nil || len(instructions) == 0 {
		fail("update reads the new instructions from stdin")
	}

	updated, err := client.UpdateInstructions(ctx, assistantID, string(instructions))
	if err != nil {
		fail(fmt.Sprintf("update assistant: %v", err))
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s assistant updated\n", green("ok:"))
	fmt.Printf("  Name:  %s\n", updated.Name)
	fmt.Printf("  ID:    %s\n", updated.ID)
	fmt.Printf("  Model: %s\n", updated.Model)
}

func fail(msg string) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(os.Stderr, "%s %s\n", red("error:"), msg)
	os.Exit(1)
}
