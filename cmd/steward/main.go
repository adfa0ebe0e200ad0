// Command steward runs the conversational assistant: an orchestrator that
// chats directly or delegates email and calendar tasks to specialized
// sub-agents over a line-based interactive session.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/steward-ai/steward/agent"
	"github.com/steward-ai/steward/calendar"
	"github.com/steward-ai/steward/config"
	"github.com/steward-ai/steward/conversation"
	"github.com/steward-ai/steward/logging"
	"github.com/steward-ai/steward/mail"
	"github.com/steward-ai/steward/model"
	"github.com/steward-ai/steward/model/anthropic"
	"github.com/steward-ai/steward/model/openai"
	"github.com/steward-ai/steward/orchestrator"
	"github.com/steward-ai/steward/tool"
)

// Trigger phrases per sub-agent. A case-insensitive substring match on any
// of these delegates the turn to that agent.
var (
	emailTriggers = []string{
		"email", "gmail", "draft", "compose", "send mail",
		"search mail", "search email", "label email",
		"categorize email", "organize email", "find email",
	}

	calendarTriggers = []string{
		"calendar", "meeting", "appointment", "event", "schedule",
		"book time", "set up meeting", "create event", "add to calendar",
		"check calendar", "free time", "availability", "busy",
		"reschedule", "cancel meeting", "update event", "find meetings",
		"team standup", "recurring meeting", "all-day event",
	}
)

// Exit keywords recognized by the interactive loop.
var exitKeywords = map[string]bool{
	"exit": true,
	"quit": true,
	"bye":  true,
	"q":    true,
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	threadID := flag.String("thread", "default", "conversation thread identifier")
	flag.Parse()

	if err := run(*configPath, *threadID); err != nil {
		fmt.Fprintf(os.Stderr, "steward: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, threadID string) error {
	path, err := config.FindConfig(configPath)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(&logging.Config{Level: cfg.LogLevel, Format: "text"})

	llm, err := buildModel(cfg)
	if err != nil {
		return err
	}

	store, closeStore, err := buildStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := context.Background()

	var subAgents []orchestrator.SubAgent

	if cfg.Email.Enabled {
		sa, err := buildEmailAgent(ctx, cfg, llm, logger)
		if err != nil {
			return err
		}
		subAgents = append(subAgents, sa)
	}

	if cfg.Calendar.Enabled {
		sa, err := buildCalendarAgent(ctx, cfg, llm, logger)
		if err != nil {
			return err
		}
		subAgents = append(subAgents, sa)
	}

	orch := orchestrator.New(llm, subAgents, func(o *orchestrator.Options) {
		o.Store = store
		o.Logger = logger
	})

	return chatLoop(ctx, orch, threadID)
}

// buildModel constructs the configured provider adapter.
func buildModel(cfg *config.Config) (model.Model, error) {
	switch cfg.Model.Provider {
	case "openai":
		return openai.NewModel(func(o *openai.Options) {
			if cfg.Model.Name != "" {
				o.Model = cfg.Model.Name
			}
			o.Temperature = cfg.Model.Temperature
			o.MaxCompletionTokens = cfg.Model.MaxTokens
		}), nil
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.Model.Name != "" {
				o.Model = anthropicsdk.Model(cfg.Model.Name)
			}
			o.Temperature = cfg.Model.Temperature
			o.MaxTokens = cfg.Model.MaxTokens
			o.APIKey = cfg.Model.APIKey
		}), nil
	}
	return nil, fmt.Errorf("unknown model provider %q", cfg.Model.Provider)
}

// buildStore constructs the configured history backend and returns a cleanup
// function.
func buildStore(cfg *config.Config) (conversation.Store, func(), error) {
	if cfg.History.Backend == "sqlite" {
		store, err := conversation.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}
	return conversation.NewInMemoryStore(), func() {}, nil
}

// buildEmailAgent connects to the IMAP account (failing closed on bad
// credentials) and assembles the email sub-agent.
func buildEmailAgent(ctx context.Context, cfg *config.Config, llm model.Model, logger logging.Logger) (orchestrator.SubAgent, error) {
	client := mail.NewClient(mail.Config{
		Host:          cfg.Email.IMAP.Host,
		Port:          cfg.Email.IMAP.Port,
		Username:      cfg.Email.IMAP.Username,
		Password:      cfg.Email.IMAP.Password,
		FromAddress:   cfg.Email.FromAddress,
		FromName:      cfg.Email.FromName,
		DraftsFolder:  cfg.Email.DraftsFolder,
		AllowedLabels: cfg.Email.AllowedLabels,
	}, logger)

	if err := client.Connect(ctx); err != nil {
		return orchestrator.SubAgent{}, &config.CredentialError{Scope: "email", Message: err.Error()}
	}

	registry, err := buildRegistry(mail.NewToolkit(client, cfg.Email.AllowedLabels).Tools(), logger)
	if err != nil {
		return orchestrator.SubAgent{}, err
	}

	handler := agent.New("gmail", llm, registry, func(o *agent.Options) {
		o.Instruction = agent.NewInstructionFromText(mail.Instruction(cfg.Email.AllowedLabels))
		o.MaxIterations = cfg.Orchestrator.MaxIterations
		o.Logger = logger
	})

	return orchestrator.SubAgent{Name: "gmail", Handler: handler, Triggers: emailTriggers}, nil
}

// buildCalendarAgent discovers the CalDAV collection (failing closed on bad
// credentials) and assembles the calendar sub-agent.
func buildCalendarAgent(ctx context.Context, cfg *config.Config, llm model.Model, logger logging.Logger) (orchestrator.SubAgent, error) {
	client := calendar.NewClient(calendar.Config{
		URL:      cfg.Calendar.CalDAV.URL,
		Username: cfg.Calendar.CalDAV.Username,
		Password: cfg.Calendar.CalDAV.Password,
		Calendar: cfg.Calendar.Calendar,
	}, logger)

	if err := client.Connect(ctx); err != nil {
		return orchestrator.SubAgent{}, &config.CredentialError{Scope: "calendar", Message: err.Error()}
	}

	registry, err := buildRegistry(calendar.NewToolkit(client).Tools(), logger)
	if err != nil {
		return orchestrator.SubAgent{}, err
	}

	handler := agent.New("calendar", llm, registry, func(o *agent.Options) {
		// Regenerated per request so "tomorrow at 10am" resolves correctly.
		o.Instruction = agent.NewInstructionFromFunc(func() (string, error) {
			return calendar.Instruction(time.Now()), nil
		})
		o.MaxIterations = cfg.Orchestrator.MaxIterations
		o.Logger = logger
	})

	return orchestrator.SubAgent{Name: "calendar", Handler: handler, Triggers: calendarTriggers}, nil
}

func buildRegistry(tools []tool.Tool, logger logging.Logger) (*tool.Registry, error) {
	registry := tool.NewRegistry(func(o *tool.RegistryOptions) {
		o.Logger = logger
	})
	if err := registry.RegisterAll(tools...); err != nil {
		return nil, err
	}
	return registry, nil
}

// chatLoop runs the interactive session. No error from a turn terminates
// the loop; failures are printed and the conversation continues.
func chatLoop(ctx context.Context, orch *orchestrator.Orchestrator, threadID string) error {
	fmt.Println("Steward chat started.")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("I can help with general questions, email tasks, and calendar management.")
	fmt.Println("Type 'exit', 'quit', or 'bye' to end the conversation.")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			fmt.Println("\nBot: Goodbye!")
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if exitKeywords[strings.ToLower(input)] {
			fmt.Println("\nBot: Goodbye! Have a great day!")
			return nil
		}

		response, err := orch.Chat(ctx, input, threadID)
		if err != nil {
			fmt.Printf("\nBot: Sorry, I encountered an error: %s\n", err)
			fmt.Println("Let's continue our conversation.")
			fmt.Println()
			continue
		}

		fmt.Printf("\nBot: %s\n\n", response)
	}
}
