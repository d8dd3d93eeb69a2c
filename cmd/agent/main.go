package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/petasbytes/memory-agent/internal/contextwin"
	"github.com/petasbytes/memory-agent/internal/memtool"
	"github.com/petasbytes/memory-agent/internal/provider"
	"github.com/petasbytes/memory-agent/internal/runner"
	"github.com/petasbytes/memory-agent/memory"
	"github.com/petasbytes/memory-agent/tools"
)

const systemPrompt = `You are a helpful assistant with a persistent memory directory.

MEMORY PROTOCOL:
1. Check your /memories directory for relevant notes before answering
2. When you learn something worth keeping, update your memory files
3. Keep your memory organized - use descriptive file names and clear content

Remember: Your memory persists across conversations. Use it wisely.`

// maxToolTurns bounds a single assistant turn so a tool loop cannot spin forever.
const maxToolTurns = 25

func main() {
	baseDir := flag.String("dir", ".agent-data", "base directory holding the memories root and transcript")
	reset := flag.Bool("reset", false, "clear all memory files and the saved transcript, then exit")
	flag.Parse()

	h, err := memtool.New(*baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: init memory root: %v\n", err)
		os.Exit(1)
	}

	persistPath := memory.TranscriptPath(*baseDir)

	if *reset {
		// Host-side escape hatch; never exposed to the model.
		res := h.ClearAll()
		if !res.OK() {
			fmt.Fprintf(os.Stderr, "error: %s\n", res.Text())
			os.Exit(1)
		}
		if err := os.Remove(persistPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "error: remove transcript: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(res.Text())
		return
	}

	// Basic env check (SDK also reads API key)
	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		fmt.Println("Missing ANTHROPIC_API_KEY; export it before running.")
		os.Exit(1)
	}

	policy, err := contextwin.PolicyFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Load prior transcript if one exists
	persisted, err := memory.LoadTranscript(persistPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load transcript: %v\n", err)
	}

	client := provider.NewAnthropicClient()
	r := runner.New(client, tools.Registry(h), systemPrompt, policy)
	model := provider.ModelFromEnv()

	conv := memory.History(persisted)

	// Set up graceful shutdown on Ctrl-C (SIGINT) / SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		<-sigch
		fmt.Println("\nExiting...")
		cancel()
	}()

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("Chat with Claude (Ctrl-C to quit)")

	// stdin reader goroutine -> lines into channel
	inputCh := make(chan string)
	go func() {
		for scanner.Scan() {
			inputCh <- scanner.Text()
		}
		close(inputCh)
	}()

outer:
	for {
		fmt.Print("[94mYou[0m: ")
		var (
			user string
			ok   bool
		)
		select {
		case <-ctx.Done():
			break outer
		case user, ok = <-inputCh:
			if !ok {
				break outer
			}
		}
		conv = append(conv, anthropic.NewUserMessage(anthropic.NewTextBlock(user)))

		// Track assistant visible text to persist after the turn
		var lastAssistantText string
		for turn := 0; turn < maxToolTurns; turn++ {
			msg, toolResults, edited, err := r.RunOneStep(ctx, model, conv)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				break
			}
			// Adopt the edited history so cleared tool pairs stay gone
			conv = append(edited, msg.ToParam())
			// Collect assistant text blocks from this message
			for _, b := range msg.Content {
				if tb, ok := b.AsAny().(anthropic.TextBlock); ok {
					if tb.Text != "" {
						if lastAssistantText == "" {
							lastAssistantText = tb.Text
						} else {
							lastAssistantText += "\n" + tb.Text
						}
					}
				}
			}
			if len(toolResults) == 0 {
				break // done with assistant turn
			}
			// Provide tool results as a user message back to the model
			conv = append(conv, anthropic.NewUserMessage(toolResults...))
		}

		// Persist minimal text-only transcript (user + assistant)
		persisted = append(persisted, memory.Message{Role: "user", Text: user})
		if strings.TrimSpace(lastAssistantText) != "" {
			persisted = append(persisted, memory.Message{Role: "assistant", Text: lastAssistantText})
		}
		if err := memory.SaveTranscript(persistPath, persisted); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to save transcript: %v\n", err)
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: stdin read error: %v\n", err)
	}
}
