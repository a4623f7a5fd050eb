// Package agent implements an interactive AI assistant that answers
// questions about a computed capital-gains report.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

// Agent is the AI assistant that handles the chat session.
type Agent struct {
	w      io.Writer
	r      *bufio.Reader
	Expert *Expert
}

// New creates a new Agent over a rendered tax report. It takes an
// io.Writer for the agent's output (e.g., os.Stdout) and an io.Reader
// for user input (e.g., os.Stdin).
func New(w io.Writer, r io.Reader, report string) *Agent {
	return &Agent{
		w:      w,
		r:      bufio.NewReader(r),
		Expert: NewExpert(report),
	}
}

const prompt = "ibcap> "

// Run starts the interactive REPL session for the agent. Any prompts
// given are answered first, then the user takes over.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if err := a.Expert.Start(ctx, client); err != nil {
		return err
	}

	fmt.Fprintln(a.w, "Ask about your capital gains report. Type 'bye' to exit.")

	for {
		fmt.Fprint(a.w, prompt)
		var input string

		// Flush prompts from the list and then ask the user.
		if len(prompts) > 0 {
			input, prompts = prompts[0], prompts[1:]
			input = strings.TrimSpace(input)
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			var err error
			input, err = a.r.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					return nil // Clean exit on Ctrl+D
				}
				return err
			}
		}

		if strings.TrimSpace(input) == "bye" {
			return nil
		}

		answer, err := a.Expert.Ask(ctx, input)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.w, answer)
	}
}
