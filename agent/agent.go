package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

const prompt = "assist> "

// Agent runs the chat session: one facilitator fronting a bench of experts.
type Agent struct {
	w           io.Writer
	in          *bufio.Scanner
	Facilitator *Expert
	Experts     []*Expert
}

// New returns an agent writing to w and reading user input from r. The
// experts are the specialists the facilitator can consult.
func New(w io.Writer, r io.Reader, experts ...*Expert) *Agent {
	return &Agent{
		w:           w,
		in:          bufio.NewScanner(r),
		Experts:     experts,
		Facilitator: newFacilitator(experts...),
	}
}

// Start opens the underlying chats, experts first, facilitator last.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range a.Experts {
		if err := e.Start(ctx, client); err != nil {
			return err
		}
	}
	return a.Facilitator.Start(ctx, client)
}

// Run is the REPL. Prompts given as arguments are consumed first, then input
// comes from the reader. "bye" or end of input ends the session.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.Facilitator.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}
	fmt.Fprintln(a.w, "Welcome to cbk poker assist. Type 'bye' to exit.")

	for {
		fmt.Fprint(a.w, prompt)
		input, ok := a.next(&prompts)
		if !ok {
			return a.in.Err()
		}
		if strings.TrimSpace(input) == "bye" {
			return nil
		}
		content, err := a.Facilitator.Ask(ctx, &genai.Part{Text: input})
		if err != nil {
			return err
		}
		fmt.Fprintln(a.w, content.Parts[0].Text)
	}
}

// next drains the scripted prompts before falling back to the reader,
// echoing scripted input as if it had been typed. It reports false once the
// reader is done.
func (a *Agent) next(prompts *[]string) (string, bool) {
	for len(*prompts) > 0 {
		input := strings.TrimSpace((*prompts)[0])
		*prompts = (*prompts)[1:]
		if input == "" {
			continue
		}
		fmt.Fprintln(a.w, input)
		return input, true
	}
	if a.in.Scan() {
		return a.in.Text(), true
	}
	return "", false
}
