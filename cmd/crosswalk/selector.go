package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// promptSelector drives interactive candidate selection on a terminal. It
// prints the 1-indexed candidate list, reads a number, and re-prompts on
// anything that does not parse. 0 cancels.
type promptSelector struct {
	in  *bufio.Reader
	out io.Writer
}

func newPromptSelector(in io.Reader, out io.Writer) *promptSelector {
	return &promptSelector{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (p *promptSelector) Select(step string, labels []string) (int, error) {
	fmt.Fprintf(p.out, "\n%s candidates:\n", step)
	for i, label := range labels {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, label)
	}
	fmt.Fprintln(p.out, "  0) cancel")

	for {
		fmt.Fprintf(p.out, "Select [0-%d]: ", len(labels))

		line, err := p.in.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				// Treat a closed input stream as cancellation.
				return 0, nil
			}
			return 0, err
		}

		choice, parseErr := strconv.Atoi(strings.TrimSpace(line))
		if parseErr != nil {
			fmt.Fprintln(p.out, "Please enter a number.")
			continue
		}
		return choice, nil
	}
}
