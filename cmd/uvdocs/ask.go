package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/uvdocs"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	answer, err := deps.Asker.Ask(deps.Ctx, strings.Join(c.Question, " "))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", uvdocs.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer)
	return nil
}
