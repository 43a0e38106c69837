package main

import (
	"fmt"

	"github.com/fwojciec/uvdocs"
)

// Run executes the serve command. The cache is initialized before the first
// request is read.
func (c *ServeCmd) Run(deps *Dependencies) error {
	fmt.Fprintln(deps.Stderr, "Initializing documentation cache...")
	if err := deps.Server.Serve(deps.Ctx, deps.Stdin, deps.Stdout); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", uvdocs.ErrorMessage(err))
		return err
	}
	return nil
}
