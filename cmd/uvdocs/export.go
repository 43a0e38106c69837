package main

import (
	"fmt"

	"github.com/fwojciec/uvdocs"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	n, err := deps.Exporter(c.Dir).Export(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", uvdocs.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Exported %d elements to %s\n", n, c.Dir)
	return nil
}
