package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/uvdocs"
	"github.com/fwojciec/uvdocs/rank"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	addr, err := uvdocs.ParseAddress(c.Address)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", uvdocs.ErrorMessage(err))
		return err
	}

	res, err := deps.Resolver.Resolve(deps.Ctx, addr)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", uvdocs.ErrorMessage(err))
		return err
	}

	if c.JSON {
		return writeJSON(deps.Stdout, res)
	}
	fmt.Fprintln(deps.Stdout, res.Text())
	return nil
}

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	results, err := deps.Searcher.Search(deps.Ctx, strings.Join(c.Query, " "))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", uvdocs.ErrorMessage(err))
		return err
	}

	if c.JSON {
		return writeJSON(deps.Stdout, results)
	}
	fmt.Fprintln(deps.Stdout, rank.FormatResults(results))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
