package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/uvdocs"
)

// Run executes the init command.
func (c *InitCmd) Run(deps *Dependencies) error {
	report, err := deps.Cache.Initialize(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", uvdocs.ErrorMessage(err))
		return err
	}
	fmt.Fprintln(deps.Stdout, report)
	return nil
}

// Run executes the refresh command.
func (c *RefreshCmd) Run(deps *Dependencies) error {
	report, err := deps.Cache.Refresh(deps.Ctx, c.Force)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: Failed to update cache: %s\n", uvdocs.ErrorMessage(err))
		return err
	}
	fmt.Fprintln(deps.Stdout, report)
	return nil
}

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	rec, err := deps.Store.Version(deps.Ctx)
	if uvdocs.ErrorCode(err) == uvdocs.ENOTFOUND {
		fmt.Fprintln(deps.Stdout, "Cache not initialized. Run 'uvdocs init' to populate it.")
		return nil
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", uvdocs.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "UV Version: %s\n", rec.Version)

	if c.Check {
		state := "stale"
		if deps.Cache.IsValid(deps.Ctx) {
			state = "up to date"
		}
		fmt.Fprintf(deps.Stdout, "State: %s\n", state)
	}

	infos, err := deps.Infos.SectionInfos(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", uvdocs.ErrorMessage(err))
		return err
	}
	fmt.Fprintln(deps.Stdout, "Sections:")
	if len(infos) == 0 {
		fmt.Fprintln(deps.Stdout, "  (none)")
	}
	for _, info := range infos {
		fmt.Fprintf(deps.Stdout, "  %-10s %4d elements  %s  %s\n",
			info.Name, info.ElementCount, info.ContentHash, info.UpdatedAt.Format(time.RFC3339))
	}

	last, err := deps.Log.LastRefresh(deps.Ctx)
	if err == nil {
		fmt.Fprintf(deps.Stdout, "Last refresh: %s (%d succeeded, %d failed)\n",
			last.FinishedAt.Format(time.RFC3339), last.Succeeded, last.Failed)
	}
	return nil
}

// Run executes the clear command.
func (c *ClearCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm clearing the cache\n")
		return uvdocs.Errorf(uvdocs.EINVALID, "use --force to confirm clearing the cache")
	}

	if err := deps.Cache.Clear(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", uvdocs.ErrorMessage(err))
		return err
	}
	fmt.Fprintln(deps.Stdout, "Cache cleared")
	return nil
}
