package main

import (
	"fmt"

	"github.com/docyard/docyard"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	engine, err := loadEngine(deps, c.Snapshot)
	if err != nil {
		return err
	}

	results, err := engine.Search(deps.Ctx, c.Query, docyard.SearchOptions{
		Limit:  c.Limit,
		Source: c.Source,
		Type:   docyard.ContentType(c.Type),
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docyard.ErrorMessage(err))
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No matches.")
		return nil
	}

	for _, r := range results {
		location := r.Path
		if location == "" {
			location = r.URL
		}
		fmt.Fprintf(deps.Stdout, "%.2f  %s  %s  (%s)\n", r.Score, r.ID, r.Title, location)
	}

	return nil
}
