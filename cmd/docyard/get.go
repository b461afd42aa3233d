package main

import (
	"fmt"

	"github.com/docyard/docyard"
)

// Run executes the get command.
func (c *GetCmd) Run(deps *Dependencies) error {
	engine, err := loadEngine(deps, c.Snapshot)
	if err != nil {
		return err
	}

	// The key is tried as an ID first, then as a path.
	res, err := engine.Get(deps.Ctx, docyard.GetRequest{
		ID:             c.Key,
		Path:           c.Key,
		IncludeRelated: c.Related,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docyard.ErrorMessage(err))
		return err
	}

	item := res.Item
	fmt.Fprintf(deps.Stdout, "%s\n", item.Title)
	fmt.Fprintf(deps.Stdout, "ID: %s  Source: %s  Type: %s\n", item.ID, item.Source, item.Type)
	if item.Path != "" {
		fmt.Fprintf(deps.Stdout, "Path: %s\n", item.Path)
	}
	if item.URL != "" {
		fmt.Fprintf(deps.Stdout, "URL: %s\n", item.URL)
	}
	fmt.Fprintln(deps.Stdout)
	fmt.Fprintln(deps.Stdout, item.Content)

	if len(res.Related) > 0 {
		fmt.Fprintln(deps.Stdout, "Related:")
		for _, rel := range res.Related {
			fmt.Fprintf(deps.Stdout, "  %s  %s  (%s)\n", rel.ID, rel.Title, rel.Path)
		}
	}

	return nil
}
