package main

import (
	"fmt"

	"github.com/docyard/docyard"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	engine, err := loadEngine(deps, c.Snapshot)
	if err != nil {
		return err
	}

	res, err := engine.List(deps.Ctx, docyard.ListOptions{
		Path:   c.Path,
		Source: c.Source,
		Type:   docyard.ContentType(c.Type),
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docyard.ErrorMessage(err))
		return err
	}

	if res.TotalItems == 0 {
		fmt.Fprintln(deps.Stdout, "No items found. Use 'docyard process' to build a snapshot.")
		return nil
	}

	for _, section := range res.Sections {
		fmt.Fprintf(deps.Stdout, "%s (%d):\n", section.Name, len(section.Items))
		for _, entry := range section.Items {
			fmt.Fprintf(deps.Stdout, "  %s  %s  (%s)\n", entry.ID, entry.Title, entry.Path)
		}
	}
	fmt.Fprintf(deps.Stdout, "\n%d items in %d sections\n", res.TotalItems, res.TotalSections)

	return nil
}
