package main

import (
	"fmt"

	"github.com/docyard/docyard"
	"github.com/docyard/docyard/mcp"
	"github.com/docyard/docyard/query"
	docslog "github.com/docyard/docyard/slog"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	snapshot, err := deps.Snapshots.Read(c.Snapshot)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docyard.ErrorMessage(err))
		return err
	}

	engine, err := query.NewEngine(snapshot)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docyard.ErrorMessage(err))
		return err
	}

	server, err := mcp.NewServer(docslog.NewLoggingQueryService(engine, deps.Logger), snapshot)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docyard.ErrorMessage(err))
		return err
	}

	if c.HTTP != "" {
		deps.Logger.Info("serving snapshot over http",
			"addr", c.HTTP,
			"items", snapshot.Metadata.TotalItems,
		)
		return server.RunHTTP(deps.Ctx, c.HTTP)
	}

	deps.Logger.Info("serving snapshot over stdio",
		"items", snapshot.Metadata.TotalItems,
	)
	return server.Run(deps.Ctx)
}
