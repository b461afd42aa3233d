package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/docyard/docyard"
	"github.com/docyard/docyard/query"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Snapshots docyard.SnapshotStore
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Process ProcessCmd `cmd:"" help:"Ingest configured sources into a snapshot"`
	Serve   ServeCmd   `cmd:"" help:"Serve a snapshot over the Model Context Protocol"`
	Search  SearchCmd  `cmd:"" help:"Search a snapshot"`
	Get     GetCmd     `cmd:"" help:"Print one content item from a snapshot"`
	List    ListCmd    `cmd:"" help:"List snapshot items grouped by section"`
}

// ProcessCmd is the "process" subcommand.
type ProcessCmd struct {
	Config      string `short:"c" default:"docyard.yaml" help:"Source configuration file"`
	Output      string `short:"o" default:"docyard.json" help:"Snapshot output path"`
	Concurrency int    `help:"Concurrency limit, overriding the configuration file"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Snapshot string `short:"s" default:"docyard.json" help:"Snapshot file to serve"`
	HTTP     string `help:"Serve over streamable HTTP on this address instead of stdio"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query    string `arg:"" help:"Search query"`
	Snapshot string `short:"s" default:"docyard.json" help:"Snapshot file to query"`
	Limit    int    `short:"n" help:"Maximum number of results"`
	Source   string `help:"Restrict results to the named source"`
	Type     string `help:"Restrict results to a content type"`
}

// GetCmd is the "get" subcommand.
type GetCmd struct {
	Key      string `arg:"" help:"Item ID or path"`
	Snapshot string `short:"s" default:"docyard.json" help:"Snapshot file to query"`
	Related  bool   `short:"r" help:"Show related items"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Snapshot string `short:"s" default:"docyard.json" help:"Snapshot file to query"`
	Path     string `help:"Keep only items under this path prefix"`
	Source   string `help:"Restrict the listing to the named source"`
	Type     string `help:"Restrict the listing to a content type"`
}

// loadEngine reads a snapshot and builds a query engine over it.
func loadEngine(deps *Dependencies, path string) (*query.Engine, error) {
	snapshot, err := deps.Snapshots.Read(path)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docyard.ErrorMessage(err))
		return nil, err
	}

	engine, err := query.NewEngine(snapshot)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docyard.ErrorMessage(err))
		return nil, err
	}

	return engine, nil
}
