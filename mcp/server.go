// Package mcp exposes a processed documentation snapshot over the Model
// Context Protocol, so AI assistants can search, fetch, and browse the
// ingested content.
package mcp

import (
	"context"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/docyard/docyard"
)

// Server wraps an MCP server around a query service and the snapshot it
// was built from.
type Server struct {
	engine   docyard.QueryService
	snapshot *docyard.ProcessedContent
	byID     map[string]*docyard.ContentItem
	server   *mcp.Server
}

// NewServer creates an MCP server serving the given snapshot through the
// given query service.
func NewServer(engine docyard.QueryService, snapshot *docyard.ProcessedContent) (*Server, error) {
	if engine == nil {
		return nil, docyard.Errorf(docyard.EINVALID, "query service required")
	}
	if snapshot == nil {
		return nil, docyard.Errorf(docyard.EINVALID, "snapshot required")
	}

	impl := &mcp.Implementation{
		Name:    "docyard",
		Version: docyard.Version,
	}

	// First occurrence wins on duplicate IDs, matching lookup semantics
	// in the query engine.
	byID := make(map[string]*docyard.ContentItem, len(snapshot.Items))
	for i := range snapshot.Items {
		if _, ok := byID[snapshot.Items[i].ID]; !ok {
			byID[snapshot.Items[i].ID] = &snapshot.Items[i]
		}
	}

	s := &Server{
		engine:   engine,
		snapshot: snapshot,
		byID:     byID,
		server:   mcp.NewServer(impl, nil),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over streamable HTTP on the given address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
