// Package mcp serves the finished documentation tree over the Model
// Context Protocol, so agent tooling can look up symbol documentation
// without parsing rendered pages.
package mcp

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/mvp-joe/docsmith/internal/docmodel"
	"github.com/mvp-joe/docsmith/internal/refgraph"
)

// Server manages the MCP server lifecycle over one built module.
type Server struct {
	module *docmodel.Module
	graph  *refgraph.Graph
	log    *logrus.Logger
	mcp    *server.MCPServer
}

// NewServer creates a server over a fully assembled, reference-resolved
// module. It refuses a module whose references were never resolved: tools
// would silently return incomplete cross-links.
func NewServer(module *docmodel.Module, graph *refgraph.Graph, log *logrus.Logger) (*Server, error) {
	if !graph.Resolved() {
		return nil, fmt.Errorf("documentation module has unresolved references")
	}

	mcpServer := server.NewMCPServer(
		"docsmith-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s := &Server{
		module: module,
		graph:  graph,
		log:    log,
		mcp:    mcpServer,
	}
	AddLookupTool(mcpServer, module, graph)
	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting MCP server on stdio")
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		s.log.Info("received shutdown signal, stopping")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
