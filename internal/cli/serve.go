package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/docsmith/internal/config"
	"github.com/mvp-joe/docsmith/internal/generator"
	"github.com/mvp-joe/docsmith/internal/mcp"
	"github.com/mvp-joe/docsmith/internal/report"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve [source root]",
	Short: "Serve symbol documentation over MCP (stdio)",
	Long: `Serve builds the documentation tree once and exposes it over the Model
Context Protocol on stdio, providing a docsmith_lookup tool for symbol
documentation queries.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rootDir := ""
	if len(args) == 1 {
		rootDir = args[0]
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		rootDir = wd
	}

	cfg, err := config.LoadFromDir(rootDir)
	if err != nil {
		return err
	}
	// MCP serves from the in-memory tree; keep the side effects minimal.
	cfg.Output.Format = "json"
	cfg.Output.Dir = os.TempDir()

	reporter := report.New(logger)
	gen, err := generator.New(cfg, reporter)
	if err != nil {
		return err
	}
	defer gen.Close()

	result, err := gen.Build(ctx)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(result.Module, result.Graph, logger)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}
