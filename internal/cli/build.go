package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/docsmith/internal/config"
	"github.com/mvp-joe/docsmith/internal/generator"
	"github.com/mvp-joe/docsmith/internal/report"
)

var (
	quietFlag      bool
	watchFlag      bool
	formatFlag     string
	outputFlag     string
	includeFlags   []string
	skipDeprecated bool
	sourceLinks    []string
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build [source root]",
	Short: "Build documentation for a module",
	Long: `Build walks the module's resolved declarations (Go packages plus any
configured C interop sources), merges externally authored package docs,
resolves cross-references, and renders the configured output format.

Examples:
  # Document the current directory as markdown
  docsmith build

  # HTML output into ./site
  docsmith build --format html --output site

  # Merge authored package docs and skip deprecated members
  docsmith build --include docs/packages.md --skip-deprecated

  # Rebuild on source changes
  docsmith build --watch
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
	buildCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch for source changes and rebuild")
	buildCmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format: markdown, html, json, search-index, docset")
	buildCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output directory")
	buildCmd.Flags().StringArrayVar(&includeFlags, "include", nil, "Package/module documentation include file (repeatable)")
	buildCmd.Flags().BoolVar(&skipDeprecated, "skip-deprecated", false, "Exclude deprecated declarations")
	buildCmd.Flags().StringArrayVar(&sourceLinks, "source-link", nil, "Source link mapping prefix=url[#lineSuffix] (repeatable)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted! Cancelling build...")
		cancel()
	}()

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
	applyFlags(cfg, cmd)

	reporter := report.New(logger)
	gen, err := generator.New(cfg, reporter,
		generator.WithProgress(NewCLIProgressReporter(quietFlag, logger)))
	if err != nil {
		return err
	}
	defer gen.Close()

	if watchFlag {
		err := gen.Watch(ctx)
		if err == context.Canceled {
			return nil
		}
		return err
	}

	result, err := gen.Build(ctx)
	if err != nil {
		return err
	}

	if result.Warnings > 0 {
		fmt.Printf("Documentation built with %d warnings in %s\n",
			result.Warnings, result.Duration.Round(timeRound))
	} else {
		fmt.Printf("Documentation built in %s\n", result.Duration.Round(timeRound))
	}
	return nil
}

// applyFlags lets explicit flags override config file and env values.
func applyFlags(cfg *config.Config, cmd *cobra.Command) {
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = formatFlag
	}
	if cmd.Flags().Changed("output") {
		cfg.Output.Dir = outputFlag
	}
	if cmd.Flags().Changed("include") {
		cfg.Module.Includes = append(cfg.Module.Includes, includeFlags...)
	}
	if cmd.Flags().Changed("skip-deprecated") {
		cfg.Filters.SkipDeprecated = skipDeprecated
	}
	if cmd.Flags().Changed("source-link") {
		cfg.Output.SourceLinks = append(cfg.Output.SourceLinks, sourceLinks...)
	}
}
