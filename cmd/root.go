package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scipunch/fbdaily/aggregator"
	"github.com/scipunch/fbdaily/config"
	"github.com/scipunch/fbdaily/fetcher"
	"github.com/scipunch/fbdaily/filter"
	"github.com/scipunch/fbdaily/logging"
	"github.com/scipunch/fbdaily/pdf"
	"github.com/scipunch/fbdaily/report"
	"github.com/scipunch/fbdaily/site"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	defaultOutputDir = "data"
	defaultMaxItems  = 20
	envFile          = ".env"
	pdfFile          = "digest.pdf"
)

type rootOptions struct {
	output     string
	maxItems   int
	verbose    bool
	configPath string
	siteDir    string
	title      string
	pdf        bool
	noMarkdown bool

	// Overridable in tests
	now       func() time.Time
	newLogger func(verbose bool) (*zap.Logger, error)
}

func defaultOptions() *rootOptions {
	return &rootOptions{
		now:       time.Now,
		newLogger: logging.New,
	}
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fbdaily",
		Short:         "Fashion business news digest",
		Long:          "fbdaily collects recent fashion business stories from RSS/Atom feeds and the New York Times, sorts them into categories and writes a markdown digest and an optional static site.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.pdf && opts.siteDir == "" {
				return errors.New("--pdf requires --site-dir")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&opts.output, "output", defaultOutputDir, "directory to store generated daily digest files")
	flags.IntVar(&opts.maxItems, "max-items", defaultMaxItems, "maximum number of stories to fetch from each source")
	flags.BoolVar(&opts.verbose, "verbose", false, "enable verbose logging")
	flags.StringVar(&opts.siteDir, "site-dir", "", "also render a static site into this directory")
	flags.StringVar(&opts.title, "title", report.DefaultTitle, "title of the static site")
	flags.BoolVar(&opts.pdf, "pdf", false, "print the static site to "+pdfFile+" (requires --site-dir)")
	flags.BoolVar(&opts.noMarkdown, "no-markdown", false, "skip writing the markdown digest")

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath(), "path to a YAML or TOML sources config")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSourcesCmd(opts))
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fbdaily %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

func newSourcesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List configured sources and categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Sources:")
			for _, s := range conf.Sources {
				target := s.URL
				if s.Type() == config.NYTTopStories {
					target = "section " + s.Section
					if s.Section == "" {
						target = "section " + config.DefaultSection
					}
				}
				fmt.Fprintf(out, "  %s [%s] %s\n", s.Name, s.Type(), target)
			}
			fmt.Fprintln(out, "Categories:")
			for _, c := range conf.Categories {
				fmt.Fprintf(out, "  %s (%d keywords)\n", c.Name, len(c.Keywords))
			}
			return nil
		},
	}
}

func run(cmd *cobra.Command, opts *rootOptions) error {
	logger, err := opts.newLogger(opts.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := config.LoadDotEnv(envFile); err != nil {
		logger.Warn("failed to load env file", zap.Error(err))
	}

	conf, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	sources, err := fetcher.FromConfig(conf.Sources)
	if err != nil {
		return fmt.Errorf("failed to initialize sources: %w", err)
	}
	pipeline, err := filter.NewPipeline(conf.Filters, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize filters: %w", err)
	}
	logger.Debug("initialized filters", zap.Stringer("filter", pipeline))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("fetching news from configured sources", zap.Int("sources", len(sources)))
	agg := aggregator.New(sources, conf.Categories,
		aggregator.WithMaxItems(opts.maxItems),
		aggregator.WithFilter(pipeline),
		aggregator.WithLogger(logger),
		aggregator.WithClock(opts.now),
	)
	articles := agg.Fetch(ctx)
	if ctx.Err() != nil {
		logger.Info("interrupted by user, writing what was fetched")
	}
	now := opts.now()

	if !opts.noMarkdown {
		path, err := report.WriteDigest(report.BuildMarkdownDigest(articles, now), opts.output, now)
		if err != nil {
			return err
		}
		logger.Info("digest written", zap.String("path", path), zap.Int("articles", len(articles)))
	}

	if opts.siteDir == "" {
		return nil
	}
	assets, err := site.Build(articles, opts.title, now)
	if err != nil {
		return err
	}
	dir, err := site.Write(assets, opts.siteDir)
	if err != nil {
		return err
	}
	logger.Info("site generated", zap.String("path", dir))

	if opts.pdf {
		pdfPath := filepath.Join(dir, pdfFile)
		if err := pdf.Render(ctx, filepath.Join(dir, site.IndexFile), pdfPath); err != nil {
			logger.Error("failed to generate PDF", zap.Error(err))
		} else {
			logger.Info("PDF file generated", zap.String("path", pdfPath))
		}
	}
	return nil
}

// Execute runs the CLI and exits with status 1 on failure
func Execute() {
	if err := newRootCmd(defaultOptions()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
