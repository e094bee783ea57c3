package main

import (
	"errors"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cantoview/canto/internal/collector"
	"github.com/cantoview/canto/internal/config"
	"github.com/cantoview/canto/internal/gallery"
	"github.com/cantoview/canto/internal/loader"
	"github.com/cantoview/canto/internal/tui"
	"github.com/cantoview/canto/internal/validate"
)

//nolint:gochecknoglobals // Cobra requires package-level vars for flag bindings in current structure.
var (
	// Version metadata populated at build time via -ldflags.
	releaseVersion = "dev"
	commit         = "none"
	date           = "unknown"

	// Used for flags.
	configFile    string
	verbose       bool
	layoutName    string
	pageSize      int
	maxDepth      int
	skipHidden    bool
	respectIgnore bool
	excludes      []string
	dedupe        bool
	jsonOutput    bool
	yamlOutput    bool
	outputFormat  string

	rootCmd = &cobra.Command{
		Use:   "canto [PATHS...]",
		Short: "A terminal image gallery that pages through files under the given paths.",
		Long: `canto is a terminal image gallery. It walks the working directory (or the given paths) a few levels deep, collects every entry it finds, and lets you step through them as a grid of thumbnails or one slide at a time.

Directory arguments are walked; any other argument is shown as given, ahead of the walked entries.`,
		Run: runViewer,
	}
)

//nolint:gochecknoinits // Cobra command wiring performed in init in current structure.
func init() {
	// Route logs to stderr to avoid polluting stdout, especially for list output.
	logrus.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable detailed logging output")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", collector.DefaultMaxDepth, "How many levels below each root to walk")
	rootCmd.PersistentFlags().BoolVar(&skipHidden, "skip-hidden", false, "Skip dot-files and dot-directories")
	rootCmd.PersistentFlags().
		BoolVar(&respectIgnore, "respect-ignore", false, "Honor .ignore and .gitignore files found at each walk root")
	rootCmd.PersistentFlags().
		StringArrayVar(&excludes, "exclude", nil, "Glob pattern of entries to leave out (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&dedupe, "dedupe", false, "Drop entries that resolve to an already collected path")

	rootCmd.Flags().StringVar(&layoutName, "layout", "grid", "Navigation layout: grid or slide")
	rootCmd.Flags().IntVar(&pageSize, "page-size", gallery.DefaultPageSize, "Entries moved by a paged step")

	listCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the collection in JSON format")
	listCmd.Flags().BoolVar(&yamlOutput, "yaml", false, "Output the collection in YAML format")
	listCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text, json or yaml")
	listCmd.MarkFlagsMutuallyExclusive("json", "yaml", "format")

	rootCmd.AddCommand(listCmd)

	// Built-in version flag: set version string and a custom template.
	rootCmd.Version = releaseVersion
	rootCmd.Annotations = map[string]string{"commit": commit, "date": date}
	rootCmd.SetVersionTemplate("{{printf \"%s %s\\ncommit: %s\\ndate: %s\\n\" .DisplayName .Version (index .Annotations \"commit\") (index .Annotations \"date\")}}")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var listCmd = &cobra.Command{
	Use:   "list [PATHS...]",
	Short: "Print the collected entries instead of opening the viewer",
	Long:  "Collect entries exactly as the viewer would and print them in navigation order, one per line, or as JSON or YAML.",
	Run: func(cmd *cobra.Command, args []string) {
		switch {
		case jsonOutput:
			outputFormat = string(collector.FormatJSON)
		case yamlOutput:
			outputFormat = string(collector.FormatYAML)
		}
		format, err := collector.ParseFormat(outputFormat)
		if err != nil {
			logrus.Fatal(err)
		}

		// Set log level based on flags
		if format != collector.FormatText && !verbose {
			logrus.SetLevel(logrus.WarnLevel)
		} else if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}

		cfg := loadConfig(cmd)
		coll := collect(cmd, cfg, args)
		if err := collector.PrintSummary(os.Stdout, coll, format); err != nil {
			logrus.Fatal(err)
		}
	},
}

func runViewer(cmd *cobra.Command, args []string) {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg := loadConfig(cmd)
	if cmd.Flags().Changed("layout") {
		cfg.Layout = layoutName
	}
	if cmd.Flags().Changed("page-size") {
		cfg.PageSize = pageSize
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatal(err)
	}
	layout, err := cfg.GalleryLayout()
	if err != nil {
		logrus.Fatal(err)
	}

	coll := collect(cmd, cfg, args)
	nav, err := gallery.New(coll.Paths, layout)
	if errors.Is(err, gallery.ErrEmptyCollection) {
		logrus.Fatal("Nothing to show: the collection is empty")
	} else if err != nil {
		logrus.Fatal(err)
	}

	ld := loader.New(
		loader.WithWorkers(cfg.Loader.Workers),
		loader.WithThumbSize(cfg.Loader.ThumbWidth, cfg.Loader.ThumbHeight),
	)
	defer ld.Close()

	if err := tui.Run(cmd.Context(), nav, ld); err != nil {
		logrus.Fatalf("viewer failed: %v", err)
	}
}

// loadConfig reads the config files and applies the collection flags that were set
// explicitly on the command line.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg, err := config.Load(configFile)
	if err != nil {
		logrus.Fatal(err)
	}

	flags := cmd.Flags()
	if flags.Changed("max-depth") {
		cfg.Walk.MaxDepth = maxDepth
	}
	if flags.Changed("skip-hidden") {
		cfg.Walk.SkipHidden = skipHidden
	}
	if flags.Changed("respect-ignore") {
		cfg.Walk.RespectIgnore = respectIgnore
	}
	if flags.Changed("exclude") {
		for _, pattern := range excludes {
			if err := validate.Var(pattern, "glob"); err != nil {
				logrus.Fatalf("Invalid exclude pattern: %q. Expected a glob such as '*.tmp' or 'build/**'.", pattern)
			}
		}
		cfg.Walk.Exclude = append(cfg.Walk.Exclude, excludes...)
	}
	if flags.Changed("dedupe") {
		cfg.Walk.Dedupe = dedupe
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatal(err)
	}
	return cfg
}

func collect(cmd *cobra.Command, cfg *config.Config, args []string) *collector.Collection {
	wd, err := os.Getwd()
	if err != nil {
		logrus.Fatalf("%v: %v", collector.ErrWorkDir, err)
	}
	coll, err := collector.Collect(cmd.Context(), args, cfg.CollectorOptions(wd))
	if err != nil {
		logrus.Fatal(err)
	}
	if coll.Skipped > 0 {
		logrus.Debugf("skipped %d unreadable entries", coll.Skipped)
	}
	logrus.Debugf("collected %d entries from %d roots", len(coll.Paths), len(coll.Roots))
	return coll
}

func main() {
	Execute()
}
