// Package main wires config, discovery, the lexer, the pattern
// language parser, the matcher, and the renderer into the structgrep
// CLI. Grounded on the teacher's cmd/gotmpls root command: a single
// cobra.Command with flags bound directly to local variables, executed
// from main with a plain error return.
package main

import (
	"context"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/structgrep/internal/config"
	"github.com/walteh/structgrep/internal/discover"
	"github.com/walteh/structgrep/internal/patternlang"
	"github.com/walteh/structgrep/internal/render"
	"github.com/walteh/structgrep/internal/scan"
	"github.com/walteh/structgrep/internal/source"
	"gitlab.com/tozd/go/errors"
)

const configFileName = ".structgrep.hcl"

// ErrNoMatches signals a clean, expected "nothing found" outcome. main
// maps it to exit code 1, grep's own convention, distinct from exit
// code 2 for a genuine usage or I/O error.
type ErrNoMatches struct{}

func (ErrNoMatches) Error() string { return "no matches found" }

type options struct {
	patternName string
	include     []string
	exclude     []string
	useStdin    bool
	highlight   bool
	jsonOutput  bool
	maxMatches  int
	verbose     int
}

func newRootCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "structgrep [pattern] [paths...]",
		Short:         "A structural, indentation- and ellipsis-aware grep",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args, &opts)
		},
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		cmd.Version = info.Main.Version
	} else {
		cmd.Version = "unknown"
	}

	cmd.Flags().StringVarP(&opts.patternName, "pattern-name", "e", "", "look up a named pattern from .structgrep.hcl instead of a literal pattern argument")
	cmd.Flags().StringSliceVar(&opts.include, "include", nil, "glob(s) of paths to scan; default is everything under the scan root")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", nil, "glob(s) of paths to skip")
	cmd.Flags().BoolVar(&opts.useStdin, "stdin", false, "read a single document from standard input instead of walking paths")
	cmd.Flags().BoolVar(&opts.highlight, "highlight", false, "ANSI-highlight the matched span and captures")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "emit one JSON object per match instead of plain text")
	cmd.Flags().IntVar(&opts.maxMatches, "max-matches", 0, "stop after this many matches across all files (0 = unlimited)")
	cmd.Flags().CountVarP(&opts.verbose, "verbose", "v", "increase log verbosity (-v, -vv)")

	return cmd
}

func runRoot(cmd *cobra.Command, args []string, opts *options) error {
	ctx := newLoggingContext(cmd.Context(), opts.verbose)
	logger := zerolog.Ctx(ctx)

	var patternArg string
	paths := args
	if opts.patternName == "" {
		if len(args) == 0 {
			return errors.Errorf("a pattern argument or --pattern-name is required")
		}
		patternArg, paths = args[0], args[1:]
	}

	fs := afero.NewOsFs()
	scanRoot := "."
	if len(paths) > 0 {
		scanRoot = paths[0]
	}

	cfg, err := loadConfig(fs, scanRoot)
	if err != nil {
		return err
	}

	patternText := patternArg
	if opts.patternName != "" {
		body, ok := cfg.Lookup(opts.patternName)
		if !ok {
			return errors.Errorf("no pattern named %q in %s", opts.patternName, configFileName)
		}
		patternText = body
	}

	pattern, err := patternlang.Parse(patternText)
	if err != nil {
		return errors.Errorf("invalid pattern: %w", err)
	}

	include := mergeGlobs(opts.include, cfg.Include)
	exclude := mergeGlobs(opts.exclude, cfg.Exclude)

	out, autoHighlight := render.AutoHighlightWriter(os.Stdout)
	highlight := autoHighlight
	if cmd.Flags().Changed("highlight") {
		highlight = opts.highlight
	} else if cfg.Highlight != nil {
		highlight = *cfg.Highlight
	}

	origins, err := resolveOrigins(ctx, fs, opts, paths, include, exclude)
	if err != nil {
		return err
	}
	logger.Debug().Int("files", len(origins)).Msg("resolved scan set")

	styleFor := func(o source.Origin) source.IndentStyle {
		if o.Kind == source.File {
			return discover.IndentStyleFor(o.Path)
		}
		return source.DefaultIndentStyle
	}
	results, scanErr := scan.Run(ctx, origins, pattern, styleFor, nil)
	if scanErr != nil {
		logger.Warn().Err(scanErr).Msg("one or more files failed to scan")
	}

	total := 0
	for _, r := range results {
		if r.Err != nil {
			logger.Error().Err(r.Err).Str("path", r.Source.Path).Msg("scan failed")
			continue
		}

		matches := r.Matches
		if opts.maxMatches > 0 {
			remaining := opts.maxMatches - total
			if remaining <= 0 {
				break
			}
			if len(matches) > remaining {
				matches = matches[:remaining]
			}
		}
		if len(matches) == 0 {
			continue
		}

		var renderErr error
		if opts.jsonOutput {
			renderErr = render.JSON(out, r.Source, matches)
		} else {
			renderErr = render.Text(out, r.Source, matches, highlight)
		}
		if renderErr != nil {
			return errors.Errorf("writing output: %w", renderErr)
		}
		total += len(matches)
	}

	if total == 0 {
		return ErrNoMatches{}
	}
	return nil
}

func mergeGlobs(flagValue, configValue []string) []string {
	if len(flagValue) > 0 {
		return flagValue
	}
	return configValue
}

func loadConfig(fs afero.Fs, scanRoot string) (*config.Config, error) {
	path := filepath.Join(scanRoot, configFileName)
	if _, err := fs.Stat(path); err != nil {
		return &config.Config{}, nil
	}
	return config.Load(fs, path)
}

func resolveOrigins(ctx context.Context, fs afero.Fs, opts *options, paths, include, exclude []string) ([]source.Origin, error) {
	if opts.useStdin || (len(paths) == 1 && paths[0] == "-") {
		origin, err := discover.ReadStdin(os.Stdin)
		if err != nil {
			return nil, err
		}
		return []source.Origin{origin}, nil
	}

	roots := paths
	if len(roots) == 0 {
		roots = []string{"."}
	}

	var all []source.Origin
	for _, root := range roots {
		origins, err := discover.Walk(ctx, fs, root, include, exclude)
		if err != nil {
			return nil, err
		}
		all = append(all, origins...)
	}
	return all, nil
}

func newLoggingContext(ctx context.Context, verbosity int) context.Context {
	level := zerolog.WarnLevel
	switch {
	case verbosity >= 2:
		level = zerolog.TraceLevel
	case verbosity == 1:
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	return logger.WithContext(ctx)
}
