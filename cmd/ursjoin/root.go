package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/aretw0/ursjoin"
	"github.com/aretw0/ursjoin/internal/platform"
	"github.com/aretw0/ursjoin/pkg/adapters/fs"
)

// app carries the state shared by the commands of one invocation.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	v          *viper.Viper
	configFile string
	verbose    bool
	logger     *slog.Logger
}

// usageError is a command line mistake; the usage text follows the message.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// runError is a failure of the join itself.
type runError struct{ err error }

func (e *runError) Error() string { return e.err.Error() }
func (e *runError) Unwrap() error { return e.err }

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"identifier-file":       "identifier_file",
	"rfam-annotations-file": "rfam_annotations_file",
	"output-file":           "output_file",
	"format":                "format",
	"indent":                "indent",
	"stats":                 "stats",
	"watch":                 "watch",
	"verbose":               "verbose",
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ursjoin",
		Short: "Filter Rfam annotations down to a set of RNAcentral identifiers",
		Long: fmt.Sprintf(`ursjoin version %s

Reads the URS identifiers in the first column of an identifier table (the first
row is a header), keeps the rows of a headerless Rfam annotation table whose
identifier is in that set, groups them by identifier and writes them as JSON.`, ursjoin.Version),
		Example: `  ursjoin -i pombase.tsv -r rfam_annotations.tsv.gz -o pombase-rfam.json
  ursjoin -i pombase.tsv -r 'rfam/**/*.tsv.gz' -o pombase-rfam.xlsx --format xlsx --stats`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if a.verbose || a.v.GetBool("verbose") {
				level = slog.LevelDebug
			}

			opts := &slog.HandlerOptions{
				Level: level,
			}
			a.logger = slog.New(slog.NewTextHandler(a.stderr, opts)).With("run", uuid.NewString())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.runJoin(cmd.Context())
			var ue *usageError
			if err == nil || errors.As(err, &ue) {
				return err
			}
			return &runError{err: err}
		},
	}

	rootCmd.SetIn(a.stdin)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	flags := rootCmd.Flags()
	flags.StringP("identifier-file", "i", "", "Path to pombase.tsv from the RNAcentral FTP site (\"-\" for stdin)")
	flags.StringP("rfam-annotations-file", "r", "", "Path or glob of rfam_annotations.tsv(.gz) (\"-\" for stdin)")
	flags.StringP("output-file", "o", "", "Output file (\"-\" for stdout)")
	flags.String("format", "", "Output format: json, yaml or xlsx (default json)")
	flags.Bool("indent", false, "Pretty-print JSON output")
	flags.Bool("stats", false, "Print a per-identifier summary table to stderr")
	flags.Bool("watch", false, "Re-run whenever an input file changes")
	flags.StringVar(&a.configFile, "config", "", "Config file (yaml, toml or json)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	// Accept the historical misspelling of the identifier flag.
	rootCmd.SetGlobalNormalizationFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "identifer-file" {
			name = "identifier-file"
		}
		return pflag.NormalizedName(name)
	})

	for flag, key := range flagKeys {
		f := flags.Lookup(flag)
		if f == nil {
			f = rootCmd.PersistentFlags().Lookup(flag)
		}
		_ = a.v.BindPFlag(key, f)
	}

	rootCmd.AddCommand(newVersionCmd(a))
	return rootCmd
}

func (a *app) runJoin(ctx context.Context) error {
	cfg, err := platform.LoadConfig(a.v, a.configFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return &usageError{err: err}
	}
	format, err := fs.ParseFormat(cfg.Format)
	if err != nil {
		return &usageError{err: err}
	}

	opts := []platform.Option{
		platform.WithLogger(a.logger),
		platform.WithFormat(format),
		platform.WithIndent(cfg.Indent),
		platform.WithStdio(a.stdin, a.stdout),
	}

	runOnce := func(ctx context.Context) error {
		res, err := platform.Run(ctx, cfg, opts...)
		if err != nil {
			return err
		}
		if cfg.Stats {
			fmt.Fprintln(a.stderr, renderStats(res, shouldDecorate(a.stderr)))
		}
		return nil
	}

	if !cfg.Watch {
		return runOnce(ctx)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return platform.Watch(ctx, cfg, runOnce, append(opts, platform.WithErrorHandler(func(err error) {
		fmt.Fprintf(a.stderr, "failed with error: %v\n", err)
	}))...)
}

// execute runs the command tree and maps the outcome to a process exit code.
func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr, v: platform.NewViper()}
	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	if err == nil {
		return 0
	}

	var re *runError
	if errors.As(err, &re) {
		return fatal(stderr, "failed with error", re.err)
	}
	fmt.Fprintln(stderr, err)
	fmt.Fprint(stderr, rootCmd.UsageString())
	return 1
}
