package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const (
	envPrefix      = "BFVM"
	configFileName = ".bfvm.yaml"
)

// app holds the state shared by every command: the config, the logger and
// the process streams. Tests substitute the streams.
type app struct {
	v      *viper.Viper
	logger zerolog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		v:      viper.New(),
		logger: zerolog.Nop(),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bfvm [file]",
		Short: "Run programs for the eight-command byte-tape language",
		Long: `Run programs for the eight-command byte-tape language.

Source is read from a file argument or from --code. Program input is read
line by line from stdin, or from --input; each input command consumes one
line and keeps its first byte.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
		RunE: a.runHandler,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default $HOME/"+configFileName+")")
	pf.Bool("no-color", false, "Disable colored output")
	pf.String("log-level", "warn", "Log level (debug, info, warn, error)")
	pf.BoolP("optimize", "O", false, "Fold runs of repeated commands")
	pf.Int("tape-size", 30000, "Number of tape cells")

	f := root.Flags()
	f.StringP("code", "c", "", "Code to run")
	f.String("input", "", "File to read program input from (default stdin)")
	f.Bool("dry-run", false, "Lex and resolve loops without executing")
	f.Bool("regen", false, "Print the source regenerated from tokens instead of executing")
	f.Bool("bench", false, "Benchmark the lexer instead of executing")
	f.IntP("iterations", "n", 1000, "Number of benchmark iterations")
	f.Int("warmup", 100, "Number of benchmark warmup iterations")
	f.Bool("timing", false, "Show execution time")
	f.StringP("output", "o", "", "Output format for --bench and --dry-run (json, text)")
	root.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp))

	root.AddCommand(a.disCmd(), a.versionCmd())
	return root
}

// initConfig binds flags, environment variables and the optional config file
// into the app's viper instance, then applies global settings.
func (a *app) initConfig(cmd *cobra.Command) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	} else if home, err := homedir.Dir(); err == nil {
		path := home + string(os.PathSeparator) + configFileName
		if _, err := os.Stat(path); err == nil {
			a.v.SetConfigFile(path)
			if err := a.v.ReadInConfig(); err != nil {
				return fmt.Errorf("read config: %w", err)
			}
		}
	}

	a.processGlobalFlags()
	logger, err := newLogger(a.stderr, a.v.GetString("log-level"), color.NoColor)
	if err != nil {
		return err
	}
	a.logger = logger
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug().Str("path", used).Msg("loaded config")
	}
	return nil
}

func newLogger(w io.Writer, level string, noColor bool) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q", level)
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: noColor}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

func main() {
	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := a.rootCmd().Execute(); err != nil {
		printError(a.stderr, err)
		os.Exit(1)
	}
}
