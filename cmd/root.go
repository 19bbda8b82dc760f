// Package cmd implements the CLI command structure for pile.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/nibzard/pile/internal/config"
	"github.com/nibzard/pile/internal/logging"
	"github.com/nibzard/pile/internal/storage"
)

const deadlineHelp = "Deadlines are a count and a unit: d, w, m (30 days), y (360 days); " +
	"any other unit counts as seconds. E.g. 3d or +2w."

// Version is set via ldflags at build time.
var Version = "dev"

// Streams are the standard streams a command talks to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// app carries what every command needs.
type app struct {
	cfg    *config.Config
	store  *storage.Store
	logger *logging.Logger
	io     Streams
	now    func() time.Time
}

// Run executes the pile CLI on the process streams.
func Run(ctx context.Context, args []string) error {
	return RunWith(ctx, args, Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr})
}

// RunWith executes the pile CLI on the given streams.
func RunWith(ctx context.Context, args []string, streams Streams) error {
	fs := flag.NewFlagSet("pile", flag.ContinueOnError)
	fs.SetOutput(streams.Err)
	fs.Usage = func() {
		printUsage(fs, streams.Err)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, streams.Out)
		return nil
	}
	if *showVersion {
		return versionCommand(streams.Out)
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		printUsage(fs, streams.Out)
		return nil
	}
	subcommand, remaining := remaining[0], remaining[1:]

	switch subcommand {
	case "version":
		return versionCommand(streams.Out)
	case "help":
		printUsage(fs, streams.Out)
		return nil
	case "config":
		return configCommand(cfg, streams.Out, remaining)
	}

	run, ok := commands[subcommand]
	if !ok {
		printUsage(fs, streams.Out)
		return nil
	}

	logger, err := logging.New(streams.Err, logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		File:       cfg.LogFile,
		Timestamps: cfg.LogTimestamps,
		Prefix:     "pile",
	})
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Close()

	store := storage.New(cfg.Root)
	if err := store.Init(); err != nil {
		return err
	}

	a := &app{cfg: cfg, store: store, logger: logger, io: streams, now: time.Now}
	logger.Debug("running command", "command", subcommand, "root", cfg.Root)
	return run(ctx, a, remaining)
}

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"list":   listCommand,
	"show":   showCommand,
	"push":   pushCommand,
	"pop":    popCommand,
	"cycle":  cycleCommand,
	"pull":   pullCommand,
	"finish": finishCommand,
	"doctor": doctorCommand,
	"log":    logCommand,
}

func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "pile version %s\n", Version)
	return nil
}

// configCommand prints the effective configuration, or an example file with
// "config example".
func configCommand(cfg *config.Config, w io.Writer, args []string) error {
	if len(args) > 0 && args[0] == "example" {
		_, err := io.WriteString(w, config.ExampleConfig())
		return err
	}
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	_, err := io.WriteString(w, cfg.Describe())
	return err
}

// parseInterspersed parses fs allowing flags after positional arguments.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		if args[0] == "--" {
			return append(positional, args[1:]...), nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Pile - a stack of things to do")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  pile [options] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list [single|tags] [when|timeless]  List items, oldest first")
	fmt.Fprintln(w, "  show <item>                         Show one item")
	fmt.Fprintln(w, "  push <item>                         Read deadline, tags and notes, then push")
	fmt.Fprintln(w, "  pop                                 Remove and show the top item")
	fmt.Fprintln(w, "  cycle [n]                           Move the top item n places down (default 1)")
	fmt.Fprintln(w, "  pull <item>                         Move an item to the top")
	fmt.Fprintln(w, "  finish <item>                       Remove an item from anywhere in the stack")
	fmt.Fprintln(w, "  doctor                              Check the stack against the item records")
	fmt.Fprintln(w, "  log                                 Show the log file")
	fmt.Fprintln(w, "  config [example]                    Show effective configuration")
	fmt.Fprintln(w, "  version                             Show version information")
	fmt.Fprintln(w, "  help                                Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, deadlineHelp)
	fmt.Fprintln(w, "Text that does not start with a count is kept as a label.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List Options:")
	fmt.Fprintln(w, "  -watch")
	fmt.Fprintln(w, "        Redraw when the stack changes")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Push Options:")
	fmt.Fprintln(w, "  -no-editor")
	fmt.Fprintln(w, "        Read the item body from standard input")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Pop Options:")
	fmt.Fprintln(w, "  -n    Show the top item without removing it")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Doctor Options:")
	fmt.Fprintln(w, "  -repair")
	fmt.Fprintln(w, "        Drop dangling and duplicate entries, restack orphaned records")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Log Options:")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
