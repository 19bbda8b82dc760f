package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/nibzard/pile/internal/doctor"
	"github.com/nibzard/pile/internal/input"
	"github.com/nibzard/pile/internal/item"
	"github.com/nibzard/pile/internal/listing"
	"github.com/nibzard/pile/internal/logging"
	"github.com/nibzard/pile/internal/render"
	"github.com/nibzard/pile/internal/stack"
	"github.com/nibzard/pile/internal/storage"
	"github.com/nibzard/pile/internal/watcher"
)

const clearScreen = "\x1b[H\x1b[2J"

func (a *app) stack() *stack.Manager {
	return stack.New(a.store, a.logger.Logger)
}

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("pile "+name, flag.ContinueOnError)
	fs.SetOutput(a.io.Err)
	return fs
}

// itemID returns the identifier named by args.
func itemID(cmd string, args []string) (string, error) {
	name := joinArgs(args)
	if name == "" {
		return "", fmt.Errorf("%s: missing item name", cmd)
	}
	id := item.Identifier(name)
	if err := storage.ValidateID(id); err != nil {
		return "", fmt.Errorf("%s: %w", cmd, err)
	}
	return id, nil
}

// listCommand prints the stack oldest first.
func listCommand(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("list")
	watch := fs.Bool("watch", false, "Redraw when the stack changes")
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}

	mode := render.ModeFull
	if len(positional) > 0 {
		if m, ok := render.ParseMode(positional[0]); ok {
			mode = m
			positional = positional[1:]
		}
	}
	if len(positional) > 1 {
		return fmt.Errorf("unexpected arguments: %v", positional[1:])
	}
	filter := listing.NoFilter()
	if len(positional) == 1 {
		if filter, err = listing.ParseFilter(positional[0]); err != nil {
			return err
		}
	}

	lister := listing.New(a.store, a.logger.Logger)
	printer := render.New(a.io.Out)
	draw := func() error {
		now := a.now()
		entries, err := lister.List(listing.Options{Filter: filter, Now: now})
		if err != nil {
			return err
		}
		return printer.List(entries, mode, now)
	}

	if !*watch {
		return draw()
	}

	clearFirst := isTerminalWriter(a.io.Out)
	redraw := func() {
		if clearFirst {
			fmt.Fprint(a.io.Out, clearScreen)
		}
		if err := draw(); err != nil {
			a.logger.Error("redraw failed", "error", err)
		}
	}
	redraw()
	debounce := time.Duration(a.cfg.WatchDebounceMs) * time.Millisecond
	return watcher.New(a.store.Root(), debounce, redraw, a.logger.Logger).Run(ctx)
}

func showCommand(_ context.Context, a *app, args []string) error {
	id, err := itemID("show", args)
	if err != nil {
		return err
	}
	it, err := a.stack().Show(id)
	if err != nil {
		return err
	}
	return render.New(a.io.Out).Item(it, a.now())
}

// pushCommand reads the deadline, tags and description for a new item and
// pushes it. Cancelled input pushes nothing.
func pushCommand(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("push")
	noEditor := fs.Bool("no-editor", !a.cfg.Editor, "Read the item body from standard input")
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if _, err := itemID("push", positional); err != nil {
		return err
	}
	name := joinArgs(positional)

	body, err := input.Read(ctx, input.Options{
		In:     a.io.In,
		Out:    a.io.Err,
		Editor: !*noEditor,
		Title:  name,
	})
	if errors.Is(err, input.ErrCancelled) {
		a.logger.Info("push cancelled", "item", name)
		return nil
	}
	if err != nil {
		return err
	}

	it, err := item.Parse(name+"\n"+body, a.now())
	if err != nil {
		return fmt.Errorf("push %s: %w", name, err)
	}
	if err := a.stack().Push(it); err != nil {
		return err
	}
	a.logger.Info("pushed", "id", it.ID(), "deadline", it.Deadline.Kind())
	return nil
}

func popCommand(_ context.Context, a *app, args []string) error {
	fs := a.flagSet("pop")
	keep := fs.Bool("n", false, "Show the top item without removing it")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	it, err := a.stack().Pop(*keep)
	if err != nil {
		return err
	}
	if !*keep {
		a.logger.Info("popped", "id", it.ID())
	}
	return render.New(a.io.Out).Item(it, a.now())
}

func cycleCommand(_ context.Context, a *app, args []string) error {
	n := 1
	switch len(args) {
	case 0:
	case 1:
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("cycle: invalid count %q", args[0])
		}
		n = v
	default:
		return fmt.Errorf("unexpected arguments: %v", args[1:])
	}
	if err := a.stack().Cycle(n); err != nil {
		return err
	}
	a.logger.Info("cycled", "n", n)
	return nil
}

func pullCommand(_ context.Context, a *app, args []string) error {
	id, err := itemID("pull", args)
	if err != nil {
		return err
	}
	if err := a.stack().Pull(id); err != nil {
		return err
	}
	a.logger.Info("pulled", "id", id)
	return nil
}

func finishCommand(_ context.Context, a *app, args []string) error {
	id, err := itemID("finish", args)
	if err != nil {
		return err
	}
	it, err := a.stack().Finish(id)
	if err != nil {
		return err
	}
	a.logger.Info("finished", "id", id)
	return render.New(a.io.Out).Item(it, a.now())
}

// doctorCommand checks the stack against the records on disk.
func doctorCommand(_ context.Context, a *app, args []string) error {
	fs := a.flagSet("doctor")
	repair := fs.Bool("repair", false, "Drop dangling and duplicate entries, restack orphaned records")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	d, err := doctor.New(a.store, a.logger.Logger)
	if err != nil {
		return err
	}
	var report *doctor.Report
	if *repair {
		report, err = d.Repair()
	} else {
		report, err = d.Check()
	}
	if err != nil {
		return err
	}

	w := a.io.Out
	fmt.Fprintln(w, "Pile Doctor")
	fmt.Fprintln(w, "===========")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Root: %s\n", a.store.Root())
	fmt.Fprintf(w, "Stack: %d entries\n", len(report.Stack))
	fmt.Fprintln(w)
	printFindings(w, "Dangling entries", report.Dangling, *repair, "dropped")
	printFindings(w, "Duplicate entries", report.Duplicates, *repair, "dropped")
	printFindings(w, "Orphaned records", report.Orphans, *repair, "restacked")
	if len(report.Invalid) == 0 {
		fmt.Fprintln(w, "  ✅ Records: valid")
	}
	for _, p := range report.Invalid {
		fmt.Fprintf(w, "  ❌ Record %s:\n", p.ID)
		for _, e := range p.Errors {
			fmt.Fprintf(w, "     - %v\n", e)
		}
	}
	fmt.Fprintln(w)

	switch {
	case report.OK():
		fmt.Fprintln(w, "All checks passed.")
		return nil
	case *repair && len(report.Invalid) == 0:
		fmt.Fprintln(w, "Stack repaired.")
		return nil
	case *repair:
		fmt.Fprintln(w, "Stack repaired. Invalid records need manual attention.")
	default:
		fmt.Fprintln(w, "Run 'pile doctor -repair' to fix the stack.")
	}
	return doctor.ErrUnhealthy
}

func printFindings(w io.Writer, label string, ids []string, repaired bool, action string) {
	if len(ids) == 0 {
		fmt.Fprintf(w, "  ✅ %s: none\n", label)
		return
	}
	mark := "❌"
	if repaired {
		mark = "🔧"
		label += " (" + action + ")"
	}
	fmt.Fprintf(w, "  %s %s: %v\n", mark, label, ids)
}

// logCommand prints the configured log file.
func logCommand(ctx context.Context, a *app, args []string) error {
	fs := a.flagSet("log")
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if a.cfg.LogFile == "" {
		fmt.Fprintln(a.io.Out, "No log file configured (set log_file or PILE_LOG_FILE).")
		return nil
	}
	if _, err := os.Stat(a.cfg.LogFile); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(a.io.Out, "Log file is empty.")
		return nil
	}
	return logging.TailLog(ctx, a.io.Out, a.cfg.LogFile, *n, *follow)
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
