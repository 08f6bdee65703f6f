package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Options tune output behavior from root flags and carry the opened
// storage.
type Options struct {
	Group   bool // list grouped by pending/done
	Storage store.Storage
	Logger  *log.Logger

	Stdout, Stderr io.Writer
	Now            func() time.Time
}

func (o *Options) defaults() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	opt.defaults()
	if len(args) == 0 {
		PrintHelp(opt.Stderr)
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Stdout)
		return 0

	case "ls":
		return doList(ctx, a, opt)

	case "add":
		return doAdd(ctx, a, opt)

	case "done":
		n, code := indexArg("done", a, opt)
		if code != 0 {
			return code
		}
		return doToggle(ctx, n, opt)

	case "rm":
		n, code := indexArg("rm", a, opt)
		if code != 0 {
			return code
		}
		return doRemove(ctx, n, opt)

	case "progress":
		return doProgress(ctx, opt)

	case "theme":
		return doTheme(ctx, opt)

	case "ui":
		return doUI(ctx, opt)
	}

	ui.Fail(opt.Stderr, "unknown subcommand: "+cmd)
	fmt.Fprintln(opt.Stderr)
	PrintHelp(opt.Stderr)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `tada - dated todos with a progress chart

Usage:
  tada [flags] <subcommand> [args]

Subcommands:
  add -d <date> <text...>  Add a task for a date (YYYY-MM-DD, today, tomorrow)
  ls                       List tasks with the progress chart
  done <index>             Toggle completion for the task at 1-based index
  rm <index>               Remove the task at 1-based index
  progress                 Show only the progress chart
  theme                    Switch between dark and light
  ui                       Interactive mode

Flags:
  --group                  list grouped by pending/done
  --backend <name>         file, redis or memory
  --data-file <path>       JSON file for the file backend
  --redis-addr <host:port> Redis server for the redis backend
  --log-level <level>      debug, info, warn or error
  --color <mode>           auto, always or never
  --config <path>          config file to read

Examples:
  tada add -d 2024-01-01 Buy milk
  tada ls
  tada done 2
  tada rm 3
`)
}

// -------------- subcommand impls ----------------

// open loads the store with a renderer printing to stdout.
func open(ctx context.Context, opt Options) (*store.Store, *ui.Renderer, bool) {
	s, err := store.Open(ctx, opt.Storage, store.Options{Logger: opt.Logger})
	if err != nil {
		ui.Fail(opt.Stderr, "load: "+err.Error())
		return nil, nil, false
	}
	r := ui.NewRenderer(opt.Stdout, ui.RenderOptions{Theme: s.Theme(), Group: opt.Group})
	s.SetView(r)
	return s, r, true
}

func doList(ctx context.Context, a []string, opt Options) int {
	fs := pflag.NewFlagSet("ls", pflag.ContinueOnError)
	fs.SetOutput(opt.Stderr)
	group := fs.Bool("group", opt.Group, "group output by pending/done")
	if err := fs.Parse(a); err != nil {
		ui.Fail(opt.Stderr, "usage: tada ls [--group]")
		return 2
	}
	opt.Group = *group

	s, _, ok := open(ctx, opt)
	if !ok {
		return 1
	}
	s.RenderList()
	ui.Hint(opt.Stdout, "Tip: add with `tada add -d today \"Buy milk\"`")
	return 0
}

func doAdd(ctx context.Context, a []string, opt Options) int {
	fs := pflag.NewFlagSet("add", pflag.ContinueOnError)
	fs.SetOutput(opt.Stderr)
	rawDate := fs.StringP("date", "d", "", "due date (YYYY-MM-DD, today, tomorrow)")
	if err := fs.Parse(a); err != nil {
		ui.Fail(opt.Stderr, "usage: tada add -d <date> <text...>")
		return 2
	}
	date, err := model.ParseDate(*rawDate, opt.Now())
	if err != nil {
		ui.Fail(opt.Stderr, "add: "+err.Error())
		return 2
	}
	text := strings.Join(fs.Args(), " ")

	s, _, ok := open(ctx, opt)
	if !ok {
		return 1
	}
	added, err := s.AddTodo(ctx, text, date)
	switch {
	case errors.Is(err, store.ErrDuplicate):
		ui.Notice(opt.Stderr, "Task already exists for this date!")
		return 1
	case err != nil:
		ui.Fail(opt.Stderr, "save: "+err.Error())
		return 1
	case !added:
		// blank text or date: nothing to do
		return 0
	}
	ui.OK(opt.Stdout, "added")
	return 0
}

func doToggle(ctx context.Context, userIndex int, opt Options) int {
	s, _, ok := open(ctx, opt)
	if !ok {
		return 1
	}
	if code := indexError(s.ToggleComplete(ctx, userIndex-1), userIndex, s.Len(), opt); code != 0 {
		return code
	}
	ui.OK(opt.Stdout, "toggled")
	return 0
}

func doRemove(ctx context.Context, userIndex int, opt Options) int {
	s, _, ok := open(ctx, opt)
	if !ok {
		return 1
	}
	if code := indexError(s.DeleteTodo(ctx, userIndex-1), userIndex, s.Len(), opt); code != 0 {
		return code
	}
	ui.OK(opt.Stdout, "removed")
	return 0
}

func doProgress(ctx context.Context, opt Options) int {
	s, r, ok := open(ctx, opt)
	if !ok {
		return 1
	}
	p := r.UpdateProgress(s.Todos())
	fmt.Fprintln(opt.Stdout, r.ChartPanel())
	fmt.Fprintf(opt.Stdout, "%d of %d done (%.0f%%)\n", p.Completed, p.Total, p.Percent())
	return 0
}

func doTheme(ctx context.Context, opt Options) int {
	s, _, ok := open(ctx, opt)
	if !ok {
		return 1
	}
	next, err := s.ToggleTheme(ctx)
	if err != nil {
		ui.Fail(opt.Stderr, "save: "+err.Error())
		return 1
	}
	ui.OK(opt.Stdout, "theme: "+next.String())
	return 0
}

func doUI(ctx context.Context, opt Options) int {
	s, err := store.Open(ctx, opt.Storage, store.Options{Logger: opt.Logger})
	if err != nil {
		ui.Fail(opt.Stderr, "load: "+err.Error())
		return 1
	}
	if err := tui.Run(ctx, s, tui.Options{Logger: opt.Logger, Now: opt.Now}); err != nil {
		ui.Fail(opt.Stderr, "ui: "+err.Error())
		return 1
	}
	return 0
}

// -------------- argument helpers --------------

func indexArg(cmd string, a []string, opt Options) (int, int) {
	if len(a) != 1 {
		ui.Fail(opt.Stderr, fmt.Sprintf("usage: tada %s <index>", cmd))
		return 0, 2
	}
	n, err := strconv.Atoi(a[0])
	if err != nil {
		ui.Fail(opt.Stderr, cmd+": not a number: "+a[0])
		return 0, 2
	}
	return n, 0
}

// indexError maps a store error to an exit code, 0 for nil.
func indexError(err error, userIndex, have int, opt Options) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, store.ErrIndexOutOfRange):
		ui.Fail(opt.Stderr, fmt.Sprintf("index out of range: have %d, got %d", have, userIndex))
		ui.Hint(opt.Stderr, "Hint: run `tada ls` to see valid indexes")
		return 2
	default:
		ui.Fail(opt.Stderr, "save: "+err.Error())
		return 1
	}
}
