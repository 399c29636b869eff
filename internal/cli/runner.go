package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/controller"
	"github.com/Makepad-fr/tada/internal/datefmt"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	Group bool // list grouped by pending/done
}

// Runner executes one subcommand against the backend.
type Runner struct {
	Ctx        context.Context
	Controller *controller.Controller
	Printer    *ui.Printer
	Options    Options
	// RunTUI starts the interactive screen for the "ui" subcommand.
	RunTUI func() error
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func (r *Runner) Run(args []string) int {
	if len(args) == 0 {
		PrintHelp(r.Printer.Out)
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(r.Printer.Out)
		return 0

	case "ls":
		return r.doList("")

	case "search":
		if len(a) == 0 {
			r.Printer.Fail("usage: todo search <query...>")
			return 2
		}
		return r.doList(strings.Join(a, " "))

	case "owners":
		return r.doOwners()

	case "add":
		fs, image := imageFlags("add")
		if err := fs.Parse(a); err != nil {
			r.Printer.Fail(err.Error())
			return 2
		}
		if fs.NArg() == 0 {
			r.Printer.Fail("usage: todo add [-image path] <text...>")
			return 2
		}
		return r.doAdd(strings.Join(fs.Args(), " "), *image)

	case "edit":
		fs, image := imageFlags("edit")
		if err := fs.Parse(a); err != nil {
			r.Printer.Fail(err.Error())
			return 2
		}
		if fs.NArg() < 2 {
			r.Printer.Fail("usage: todo edit [-image path] <index> <text...>")
			return 2
		}
		n, err := strconv.Atoi(fs.Arg(0))
		if err != nil {
			r.Printer.Fail("edit: not a number: " + fs.Arg(0))
			return 2
		}
		return r.doEdit(n, strings.Join(fs.Args()[1:], " "), *image)

	case "rm":
		if len(a) != 1 {
			r.Printer.Fail("usage: todo rm <index>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			r.Printer.Fail("rm: not a number: " + a[0])
			return 2
		}
		return r.doRemove(n)

	case "ui":
		if r.RunTUI == nil {
			r.Printer.Fail("ui: interactive mode unavailable")
			return 1
		}
		if err := r.RunTUI(); err != nil {
			r.Printer.Fail("tui: " + err.Error())
			return 1
		}
		return 0
	}

	r.Printer.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(r.Printer.Err)
	PrintHelp(r.Printer.Err)
	return 2
}

func imageFlags(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	image := fs.String("image", "", "path to an image file to attach")
	return fs, image
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `todo - terminal client for the todo REST API

Usage:
  todo [flags] <subcommand> [args]

Subcommands:
  ls                            List todos, newest first
  search <query...>             List todos matching text, YYYY-MM-DD, D/MM/YY or HH:mm
  owners                        List owners
  add [-image path] <text...>   Add a todo, optionally with an image
  edit [-image path] <i> <text...>
                                Change the text (and image) of todo at 1-based index
  rm <index>                    Remove todo at 1-based index
  ui                            Interactive screen

Examples:
  todo add "Buy milk"
  todo add -image ./milk.png "Buy milk"
  todo search 2025-08-09
  todo edit 2 "Buy oat milk"
  todo rm 3
`)
}

// -------------- subcommand impls ----------------

// load fetches todos (and owners when needed). Partial failures are fatal
// for one-shot commands since there is no screen to degrade into.
func (r *Runner) load(withOwners bool) bool {
	var err error
	if withOwners {
		err = r.Controller.Load(r.Ctx)
	} else {
		err = r.Controller.RefreshTodos(r.Ctx)
	}
	if err != nil {
		r.Printer.Fail("load: " + err.Error())
		return false
	}
	return true
}

func (r *Runner) doList(query string) int {
	if !r.load(false) {
		return 1
	}
	r.Controller.SetSearch(query)
	view := r.Controller.View()
	total := len(r.Controller.State().Todos)
	pos := r.positions()
	t := r.Printer.Theme

	d, p := stats(view)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymOK), d,
		t.Pending.Render("•"), p,
		t.Accent.Render("Total"), total,
	)

	var lines []string
	lines = append(lines, header)
	if query != "" {
		lines = append(lines, t.Muted.Render(fmt.Sprintf("search %q: %d of %d", query, len(view), total)))
	}
	lines = append(lines, "")

	loc := r.Controller.Location()
	if r.Options.Group {
		lines = append(lines, groupLines(t, view, loc, pos)...)
	} else {
		lines = append(lines, flatLines(t, view, loc, pos)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Muted.Render("Tip: add with `todo add \"Buy milk\"`"))
	r.Printer.Panel(lines)
	return 0
}

func (r *Runner) doOwners() int {
	if !r.load(true) {
		return 1
	}
	t := r.Printer.Theme
	owners := r.Controller.State().Owners
	lines := []string{t.Title.Render("Owner List"), ""}
	if len(owners) == 0 {
		lines = append(lines, t.Muted.Render("No owners found."))
	}
	loc := r.Controller.Location()
	for _, o := range owners {
		lines = append(lines,
			t.Title.Render(o.Name),
			t.Muted.Render(fmt.Sprintf("  Course: %s | Section: %s", o.CourseID, o.Section)),
			t.Muted.Render("  "+datefmt.FormatOwnerTime(o.CreatedAt, loc)),
		)
	}
	r.Printer.Panel(lines)
	return 0
}

func (r *Runner) doAdd(text, image string) int {
	r.Controller.Cancel()
	r.Controller.OpenAdd()
	r.Controller.SetInput(text)
	return r.submit("added", image)
}

func (r *Runner) doEdit(userIndex int, text, image string) int {
	it, code := r.resolve(userIndex)
	if code != 0 {
		return code
	}
	if err := r.Controller.StartEdit(it.ID); err != nil {
		r.Printer.Fail("edit: " + err.Error())
		return 1
	}
	r.Controller.SetInput(text)
	return r.submit("updated", image)
}

func (r *Runner) submit(done, image string) int {
	if err := r.Controller.SelectImage(image); err != nil {
		r.Printer.Fail("image: " + err.Error())
		return 2
	}
	if err := r.Controller.Submit(r.Ctx); err != nil {
		return r.failure("save", err)
	}
	r.Printer.OK(done)
	return 0
}

func (r *Runner) doRemove(userIndex int) int {
	it, code := r.resolve(userIndex)
	if code != 0 {
		return code
	}
	if err := r.Controller.Delete(r.Ctx, it.ID); err != nil {
		return r.failure("remove", err)
	}
	r.Printer.OK("removed")
	return 0
}

// positions numbers every todo by its 1-based place in the unfiltered
// newest-first view. Listings print these numbers and resolve reads them back.
func (r *Runner) positions() map[string]int {
	q := r.Controller.State().SearchText
	r.Controller.ClearSearch()
	all := r.Controller.View()
	r.Controller.SetSearch(q)
	pos := make(map[string]int, len(all))
	for i, it := range all {
		pos[it.ID] = i + 1
	}
	return pos
}

// resolve maps a 1-based index in `todo ls` order to a todo.
func (r *Runner) resolve(userIndex int) (model.TodoItem, int) {
	if !r.load(false) {
		return model.TodoItem{}, 1
	}
	r.Controller.ClearSearch()
	view := r.Controller.View()
	if userIndex < 1 || userIndex > len(view) {
		r.Printer.Fail(fmt.Sprintf("index out of range: have %d, got %d", len(view), userIndex))
		r.Printer.Hint("Hint: run `todo ls` to see valid indexes")
		return model.TodoItem{}, 2
	}
	return view[userIndex-1], 0
}

func (r *Runner) failure(op string, err error) int {
	r.Printer.Fail(op + ": " + err.Error())
	if controller.IsValidation(err) {
		return 2
	}
	if api.IsNetworkError(err) && api.StatusCode(err) == 0 {
		r.Printer.Hint("Hint: is the API reachable? set TODO_API_BASE or -api")
	}
	return 1
}
