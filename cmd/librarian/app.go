package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/samber/do/v2"

	"github.com/listenupapp/librarian/internal/domain"
	"github.com/listenupapp/librarian/internal/logger"
	"github.com/listenupapp/librarian/internal/media/covers"
	"github.com/listenupapp/librarian/internal/service"
)

// app holds what every command needs.
type app struct {
	injector do.Injector
	lib      *service.Library
	renderer covers.Renderer
	log      *logger.Logger

	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

// command is one librarian subcommand.
type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// flagSet returns a subcommand flag set that reports errors instead of exiting.
func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("librarian "+name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// parse parses args, turning flag errors into usage errors.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return err
		}
		return &usageError{err: err}
	}
	return nil
}

// confirm asks a yes/no question on the terminal. Anything but y or yes is no.
func (a *app) confirm(question string) bool {
	fmt.Fprintf(a.errOut, "%s [y/N] ", question)
	line, _ := bufio.NewReader(a.in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// listFlag collects a repeatable string flag.
type listFlag []string

func (f *listFlag) String() string { return strings.Join(*f, ",") }

func (f *listFlag) Set(v string) error {
	*f = append(*f, v)
	return nil
}

// selectionFlags registers the flags that choose books for bulk operations.
type selectionFlags struct {
	all     bool
	ids     listFlag
	matches listFlag
}

func (s *selectionFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&s.all, "all", false, "Select every book")
	fs.Var(&s.ids, "id", "Select the book with this ID (repeatable)")
	fs.Var(&s.matches, "match", `Select books matching "title|author|year[|genre]" (repeatable)`)
}

func (s *selectionFlags) selection() (service.Selection, error) {
	sel := service.Selection{All: s.all, IDs: s.ids}
	for _, m := range s.matches {
		k, err := domain.ParseKey(m)
		if err != nil {
			return service.Selection{}, &usageError{err: err}
		}
		sel.Keys = append(sel.Keys, k)
	}
	return sel, nil
}
