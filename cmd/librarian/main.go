// Package main provides the entry point for the librarian command-line catalog.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/listenupapp/librarian/internal/config"
	"github.com/listenupapp/librarian/internal/di"
	"github.com/listenupapp/librarian/internal/errors"
	"github.com/listenupapp/librarian/internal/logger"
	"github.com/listenupapp/librarian/internal/media/covers"
	"github.com/listenupapp/librarian/internal/service"
)

const exitUsage = 2

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, rest, err := config.LoadConfig(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(stderr)
			return 0
		}
		fmt.Fprintf(stderr, "librarian: %v\n", err)
		return exitUsage
	}
	if len(rest) == 0 {
		printUsage(stderr)
		return exitUsage
	}

	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "librarian: unknown command %q\n", rest[0])
		printUsage(stderr)
		return exitUsage
	}

	injector := di.NewContainer(cfg)
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(stderr, "librarian: %v\n", err)
		return exitCode(err)
	}
	log := do.MustInvoke[*logger.Logger](injector)
	defer func() {
		if err := injector.Shutdown(); err != nil {
			log.Error("Shutdown error", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{
		injector: injector,
		lib:      do.MustInvoke[*service.Library](injector),
		renderer: do.MustInvoke[covers.Renderer](injector),
		log:      log,
		in:       stdin,
		out:      stdout,
		errOut:   stderr,
	}

	if err := cmd.run(ctx, a, rest[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "librarian %s: %v\n", rest[0], err)
		return exitCode(err)
	}
	return 0
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	var ue *usageError
	if errors.As(err, &ue) {
		return exitUsage
	}
	return errors.CodeOf(err).ExitCode()
}

// usageError reports bad command-line input.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: librarian [global flags] <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, name := range commandNames() {
		fmt.Fprintf(w, "  %-8s %s\n", name, commands[name].summary)
	}
}
