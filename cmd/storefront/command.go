package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/juju/gnuflag"
)

// Info describes a command for usage output.
type Info struct {
	Name    string
	Args    string
	Purpose string
}

func (i *Info) Usage() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", i.Name, i.Args))
}

// Command is one storefront sub-command.
type Command interface {
	Info() *Info
	SetFlags(f *gnuflag.FlagSet)
	Init(args []string) error
	Run(ctx context.Context, e *env) error
}

// funcCommand builds a Command out of closures that share the command's
// parsed arguments.
type funcCommand struct {
	info     Info
	setFlags func(f *gnuflag.FlagSet)
	init     func(args []string) error
	run      func(ctx context.Context, e *env) error
}

func (c *funcCommand) Info() *Info {
	return &c.info
}

func (c *funcCommand) SetFlags(f *gnuflag.FlagSet) {
	if c.setFlags != nil {
		c.setFlags(f)
	}
}

func (c *funcCommand) Init(args []string) error {
	if c.init == nil {
		return checkEmpty(args)
	}
	return c.init(args)
}

func (c *funcCommand) Run(ctx context.Context, e *env) error {
	return c.run(ctx, e)
}

var registry = map[string]func() Command{}

func register(factory func() Command) {
	registry[factory().Info().Name] = factory
}

func lookupCommand(name string) (Command, bool) {
	factory, ok := registry[name]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// parseCommand parses flags and positional arguments, allowing flags after
// positionals.
func parseCommand(c Command, args []string) error {
	f := gnuflag.NewFlagSet(c.Info().Name, gnuflag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(true, args); err != nil {
		return err
	}
	if err := c.Init(f.Args()); err != nil {
		return fmt.Errorf("%s: %w (usage: storefront %s)", c.Info().Name, err, c.Info().Usage())
	}
	return nil
}

func printUsage(w io.Writer) {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "usage: storefront [--offline] [--json] [--env-file FILE] [--log-level LEVEL] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, name := range names {
		info := registry[name]().Info()
		fmt.Fprintf(w, "  %-48s %s\n", info.Usage(), info.Purpose)
	}
}

func checkEmpty(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unrecognized args: %q", args)
	}
	return nil
}

// positional assigns args to dst in order and fails on a count mismatch.
func positional(args []string, dst ...*string) error {
	if len(args) < len(dst) {
		return fmt.Errorf("expected %d argument(s), got %d", len(dst), len(args))
	}
	for i, d := range dst {
		*d = args[i]
	}
	return checkEmpty(args[len(dst):])
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
