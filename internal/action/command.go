package action

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-errors/errors"
	shellquote "github.com/kballard/go-shellquote"
)

// ErrUnknownCommand is returned when a command line names no registered
// command.
var ErrUnknownCommand = errors.New("unknown command")

// A Command contains information about how to execute a command.
// It has the action for that command and a usage line.
type Command struct {
	action func(*App, []string) error
	usage  string
}

var commands map[string]Command

// InitCommands resets the command map to the built-in commands.
func InitCommands() {
	commands = map[string]Command{
		"open": {(*App).OpenCmd, "open <form>"},
		"list": {(*App).ListCmd, "list"},
	}
}

// Register adds a command. Names are unique; registering a taken name is an
// error.
func Register(name, usage string, action func(*App, []string) error) error {
	if commands == nil {
		InitCommands()
	}
	if name == "" || strings.ContainsAny(name, " \t") {
		return errors.Errorf("invalid command name %q", name)
	}
	if _, ok := commands[name]; ok {
		return errors.Errorf("command %q already registered", name)
	}
	if usage == "" {
		usage = name
	}
	commands[name] = Command{action, usage}
	return nil
}

// Unregister removes a command. Removing an unknown name is a no-op.
func Unregister(name string) {
	delete(commands, name)
}

// Commands returns the registered command names, sorted.
func Commands() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Usage returns the usage line of a command.
func Usage(name string) string {
	return commands[name].usage
}

// RunCmd runs the command called name with already split args.
func (a *App) RunCmd(name string, args ...string) error {
	if commands == nil {
		InitCommands()
	}
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return cmd.action(a, args)
}

// RunCmdLine splits line with shell quoting rules and runs it.
// Ex.: RunCmdLine(`open "team retro.yaml"`)
func (a *App) RunCmdLine(line string) error {
	parts, err := shellquote.Split(line)
	if err != nil {
		return errors.Errorf("error parsing args: %v", err)
	}
	if len(parts) == 0 {
		return nil
	}
	return a.RunCmd(parts[0], parts[1:]...)
}
