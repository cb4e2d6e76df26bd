package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Command is one entry of the interactive menu.
type Command int

const (
	CommandExit Command = iota
	CommandList
	CommandAdd
	CommandDelete
	CommandUpdate
	CommandStats
	CommandRandom
	CommandSearch
	CommandSort
	CommandHistogram
	CommandRender
)

// ErrInvalidChoice reports menu input that does not name a command.
var ErrInvalidChoice = errors.New("invalid menu choice")

var commandNames = [...]string{
	CommandExit:      "exit",
	CommandList:      "list movies",
	CommandAdd:       "add movie",
	CommandDelete:    "delete movie",
	CommandUpdate:    "update movie",
	CommandStats:     "stats",
	CommandRandom:    "random movie",
	CommandSearch:    "search movie",
	CommandSort:      "movies sorted by rating",
	CommandHistogram: "rating histogram",
	CommandRender:    "generate website",
}

// Commands returns every command in menu order.
func Commands() []Command {
	out := make([]Command, 0, len(commandNames))
	for i := range commandNames {
		out = append(out, Command(i))
	}
	return out
}

func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return "command(" + strconv.Itoa(int(c)) + ")"
	}
	return commandNames[c]
}

// Label is the title-cased name shown in the menu.
func (c Command) Label() string {
	return cases.Title(language.English).String(c.String())
}

// ParseCommand maps a menu choice such as "3" to its command.
func ParseCommand(input string) (Command, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 0 || n >= len(commandNames) {
		return 0, fmt.Errorf("%w: %q (enter a number between 0 and %d)", ErrInvalidChoice, strings.TrimSpace(input), len(commandNames)-1)
	}
	return Command(n), nil
}

// MenuText renders the numbered menu.
func MenuText() string {
	var b strings.Builder
	b.WriteString("\n********** Movies Database **********\n")
	b.WriteString("Menu:\n")
	for _, cmd := range Commands() {
		fmt.Fprintf(&b, "%d. %s\n", int(cmd), cmd.Label())
	}
	return b.String()
}
