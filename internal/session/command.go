package session

import "strings"

// commandKind is the closed set of script commands, resolved once at parse
// time so execution is an exhaustive switch rather than repeated string
// comparison.
type commandKind int

const (
	cmdClear commandKind = iota
	cmdFramerate
	cmdResolution
	cmdMultithreading
	cmdRun
	cmdPrint
)

type commandSpec struct {
	kind  commandKind
	arity int
}

var commandTable = map[string]commandSpec{
	"clear":          {cmdClear, 0},
	"framerate":      {cmdFramerate, 1},
	"resolution":     {cmdResolution, 2},
	"multithreading": {cmdMultithreading, 1},
	"run":            {cmdRun, 2},
	// print takes the rest of the line verbatim, no arity check.
	"print": {cmdPrint, -1},
}

// command is one parsed script line.
type command struct {
	kind commandKind
	args []string
	text string // print payload
}

// parseCommand parses one script line. ok is false for blank lines and
// comment lines (first non-whitespace character '#').
func parseCommand(line string) (cmd command, ok bool, err error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || trimmed[0] == '#' {
		return command{}, false, nil
	}

	name := strings.Fields(trimmed)[0]
	spec, known := commandTable[name]
	if !known {
		return command{}, false, &UnknownCommandError{Name: name}
	}

	if spec.kind == cmdPrint {
		return command{
			kind: cmdPrint,
			text: strings.TrimSpace(trimmed[len(name):]),
		}, true, nil
	}

	args := strings.Fields(trimmed)[1:]
	if len(args) != spec.arity {
		return command{}, false, &ArgumentCountError{
			Command: name,
			Got:     len(args),
			Want:    spec.arity,
		}
	}
	return command{kind: spec.kind, args: args}, true, nil
}
