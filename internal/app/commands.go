package app

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/dshills/narrowstack/internal/host"
)

// command runs one script command against the current document.
type command struct {
	usage   string
	needDoc bool
	run     func(a *Application, doc *host.Document, args []string) (string, error)
}

const (
	usageNarrow = "narrow OP [START END]"
	usagePoint  = "point OFFSET"
	usageMark   = "mark OFFSET"
	usageMode   = "mode NAME"
)

var commands = map[string]command{
	"narrow":  {usage: usageNarrow, needDoc: true, run: cmdNarrow},
	"dwim":    {usage: "dwim", needDoc: true, run: cmdDWIM},
	"widen":   {usage: "widen", needDoc: true, run: cmdWiden},
	"point":   {usage: usagePoint, needDoc: true, run: cmdPoint},
	"mark":    {usage: usageMark, needDoc: true, run: cmdMark},
	"unmark":  {usage: "unmark", needDoc: true, run: cmdUnmark},
	"mode":    {usage: usageMode, needDoc: true, run: cmdMode},
	"status":  {usage: "status", needDoc: true, run: cmdStatus},
	"print":   {usage: "print", needDoc: true, run: cmdPrint},
	"enable":  {usage: "enable", run: cmdEnable},
	"disable": {usage: "disable", run: cmdDisable},
	"ops":     {usage: "ops", run: cmdOps},
}

// Commands returns the usage line of every script command, sorted.
func Commands() []string {
	names := make([]string, 0, len(commands))
	for _, c := range commands {
		names = append(names, c.usage)
	}
	sort.Strings(names)
	return names
}

// Exec runs a single command and returns its output.
func (a *Application) Exec(line string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.exec(line)
}

func (a *Application) exec(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}

	c, ok := commands[fields[0]]
	if !ok {
		return "", fmt.Errorf("%s: %w", fields[0], ErrUnknownCommand)
	}
	if c.needDoc && a.current == nil {
		return "", ErrNoActiveDocument
	}
	return c.run(a, a.current, fields[1:])
}

// Run executes a script of commands separated by semicolons or newlines,
// writing command output to out. Blank lines and lines starting with '#'
// are skipped. Run stops at the first failing command.
func (a *Application) Run(script string, out io.Writer) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i, cmd := range splitScript(script) {
		result, err := a.exec(cmd)
		if err != nil {
			return &CommandError{Line: i + 1, Cmd: cmd, Err: err}
		}
		if result != "" {
			fmt.Fprintln(out, result)
		}
	}
	return nil
}

func splitScript(script string) []string {
	var cmds []string
	for _, line := range strings.Split(script, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, cmd := range strings.Split(line, ";") {
			if cmd = strings.TrimSpace(cmd); cmd != "" {
				cmds = append(cmds, cmd)
			}
		}
	}
	return cmds
}

// operationName expands shorthand such as "defun" to "narrow-to-defun".
func (a *Application) operationName(name string) string {
	if a.hasOperation(name) {
		return name
	}
	if full := "narrow-to-" + name; a.hasOperation(full) {
		return full
	}
	return name
}

func (a *Application) hasOperation(name string) bool {
	_, ok := a.editor.Registry().KindOf(name)
	return ok
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, s := range args {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%q is not an offset: %w", s, ErrUsage)
		}
		out[i] = n
	}
	return out, nil
}

func oneInt(args []string, usage string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: %s", ErrUsage, usage)
	}
	ns, err := parseInts(args)
	if err != nil {
		return 0, err
	}
	return ns[0], nil
}

func cmdNarrow(a *Application, doc *host.Document, args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("%w: %s", ErrUsage, usageNarrow)
	}
	offsets, err := parseInts(args[1:])
	if err != nil {
		return "", err
	}
	return "", a.editor.Invoke(a.operationName(args[0]), doc, offsets...)
}

func cmdDWIM(a *Application, doc *host.Document, _ []string) (string, error) {
	return "", a.editor.NarrowOrWiden(doc)
}

func cmdWiden(a *Application, doc *host.Document, _ []string) (string, error) {
	return "", a.editor.Widen(doc)
}

func cmdPoint(a *Application, doc *host.Document, args []string) (string, error) {
	n, err := oneInt(args, usagePoint)
	if err != nil {
		return "", err
	}
	doc.SetPoint(n)
	return "", nil
}

func cmdMark(a *Application, doc *host.Document, args []string) (string, error) {
	n, err := oneInt(args, usageMark)
	if err != nil {
		return "", err
	}
	doc.SetMark(n)
	return "", nil
}

func cmdUnmark(_ *Application, doc *host.Document, _ []string) (string, error) {
	doc.DeactivateMark()
	return "", nil
}

func cmdMode(_ *Application, doc *host.Document, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: %s", ErrUsage, usageMode)
	}
	doc.SetMode(args[0])
	return "", nil
}

func cmdStatus(a *Application, doc *host.Document, _ []string) (string, error) {
	return a.status(doc), nil
}

func cmdPrint(_ *Application, doc *host.Document, _ []string) (string, error) {
	return doc.VisibleText(), nil
}

func cmdEnable(a *Application, _ *host.Document, _ []string) (string, error) {
	a.editor.Registry().Enable()
	return "", nil
}

func cmdDisable(a *Application, _ *host.Document, _ []string) (string, error) {
	a.editor.Registry().Disable()
	return "", nil
}

func cmdOps(a *Application, _ *host.Document, _ []string) (string, error) {
	return strings.Join(a.editor.Registry().Names(), "\n"), nil
}
