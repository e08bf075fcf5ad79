package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nickyhof/GridDB/db"
	"github.com/nickyhof/GridDB/ps"
)

const (
	bold  = "\033[1m"
	red   = "\033[31m"
	green = "\033[32m"
	cyan  = "\033[36m"
	reset = "\033[0m"
)

func paint(color, s string) string {
	return color + s + reset
}

// CLI is an interactive session on one engine.
type CLI struct {
	engine      *db.Engine
	out         io.Writer
	history     []string
	historyFile string
	table       string // used when a command names no table
	auth        *ps.RemoteAuth
}

var errQuit = errors.New("quit")

func (cli *CLI) run(in io.Reader) {
	defer cli.saveHistory()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for {
		fmt.Fprint(cli.out, cli.getPrompt())
		if !scanner.Scan() {
			fmt.Fprintln(cli.out, "\n"+paint(green, "Goodbye!"))
			return
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case strings.HasPrefix(line, "."):
			if !cli.handleCommand(line) {
				return
			}
		default:
			cli.addToHistory(line)
			cli.execute(line)
		}
	}
}

func (cli *CLI) getPrompt() string {
	if cli.table == "" {
		return paint(cyan, "griddb>") + " "
	}
	return paint(cyan, "griddb ("+cli.table+")>") + " "
}

func (cli *CLI) errorf(format string, args ...any) {
	fmt.Fprintln(cli.out, paint(red, "✗ "+fmt.Sprintf(format, args...)))
}

func (cli *CLI) okf(format string, args ...any) {
	fmt.Fprintln(cli.out, paint(green, "✓ "+fmt.Sprintf(format, args...)))
}

// execute runs one command line and renders its result. It reports whether
// the command succeeded.
func (cli *CLI) execute(line string) bool {
	result, err := cli.do(line)
	if err != nil {
		cli.errorf("Error: %v", err)
		return false
	}
	result.Render(cli.out)
	return true
}

func (cli *CLI) do(line string) (db.Result, error) {
	cmd, err := parseLine(line, cli.table)
	if err != nil {
		return nil, err
	}
	return cli.engine.Execute(cmd)
}

// handleCommand runs a dot command. It returns false when the CLI should exit.
func (cli *CLI) handleCommand(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	dc := lookupDot(name)
	if dc == nil {
		cli.errorf("Unknown command: %s (type .help for commands)", fields[0])
		return true
	}
	if len(args) < dc.minArgs || len(args) > dc.maxArgs {
		cli.errorf("Usage: %s", dc.usage)
		return true
	}

	err := dc.run(cli, args)
	if errors.Is(err, errQuit) {
		fmt.Fprintln(cli.out, paint(green, "Goodbye!"))
		return false
	}
	if err != nil {
		cli.errorf("Error: %v", err)
	}
	return true
}

func (cli *CLI) printHelp() {
	fmt.Fprintln(cli.out, "\n"+paint(bold+cyan, "Special Commands:"))
	for _, dc := range dotCommands {
		fmt.Fprintf(cli.out, "  %-18s %s\n", dc.usage, dc.help)
	}

	fmt.Fprintln(cli.out, "\n"+paint(bold+cyan, "Commands:"))
	for _, usage := range commandUsage {
		fmt.Fprintln(cli.out, "  "+usage)
	}
	fmt.Fprintln(cli.out, "\nA line starting with { is read as a JSON command, as sent to the server.")
	fmt.Fprintln(cli.out)
}
