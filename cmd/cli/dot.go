package main

import (
	"fmt"
	"slices"
)

type dotCommand struct {
	names            []string
	usage            string
	help             string
	minArgs, maxArgs int
	run              func(cli *CLI, args []string) error
}

// dotCommands is filled in init since some commands call back into
// handleCommand.
var dotCommands []*dotCommand

func init() {
	dotCommands = []*dotCommand{
		{
			names: []string{".help", ".h", ".?"}, usage: ".help", help: "Show this help message",
			run: func(cli *CLI, _ []string) error { cli.printHelp(); return nil },
		},
		{
			names: []string{".quit", ".exit", ".q"}, usage: ".quit", help: "Exit the CLI",
			run: func(*CLI, []string) error { return errQuit },
		},
		{
			names: []string{".tables"}, usage: ".tables", help: "List all tables",
			run: func(cli *CLI, _ []string) error { cli.execute("tables"); return nil },
		},
		{
			names: []string{".use"}, usage: ".use <table>", help: "Set the table used when a command omits one",
			minArgs: 1, maxArgs: 1,
			run: func(cli *CLI, args []string) error {
				cli.table = args[0]
				cli.okf("Using table: %s", cli.table)
				return nil
			},
		},
		{
			names: []string{".read"}, usage: ".read <file>", help: "Execute commands from a file",
			minArgs: 1, maxArgs: 1,
			run: func(cli *CLI, args []string) error { return cli.runFile(args[0]) },
		},
		{
			names: []string{".remote"}, usage: ".remote <name> <url>", help: "Add a git remote",
			minArgs: 2, maxArgs: 2,
			run: func(cli *CLI, args []string) error {
				if err := cli.engine.AddRemote(args[0], args[1]); err != nil {
					return err
				}
				cli.okf("Added remote %s", args[0])
				return nil
			},
		},
		{
			names: []string{".push"}, usage: ".push [remote]", help: "Push commits (origin by default)",
			maxArgs: 1,
			run: func(cli *CLI, args []string) error {
				if err := cli.engine.Push(arg(args, 0), cli.auth); err != nil {
					return err
				}
				cli.okf("Pushed")
				return nil
			},
		},
		{
			names: []string{".pull"}, usage: ".pull [remote] [branch]", help: "Pull commits from a remote branch",
			maxArgs: 2,
			run: func(cli *CLI, args []string) error {
				if err := cli.engine.Pull(arg(args, 0), arg(args, 1), cli.auth); err != nil {
					return err
				}
				cli.okf("Pulled")
				return nil
			},
		},
		{
			names: []string{".history"}, usage: ".history", help: "Show command history",
			run: func(cli *CLI, _ []string) error { cli.printHistory(); return nil },
		},
		{
			names: []string{".clear", ".cls"}, usage: ".clear", help: "Clear the screen",
			run: func(cli *CLI, _ []string) error { fmt.Fprint(cli.out, "\033[H\033[2J"); return nil },
		},
		{
			names: []string{".version"}, usage: ".version", help: "Show version info",
			run: func(cli *CLI, _ []string) error { fmt.Fprintf(cli.out, "GridDB version %s\n", Version); return nil },
		},
	}
}

var commandUsage = []string{
	"create <table> Id,<col>,...",
	"drop <table>",
	"tables",
	"describe [table]",
	"findAll [table]",
	"findOne [table] {criteria}",
	"findWhere [table] {criteria}",
	"insert [table] {data}",
	"update [table] {criteria} {data}",
	"delete [table] {criteria}",
	"export [table] <path|file://|http(s)://|s3://>",
	"import <table> <path|file://|http(s)://|s3://>",
	"history [table]",
	"restore [table] <transaction>",
}

func lookupDot(name string) *dotCommand {
	for _, dc := range dotCommands {
		if slices.Contains(dc.names, name) {
			return dc
		}
	}
	return nil
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
