package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/nickyhof/GridDB"
	"github.com/nickyhof/GridDB/core"
	"github.com/nickyhof/GridDB/logging"
	"github.com/nickyhof/GridDB/op"
	"github.com/nickyhof/GridDB/ps"
	"github.com/nickyhof/GridDB/query"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	baseDir := flag.String("baseDir", "", "Base directory for the database")
	gitUrl := flag.String("gitUrl", "", "Git URL to clone the database from")
	file := flag.String("file", "", "Command file to execute (non-interactive)")
	userName := flag.String("name", "GridDB", "User name for Git commits")
	userEmail := flag.String("email", "cli@griddb.local", "User email for Git commits")
	evaluator := flag.String("evaluator", "interp", "Criteria evaluator: interp, sqlite or duckdb")
	ids := flag.String("ids", "rowcount", "Id policy: rowcount or max")
	debug := flag.Bool("debug", false, "Log operation timings")
	gitToken := flag.String("gitToken", "", "Token for .push and .pull over HTTPS")
	flag.Parse()

	level := slog.LevelWarn
	if *debug {
		level = slog.LevelDebug
	}
	logging.Init(level, os.Stderr)

	fail := func(err error) {
		fmt.Println(paint(red, "Error: "+err.Error()))
		os.Exit(1)
	}

	fmt.Printf("\n%s\n%s\n\nType .help for commands, .quit to exit\n\n",
		paint(bold+cyan, "GridDB v"+Version), paint(cyan, "Git-backed row store"))

	var (
		instance *GridDB.Instance
		err      error
	)
	switch {
	case *baseDir == "":
		fmt.Println(paint(green, "Using memory persistence"))
		instance, err = GridDB.OpenMemory()
	case *gitUrl != "":
		fmt.Println(paint(green, "Using file persistence: "+*baseDir+" (from "+*gitUrl+")"))
		instance, err = GridDB.OpenFile(*baseDir, gitUrl)
	default:
		fmt.Println(paint(green, "Using file persistence: "+*baseDir))
		instance, err = GridDB.OpenFile(*baseDir, nil)
	}
	if err != nil {
		fail(err)
	}

	eval, closeEvaluator, err := query.Open(*evaluator)
	if err != nil {
		fail(err)
	}
	defer closeEvaluator()

	idPolicy, ok := op.ParseIDPolicy(*ids)
	if !ok {
		fail(fmt.Errorf("unknown id policy %q", *ids))
	}

	cli := &CLI{
		engine: instance.Engine(core.Identity{Name: *userName, Email: *userEmail},
			op.Options{Evaluator: eval, IDs: idPolicy, Debug: *debug}),
		out:         os.Stdout,
		historyFile: historyPath(),
	}
	if *gitToken != "" {
		cli.auth = &ps.RemoteAuth{Type: ps.AuthTypeToken, Token: *gitToken}
	}
	cli.loadHistory()

	if *file != "" {
		if err := cli.runFile(*file); err != nil {
			fail(err)
		}
		return
	}
	cli.run(os.Stdin)
}
