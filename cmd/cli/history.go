package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const historyLimit = 1000

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".griddb_history")
}

// addToHistory records line unless it repeats the previous entry.
func (cli *CLI) addToHistory(line string) {
	if n := len(cli.history); n > 0 && cli.history[n-1] == line {
		return
	}
	cli.history = append(cli.history, line)
	if over := len(cli.history) - historyLimit; over > 0 {
		cli.history = cli.history[over:]
	}
}

func (cli *CLI) printHistory() {
	if len(cli.history) == 0 {
		fmt.Fprintln(cli.out, "No command history")
		return
	}
	for i := max(len(cli.history)-20, 0); i < len(cli.history); i++ {
		fmt.Fprintf(cli.out, "  %3d  %s\n", i+1, cli.history[i])
	}
}

func (cli *CLI) loadHistory() {
	if cli.historyFile == "" {
		return
	}
	f, err := os.Open(cli.historyFile)
	if err != nil {
		return
	}
	defer f.Close()

	for scanner := bufio.NewScanner(f); scanner.Scan(); {
		cli.addToHistory(scanner.Text())
	}
}

func (cli *CLI) saveHistory() {
	if cli.historyFile == "" || len(cli.history) == 0 {
		return
	}
	data := strings.Join(cli.history, "\n") + "\n"
	_ = os.WriteFile(cli.historyFile, []byte(data), 0o600)
}
