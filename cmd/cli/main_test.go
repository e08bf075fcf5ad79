package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/go-git/go-git/v6"

	"github.com/nickyhof/GridDB"
	"github.com/nickyhof/GridDB/core"
	"github.com/nickyhof/GridDB/db"
	"github.com/nickyhof/GridDB/op"
)

func setupTestCLI(t *testing.T) (*CLI, *bytes.Buffer) {
	instance, err := GridDB.OpenMemory()
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}

	engine := instance.Engine(core.Identity{
		Name:  "test",
		Email: "test@test.com",
	}, op.Options{})

	var out bytes.Buffer
	return &CLI{
		engine:  engine,
		out:     &out,
		history: make([]string, 0),
	}, &out
}

func TestCLICreateInsertFind(t *testing.T) {
	cli, out := setupTestCLI(t)

	for _, line := range []string{
		"create users Id,Name,Age",
		`insert users {"Name":"Alice","Age":30}`,
		`insert users {"Name":"Bob","Age":25}`,
	} {
		if !cli.execute(line) {
			t.Fatalf("%s failed: %s", line, out.String())
		}
	}
	if !strings.Contains(out.String(), "Id 2") {
		t.Errorf("Expected inserted Id in output, got: %s", out.String())
	}

	out.Reset()
	if !cli.execute(`findWhere users {"Age":30}`) {
		t.Fatalf("findWhere failed: %s", out.String())
	}
	if !strings.Contains(out.String(), "Alice") || strings.Contains(out.String(), "Bob") {
		t.Errorf("Unexpected findWhere output: %s", out.String())
	}
	if !strings.Contains(out.String(), "1 rows") {
		t.Errorf("Expected row count, got: %s", out.String())
	}
}

func TestCLIUseTable(t *testing.T) {
	cli, out := setupTestCLI(t)
	cli.execute("create users Id,Name")

	if cli.execute("findAll") {
		t.Error("Expected findAll without a table to fail")
	}

	cli.handleCommand(".use users")
	if cli.table != "users" {
		t.Errorf("Expected table 'users', got '%s'", cli.table)
	}
	if !strings.Contains(cli.getPrompt(), "(users)") {
		t.Errorf("Expected table in prompt: %s", cli.getPrompt())
	}

	out.Reset()
	if !cli.execute(`insert {"Name":"Zed"}`) || !cli.execute("findAll") {
		t.Fatalf("Commands on table in use failed: %s", out.String())
	}
	if !strings.Contains(out.String(), "Zed") {
		t.Errorf("Expected inserted row, got: %s", out.String())
	}
}

func TestCLIErrors(t *testing.T) {
	cli, out := setupTestCLI(t)

	if cli.execute("findAll ghost") {
		t.Error("Expected failure for unknown table")
	}
	if !strings.Contains(out.String(), `table "ghost" not found`) {
		t.Errorf("Unexpected error output: %s", out.String())
	}

	if cli.execute("select * from ghost") {
		t.Error("Expected failure for unknown command")
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		line  string
		table string
		want  db.Command
	}{
		{"create T Id,Name, Age", "", db.Command{Action: db.ActionCreate, Table: "T", Columns: []string{"Id", "Name", "Age"}}},
		{"tables", "T", db.Command{Action: db.ActionTables}},
		{"findAll", "T", db.Command{Action: db.ActionFindAll, Table: "T"}},
		{"FINDALL U", "T", db.Command{Action: db.ActionFindAll, Table: "U"}},
		{`findOne T {"Id":1}`, "", db.Command{Action: db.ActionFindOne, Table: "T", Criteria: core.Criteria{"Id": 1}}},
		{`delete {}`, "T", db.Command{Action: db.ActionDelete, Table: "T", Criteria: core.Criteria{}}},
		{`update T {"Name":"A"} {"Age":1.5}`, "", db.Command{Action: db.ActionUpdate, Table: "T", Criteria: core.Criteria{"Name": "A"}, Data: core.Object{"Age": 1.5}}},
		{"export out.csv", "T", db.Command{Action: db.ActionExport, Table: "T", URL: "out.csv"}},
		{"import T s3://b/k.csv", "", db.Command{Action: db.ActionImport, Table: "T", URL: "s3://b/k.csv"}},
		{"history", "", db.Command{Action: db.ActionHistory}},
		{"restore T abc123", "", db.Command{Action: db.ActionRestore, Table: "T", Transaction: "abc123"}},
		{`{"action":"drop","table":"T"}`, "U", db.Command{Action: db.ActionDrop, Table: "T"}},
	}
	for _, tt := range tests {
		got, err := parseLine(tt.line, tt.table)
		if err != nil {
			t.Errorf("parseLine(%q) failed: %v", tt.line, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseLine(%q) = %+v, want %+v", tt.line, got, tt.want)
		}
	}
}

func TestParseLineErrors(t *testing.T) {
	for _, line := range []string{
		"create T",
		"findAll",
		`update T {"Name":"A"}`,
		`insert T {"Name":`,
		"import T",
		"export",
		"frobnicate T",
	} {
		if _, err := parseLine(line, ""); err == nil {
			t.Errorf("Expected error for %q", line)
		}
	}
}

func TestCLIAddToHistory(t *testing.T) {
	cli, _ := setupTestCLI(t)

	cli.addToHistory("tables")
	cli.addToHistory("tables")
	cli.addToHistory("findAll T")

	if len(cli.history) != 2 {
		t.Errorf("Expected 2 history entries, got %d", len(cli.history))
	}
}

func TestCLIHistoryLimit(t *testing.T) {
	cli, _ := setupTestCLI(t)

	for i := 0; i < 1100; i++ {
		cli.addToHistory(strings.Repeat("x", i%7+1) + string(rune('a'+i%26)))
	}

	if len(cli.history) > 1000 {
		t.Errorf("History should be limited to 1000, got %d", len(cli.history))
	}
}

func TestCLIHandleCommand(t *testing.T) {
	cli, out := setupTestCLI(t)

	for _, cmd := range []string{".help", ".history", ".version", ".tables", ".unknown"} {
		if !cli.handleCommand(cmd) {
			t.Errorf("Command %s should not exit", cmd)
		}
	}
	if !strings.Contains(out.String(), "Unknown command: .unknown") {
		t.Errorf("Expected unknown command message, got: %s", out.String())
	}
	if cli.handleCommand(".quit") {
		t.Error("Expected .quit to exit")
	}
}

func TestCLIRun(t *testing.T) {
	cli, out := setupTestCLI(t)

	cli.run(strings.NewReader("create T Id,Name\n\ninsert T {\"Name\":\"A\"}\n.quit\nfindAll T\n"))

	if len(cli.history) != 2 {
		t.Errorf("Expected 2 history entries, got %v", cli.history)
	}
	if !strings.Contains(out.String(), "Goodbye!") {
		t.Errorf("Expected goodbye, got: %s", out.String())
	}
}

func TestVersionVariable(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is a long string", 10, "this is..."},
		{"tab\there", 20, "tab here"},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.limit); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.limit, got, tt.want)
		}
	}
}

func TestRunFile(t *testing.T) {
	cli, out := setupTestCLI(t)

	content := `# seed data
create people Id,Name,Age
.use people
insert {"Name":"Alice","Age":30}
insert {"Name":"Bob","Age":25}
findWhere {"Age":25}
findAll ghost
`
	path := filepath.Join(t.TempDir(), "seed.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if err := cli.runFile(path); err != nil {
		t.Fatalf("runFile failed: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "4 succeeded, 1 failed") {
		t.Errorf("Unexpected summary: %s", output)
	}
	if !strings.Contains(output, "(1 rows)") {
		t.Errorf("Expected findWhere row count: %s", output)
	}
}

func TestRunFileNotFound(t *testing.T) {
	cli, _ := setupTestCLI(t)

	if err := cli.runFile("/nonexistent/commands.txt"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestCLIRemotePush(t *testing.T) {
	cli, out := setupTestCLI(t)

	remoteDir := t.TempDir()
	if _, err := git.PlainInit(remoteDir, true); err != nil {
		t.Fatalf("Failed to init bare remote: %v", err)
	}

	cli.execute("create T Id,Name")
	cli.handleCommand(".remote origin " + remoteDir)
	cli.handleCommand(".push")

	output := out.String()
	if !strings.Contains(output, "Added remote origin") || !strings.Contains(output, "Pushed") {
		t.Errorf("Unexpected output: %s", output)
	}

	out.Reset()
	cli.handleCommand(".remote origin")
	if !strings.Contains(out.String(), "Usage: .remote") {
		t.Errorf("Expected usage message, got: %s", out.String())
	}
}

func TestLookupDot(t *testing.T) {
	for _, name := range []string{".q", ".exit", ".cls", ".?"} {
		if lookupDot(name) == nil {
			t.Errorf("Expected %s to resolve", name)
		}
	}
	if lookupDot(".nope") != nil {
		t.Error("Expected .nope to be unknown")
	}

	seen := map[string]bool{}
	for _, dc := range dotCommands {
		for _, name := range dc.names {
			if seen[name] {
				t.Errorf("Duplicate dot command %s", name)
			}
			seen[name] = true
		}
	}
}

func TestCLIHelpListsCommands(t *testing.T) {
	cli, out := setupTestCLI(t)
	cli.handleCommand(".help")

	for _, want := range []string{".remote <name> <url>", "findWhere [table] {criteria}"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Help is missing %q", want)
		}
	}
}

func TestCLIHistoryFile(t *testing.T) {
	cli, _ := setupTestCLI(t)
	cli.historyFile = filepath.Join(t.TempDir(), "history")

	cli.addToHistory("tables")
	cli.addToHistory("findAll T")
	cli.saveHistory()

	other, _ := setupTestCLI(t)
	other.historyFile = cli.historyFile
	other.loadHistory()
	if !reflect.DeepEqual(other.history, []string{"tables", "findAll T"}) {
		t.Errorf("Unexpected loaded history: %v", other.history)
	}
}
