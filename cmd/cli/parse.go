package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nickyhof/GridDB/core"
	"github.com/nickyhof/GridDB/db"
)

var actions = map[string]db.Action{}

func init() {
	for _, a := range []db.Action{
		db.ActionCreate, db.ActionDrop, db.ActionTables, db.ActionDescribe,
		db.ActionFindAll, db.ActionFindOne, db.ActionFindWhere,
		db.ActionInsert, db.ActionUpdate, db.ActionDelete,
		db.ActionImport, db.ActionExport, db.ActionHistory, db.ActionRestore,
	} {
		actions[strings.ToLower(string(a))] = a
	}
}

// parseLine turns "<action> [table] [args...]" into a command. A line that
// starts with { is decoded as a JSON command. table fills in an omitted
// table name.
func parseLine(line, table string) (db.Command, error) {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "{") {
		return db.DecodeCommand([]byte(line))
	}

	verb, rest, _ := strings.Cut(line, " ")
	action, ok := actions[strings.ToLower(verb)]
	if !ok {
		return db.Command{}, fmt.Errorf("unknown command %q", verb)
	}
	rest = strings.TrimSpace(rest)
	cmd := db.Command{Action: action, Table: table}

	// An explicit table is any leading word that is not a JSON object.
	explicit := func() {
		if rest == "" || strings.HasPrefix(rest, "{") {
			return
		}
		name, tail, _ := strings.Cut(rest, " ")
		cmd.Table = name
		rest = strings.TrimSpace(tail)
	}

	switch action {
	case db.ActionTables:
		cmd.Table = ""

	case db.ActionCreate:
		name, columns, _ := strings.Cut(rest, " ")
		if name == "" || strings.TrimSpace(columns) == "" {
			return db.Command{}, errors.New("usage: create <table> Id,<col>,...")
		}
		cmd.Table = name
		for _, col := range strings.Split(columns, ",") {
			cmd.Columns = append(cmd.Columns, strings.TrimSpace(col))
		}

	case db.ActionDrop, db.ActionDescribe, db.ActionFindAll, db.ActionHistory:
		explicit()

	case db.ActionFindOne, db.ActionFindWhere, db.ActionDelete:
		explicit()
		objects, err := decodeObjects(rest, 1)
		if err != nil {
			return db.Command{}, err
		}
		cmd.Criteria = core.Criteria(objects[0])

	case db.ActionInsert:
		explicit()
		objects, err := decodeObjects(rest, 1)
		if err != nil {
			return db.Command{}, err
		}
		cmd.Data = objects[0]

	case db.ActionUpdate:
		explicit()
		objects, err := decodeObjects(rest, 2)
		if err != nil {
			return db.Command{}, err
		}
		cmd.Criteria = core.Criteria(objects[0])
		cmd.Data = objects[1]

	case db.ActionImport:
		fields := strings.Fields(rest)
		if len(fields) != 2 {
			return db.Command{}, errors.New("usage: import <table> <location>")
		}
		cmd.Table, cmd.URL = fields[0], fields[1]

	case db.ActionExport, db.ActionRestore:
		fields := strings.Fields(rest)
		switch len(fields) {
		case 1:
		case 2:
			cmd.Table, fields = fields[0], fields[1:]
		default:
			return db.Command{}, fmt.Errorf("usage: %s [table] <argument>", action)
		}
		if action == db.ActionExport {
			cmd.URL = fields[0]
		} else {
			cmd.Transaction = fields[0]
		}
	}

	if cmd.Table == "" && action != db.ActionTables && action != db.ActionHistory {
		return db.Command{}, fmt.Errorf("%s: no table given and none in use", action)
	}
	return cmd, nil
}

// decodeObjects reads exactly n JSON objects from s. Numbers become int or
// float64.
func decodeObjects(s string, n int) ([]core.Object, error) {
	decoder := json.NewDecoder(bytes.NewReader([]byte(s)))
	decoder.UseNumber()

	objects := make([]core.Object, 0, n)
	for {
		var obj core.Object
		err := decoder.Decode(&obj)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid JSON argument: %w", err)
		}
		if obj == nil {
			obj = core.Object{}
		}
		for k, v := range obj {
			obj[k] = core.NormalizeCell(v)
		}
		objects = append(objects, obj)
	}

	if len(objects) != n {
		return nil, fmt.Errorf("expected %d JSON object(s), got %d", n, len(objects))
	}
	return objects, nil
}
