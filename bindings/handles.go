package main

import (
	"context"
	"sync"

	"github.com/nickyhof/GridDB"
	"github.com/nickyhof/GridDB/core"
	"github.com/nickyhof/GridDB/db"
	"github.com/nickyhof/GridDB/op"
)

var bindingIdentity = core.Identity{
	Name:  "GridDB Bindings",
	Email: "bindings@griddb.local",
}

// handle is an open database instance.
type handle struct {
	instance *GridDB.Instance
	engine   *db.Engine
	mu       sync.Mutex
}

var (
	handlesMu  sync.Mutex
	handles    = make(map[int]*handle)
	nextHandle = 1
)

func register(instance *GridDB.Instance) int {
	handlesMu.Lock()
	defer handlesMu.Unlock()

	id := nextHandle
	nextHandle++
	handles[id] = &handle{
		instance: instance,
		engine:   instance.Engine(bindingIdentity, op.Options{}),
	}
	return id
}

func openMemory() int {
	instance, err := GridDB.OpenMemory()
	if err != nil {
		return -1
	}
	return register(instance)
}

func openFile(path string) int {
	instance, err := GridDB.OpenFile(path, nil)
	if err != nil {
		return -1
	}
	return register(instance)
}

func closeHandle(id int) {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	delete(handles, id)
}

func lookup(id int) (*handle, bool) {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	h, ok := handles[id]
	return h, ok
}

// execute runs one JSON command against handle id and returns the JSON
// response, without a trailing newline.
func execute(id int, command string) string {
	var resp db.Response
	if h, ok := lookup(id); !ok {
		resp = db.Response{Success: false, Type: "error", Error: "invalid handle"}
	} else if cmd, err := db.DecodeCommand([]byte(command)); err != nil {
		resp = db.ErrorResponse(err)
	} else {
		h.mu.Lock()
		resp = db.NewResponse(h.engine.ExecuteContext(context.Background(), cmd))
		h.mu.Unlock()
	}

	data, err := db.EncodeResponse(resp)
	if err != nil {
		data, _ = db.EncodeResponse(db.ErrorResponse(err))
	}
	return string(data[:len(data)-1])
}
