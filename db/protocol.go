package db

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nickyhof/GridDB/core"
)

// Response is the wire envelope shared by the TCP server and the C bindings.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Type    string          `json:"type,omitempty"` // "query", "commit", "auth" or an error kind
	Result  json.RawMessage `json:"result,omitempty"`
}

// DecodeCommand parses one JSON command. Numbers in criteria and data come
// back as int or float64, never json.Number.
func DecodeCommand(data []byte) (Command, error) {
	var cmd Command
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cmd); err != nil {
		return Command{}, fmt.Errorf("invalid command: %w", err)
	}
	if cmd.Action == "" {
		return Command{}, errors.New("invalid command: action is required")
	}

	for k, v := range cmd.Criteria {
		cmd.Criteria[k] = core.NormalizeCell(v)
	}
	for k, v := range cmd.Data {
		cmd.Data[k] = core.NormalizeCell(v)
	}
	return cmd, nil
}

// NewResponse wraps the outcome of Execute.
func NewResponse(result Result, err error) Response {
	if err != nil {
		return ErrorResponse(err)
	}

	var kind string
	switch result.Type() {
	case QueryResultType:
		kind = "query"
	case CommitResultType:
		kind = "commit"
	}

	data, err := json.Marshal(result)
	if err != nil {
		return ErrorResponse(err)
	}
	return Response{Success: true, Type: kind, Result: data}
}

func ErrorResponse(err error) Response {
	return Response{Success: false, Type: ErrorKind(err), Error: err.Error()}
}

// ErrorKind names the typed error behind err, or "error".
func ErrorKind(err error) string {
	var (
		duplicate *core.DuplicateTableError
		notFound  *core.TableNotFoundError
		schema    *core.SchemaError
		column    *core.ColumnNotFoundError
	)
	switch {
	case errors.As(err, &duplicate):
		return "DuplicateTableError"
	case errors.As(err, &notFound):
		return "TableNotFoundError"
	case errors.As(err, &schema):
		return "SchemaError"
	case errors.As(err, &column):
		return "ColumnNotFoundError"
	default:
		return "error"
	}
}

// EncodeResponse serializes resp as one JSON line.
func EncodeResponse(resp Response) ([]byte, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
