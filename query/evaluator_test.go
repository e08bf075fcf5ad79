package query_test

import (
	"testing"

	"github.com/nickyhof/GridDB/core"
	. "github.com/nickyhof/GridDB/query"
	"gotest.tools/assert"
)

var rows = []core.Row{
	{1, "A", 1},
	{2, "B", 2},
	{3, "A", 3},
	{4, "C", "1"},
}

// evaluatorCases runs the shared expectations against any evaluator.
func evaluatorCases(t *testing.T, e Evaluator) {
	t.Run("conjunction", func(t *testing.T) {
		pred, _ := Translate(core.Criteria{"Name": "A", "Age": 3}, columns)
		found, err := e.Evaluate(Query{Where: pred}, rows)
		assert.NilError(t, err)
		assert.Equal(t, len(found), 1)
		assert.Equal(t, found[0][0], 3)
	})

	t.Run("order preserved", func(t *testing.T) {
		pred, _ := Translate(core.Criteria{"Name": "A"}, columns)
		found, err := e.Evaluate(Query{Where: pred}, rows)
		assert.NilError(t, err)
		assert.Equal(t, len(found), 2)
		assert.Equal(t, found[0][0], 1)
		assert.Equal(t, found[1][0], 3)
	})

	t.Run("limit", func(t *testing.T) {
		pred, _ := Translate(core.Criteria{"Name": "A"}, columns)
		found, err := e.Evaluate(Query{Where: pred, Limit: 1}, rows)
		assert.NilError(t, err)
		assert.Equal(t, len(found), 1)
		assert.Equal(t, found[0][0], 1)
	})

	t.Run("number and numeric text", func(t *testing.T) {
		pred, _ := Translate(core.Criteria{"Age": 1}, columns)
		found, err := e.Evaluate(Query{Where: pred}, rows)
		assert.NilError(t, err)
		assert.Equal(t, len(found), 2)
	})

	t.Run("no match", func(t *testing.T) {
		pred, _ := Translate(core.Criteria{"Name": "Z"}, columns)
		found, err := e.Evaluate(Query{Where: pred}, rows)
		assert.NilError(t, err)
		assert.Equal(t, len(found), 0)
	})

	t.Run("empty row set", func(t *testing.T) {
		found, err := e.Evaluate(Query{}, nil)
		assert.NilError(t, err)
		assert.Equal(t, len(found), 0)
	})

	t.Run("empty predicate", func(t *testing.T) {
		found, err := e.Evaluate(Query{}, rows)
		assert.NilError(t, err)
		assert.Equal(t, len(found), len(rows))
	})
}

func TestInterpreter(t *testing.T) {
	evaluatorCases(t, Interpreter{})

	t.Run("loose numeric text", func(t *testing.T) {
		pred, _ := Translate(core.Criteria{"Age": "1.0"}, columns)
		found, err := Interpreter{}.Evaluate(Query{Where: pred}, rows)
		assert.NilError(t, err)
		assert.Equal(t, len(found), 2)
	})
}

func TestSQLite(t *testing.T) {
	e, err := NewSQLite()
	assert.NilError(t, err)
	defer e.Close()

	assert.Equal(t, e.Driver(), "sqlite")
	evaluatorCases(t, e)

	t.Run("text equality only", func(t *testing.T) {
		pred, _ := Translate(core.Criteria{"Age": "1.0"}, columns)
		found, err := e.Evaluate(Query{Where: pred}, rows)
		assert.NilError(t, err)
		assert.Equal(t, len(found), 0)
	})

	t.Run("unknown column never matches", func(t *testing.T) {
		found, err := e.Evaluate(Query{Where: Lenient(core.Criteria{"Nope": 1}, columns)}, rows)
		assert.NilError(t, err)
		assert.Equal(t, len(found), 0)
	})
}

func TestOpen(t *testing.T) {
	e, closeFn, err := Open("")
	assert.NilError(t, err)
	assert.Equal(t, e, Evaluator(Interpreter{}))
	assert.NilError(t, closeFn())

	e, closeFn, err = Open("sqlite")
	assert.NilError(t, err)
	defer closeFn()
	evaluatorCases(t, e)

	_, _, err = Open("postgres")
	assert.ErrorContains(t, err, "unknown evaluator")
}
