package op

import (
	"github.com/nickyhof/GridDB/logging"
	"github.com/nickyhof/GridDB/query"
)

// Options configures a Registry and the sessions it opens. The zero value
// uses the in-process interpreter, row-count ids and no timing output.
type Options struct {
	Evaluator query.Evaluator
	IDs       IDPolicy
	Debug     bool
	// Log receives timing lines when Debug is set. Defaults to the process
	// logger at debug level.
	Log func(string)
}

func (o Options) withDefaults() Options {
	if o.Evaluator == nil {
		o.Evaluator = query.Interpreter{}
	}
	if o.IDs == nil {
		o.IDs = RowCountIDs{}
	}
	if o.Log == nil {
		o.Log = func(msg string) {
			logging.WithComponent("timing").Debug(msg)
		}
	}
	return o
}

func (o Options) instrument() Instrument {
	return Instrument{Enabled: o.Debug, Log: o.Log}
}
