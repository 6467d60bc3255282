package host

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"go.starlark.net/starlark"
)

// Host lifecycle errors. Fatal to the call that raised them; the caller
// must correct state rather than retry.
var (
	ErrAlreadyInitialized = errors.New("already initialized")
	ErrNotInitialized     = errors.New("not initialized")
	ErrNoCallback         = errors.New("no frame callback registered")
	ErrDisposed           = errors.New("host disposed")
)

// ScriptError is a contained guest-script failure, delivered to the
// registered error handler with the source line attached when one could be
// recovered from the interpreter.
type ScriptError struct {
	// Entry is the entry point that was executing, e.g. the frame callback
	// name or the script file name during load.
	Entry string
	// Line is the 1-based source line, or 0 when unknown.
	Line int
	// Message is the interpreter's failure text, without backtrace.
	Message string

	err error
}

func (e *ScriptError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s (line %d): %s", e.Entry, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Entry, e.Message)
}

func (e *ScriptError) Unwrap() error {
	return e.err
}

// rawLinePattern matches the ":<line>:" or ":<line>:<col>:" position syntax
// the interpreter embeds in raw error text, e.g. "game.star:7:3: ...".
var rawLinePattern = regexp.MustCompile(`:(\d+)(?::\d+)?:`)

// newScriptError normalizes an interpreter failure. Structured eval errors
// carry a call stack whose innermost frame names the failing line; anything
// else falls back to scraping a position out of the raw text.
func newScriptError(entry string, err error) *ScriptError {
	se := &ScriptError{Entry: entry, Message: err.Error(), err: err}

	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		se.Message = evalErr.Msg
		for i := len(evalErr.CallStack) - 1; i >= 0; i-- {
			if line := int(evalErr.CallStack[i].Pos.Line); line > 0 {
				se.Line = line
				break
			}
		}
		return se
	}

	if m := rawLinePattern.FindStringSubmatch(err.Error()); m != nil {
		if line, convErr := strconv.Atoi(m[1]); convErr == nil {
			se.Line = line
		}
	}
	return se
}
