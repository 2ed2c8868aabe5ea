package records

import (
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-tableview/pkg/types"
)

var (
	programMu    sync.RWMutex
	programCache = make(map[string]*vm.Program)
)

// Expression is a compiled boolean record filter such as
// `amount > 100 && status == "open"`. Record data keys are top level
// variables, together with _id, _createdAt and _updatedAt.
type Expression struct {
	source  string
	program *vm.Program
}

// CompileExpression parses and type checks source. Compiled programs are
// shared across controllers.
func CompileExpression(source string) (*Expression, error) {
	source = strings.TrimSpace(source)
	program, err := compileProgram(source)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "records: invalid filter expression").
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(map[string]any{"expression": source})
	}
	return &Expression{source: source, program: program}, nil
}

func compileProgram(source string) (*vm.Program, error) {
	programMu.RLock()
	if program, ok := programCache[source]; ok {
		programMu.RUnlock()
		return program, nil
	}
	programMu.RUnlock()

	programMu.Lock()
	defer programMu.Unlock()
	if program, ok := programCache[source]; ok {
		return program, nil
	}
	program, err := expr.Compile(source, expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return nil, err
	}
	programCache[source] = program
	return program, nil
}

// Source returns the expression text.
func (e *Expression) Source() string {
	if e == nil {
		return ""
	}
	return e.source
}

// Match evaluates the expression against a record. Evaluation errors and
// non boolean results do not match.
func (e *Expression) Match(record types.Record) bool {
	if e == nil {
		return true
	}
	out, err := expr.Run(e.program, expressionEnv(record))
	if err != nil {
		return false
	}
	matched, ok := out.(bool)
	return ok && matched
}

func expressionEnv(record types.Record) map[string]any {
	env := make(map[string]any, len(record.Data)+3)
	for k, v := range record.Data {
		env[k] = v
	}
	env[types.SystemColumnID] = record.ID
	env[types.SystemColumnCreatedAt] = record.CreatedAt
	env[types.SystemColumnUpdatedAt] = record.UpdatedAt
	return env
}
