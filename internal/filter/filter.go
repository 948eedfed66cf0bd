// Package filter evaluates CEL expressions against log entries.
//
// Expressions see these variables:
//
//	id        int     entry id
//	name      string  entry name
//	type_name string  entry type, e.g. "double[]"
//	metadata  string  raw metadata
//	json      dyn     metadata parsed as a JSON object, or an empty map
//	ts        int     record timestamp in microseconds
//	size      int     payload size in bytes
//
// For example: name.startsWith("/drive/") && json.unit == "m".
package filter

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
)

// Fields is the data an expression is evaluated against.
type Fields struct {
	ID        uint32
	Name      string
	Type      string
	Metadata  string
	JSON      map[string]any
	Timestamp uint64
	Size      int
}

// Filter is a compiled expression. The zero value and a filter compiled
// from an empty expression match everything.
type Filter struct {
	prog    cel.Program
	enabled bool
}

// Compile parses and type checks expr. The expression must evaluate to a
// bool.
func Compile(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Filter{enabled: false}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("id", cel.IntType),
		cel.Variable("name", cel.StringType),
		cel.Variable("type_name", cel.StringType),
		cel.Variable("metadata", cel.StringType),
		cel.Variable("json", cel.DynType),
		cel.Variable("ts", cel.IntType),
		cel.Variable("size", cel.IntType),
	)
	if err != nil {
		return Filter{}, err
	}
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return Filter{}, fmt.Errorf("invalid filter %q: %w", expr, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) && !ast.OutputType().IsExactType(cel.DynType) {
		return Filter{}, fmt.Errorf("invalid filter %q: result is %s, not bool", expr, ast.OutputType())
	}
	prog, err := env.Program(ast)
	if err != nil {
		return Filter{}, err
	}
	return Filter{prog: prog, enabled: true}, nil
}

// Enabled reports whether the filter was compiled from a non-empty
// expression.
func (f Filter) Enabled() bool {
	return f.enabled
}

// Match evaluates the filter. Evaluation errors, such as a missing JSON
// field, count as no match.
func (f Filter) Match(in Fields) bool {
	if !f.enabled {
		return true
	}
	js := in.JSON
	if js == nil {
		js = map[string]any{}
	}
	out, _, err := f.prog.Eval(map[string]any{
		"id":        int64(in.ID),
		"name":      in.Name,
		"type_name": in.Type,
		"metadata":  in.Metadata,
		"json":      js,
		"ts":        int64(in.Timestamp),
		"size":      int64(in.Size),
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
