// Package jsengine evaluates JavaScript load conditions and locator templates of view definitions.
//
// Scripts see a `page` object querying the bound context with string locators
// (see by.Parse):
//
//	page.displayed("id=spinner") == false && page.count("css=tr") >= 3
package jsengine

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dop251/goja"

	"github.com/devicelab-dev/pageview/pkg/by"
	"github.com/devicelab-dev/pageview/pkg/condition"
	"github.com/devicelab-dev/pageview/pkg/core"
	"github.com/devicelab-dev/pageview/pkg/logger"
)

// Engine wraps a goja runtime bound to one context at a time.
type Engine struct {
	runtime   *goja.Runtime
	variables map[string]interface{}
	ctx       core.Context
	fault     error // programming error raised by a page function during the current run
	mu        sync.Mutex
}

// New creates a new JS engine instance
func New() *Engine {
	e := &Engine{
		runtime:   goja.New(),
		variables: make(map[string]interface{}),
	}

	e.setupBuiltins()
	return e
}

// setupBuiltins registers all built-in functions and objects
func (e *Engine) setupBuiltins() {
	e.setupConsole()

	// JSON helper
	e.runtime.Set("json", e.jsonFunc())

	// Page queries against the bound context
	e.runtime.Set("page", e.pageObject())
}

// setupConsole routes console.log, console.error and console.warn to the logger.
func (e *Engine) setupConsole() {
	makeConsoleFunc := func(log func(string, ...interface{})) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			args := make([]string, len(call.Arguments))
			for i, arg := range call.Arguments {
				args[i] = fmt.Sprintf("%v", arg.Export())
			}
			log("js: %s", strings.Join(args, " "))
			return goja.Undefined()
		}
	}

	console := e.runtime.NewObject()
	console.Set("log", makeConsoleFunc(logger.Info))
	console.Set("error", makeConsoleFunc(logger.Error))
	console.Set("warn", makeConsoleFunc(logger.Warn))
	e.runtime.Set("console", console)
}

// jsonFunc returns the json() helper function
func (e *Engine) jsonFunc() func(call goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			panic(e.runtime.NewTypeError("json requires 1 argument"))
		}

		str := call.Arguments[0].String()

		result, err := e.runtime.RunString(fmt.Sprintf("JSON.parse(%q)", str))
		if err != nil {
			panic(e.runtime.NewTypeError(fmt.Sprintf("invalid JSON: %v", err)))
		}

		return result
	}
}

// Bind sets the context page queries run against.
func (e *Engine) Bind(ctx core.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ctx = ctx
}

// SetVariable sets a variable accessible in JS as a global
func (e *Engine) SetVariable(name string, value interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.variables[name] = value
	e.runtime.Set(name, value)
}

// SetVariables sets multiple variables
func (e *Engine) SetVariables(vars map[string]interface{}) {
	for k, v := range vars {
		e.SetVariable(k, v)
	}
}

// Compile checks script for syntax errors.
func Compile(script string) (*goja.Program, error) {
	prog, err := goja.Compile("", script, false)
	if err != nil {
		return nil, core.ErrInvalidDefinition.WithMessagef("invalid script %q", script).WithCause(err)
	}
	return prog, nil
}

// Eval evaluates a JavaScript expression and returns the result
func (e *Engine) Eval(script string) (interface{}, error) {
	prog, err := Compile(script)
	if err != nil {
		return nil, err
	}
	return e.run(prog)
}

func (e *Engine) run(prog *goja.Program) (interface{}, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.fault = nil
	result, err := e.runtime.RunProgram(prog)
	if e.fault != nil {
		return nil, e.fault
	}
	if err != nil {
		return nil, core.ErrConditionFailed.WithMessage("JS eval error").WithCause(err)
	}

	return result.Export(), nil
}

// EvalString evaluates a JavaScript expression and returns string result
func (e *Engine) EvalString(script string) (string, error) {
	result, err := e.Eval(script)
	if err != nil {
		return "", err
	}

	if result == nil {
		return "", nil
	}

	return fmt.Sprintf("%v", result), nil
}

// Condition compiles script into a load condition. Every evaluation binds the engine
// to the context returned by ctx first. The script must evaluate to a boolean.
func (e *Engine) Condition(script string, ctx func() (core.Context, error)) (condition.Func, error) {
	prog, err := Compile(script)
	if err != nil {
		return nil, err
	}
	return func() (bool, error) {
		c, err := ctx()
		if err != nil {
			return false, err
		}
		e.Bind(c)
		v, err := e.run(prog)
		if err != nil {
			return false, err
		}
		ok, isBool := v.(bool)
		if !isBool {
			return false, core.ErrInvalidDefinition.WithMessagef("condition %q returned %T, want a boolean", script, v)
		}
		return ok, nil
	}, nil
}

// ExpandVariables expands ${...} expressions in a string using JS evaluation.
// Expressions that fail to evaluate are left as-is.
func (e *Engine) ExpandVariables(text string) (string, error) {
	result := text
	start := 0

	for {
		idx := strings.Index(result[start:], "${")
		if idx == -1 {
			break
		}
		idx += start

		// Find matching }
		depth := 1
		end := idx + 2
		for end < len(result) && depth > 0 {
			if result[end] == '{' {
				depth++
			} else if result[end] == '}' {
				depth--
			}
			end++
		}

		if depth != 0 {
			start = idx + 2
			continue
		}

		expr := result[idx+2 : end-1]

		value, err := e.EvalString(expr)
		if err != nil {
			// If evaluation fails, leave as-is
			start = end
			continue
		}

		result = result[:idx] + value + result[end:]
		start = idx + len(value)
	}

	return result, nil
}

// pageObject returns the page global.
func (e *Engine) pageObject() *goja.Object {
	obj := e.runtime.NewObject()

	obj.Set("present", func(locator string) bool {
		ok, err := e.handle(locator).IsPresent()
		e.check(err)
		return ok
	})

	obj.Set("displayed", func(locator string) bool {
		ok, err := e.handle(locator).IsDisplayed()
		e.check(err)
		return ok
	})

	obj.Set("count", func(locator string) int {
		found, err := e.selection().LocateAll(e.parse(locator))
		if err != nil && !core.IsNotFound(err) {
			e.check(err)
		}
		return len(found)
	})

	obj.Set("text", func(locator string) string {
		found, err := e.selection().Locate(e.parse(locator))
		if err != nil {
			e.check(err)
			return ""
		}
		t, ok := found.(core.Texter)
		if !ok {
			return ""
		}
		text, err := t.Text()
		e.check(err)
		return text
	})

	obj.Set("attr", func(locator, name string) string {
		found, err := e.selection().Locate(e.parse(locator))
		if err != nil {
			e.check(err)
			return ""
		}
		a, ok := found.(core.Attributed)
		if !ok {
			return ""
		}
		value, err := a.Attribute(name)
		e.check(err)
		return value
	})

	return obj
}

func (e *Engine) selection() core.Selection {
	if e.ctx == nil {
		e.fail(core.ErrNoContext.WithMessage("script queried the page before a context was bound"))
	}
	return e.ctx.Find()
}

func (e *Engine) handle(locator string) core.Element {
	return e.selection().Element(e.parse(locator))
}

func (e *Engine) parse(locator string) core.Locator {
	l, err := by.Parse(locator)
	if err != nil {
		e.fail(err)
	}
	return l
}

// check aborts the script on programming errors; other errors surface as JS exceptions.
func (e *Engine) check(err error) {
	if err == nil {
		return
	}
	if core.IsProgrammingError(err) {
		e.fail(err)
	}
	if core.IsNotFound(err) {
		return
	}
	panic(e.runtime.NewGoError(err))
}

func (e *Engine) fail(err error) {
	e.fault = err
	panic(e.runtime.NewGoError(err))
}
