package filter

import (
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	env        func(RunInfo) map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		helperFuncs: createHelperFunctions(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
	cache       *lruCache
}

// Compile compiles an expression into an executable filter. Expressions are
// type checked against the RunInfo fields, so unknown names fail here rather
// than at evaluation.
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(c.environment(RunInfo{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		env:        c.environment,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// environment builds the evaluation environment for one run
func (c *exprCompiler) environment(run RunInfo) map[string]any {
	env := make(map[string]any, len(c.helperFuncs)+24)
	maps.Copy(env, c.helperFuncs)

	env["ID"] = run.ID
	env["Game"] = run.Game
	env["Category"] = run.Category
	env["Level"] = run.Level
	env["Place"] = run.Place
	env["Time"] = run.Time
	env["Date"] = run.Date
	env["HasDate"] = run.HasDate
	env["Status"] = run.Status
	env["Verified"] = run.Verified
	env["Comment"] = run.Comment
	env["Videos"] = run.Videos
	env["HasVideo"] = run.HasVideo
	env["Players"] = run.Players
	env["Values"] = run.Values

	// Run-specific helpers
	env["under"] = createUnderFunc(run.Time)
	env["hasValue"] = createHasValueFunc(run.Values)
	env["podium"] = createPodiumFunc(run.Place)

	return env
}

// Evaluate evaluates the filter against a run. A run the expression fails
// on does not match.
func (f *exprFilter) Evaluate(run RunInfo) bool {
	ok, err := f.Check(run)
	return err == nil && ok
}

// Check evaluates the filter against a run
func (f *exprFilter) Check(run RunInfo) (bool, error) {
	result, err := expr.Run(f.program, f.env(run))
	if err != nil {
		return false, &EvaluationError{Expression: f.expression, RunID: run.ID, Err: err}
	}
	// AsBool guarantees the result type
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// createHelperFunctions creates the run-independent helper functions
func createHelperFunctions() map[string]any {
	return map[string]any{
		// Date helpers
		"daysSince": func(t time.Time) int {
			return int(time.Since(t).Hours() / 24)
		},
		"daysAgo": func(days int) time.Time {
			return time.Now().AddDate(0, 0, -days)
		},
		"monthsAgo": func(months int) time.Time {
			return time.Now().AddDate(0, -months, 0)
		},
		"yearsAgo": func(years int) time.Time {
			return time.Now().AddDate(-years, 0, 0)
		},
		"parseDate": func(dateStr string) time.Time {
			t, _ := time.Parse("2006-01-02", dateStr)
			return t
		},
		// seconds converts a Go duration string such as "1h2m3s"; invalid
		// input yields 0
		"seconds": func(d string) float64 {
			parsed, err := time.ParseDuration(d)
			if err != nil {
				return 0
			}
			return parsed.Seconds()
		},
		// String helpers
		"contains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"startsWith": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"endsWith": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		"now":   time.Now,
	}
}

func createUnderFunc(runTime float64) func(float64) bool {
	return func(limit float64) bool {
		return runTime < limit
	}
}

func createHasValueFunc(values map[string]string) func(string, string) bool {
	return func(variable, value string) bool {
		got, ok := values[variable]
		return ok && got == value
	}
}

func createPodiumFunc(place int) func() bool {
	return func() bool {
		return place >= 1 && place <= 3
	}
}
