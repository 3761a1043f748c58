package filter

// Filter decides whether a run is kept
type Filter interface {
	// Evaluate checks if a run matches the filter criteria
	Evaluate(run RunInfo) bool
}

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	Filter

	// Expression returns the original filter expression
	Expression() string

	// Check evaluates the filter and reports runtime failures instead of
	// treating them as a non-match
	Check(run RunInfo) (bool, error)
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}
