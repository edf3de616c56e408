package task

import "time"

// Type identifies the kind of work a task represents.
type Type string

const (
	TypeFileOperation  Type = "file_operation"
	TypeAppControl     Type = "app_control"
	TypeSystemQuery    Type = "system_query"
	TypeTextProcessing Type = "text_processing"
	TypeCalculation    Type = "calculation"
	TypeWebQuery       Type = "web_query"
	TypeAutomation     Type = "automation"
	TypeHelp           Type = "help"
	TypeUnknown        Type = "unknown"
)

// Complexity grades how involved a task is.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
	ComplexityAdvanced Complexity = "advanced"
)

// Route identifies where a task is processed.
type Route string

const (
	RouteLocal Route = "local"
	RouteCloud Route = "cloud"
)

// Classification is the classifier's verdict on a free-text input.
// Immutable once created; copies are cheap and safe to share.
type Classification struct {
	// Type is the best-guess task type.
	Type Type

	// Confidence is in [0, 1].
	Confidence float64

	// Parameters holds extracted arguments (paths, app names, expressions).
	Parameters map[string]string

	// Complexity grades the task.
	Complexity Complexity

	// Route is where the classifier wants the task processed.
	Route Route
}

// Result is the outcome of processing a task, successful or not.
type Result struct {
	// Input is the original free-text input.
	Input string

	// Classification is the verdict the result was produced under.
	Classification Classification

	// Route is the route that actually produced the result.
	Route Route

	// Success reports whether the result is usable.
	Success bool

	// Output is the user-facing response text.
	Output string

	// ExecutionTime is how long processing took.
	ExecutionTime time.Duration

	// TokensUsed counts model tokens consumed, if any.
	TokensUsed int

	// Cost is the monetary cost of producing the result, if any.
	Cost float64

	// CacheHit reports whether the result was served from cache.
	CacheHit bool

	// Err is the failure cause when Success is false.
	Err error
}

// Clone returns a copy of the result. Parameter maps are copied so the
// original is never aliased by callers that mutate the clone.
func (r Result) Clone() Result {
	out := r
	if r.Classification.Parameters != nil {
		params := make(map[string]string, len(r.Classification.Parameters))
		for k, v := range r.Classification.Parameters {
			params[k] = v
		}
		out.Classification.Parameters = params
	}
	return out
}
