package fallback

import (
	"github.com/promptable/taskops/task"
)

// Strategy identifies one fallback approach. Strategies are tried in chain
// order; the first one that produces a response wins.
type Strategy string

const (
	// StrategyLocalOnly answers with canned on-device guidance for task
	// types that have a manual alternative.
	StrategyLocalOnly Strategy = "local_only"

	// StrategyCloudOnly would retry through a reduced-cost cloud path.
	// No such path is wired yet, so it always declines.
	StrategyCloudOnly Strategy = "cloud_only"

	// StrategyGracefulDegradation returns a reassuring partial response.
	// It never declines.
	StrategyGracefulDegradation Strategy = "graceful_degradation"

	// StrategyErrorResponse returns the terminal, user-friendly error.
	// It never declines.
	StrategyErrorResponse Strategy = "error_response"
)

// strategyChains maps each task type to its ordered strategy list. Types with
// a sensible manual alternative lead with local guidance; content-producing
// types lead with the cloud path.
var strategyChains = map[task.Type][]Strategy{
	task.TypeFileOperation:  {StrategyLocalOnly, StrategyGracefulDegradation, StrategyErrorResponse},
	task.TypeSystemQuery:    {StrategyLocalOnly, StrategyGracefulDegradation, StrategyErrorResponse},
	task.TypeAppControl:     {StrategyLocalOnly, StrategyGracefulDegradation, StrategyErrorResponse},
	task.TypeAutomation:     {StrategyLocalOnly, StrategyGracefulDegradation, StrategyErrorResponse},
	task.TypeHelp:           {StrategyLocalOnly, StrategyGracefulDegradation, StrategyErrorResponse},
	task.TypeTextProcessing: {StrategyCloudOnly, StrategyGracefulDegradation, StrategyErrorResponse},
	task.TypeWebQuery:       {StrategyCloudOnly, StrategyGracefulDegradation, StrategyErrorResponse},
	task.TypeCalculation:    {StrategyCloudOnly, StrategyGracefulDegradation, StrategyErrorResponse},
}

var defaultChain = []Strategy{StrategyGracefulDegradation, StrategyErrorResponse}

func chainFor(t task.Type) []Strategy {
	if chain, ok := strategyChains[t]; ok {
		return chain
	}
	return defaultChain
}

// localGuidance holds the canned manual-alternative responses served by the
// local-only strategy. Task types without an entry make the strategy decline.
var localGuidance = map[task.Type]string{
	task.TypeFileOperation: "I couldn't complete that file operation automatically. " +
		"You can do it manually in Finder: select the files, then drag them to the " +
		"destination folder, or right-click for copy, move, and delete options.",
	task.TypeSystemQuery: "I couldn't read that system information automatically. " +
		"System Settings and the menu bar status icons show battery, storage, " +
		"network, and display details directly.",
	task.TypeAppControl: "I couldn't control that app automatically. " +
		"Apps can be opened from the Dock or with Spotlight (press Command-Space " +
		"and type the app name), and quit with Command-Q.",
	task.TypeAutomation: "I couldn't run that automation. The Shortcuts app can do " +
		"it manually: open Shortcuts, create a new shortcut, and add the steps one " +
		"at a time.",
	task.TypeHelp: "I can help with file operations, app control, system questions, " +
		"calculations, text processing, web lookups, and simple automations. " +
		"Describe what to do in plain words, like \"move my screenshots to a folder\".",
}

// attempt runs one strategy. ok reports whether the strategy produced a
// response; a false return advances the chain.
func (m *Manager) attempt(strategy Strategy, input string, cls task.Classification, cause error) (task.Result, bool) {
	switch strategy {
	case StrategyLocalOnly:
		guidance, ok := localGuidance[cls.Type]
		if !ok {
			return task.Result{}, false
		}
		return task.Result{
			Input:          input,
			Classification: cls,
			Route:          task.RouteLocal,
			Success:        true,
			Output:         guidance,
		}, true

	case StrategyCloudOnly:
		// TODO: wire the reduced-cost cloud model once the pipeline grows a
		// second executor; until then the chain falls through to degradation.
		return task.Result{}, false

	case StrategyGracefulDegradation:
		return task.Result{
			Input:          input,
			Classification: cls,
			Route:          task.RouteLocal,
			Success:        true,
			Output:         degradedMessage(cls.Type),
		}, true

	case StrategyErrorResponse:
		return m.terminalResult(input, cls, cause), true
	}
	return task.Result{}, false
}

// terminalResult is the end of every chain: an honest failure with a
// user-friendly explanation and concrete recovery suggestions.
func (m *Manager) terminalResult(input string, cls task.Classification, cause error) task.Result {
	return task.Result{
		Input:          input,
		Classification: cls,
		Route:          task.RouteLocal,
		Success:        false,
		Output:         friendlyMessage(cause) + recoverySuggestions,
		Err:            cause,
	}
}
