package fallback

import (
	"strings"

	"github.com/promptable/taskops/task"
)

// classifyRules is an ordered keyword table; the first matching rule wins.
// File operations come before app control so "open the report file" is
// treated as a file task, and help phrases come first so "how do I delete a
// file" asks for guidance rather than action.
var classifyRules = []struct {
	taskType task.Type
	keywords []string
}{
	{task.TypeHelp, []string{"help", "what can you do", "how do i", "how to"}},
	{task.TypeFileOperation, []string{"file", "folder", "delete", "copy", "move", "rename", "organize", "trash", "download"}},
	{task.TypeAppControl, []string{"open", "launch", "quit", "close", "switch to", "restart"}},
	{task.TypeSystemQuery, []string{"battery", "disk", "storage", "memory", "cpu", "wifi", "network", "volume", "brightness"}},
	{task.TypeCalculation, []string{"calculate", "sum of", "percent", "convert", "how much", "+", "="}},
	{task.TypeWebQuery, []string{"search", "look up", "google", "latest", "news"}},
	{task.TypeTextProcessing, []string{"summarize", "translate", "rewrite", "draft", "write", "proofread"}},
	{task.TypeAutomation, []string{"schedule", "automate", "workflow", "every day", "every week"}},
}

const (
	matchedConfidence   = 0.6
	unmatchedConfidence = 0.2
)

// classifyLocal re-classifies an input with keyword matching only. It is a
// deliberately cheap stand-in for the primary classifier, used to choose a
// strategy chain when that classifier is unavailable.
func classifyLocal(input string) task.Classification {
	lowered := strings.ToLower(input)

	for _, rule := range classifyRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return task.Classification{
					Type:       rule.taskType,
					Confidence: matchedConfidence,
					Complexity: task.ComplexitySimple,
					Route:      task.RouteLocal,
				}
			}
		}
	}
	return task.Classification{
		Type:       task.TypeUnknown,
		Confidence: unmatchedConfidence,
		Complexity: task.ComplexitySimple,
		Route:      task.RouteLocal,
	}
}
