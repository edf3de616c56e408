package cache

import (
	"context"

	"github.com/promptable/taskops/observe"
	"github.com/promptable/taskops/task"
)

// preloadEntry is a canned answer for a frequently asked, non-personalized
// query. Preloading bypasses the caching policy: the answers below are
// instructional, not live readings, even where the input sounds like one.
type preloadEntry struct {
	input    string
	taskType task.Type
	output   string
}

var preloadEntries = []preloadEntry{
	{
		input:    "help",
		taskType: task.TypeHelp,
		output: "I can handle file operations, app control, system queries, " +
			"text processing, calculations, and web searches. " +
			"Describe what you want in plain language, e.g. " +
			"\"move my screenshots into a folder\" or \"open Safari\".",
	},
	{
		input:    "what can you do",
		taskType: task.TypeHelp,
		output: "I organize files, control apps, answer system questions, " +
			"process text, and run calculations. Just describe the task.",
	},
	{
		input:    "what's my battery level",
		taskType: task.TypeHelp,
		output: "To check the battery level, click the battery icon in the " +
			"menu bar, or open System Settings > Battery.",
	},
	{
		input:    "hello",
		taskType: task.TypeHelp,
		output:   "Hi! Describe a task and I'll take care of it. Type \"help\" to see what I can do.",
	},
}

// PreloadCommonResponses seeds the cache with canned answers to common
// queries so they hit from the first lookup after startup.
func (c *ResponseCache) PreloadCommonResponses(ctx context.Context) {
	for _, p := range preloadEntries {
		res := task.Result{
			Input: p.input,
			Classification: task.Classification{
				Type:       p.taskType,
				Confidence: 1.0,
				Complexity: task.ComplexitySimple,
				Route:      task.RouteLocal,
			},
			Route:   task.RouteLocal,
			Success: true,
			Output:  p.output,
		}
		c.store(ctx, p.input, res, c.ttlFor(p.taskType))
	}

	c.log.Info(ctx, "common responses preloaded",
		observe.Field{Key: "count", Value: len(preloadEntries)},
	)
}
