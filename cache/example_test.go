package cache_test

import (
	"context"
	"fmt"

	"github.com/promptable/taskops/cache"
	"github.com/promptable/taskops/task"
)

func Example() {
	ctx := context.Background()
	c := cache.New(cache.DefaultConfig())
	defer c.Close()

	result := task.Result{
		Input: "what is 15% of 80",
		Classification: task.Classification{
			Type:       task.TypeCalculation,
			Confidence: 0.95,
			Route:      task.RouteLocal,
		},
		Route:   task.RouteLocal,
		Success: true,
		Output:  "12",
	}
	c.Store(ctx, result.Input, result)

	// Capitalization and padding do not matter; keys are normalized.
	if hit, ok := c.Lookup(ctx, "  What is 15% of 80  "); ok {
		fmt.Println(hit.Output, hit.CacheHit)
	}
	// Output: 12 true
}

func ExampleResponseCache_GetOrCompute() {
	ctx := context.Background()
	c := cache.New(cache.DefaultConfig())
	defer c.Close()

	compute := func(ctx context.Context) (task.Result, error) {
		return task.Result{
			Input:          "2+2",
			Classification: task.Classification{Type: task.TypeCalculation},
			Success:        true,
			Output:         "4",
		}, nil
	}

	first, _ := c.GetOrCompute(ctx, "2+2", compute)
	second, _ := c.GetOrCompute(ctx, "2+2", compute)
	fmt.Println(first.Output, first.CacheHit)
	fmt.Println(second.Output, second.CacheHit)
	// Output:
	// 4 false
	// 4 true
}
