package pipeline_test

import (
	"context"
	"fmt"

	"github.com/promptable/taskops/cache"
	"github.com/promptable/taskops/fallback"
	"github.com/promptable/taskops/pipeline"
	"github.com/promptable/taskops/task"
)

func Example() {
	exec := func(ctx context.Context, input string) (task.Result, error) {
		return task.Result{
			Input:          input,
			Classification: task.Classification{Type: task.TypeCalculation},
			Success:        true,
			Output:         "12",
		}, nil
	}

	p := pipeline.New(exec,
		cache.New(cache.DefaultConfig()),
		fallback.NewManager(fallback.DefaultConfig()),
	)
	p.Start()
	defer p.Close()

	ctx := context.Background()
	first, _ := p.Process(ctx, "what is 15% of 80")
	second, _ := p.Process(ctx, "what is 15% of 80")
	fmt.Println(first.Output, first.CacheHit)
	fmt.Println(second.Output, second.CacheHit)
	// Output:
	// 12 false
	// 12 true
}
