package taskgraph

import "github.com/AndreyAkinshin/toolpin/internal/frontend"

// Conventional returns the default tasks of a front-end, used when the project
// declares no tasks of its own.
func Conventional(kind frontend.Kind) []*Task {
	switch kind {
	case frontend.Primary:
		return []*Task{
			{Name: "compileJava", Kind: kind, Action: ActionCompile, Category: CategoryMain},
			{Name: "compileTestJava", Kind: kind, Action: ActionCompile, Category: CategoryTest, DependsOn: []string{"compileJava"}},
			{Name: "test", Kind: kind, Action: ActionExecute, Category: CategoryTest, DependsOn: []string{"compileTestJava"}},
		}
	case frontend.Secondary:
		return []*Task{
			{Name: "compileKotlin", Kind: kind, Action: ActionCompile, Category: CategoryMain},
			{Name: "compileTestKotlin", Kind: kind, Action: ActionCompile, Category: CategoryTest, DependsOn: []string{"compileKotlin"}},
		}
	case frontend.Benchmark:
		return []*Task{
			{Name: "compileJmhJava", Kind: kind, Action: ActionCompile},
			{Name: "jmh", Kind: kind, Action: ActionExecute, DependsOn: []string{"compileJmhJava"}},
		}
	}
	return nil
}

// AddConventional adds the conventional tasks of every kind for which active is true.
func AddConventional(g *Graph, active func(frontend.Kind) bool) error {
	for _, kind := range frontend.Kinds {
		if !active(kind) {
			continue
		}
		for _, t := range Conventional(kind) {
			if err := g.Add(t); err != nil {
				return err
			}
		}
	}
	return nil
}
