package binder

import (
	"fmt"
	"strings"

	"github.com/AndreyAkinshin/toolpin/internal/frontend"
	"github.com/AndreyAkinshin/toolpin/internal/taskgraph"
	"github.com/AndreyAkinshin/toolpin/internal/toolchain"
)

// Classifier decides whether a task belongs to the test role.
type Classifier int

const (
	// ByName treats every task whose name contains "test" (any case) as a test task,
	// whatever the task does.
	ByName Classifier = iota
	// ByCategory uses the task's explicit Category tag.
	ByCategory
)

func (c Classifier) String() string {
	if c == ByCategory {
		return "category"
	}
	return "name"
}

// ParseClassifier parses a configuration name. An empty name is ByName.
func ParseClassifier(s string) (Classifier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "name":
		return ByName, nil
	case "category":
		return ByCategory, nil
	}
	return ByName, fmt.Errorf("unknown task classifier %q (expected name or category)", s)
}

// IsTest reports whether t is a test task.
func (c Classifier) IsTest(t *taskgraph.Task) bool {
	if c == ByCategory {
		return t.Category == taskgraph.CategoryTest
	}
	return strings.Contains(strings.ToLower(t.Name), "test")
}

// IsBenchmark reports whether t belongs to the benchmark harness: it is tagged with
// the benchmark front-end or its name contains "jmh" (any case).
func IsBenchmark(t *taskgraph.Task) bool {
	return t.Kind == frontend.Benchmark || strings.Contains(strings.ToLower(t.Name), "jmh")
}

// RoleOf returns the reporting role of t. Benchmark tasks run with the test
// toolchain whatever their name, so they belong to no role.
func (c Classifier) RoleOf(t *taskgraph.Task) (toolchain.Role, bool) {
	if IsBenchmark(t) {
		return 0, false
	}
	if c.IsTest(t) {
		return toolchain.RoleTest, true
	}
	return toolchain.RoleMain, true
}
