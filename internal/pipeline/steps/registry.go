// Package steps provides step definitions and dependency validation for the
// fixture generation pipeline.
package steps

import (
	"fmt"
	"sync"
)

// Step categories
const (
	CategoryInput   = "input"
	CategoryCompose = "compose"
	CategoryOutput  = "output"
)

// Step names
const (
	StepLoadFixture   = "load_fixture"
	StepComposeData   = "compose_data"
	StepComposeINI    = "compose_ini"
	StepWriteVariants = "write_variants"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Category     string
	Title        string
	Dependencies []string
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	StepLoadFixture: {
		Name:         StepLoadFixture,
		Category:     CategoryInput,
		Title:        "Loading fixture",
		Dependencies: []string{},
	},
	StepComposeData: {
		Name:         StepComposeData,
		Category:     CategoryCompose,
		Title:        "Composing BKMVDATA",
		Dependencies: []string{StepLoadFixture},
	},
	StepComposeINI: {
		Name:         StepComposeINI,
		Category:     CategoryCompose,
		Title:        "Composing INI",
		Dependencies: []string{StepLoadFixture, StepComposeData},
	},
	StepWriteVariants: {
		Name:         StepWriteVariants,
		Category:     CategoryOutput,
		Title:        "Writing encoding variants",
		Dependencies: []string{StepComposeData, StepComposeINI},
	},
}

// order is the sequence the pipeline runs the steps in.
var order = []string{StepLoadFixture, StepComposeData, StepComposeINI, StepWriteVariants}

// Ordered returns the step definitions in execution order.
func Ordered() []StepDefinition {
	defs := make([]StepDefinition, len(order))
	for i, name := range order {
		defs[i] = StepRegistry[name]
	}
	return defs
}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s: missing dependencies: %v", e.Step, e.MissingDependencies)
}

// ValidateDependencies checks that every dependency of stepName is in completed.
func ValidateDependencies(completed map[string]bool, stepName string) error {
	def, ok := StepRegistry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}

	var missing []string
	for _, dep := range def.Dependencies {
		if !completed[dep] {
			missing = append(missing, dep)
		}
	}

	if len(missing) > 0 {
		return &DependencyError{
			Step:                stepName,
			MissingDependencies: missing,
		}
	}
	return nil
}

// Tracker follows one pipeline run through its steps.
type Tracker struct {
	mu        sync.Mutex
	completed map[string]bool
}

// NewTracker creates a Tracker with no completed steps.
func NewTracker() *Tracker {
	return &Tracker{completed: make(map[string]bool)}
}

// Begin validates that stepName may start and returns its progress label,
// e.g. "Step 2/4: Composing BKMVDATA".
func (t *Tracker) Begin(stepName string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ValidateDependencies(t.completed, stepName); err != nil {
		return "", err
	}
	return Label(stepName), nil
}

// Complete marks stepName as done.
func (t *Tracker) Complete(stepName string) {
	t.mu.Lock()
	t.completed[stepName] = true
	t.mu.Unlock()
}

// Completed reports whether stepName has been marked done.
func (t *Tracker) Completed(stepName string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completed[stepName]
}

// Label formats the "Step i/N: Title" line for stepName.
func Label(stepName string) string {
	for i, name := range order {
		if name == stepName {
			return fmt.Sprintf("Step %d/%d: %s", i+1, len(order), StepRegistry[name].Title)
		}
	}
	return stepName
}
