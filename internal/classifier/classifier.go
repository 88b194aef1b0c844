// Package classifier maps free-text task descriptions to a category.
// It is a best-effort enrichment step on the task-creation path: on
// any failure (timeout, service error, unparseable response) it
// returns the unassigned category, never an error. Task creation must
// always succeed regardless of classifier health.
package classifier

import (
	"context"

	"github.com/mindweek/mw/internal/types"
)

// Classifier maps a task description to exactly one category.
// Implementations never fail; unclassifiable input degrades to
// types.CategoryUnassigned and the user re-categorizes by editing the
// task.
type Classifier interface {
	Classify(ctx context.Context, description string) types.Category
}

// Func adapts a plain function to the Classifier interface. Used in
// tests and wherever the AI backend is unavailable.
type Func func(ctx context.Context, description string) types.Category

// Classify calls f.
func (f Func) Classify(ctx context.Context, description string) types.Category {
	return f(ctx, description)
}

// Unassigned is the null classifier: everything maps to "Allgemein".
// Used when no API key is configured.
var Unassigned Classifier = Func(func(context.Context, string) types.Category {
	return types.CategoryUnassigned
})
