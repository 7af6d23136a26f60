package variables

import (
	"context"

	"github.com/goliatone/go-uimodel/pkg/model"
	"github.com/goliatone/go-uimodel/pkg/workflow"
)

// Chain runs resolvers in order, feeding each the previous result.
type Chain []workflow.Resolver

var _ workflow.Resolver = Chain(nil)

// Resolve implements workflow.Resolver.
func (c Chain) Resolve(ctx context.Context, ui *model.UIModel) (*model.UIModel, error) {
	current := ui
	for _, resolver := range c {
		if resolver == nil {
			continue
		}
		next, err := resolver.Resolve(ctx, current)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}
