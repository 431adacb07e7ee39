package common

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
)

type RouteCreationContext struct {
	API huma.API
}

// AddHumaRoute registers handler for op, deriving the operation id and summary when they are left empty.
func AddHumaRoute[I, O any](rctx RouteCreationContext, handler func(context.Context, *I) (*O, error), op huma.Operation) {
	if op.OperationID == "" {
		op.OperationID = huma.GenerateOperationID(op.Method, op.Path, new(O))
	}
	if op.Summary == "" {
		op.Summary = huma.GenerateSummary(op.Method, op.Path, new(O))
	}
	huma.Register(rctx.API, op, handler)
}
