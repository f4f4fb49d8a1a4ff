package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/veridian-group/esia-cli/internal/catalog"
	"github.com/veridian-group/esia-cli/internal/engine"
)

// mockEngine implements engine.Engine for orchestrator tests.
type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) Extract(ctx context.Context, sectionText string, tmpl catalog.Template) (*engine.Result, error) {
	args := m.Called(ctx, sectionText, tmpl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engine.Result), args.Error(1)
}
