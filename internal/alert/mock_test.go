package alert

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/coronalert/pkg/covidapi"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) FetchReports(ctx context.Context, filters covidapi.Filters) (*covidapi.ReportsResponse, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*covidapi.ReportsResponse), args.Error(1)
}

func (m *mockClient) FetchRegions(ctx context.Context) (*covidapi.RegionsResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*covidapi.RegionsResponse), args.Error(1)
}

func strPtr(s string) *string { return &s }
