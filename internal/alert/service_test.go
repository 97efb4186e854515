package alert

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/coronalert/pkg/covidapi"
)

func TestService_FetchAlerts(t *testing.T) {
	mc := &mockClient{}
	filters := covidapi.Filters{ISO: strPtr("USA")}
	mc.On("FetchReports", mock.Anything, filters).
		Return(&covidapi.ReportsResponse{Data: []covidapi.Report{usReport()}}, nil)

	res, err := NewService(mc).FetchAlerts(context.Background(), filters)
	require.NoError(t, err)
	assert.Len(t, res.Records, 1)
	assert.Len(t, res.Annotations, 1)
	assert.Equal(t, filters, res.Filters)
	assert.False(t, res.FetchedAt.IsZero())
	mc.AssertExpectations(t)
}

func TestService_FetchAlerts_ErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
	}{
		{"transport", &covidapi.TransportError{Op: "reports", Err: errors.New("connection refused")}, KindNetwork},
		{"status", &covidapi.TransportError{Op: "reports", StatusCode: 500, Err: errors.New("boom")}, KindNetwork},
		{"decode", &covidapi.DecodeError{Op: "reports", Err: errors.New("bad json")}, KindDecode},
		{"context", context.DeadlineExceeded, KindNetwork},
		{"bad date filter", &covidapi.FilterError{Field: "date", Value: "08/19/2020", Err: errors.New("want YYYY-MM-DD")}, KindInvalidFilter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc := &mockClient{}
			mc.On("FetchReports", mock.Anything, covidapi.Filters{}).Return(nil, tt.err)

			res, err := NewService(mc).FetchAlerts(context.Background(), covidapi.Filters{})
			assert.Nil(t, res)
			require.Error(t, err)

			var fe *FetchError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.kind, fe.Kind)
			assert.Equal(t, tt.kind == KindNetwork, IsNetwork(err))
			assert.Equal(t, tt.kind == KindDecode, IsDecode(err))
			assert.Equal(t, tt.kind == KindInvalidFilter, IsInvalidFilter(err))
			assert.ErrorIs(t, err, tt.err)
			mc.AssertNumberOfCalls(t, "FetchReports", 1)
		})
	}
}

func TestService_FetchRegions(t *testing.T) {
	mc := &mockClient{}
	mc.On("FetchRegions", mock.Anything).
		Return(&covidapi.RegionsResponse{Data: []covidapi.RegionOnly{{ISO: "USA", Name: "US"}}}, nil)

	regions, err := NewService(mc).FetchRegions(context.Background())
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Equal(t, "USA", regions[0].ISO)
}

func TestService_AsyncDeliversOnceAndCloses(t *testing.T) {
	mc := &mockClient{}
	mc.On("FetchReports", mock.Anything, covidapi.Filters{}).
		Return(&covidapi.ReportsResponse{Data: []covidapi.Report{usReport()}}, nil)
	mc.On("FetchRegions", mock.Anything).
		Return(nil, &covidapi.DecodeError{Op: "regions", Err: errors.New("bad")})

	svc := NewService(mc)
	first := svc.FetchAlertsAsync(context.Background(), covidapi.Filters{})
	second := svc.FetchRegionsAsync(context.Background())

	out, ok := <-first
	require.True(t, ok)
	require.NoError(t, out.Err)
	assert.Len(t, out.Result.Records, 1)
	assert.Equal(t, uint64(1), out.Seq)
	_, ok = <-first
	assert.False(t, ok, "channel must close after one outcome")

	rout := <-second
	assert.Equal(t, uint64(2), rout.Seq)
	assert.True(t, IsDecode(rout.Err))
	_, ok = <-second
	assert.False(t, ok)
}

func TestService_Snapshot(t *testing.T) {
	mc := &mockClient{}
	mc.On("FetchReports", mock.Anything, covidapi.Filters{}).
		Return(&covidapi.ReportsResponse{Data: []covidapi.Report{usReport()}}, nil)
	mc.On("FetchRegions", mock.Anything).
		Return(&covidapi.RegionsResponse{Data: []covidapi.RegionOnly{{ISO: "USA", Name: "US"}}}, nil)

	snap, err := NewService(mc).Snapshot(context.Background(), covidapi.Filters{})
	require.NoError(t, err)
	assert.Len(t, snap.Result.Records, 1)
	assert.Len(t, snap.Regions, 1)
}

func TestService_SnapshotReportsFailure(t *testing.T) {
	mc := &mockClient{}
	mc.On("FetchReports", mock.Anything, covidapi.Filters{}).
		Return(nil, &covidapi.TransportError{Op: "reports", Err: errors.New("down")})
	mc.On("FetchRegions", mock.Anything).
		Return(&covidapi.RegionsResponse{Data: []covidapi.RegionOnly{}}, nil).Maybe()

	snap, err := NewService(mc).Snapshot(context.Background(), covidapi.Filters{})
	assert.Nil(t, snap)
	assert.True(t, IsNetwork(err))
}

func TestService_SnapshotKeepsReportsWhenRegionsFail(t *testing.T) {
	mc := &mockClient{}
	mc.On("FetchReports", mock.Anything, covidapi.Filters{}).
		Return(&covidapi.ReportsResponse{Data: []covidapi.Report{usReport()}}, nil)
	mc.On("FetchRegions", mock.Anything).
		Return(nil, &covidapi.TransportError{Op: "regions", StatusCode: 500, Err: errors.New("boom")})

	snap, err := NewService(mc).Snapshot(context.Background(), covidapi.Filters{})
	require.NoError(t, err)
	require.NotNil(t, snap.Result)
	assert.Len(t, snap.Result.Records, 1)
	assert.Empty(t, snap.Regions)
	assert.True(t, IsNetwork(snap.RegionsErr))
}
