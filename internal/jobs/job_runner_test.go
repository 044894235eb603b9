package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bike-rental-marketplace/internal/config"
	"bike-rental-marketplace/internal/domain"
)

type MockCourier struct {
	mock.Mock
}

func (m *MockCourier) ExecutePickups(date time.Time) int {
	args := m.Called(date)
	return args.Int(0)
}

func (m *MockCourier) ExecuteDropoffs() int {
	args := m.Called()
	return args.Int(0)
}

type MockQuoteKeeper struct {
	mock.Mock
}

func (m *MockQuoteKeeper) PurgeExpiredQuotes(ctx context.Context) int {
	args := m.Called(ctx)
	return args.Int(0)
}

func newRunner() (*JobRunner, *MockCourier, *MockQuoteKeeper) {
	courier := new(MockCourier)
	quotes := new(MockQuoteKeeper)
	jr := NewJobRunner(courier, quotes, config.SchedulerConfig{ExecutePickups: "0 0 7 * * *"})
	jr.now = func() time.Time { return time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC) }
	return jr, courier, quotes
}

func TestJobRunner_ExecutePickupsUsesToday(t *testing.T) {
	jr, courier, _ := newRunner()
	courier.On("ExecutePickups", domain.Date(2024, 6, 1)).Return(3)

	jr.ExecutePickups()

	courier.AssertExpectations(t)
}

func TestJobRunner_RunByName(t *testing.T) {
	ctx := context.Background()
	jr, courier, quotes := newRunner()
	courier.On("ExecutePickups", mock.Anything).Return(0)
	courier.On("ExecuteDropoffs").Return(2)
	quotes.On("PurgeExpiredQuotes", ctx).Return(1)

	require.NoError(t, jr.Run(ctx, JobExecuteDropoffs))
	courier.AssertNumberOfCalls(t, "ExecuteDropoffs", 1)
	courier.AssertNotCalled(t, "ExecutePickups", mock.Anything)

	require.NoError(t, jr.Run(ctx, "all"))
	courier.AssertNumberOfCalls(t, "ExecutePickups", 1)
	courier.AssertNumberOfCalls(t, "ExecuteDropoffs", 2)
	quotes.AssertNumberOfCalls(t, "PurgeExpiredQuotes", 1)

	assert.Error(t, jr.Run(ctx, "send-invoices"))
	assert.Equal(t, "0 0 7 * * *", jr.Config().ExecutePickups)
}

func TestJobRunner_RecoversFromPanic(t *testing.T) {
	jr, _, _ := newRunner()
	jr.courier = panickingCourier{}

	assert.NotPanics(t, func() {
		jr.ExecuteDropoffs()
	})
}

type panickingCourier struct{}

func (panickingCourier) ExecutePickups(time.Time) int { panic("van broke down") }
func (panickingCourier) ExecuteDropoffs() int         { panic("van broke down") }
