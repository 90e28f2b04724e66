package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalDesk/internal/model"
)

func pathTo(final float64) model.ForecastPath {
	d := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	return model.ForecastPath{
		{Date: d, Price: (100 + final) / 2},
		{Date: model.NextWeekday(d), Price: final},
	}
}

func TestPlan_Buy(t *testing.T) {
	plan, err := Plan(100, pathTo(106), model.Buy, DefaultStopPct)
	require.NoError(t, err)
	require.True(t, plan.Traded())

	assert.InDelta(t, 97, *plan.StopLoss, 1e-9)
	assert.InDelta(t, 106, *plan.TakeProfit, 1e-9)
	assert.InDelta(t, 2, *plan.RiskReward, 1e-9)
	assert.Equal(t, model.PositionModerate, plan.PositionSize)
	assert.Equal(t, model.RiskBudgetTraded, plan.RiskPerTrade)
}

func TestPlan_StrongSell(t *testing.T) {
	plan, err := Plan(100, pathTo(94), model.StrongSell, DefaultStopPct)
	require.NoError(t, err)

	assert.InDelta(t, 103, *plan.StopLoss, 1e-9)
	assert.InDelta(t, 94, *plan.TakeProfit, 1e-9)
	assert.InDelta(t, 0.5, *plan.RiskReward, 1e-9)
	assert.Equal(t, model.PositionHigh, plan.PositionSize)
}

func TestPlan_Hold(t *testing.T) {
	plan, err := Plan(100, pathTo(101), model.Hold, DefaultStopPct)
	require.NoError(t, err)

	assert.False(t, plan.Traded())
	assert.Nil(t, plan.StopLoss)
	assert.Nil(t, plan.TakeProfit)
	assert.Nil(t, plan.RiskReward)
	assert.Equal(t, model.PositionNone, plan.PositionSize)
	assert.Equal(t, model.RiskBudgetNone, plan.RiskPerTrade)
}

func TestPlan_EveryTradedClassIsComplete(t *testing.T) {
	for _, class := range []model.SignalClass{
		model.StrongSell, model.Sell, model.WeakSell, model.WeakBuy, model.Buy, model.StrongBuy,
	} {
		final := 104.0
		if class.IsSell() {
			final = 96
		}
		plan, err := Plan(100, pathTo(final), class, DefaultStopPct)
		require.NoError(t, err, class.String())
		require.NotNil(t, plan.StopLoss, class.String())
		require.NotNil(t, plan.TakeProfit, class.String())
		require.NotNil(t, plan.RiskReward, class.String())
	}
}

func TestPlan_InvalidPrice(t *testing.T) {
	_, err := Plan(0, pathTo(1), model.Buy, DefaultStopPct)
	assert.ErrorIs(t, err, model.ErrInvalidPrice)

	_, err = Plan(-5, pathTo(1), model.Hold, DefaultStopPct)
	assert.ErrorIs(t, err, model.ErrInvalidPrice)

	// A sell whose target equals the current price has no risk distance.
	_, err = Plan(100, pathTo(100), model.Sell, DefaultStopPct)
	assert.ErrorIs(t, err, model.ErrInvalidPrice)
}
