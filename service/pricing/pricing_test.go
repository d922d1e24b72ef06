package pricing

import (
	"testing"
	"time"

	"clothingrental/apperr"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCompute_TwoDayTwoItems(t *testing.T) {
	q, err := Compute([]LineItem{
		{UnitPricePerDay: dec("100.00"), Quantity: 2},
		{UnitPricePerDay: dec("50.00"), Quantity: 1},
	}, date("2025-01-01"), date("2025-01-03"))
	require.NoError(t, err)

	require.EqualValues(t, 2, q.Days)
	require.Len(t, q.Subtotals, 2)
	require.True(t, q.Subtotals[0].Equal(dec("400.00")), "got %s", q.Subtotals[0])
	require.True(t, q.Subtotals[1].Equal(dec("100.00")), "got %s", q.Subtotals[1])
	require.True(t, q.Total.Equal(dec("500.00")), "got %s", q.Total)
}

func TestCompute_TotalEqualsSumOfSubtotals(t *testing.T) {
	items := []LineItem{
		{UnitPricePerDay: dec("19.99"), Quantity: 3},
		{UnitPricePerDay: dec("7.305"), Quantity: 1},
		{UnitPricePerDay: dec("0.01"), Quantity: 7},
	}
	q, err := Compute(items, date("2025-03-10"), date("2025-03-17"))
	require.NoError(t, err)

	sum := decimal.Zero
	for _, s := range q.Subtotals {
		sum = sum.Add(s)
	}
	require.True(t, q.Total.Equal(sum))
}

func TestCompute_SubtotalRoundedHalfUp(t *testing.T) {
	// 7.305 * 1 * 1 day = 7.305 -> 7.31
	q, err := Compute([]LineItem{{UnitPricePerDay: dec("7.305"), Quantity: 1}},
		date("2025-01-01"), date("2025-01-02"))
	require.NoError(t, err)
	require.True(t, q.Subtotals[0].Equal(dec("7.31")), "got %s", q.Subtotals[0])
}

func TestDays_MinimumOneDay(t *testing.T) {
	start := date("2025-01-01")
	require.EqualValues(t, 1, Days(start, start.Add(6*time.Hour)))
	require.EqualValues(t, 1, Days(start, start))
	require.EqualValues(t, 1, Days(start, start.Add(-48*time.Hour)))
	require.EqualValues(t, 5, Days(start, start.Add(5*24*time.Hour)))
}

func TestCompute_Validation(t *testing.T) {
	start, end := date("2025-01-01"), date("2025-01-03")

	_, err := Compute(nil, start, end)
	require.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = Compute([]LineItem{{UnitPricePerDay: dec("10"), Quantity: 0}}, start, end)
	require.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = Compute([]LineItem{{UnitPricePerDay: dec("-1"), Quantity: 1}}, start, end)
	require.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = Compute([]LineItem{{UnitPricePerDay: dec("10"), Quantity: 1}}, end, start)
	require.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = Compute([]LineItem{{UnitPricePerDay: dec("10"), Quantity: 1}}, start, start)
	require.Equal(t, apperr.Validation, apperr.KindOf(err))
}
