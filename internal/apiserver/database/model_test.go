package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaidAmountSkipsArchived(t *testing.T) {
	payments := []*Payment{
		{Amount: 300},
		{Amount: 200, IsArchived: true},
		{Amount: 150},
	}
	assert.Equal(t, 450.0, PaidAmount(payments))
	assert.Equal(t, 0.0, PaidAmount(nil))
}

func TestDueAmountNeverNegative(t *testing.T) {
	payments := []*Payment{{Amount: 600}, {Amount: 600}}
	assert.Equal(t, 0.0, DueAmount(1000, payments))
	assert.Equal(t, 400.0, DueAmount(1000, []*Payment{{Amount: 600}}))
	assert.Equal(t, 1000.0, DueAmount(1000, nil))
}

func TestProfitClamped(t *testing.T) {
	assert.Equal(t, 300.0, Profit(1000, 700))
	assert.Equal(t, 0.0, Profit(500, 700))
}

func TestJSONMapScanValue(t *testing.T) {
	m := JSONMap{"reference": "OUT-2026-000001", "amount": 12.5}
	value, err := m.Value()
	require.NoError(t, err)

	var back JSONMap
	require.NoError(t, back.Scan(value))
	assert.Equal(t, "OUT-2026-000001", back["reference"])
	assert.Equal(t, 12.5, back["amount"])

	var nilMap JSONMap
	value, err = nilMap.Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", value)

	require.Error(t, back.Scan(42))
}

func TestStringListScanValue(t *testing.T) {
	l := StringList{"vip", "repeat"}
	value, err := l.Value()
	require.NoError(t, err)

	var back StringList
	require.NoError(t, back.Scan(value))
	assert.Equal(t, StringList{"vip", "repeat"}, back)

	var nilList StringList
	value, err = nilList.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", value)
}
