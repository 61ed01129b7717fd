package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrix(t *testing.T) {
	m := NewMatrix(3)
	require.Len(t, m, 3)
	for _, row := range m {
		require.Len(t, row, DaysPerWeek)
		for _, done := range row {
			assert.False(t, done)
		}
	}
}

func TestMatrixRoundTrip(t *testing.T) {
	p := RoutineProgress{UserID: 1, RoutineID: 1}
	m := NewMatrix(2)
	m[1][4] = true

	require.NoError(t, p.SetMatrix(m))

	decoded, err := p.Matrix()
	require.NoError(t, err)
	assert.Equal(t, m, decoded)
}

func TestMatrixEmptyData(t *testing.T) {
	p := RoutineProgress{}
	m, err := p.Matrix()
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestAppendWeek(t *testing.T) {
	m := NewMatrix(2)
	m[0][0] = true

	grown := m.AppendWeek()
	require.Len(t, grown, 3)
	assert.True(t, grown[0][0])
	for _, done := range grown[2] {
		assert.False(t, done)
	}
}

func TestRemoveWeek(t *testing.T) {
	m := NewMatrix(2)
	m[1][0] = true // day 1 of week 2

	spliced, err := m.RemoveWeek(0)
	require.NoError(t, err)
	require.Len(t, spliced, 1)
	// Former week 2 is now week 1 and keeps its completions.
	assert.True(t, spliced[0][0])
}

func TestRemoveWeekOutOfRange(t *testing.T) {
	m := NewMatrix(2)

	_, err := m.RemoveWeek(-1)
	assert.Error(t, err)

	_, err = m.RemoveWeek(2)
	assert.Error(t, err)
}

func TestSetDay(t *testing.T) {
	m := NewMatrix(2)

	require.NoError(t, m.SetDay(1, 3, true))
	assert.True(t, m[0][2])

	require.NoError(t, m.SetDay(1, 3, false))
	assert.False(t, m[0][2])

	assert.Error(t, m.SetDay(0, 1, true))
	assert.Error(t, m.SetDay(3, 1, true))
	assert.Error(t, m.SetDay(1, 0, true))
	assert.Error(t, m.SetDay(1, 8, true))
}

func TestWeekStatsAndOverall(t *testing.T) {
	m := NewMatrix(2)
	require.NoError(t, m.SetDay(1, 3, true))

	stats := m.WeekStats()
	require.Len(t, stats, 2)
	assert.Equal(t, 1, stats[0].CompletedDays)
	assert.Equal(t, 7, stats[0].TotalDays)
	assert.Equal(t, 14.29, stats[0].Percentage)
	assert.Equal(t, 0, stats[1].CompletedDays)
	assert.Equal(t, 0.0, stats[1].Percentage)

	overall := m.Overall()
	assert.Equal(t, 1, overall.CompletedDays)
	assert.Equal(t, 14, overall.TotalDays)
	assert.Equal(t, 7.14, overall.Percentage)
}

func TestOverallBounds(t *testing.T) {
	m := NewMatrix(2)
	assert.Equal(t, 0.0, m.Overall().Percentage)

	for w := 1; w <= 2; w++ {
		for d := 1; d <= DaysPerWeek; d++ {
			require.NoError(t, m.SetDay(w, d, true))
		}
	}
	assert.Equal(t, 100.0, m.Overall().Percentage)
}

func TestToggleRestoresPercentages(t *testing.T) {
	m := NewMatrix(2)
	before := m.Overall()

	require.NoError(t, m.SetDay(2, 5, true))
	require.NoError(t, m.SetDay(2, 5, false))

	assert.Equal(t, before, m.Overall())
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(0, 0))
	assert.Equal(t, 0.0, Percentage(0, 14))
	assert.Equal(t, 100.0, Percentage(14, 14))
	assert.Equal(t, 14.29, Percentage(1, 7))
	assert.Equal(t, 33.33, Percentage(1, 3))
}

func TestAveragePercentage(t *testing.T) {
	assert.Equal(t, "0.00", AveragePercentage(nil))
	assert.Equal(t, "0.00", AveragePercentage([]float64{}))
	assert.Equal(t, "50.00", AveragePercentage([]float64{25, 75}))
	assert.Equal(t, "7.14", AveragePercentage([]float64{7.14}))
}
