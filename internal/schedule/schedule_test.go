package schedule_test

import (
	"testing"
	"time"

	"github.com/forrestang/RenkoDiscovery/internal/adr"
	"github.com/forrestang/RenkoDiscovery/internal/calendar"
	"github.com/forrestang/RenkoDiscovery/internal/ohlc"
	"github.com/forrestang/RenkoDiscovery/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice_RejectsNonPositiveBrickSize(t *testing.T) {
	_, err := schedule.Price(0, 0.002)
	require.Error(t, err)
}

func TestPrice_RejectsReversalBelowBrick(t *testing.T) {
	_, err := schedule.Price(0.002, 0.001)
	require.Error(t, err)
}

func TestPrice_SingleEntry(t *testing.T) {
	entries, err := schedule.Price(0.0010, 0.0020)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 0, entries[0].SourceIndex)
	assert.False(t, entries[0].HasADR)
}

func TestADRMode_EmitsOnChangeOnly(t *testing.T) {
	sched := calendar.DefaultSchedule()
	bars := ohlc.Series{
		{Timestamp: time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)}, // Wed: ADR session boundary from adr test fixture
		{Timestamp: time.Date(2024, 1, 3, 11, 0, 0, 0, time.UTC)},
		{Timestamp: time.Date(2024, 1, 4, 10, 0, 0, 0, time.UTC)},
	}
	lookup := adr.Lookup{
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC): 0.0100,
		time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC): 0.0080,
	}
	entries, err := schedule.ADRMode(bars, sched, lookup, 10, 20)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 0, entries[0].SourceIndex)
	assert.InDelta(t, 0.0010, entries[0].BrickSize, 1e-9)
	assert.Equal(t, 2, entries[1].SourceIndex)
	assert.InDelta(t, 0.0008, entries[1].BrickSize, 1e-9)
}

func TestADRMode_InsufficientHistory(t *testing.T) {
	sched := calendar.DefaultSchedule()
	bars := ohlc.Series{{Timestamp: time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)}}
	_, err := schedule.ADRMode(bars, sched, adr.Lookup{}, 10, 20)
	require.Error(t, err)
}

func TestAt_ReturnsGreatestIndexNotExceeding(t *testing.T) {
	entries := []schedule.Entry{
		{SourceIndex: 0, BrickSize: 0.0010},
		{SourceIndex: 5, BrickSize: 0.0008},
	}
	assert.Equal(t, 0.0010, schedule.At(entries, 3).BrickSize)
	assert.Equal(t, 0.0008, schedule.At(entries, 5).BrickSize)
	assert.Equal(t, 0.0008, schedule.At(entries, 100).BrickSize)
}
