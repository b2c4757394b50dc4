package ohlc_test

import (
	"strings"
	"testing"

	"github.com/forrestang/RenkoDiscovery/internal/ohlc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadJSONL_ParsesRFC3339AndMillis(t *testing.T) {
	input := strings.Join([]string{
		`{"timestamp":"2024-01-02T00:00:00Z","open":1.0,"high":1.1,"low":0.9,"close":1.05,"volume":100}`,
		`{"timestamp":"1704153660000","open":1.05,"high":1.06,"low":1.0,"close":1.02}`,
		``,
	}, "\n")

	series, err := ohlc.LoadJSONL(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, 100.0, series[0].Volume)
	assert.Equal(t, 0.0, series[1].Volume)
	assert.True(t, series.Valid())
}

func TestLoadJSONL_RejectsMalformedLine(t *testing.T) {
	_, err := ohlc.LoadJSONL(strings.NewReader(`not json`))
	require.Error(t, err)
}

func TestLoadJSONL_RejectsBadTimestamp(t *testing.T) {
	_, err := ohlc.LoadJSONL(strings.NewReader(`{"timestamp":"not-a-time","open":1,"high":1,"low":1,"close":1}`))
	require.Error(t, err)
}
