// Package analytics computes the deterministic per-brick derived-column
// feature table: indicator prices, distances, drawdown, state
// classification, pullback counters, and forward-scanning excursion
// metrics, from a completed brick sequence.
package analytics

import (
	"github.com/forrestang/RenkoDiscovery/internal/indicators"
	"github.com/forrestang/RenkoDiscovery/internal/renko"
)

// Settings echoes the configuration that produced a Table, per the
// analytics output contract.
type Settings struct {
	ADRPeriod       int
	BrickSize       float64
	ReversalSize    float64
	WickMode        renko.WickMode
	MA1Period       int
	MA2Period       int
	MA3Period       int
	ChopPeriod      int
	SMAE1Period     int
	SMAE1Deviation  float64
	SMAE2Period     int
	SMAE2Deviation  float64
	PWAPSigmas      []float64
}

// Table is the column-major feature table, one slice per column, aligned
// 1:1 with the brick sequence before trimming.
type Table struct {
	Settings Settings

	// Raw brick columns.
	Open, High, Low, Close            []float64
	Direction                         []renko.Direction
	IsReversal                        []bool
	TimestampOpen, TimestampClose     []int64
	SourceIndexOpen, SourceIndexClose []int
	BrickSize, ReversalSize           []float64
	CurrentADR                        []float64
	HasADR                            []bool

	SessionDate []int64 // unix-millis date key

	EMA1, EMA2, EMA3    []float64
	EMA1OK, EMA2OK, EMA3OK []bool

	SMAE1, SMAE2 indicators.SMAEnvelope
	PWAP         []indicators.PWAPRow

	Dist1Raw, Dist1ADR, Dist1RR []float64
	Dist2Raw, Dist2ADR, Dist2RR []float64
	Dist3Raw, Dist3ADR, Dist3RR []float64

	DD, DDADR, DDRR []float64

	State     []int
	PrState   []int
	FromState []int

	Type1, Type2 []int

	ConUpBars, ConDnBars           []int
	ConUpBarsState, ConDnBarsState []int
	PriorRunCount                  []int
	BarDurationMin                 []float64
	StateBarCount                  []int
	StateDurationMin               []float64
	Chop                           []float64

	MFEClrBars   []int
	MFEClrPrice  []float64
	MFEClrADR    []float64
	MFEClrRR     []float64
	RealClrPrice []float64
	RealClrADR   []float64
	RealClrRR    []float64

	// RealMAPrice[k] / RealMAOK[k] / RealMAADR[k] / RealMARR[k] for k in
	// {0,1,2} mapping to ma1/ma2/ma3.
	RealMAPrice [3][]float64
	RealMAOK    [3][]bool
	RealMAADR   [3][]float64
	RealMARR    [3][]float64

	TrimLeft  int
	TrimRight int
}

// Len returns the (untrimmed) row count.
func (t *Table) Len() int {
	return len(t.Close)
}

// newTable allocates every column slice at length n, zero-valued.
func newTable(n int, settings Settings) *Table {
	t := &Table{Settings: settings}
	t.Open = make([]float64, n)
	t.High = make([]float64, n)
	t.Low = make([]float64, n)
	t.Close = make([]float64, n)
	t.Direction = make([]renko.Direction, n)
	t.IsReversal = make([]bool, n)
	t.TimestampOpen = make([]int64, n)
	t.TimestampClose = make([]int64, n)
	t.SourceIndexOpen = make([]int, n)
	t.SourceIndexClose = make([]int, n)
	t.BrickSize = make([]float64, n)
	t.ReversalSize = make([]float64, n)
	t.CurrentADR = make([]float64, n)
	t.HasADR = make([]bool, n)
	t.SessionDate = make([]int64, n)

	t.Dist1Raw, t.Dist1ADR, t.Dist1RR = make([]float64, n), make([]float64, n), make([]float64, n)
	t.Dist2Raw, t.Dist2ADR, t.Dist2RR = make([]float64, n), make([]float64, n), make([]float64, n)
	t.Dist3Raw, t.Dist3ADR, t.Dist3RR = make([]float64, n), make([]float64, n), make([]float64, n)

	t.DD, t.DDADR, t.DDRR = make([]float64, n), make([]float64, n), make([]float64, n)

	t.State = make([]int, n)
	t.PrState = make([]int, n)
	t.FromState = make([]int, n)
	t.Type1 = make([]int, n)
	t.Type2 = make([]int, n)

	t.ConUpBars = make([]int, n)
	t.ConDnBars = make([]int, n)
	t.ConUpBarsState = make([]int, n)
	t.ConDnBarsState = make([]int, n)
	t.PriorRunCount = make([]int, n)
	t.BarDurationMin = make([]float64, n)
	t.StateBarCount = make([]int, n)
	t.StateDurationMin = make([]float64, n)
	t.Chop = make([]float64, n)

	t.MFEClrBars = make([]int, n)
	t.MFEClrPrice = make([]float64, n)
	t.MFEClrADR = make([]float64, n)
	t.MFEClrRR = make([]float64, n)
	t.RealClrPrice = make([]float64, n)
	t.RealClrADR = make([]float64, n)
	t.RealClrRR = make([]float64, n)

	for k := 0; k < 3; k++ {
		t.RealMAPrice[k] = make([]float64, n)
		t.RealMAOK[k] = make([]bool, n)
		t.RealMAADR[k] = make([]float64, n)
		t.RealMARR[k] = make([]float64, n)
	}

	return t
}
