package analytics

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/forrestang/RenkoDiscovery/internal/calendar"
	"github.com/forrestang/RenkoDiscovery/internal/errs"
	"github.com/forrestang/RenkoDiscovery/internal/indicators"
	"github.com/forrestang/RenkoDiscovery/internal/renko"
)

// Compute builds the full derived-column feature table from a completed
// brick sequence. Independent column groups (indicators, state/counters,
// forward-scan excursions) run concurrently via an errgroup. The per-brick
// passes check ctx for cooperative cancellation every few thousand bricks;
// the indicator pass checks it once, before computing its columns.
func Compute(ctx context.Context, bricks []renko.Brick, sched calendar.Schedule, settings Settings) (*Table, error) {
	if len(bricks) == 0 {
		return nil, errs.New(errs.EmptyInput, "no bricks to analyze")
	}

	n := len(bricks)
	t := newTable(n, settings)
	populateRaw(t, bricks, sched)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return computeIndicators(gctx, t) })
	g.Go(func() error { return computeDrawdown(gctx, t) })

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Distances depend on EMA output, so they run after the first wave
	// completes; only EMA distances are computed, none against PWAP.
	// State/counters further depend on EMA for the Type1/Type2 MA-touch
	// condition.
	if err := computeDistances(ctx, t); err != nil {
		return nil, err
	}

	g2, gctx2 := errgroup.WithContext(ctx)
	g2.Go(func() error { return computeStateAndCounters(gctx2, t) })
	g2.Go(func() error { return computeForwardScans(gctx2, t) })
	if err := g2.Wait(); err != nil {
		return nil, err
	}

	trim(t)
	return t, nil
}

func populateRaw(t *Table, bricks []renko.Brick, sched calendar.Schedule) {
	for i, b := range bricks {
		t.Open[i] = b.Open
		t.High[i] = b.High
		t.Low[i] = b.Low
		t.Close[i] = b.Close
		t.Direction[i] = b.Direction
		t.IsReversal[i] = b.IsReversal
		t.TimestampOpen[i] = b.TimestampOpen
		t.TimestampClose[i] = b.TimestampClose
		t.SourceIndexOpen[i] = b.SourceIndexOpen
		t.SourceIndexClose[i] = b.SourceIndexClose
		t.BrickSize[i] = b.BrickSize
		t.ReversalSize[i] = b.ReversalSize
		t.CurrentADR[i] = b.ADRValue
		t.HasADR[i] = b.HasADR

		closeTime := time.UnixMilli(b.TimestampClose).UTC()
		t.SessionDate[i] = calendar.SessionDate(closeTime, sched).UnixMilli()
	}
}

func computeIndicators(ctx context.Context, t *Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.EMA1, t.EMA1OK = indicators.EMA(t.Close, t.Settings.MA1Period)
	t.EMA2, t.EMA2OK = indicators.EMA(t.Close, t.Settings.MA2Period)
	t.EMA3, t.EMA3OK = indicators.EMA(t.Close, t.Settings.MA3Period)
	t.SMAE1 = indicators.SMAE(t.Close, t.Settings.SMAE1Period, t.Settings.SMAE1Deviation)
	t.SMAE2 = indicators.SMAE(t.Close, t.Settings.SMAE2Period, t.Settings.SMAE2Deviation)
	t.PWAP = indicators.PWAP(t.High, t.Low, t.Close, t.SessionDate, t.Settings.PWAPSigmas)
	return nil
}

func computeDrawdown(ctx context.Context, t *Table) error {
	for i := range t.Close {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		var dd float64
		if t.Direction[i] == renko.Up {
			dd = t.Open[i] - t.Low[i]
		} else {
			dd = t.High[i] - t.Open[i]
		}
		t.DD[i] = dd
		if t.CurrentADR[i] != 0 {
			t.DDADR[i] = dd / t.CurrentADR[i]
		}
		if t.ReversalSize[i] != 0 {
			t.DDRR[i] = dd / t.ReversalSize[i]
		}
	}
	return nil
}

func computeDistances(ctx context.Context, t *Table) error {
	for i := range t.Close {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		distance(t.EMA1OK[i], t.Close[i], t.EMA1[i], t.CurrentADR[i], t.ReversalSize[i], &t.Dist1Raw[i], &t.Dist1ADR[i], &t.Dist1RR[i])
		distance(t.EMA2OK[i], t.Close[i], t.EMA2[i], t.CurrentADR[i], t.ReversalSize[i], &t.Dist2Raw[i], &t.Dist2ADR[i], &t.Dist2RR[i])
		distance(t.EMA3OK[i], t.Close[i], t.EMA3[i], t.CurrentADR[i], t.ReversalSize[i], &t.Dist3Raw[i], &t.Dist3ADR[i], &t.Dist3RR[i])
	}
	return nil
}

func distance(ok bool, close, ma, adr, rr float64, raw, adrNorm, rrNorm *float64) {
	if !ok {
		return
	}
	r := close - ma
	*raw = r
	if adr != 0 {
		*adrNorm = r / adr
	}
	if rr != 0 {
		*rrNorm = r / rr
	}
}
