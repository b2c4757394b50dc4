// Package backtest walks signal entry indices forward under a fixed
// stop/target rule set and produces per-trade outcomes plus aggregate
// per-signal statistics.
package backtest

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/forrestang/RenkoDiscovery/internal/analytics"
	"github.com/forrestang/RenkoDiscovery/internal/errs"
	"github.com/forrestang/RenkoDiscovery/internal/renko"
)

// StopType selects how stop distance is computed.
type StopType string

const (
	StopRR  StopType = "rr"
	StopADR StopType = "adr"
)

// TargetType selects the exit rule checked each bar after the stop.
type TargetType string

const (
	TargetFixedRR     TargetType = "fixed_rr"
	TargetFixedADR    TargetType = "fixed_adr"
	TargetMATrail     TargetType = "ma_trail"
	TargetColorChange TargetType = "color_change"
)

// ReportUnit selects the normalization applied to a trade's result.
type ReportUnit string

const (
	ReportRR  ReportUnit = "rr"
	ReportADR ReportUnit = "adr"
)

// Outcome is how a trade concluded.
type Outcome string

const (
	OutcomeStop   Outcome = "stop"
	OutcomeTarget Outcome = "target"
	OutcomeOpen   Outcome = "open"
)

// Config mirrors the backtest evaluator's input contract.
type Config struct {
	StopType     StopType
	StopValue    float64
	TargetType   TargetType
	TargetValue  float64
	TargetMA     int // 1, 2, or 3; only consulted when TargetType == TargetMATrail
	ReportUnit   ReportUnit
	AllowOverlap bool
}

// SignalEntries is one named signal's entry indices, as produced by the
// expression evaluator.
type SignalEntries struct {
	Name    string
	Indices []int
}

// Trade is one evaluated entry.
type Trade struct {
	Signal     string
	EntryIndex int
	ExitIndex  int
	Direction  renko.Direction
	Outcome    Outcome
	Result     float64 // signed, normalized to Config.ReportUnit
	BarsHeld   int
}

type entryPair struct {
	index  int
	signal string
}

// Run evaluates every signal's entries against the table under cfg,
// returning the full trade ledger (stable entry-index order, ties broken
// by input signal-list order) and a per-signal summary map.
func Run(t *analytics.Table, signals []SignalEntries, cfg Config) ([]Trade, map[string]Summary, error) {
	if t == nil || t.Len() == 0 {
		return nil, nil, errs.New(errs.EmptyInput, "no rows to backtest")
	}
	if cfg.TargetType == TargetMATrail && (cfg.TargetMA < 1 || cfg.TargetMA > 3) {
		return nil, nil, errs.New(errs.InvalidConfig, "target_ma must be 1, 2, or 3 for ma_trail targets")
	}

	pairs := make([]entryPair, 0)
	for _, sig := range signals {
		for _, idx := range sig.Indices {
			pairs = append(pairs, entryPair{index: idx, signal: sig.Name})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].index < pairs[j].index })

	n := t.Len()
	var trades []Trade
	nextAllowed := 0

	for _, p := range pairs {
		if p.index >= n-1 {
			continue
		}
		if !cfg.AllowOverlap && p.index < nextAllowed {
			continue
		}

		trade := evaluateTrade(t, p.index, p.signal, cfg)
		trades = append(trades, trade)
		if !cfg.AllowOverlap {
			nextAllowed = trade.ExitIndex + 1
		}
	}

	summaries := summarize(trades, signals)
	return trades, summaries, nil
}

func evaluateTrade(t *analytics.Table, entry int, signal string, cfg Config) Trade {
	dir := t.Direction[entry]
	entryClose := t.Close[entry]
	long := dir == renko.Up

	stopDist := stopDistance(t, entry, cfg)
	var stopPrice float64
	if long {
		stopPrice = entryClose - stopDist
	} else {
		stopPrice = entryClose + stopDist
	}

	targetPrice, targetDist, hasFixedTarget := targetPrice(t, entry, cfg, long)
	ema, emaOK := emaColumnFor(t, cfg.TargetMA)

	n := t.Len()
	for j := entry + 1; j < n; j++ {
		stopHit := (long && t.Close[j] <= stopPrice) || (!long && t.Close[j] >= stopPrice)
		if stopHit {
			return Trade{
				Signal: signal, EntryIndex: entry, ExitIndex: j, Direction: dir,
				Outcome:  OutcomeStop,
				Result:   normalize(t, entry, -stopDist, cfg.ReportUnit),
				BarsHeld: j - entry,
			}
		}

		switch cfg.TargetType {
		case TargetFixedRR, TargetFixedADR:
			if hasFixedTarget {
				hit := (long && t.Close[j] >= targetPrice) || (!long && t.Close[j] <= targetPrice)
				if hit {
					return Trade{
						Signal: signal, EntryIndex: entry, ExitIndex: j, Direction: dir,
						Outcome:  OutcomeTarget,
						Result:   normalize(t, entry, targetDist, cfg.ReportUnit),
						BarsHeld: j - entry,
					}
				}
			}
		case TargetMATrail:
			if t.Direction[j] != dir && emaOK[j] {
				penalizes := (long && t.Close[j] < ema[j]) || (!long && t.Close[j] > ema[j])
				if penalizes {
					move := signedMove(t.Close[j], entryClose, long)
					return Trade{
						Signal: signal, EntryIndex: entry, ExitIndex: j, Direction: dir,
						Outcome:  OutcomeTarget,
						Result:   normalize(t, entry, move, cfg.ReportUnit),
						BarsHeld: j - entry,
					}
				}
			}
		case TargetColorChange:
			if t.Direction[j] != dir {
				move := signedMove(t.Close[j], entryClose, long)
				return Trade{
					Signal: signal, EntryIndex: entry, ExitIndex: j, Direction: dir,
					Outcome:  OutcomeTarget,
					Result:   normalize(t, entry, move, cfg.ReportUnit),
					BarsHeld: j - entry,
				}
			}
		}
	}

	last := n - 1
	move := signedMove(t.Close[last], entryClose, long)
	return Trade{
		Signal: signal, EntryIndex: entry, ExitIndex: last, Direction: dir,
		Outcome:  OutcomeOpen,
		Result:   normalize(t, entry, move, cfg.ReportUnit),
		BarsHeld: last - entry,
	}
}

// signedMove returns the trade-favorable price move: positive when price
// rose for a long or fell for a short.
func signedMove(closePrice, entryClose float64, long bool) float64 {
	if long {
		return closePrice - entryClose
	}
	return entryClose - closePrice
}

func stopDistance(t *analytics.Table, entry int, cfg Config) float64 {
	switch cfg.StopType {
	case StopADR:
		d := cfg.StopValue * t.CurrentADR[entry]
		if d < t.ReversalSize[entry] {
			d = t.ReversalSize[entry]
		}
		return d
	default:
		return cfg.StopValue * t.ReversalSize[entry]
	}
}

// targetPrice returns the fixed target price and distance, and whether one
// applies; ma_trail and color_change targets are evaluated bar-by-bar
// instead. The distance is the configured target_dist, not the realized
// move on the crossing bar — a hit always reports exactly target_value
// worth of RR/ADR, regardless of overshoot.
func targetPrice(t *analytics.Table, entry int, cfg Config, long bool) (float64, float64, bool) {
	var dist float64
	switch cfg.TargetType {
	case TargetFixedRR:
		dist = cfg.TargetValue * t.ReversalSize[entry]
	case TargetFixedADR:
		dist = cfg.TargetValue * t.CurrentADR[entry]
	default:
		return 0, 0, false
	}
	if long {
		return t.Close[entry] + dist, dist, true
	}
	return t.Close[entry] - dist, dist, true
}

func emaColumnFor(t *analytics.Table, k int) ([]float64, []bool) {
	switch k {
	case 1:
		return t.EMA1, t.EMA1OK
	case 2:
		return t.EMA2, t.EMA2OK
	default:
		return t.EMA3, t.EMA3OK
	}
}

func normalize(t *analytics.Table, entry int, move float64, unit ReportUnit) float64 {
	if unit == ReportADR && t.CurrentADR[entry] != 0 {
		return move / t.CurrentADR[entry]
	}
	if t.ReversalSize[entry] != 0 {
		return move / t.ReversalSize[entry]
	}
	return move
}

// Summary is the aggregate statistics for one signal's closed and open
// trades.
type Summary struct {
	Count             int
	Wins              int
	Losses            int
	Open              int
	WinRate           float64
	AvgWin            float64
	AvgLoss           float64
	ProfitFactor      float64
	Expectancy        float64
	TotalR            float64
	MaxDrawdown       float64
	Sharpe            float64
	MaxConsecWins     int
	MaxConsecLosses   int
	AvgBarsHeld       float64
}

func summarize(trades []Trade, signals []SignalEntries) map[string]Summary {
	bySignal := map[string][]Trade{}
	for _, sig := range signals {
		bySignal[sig.Name] = nil
	}
	for _, tr := range trades {
		bySignal[tr.Signal] = append(bySignal[tr.Signal], tr)
	}

	out := map[string]Summary{}
	for name, ts := range bySignal {
		out[name] = summarizeOne(ts)
	}
	return out
}

func summarizeOne(trades []Trade) Summary {
	var s Summary
	var sumWin, sumLoss, sumResult, sumBars float64
	var cumulative, peak, maxDD float64
	var closedResults []float64
	var consecWins, consecLosses int

	s.Count = len(trades)
	for _, tr := range trades {
		sumBars += float64(tr.BarsHeld)
		if tr.Outcome == OutcomeOpen {
			s.Open++
			continue
		}
		closedResults = append(closedResults, tr.Result)
		sumResult += tr.Result
		cumulative += tr.Result
		if cumulative > peak {
			peak = cumulative
		}
		if dd := peak - cumulative; dd > maxDD {
			maxDD = dd
		}

		if tr.Result > 0 {
			s.Wins++
			sumWin += tr.Result
			consecWins++
			consecLosses = 0
		} else {
			s.Losses++
			sumLoss += tr.Result
			consecLosses++
			consecWins = 0
		}
		if consecWins > s.MaxConsecWins {
			s.MaxConsecWins = consecWins
		}
		if consecLosses > s.MaxConsecLosses {
			s.MaxConsecLosses = consecLosses
		}
	}

	closed := s.Wins + s.Losses
	if closed > 0 {
		s.WinRate = float64(s.Wins) / float64(closed)
		s.Expectancy = sumResult / float64(closed)
	}
	if s.Wins > 0 {
		s.AvgWin = sumWin / float64(s.Wins)
	}
	if s.Losses > 0 {
		s.AvgLoss = sumLoss / float64(s.Losses)
	}
	if sumLoss != 0 {
		s.ProfitFactor = sumWin / math.Abs(sumLoss)
	}
	s.TotalR = sumResult
	s.MaxDrawdown = maxDD
	if s.Count > 0 {
		s.AvgBarsHeld = sumBars / float64(s.Count)
	}
	s.Sharpe = sharpe(closedResults)
	return s
}

// sharpe computes mean/sample-std of closed trade results via gonum's
// MeanStdDev (unweighted, Bessel-corrected); undefined (zero) below two
// closed trades since sample std needs n≥2.
func sharpe(results []float64) float64 {
	if len(results) < 2 {
		return 0
	}
	mean, std := stat.MeanStdDev(results, nil)
	if std == 0 {
		return 0
	}
	return mean / std
}
