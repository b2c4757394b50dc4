package expr

import "github.com/forrestang/RenkoDiscovery/internal/analytics"

// accessor returns the value at row i and whether it is defined (false for
// an out-of-range shift or an indicator not yet warmed up).
type accessor func(i int) (float64, bool)

// Schema binds the predicate language's identifier set to one analytics
// table. It is built once per table and reused to parse and evaluate every
// named predicate against that table's columns.
type Schema struct {
	rows int
	cols map[string]accessor
}

// NewSchema builds the column-name -> accessor registry for a table: raw
// columns, the MA1/MA2/MA3 EMA aliases, and the one- and two-bar shifted
// variants of open, high, low, close, direction, MA1, MA2, MA3.
func NewSchema(t *analytics.Table) *Schema {
	s := &Schema{rows: t.Len(), cols: map[string]accessor{}}

	direct := map[string]accessor{
		"open":  plain(t.Open),
		"high":  plain(t.High),
		"low":   plain(t.Low),
		"close": plain(t.Close),
		"direction": func(i int) (float64, bool) {
			return float64(t.Direction[i]), true
		},

		"State":            intCol(t.State),
		"PrState":          intCol(t.PrState),
		"FromState":        intCol(t.FromState),
		"Type1":            intCol(t.Type1),
		"Type2":            intCol(t.Type2),
		"ConUpBars":        intCol(t.ConUpBars),
		"ConDnBars":        intCol(t.ConDnBars),
		"ConUpBarsState":   intCol(t.ConUpBarsState),
		"ConDnBarsState":   intCol(t.ConDnBarsState),
		"PriorRunCount":    intCol(t.PriorRunCount),
		"BarDurationMin":   plain(t.BarDurationMin),
		"StateBarCount":    intCol(t.StateBarCount),
		"StateDurationMin": plain(t.StateDurationMin),
		"Chop":             plain(t.Chop),

		"BrickSize":    plain(t.BrickSize),
		"ReversalSize": plain(t.ReversalSize),
		"CurrentADR":   plain(t.CurrentADR),
		"IsReversal":   boolCol(t.IsReversal),

		"DD":     plain(t.DD),
		"DDADR":  plain(t.DDADR),
		"DDRR":   plain(t.DDRR),
		"Dist1Raw": plain(t.Dist1Raw), "Dist1ADR": plain(t.Dist1ADR), "Dist1RR": plain(t.Dist1RR),
		"Dist2Raw": plain(t.Dist2Raw), "Dist2ADR": plain(t.Dist2ADR), "Dist2RR": plain(t.Dist2RR),
		"Dist3Raw": plain(t.Dist3Raw), "Dist3ADR": plain(t.Dist3ADR), "Dist3RR": plain(t.Dist3RR),

		"MFEClrBars":   intCol(t.MFEClrBars),
		"MFEClrPrice":  plain(t.MFEClrPrice),
		"MFEClrADR":    plain(t.MFEClrADR),
		"MFEClrRR":     plain(t.MFEClrRR),
		"RealClrPrice": plain(t.RealClrPrice),
		"RealClrADR":   plain(t.RealClrADR),
		"RealClrRR":    plain(t.RealClrRR),

		"MA1": okPlain(t.EMA1, t.EMA1OK),
		"MA2": okPlain(t.EMA2, t.EMA2OK),
		"MA3": okPlain(t.EMA3, t.EMA3OK),
	}
	for name, acc := range direct {
		s.cols[name] = acc
	}

	for k, ma := range []string{"MA1", "MA2", "MA3"} {
		s.cols["Real"+ma+"Price"] = okPlain(t.RealMAPrice[k], t.RealMAOK[k])
		s.cols["Real"+ma+"ADR"] = okPlain(t.RealMAADR[k], t.RealMAOK[k])
		s.cols["Real"+ma+"RR"] = okPlain(t.RealMARR[k], t.RealMAOK[k])
	}

	for _, base := range []string{"open", "high", "low", "close", "direction"} {
		baseAcc := s.cols[base]
		s.cols[base+"1"] = shifted(baseAcc, 1)
		s.cols[base+"2"] = shifted(baseAcc, 2)
	}
	for _, ma := range []string{"MA1", "MA2", "MA3"} {
		maAcc := s.cols[ma]
		s.cols[ma+"_1"] = shifted(maAcc, 1)
		s.cols[ma+"_2"] = shifted(maAcc, 2)
	}

	return s
}

func plain(v []float64) accessor {
	return func(i int) (float64, bool) { return v[i], true }
}

func okPlain(v []float64, ok []bool) accessor {
	return func(i int) (float64, bool) { return v[i], ok[i] }
}

func intCol(v []int) accessor {
	return func(i int) (float64, bool) { return float64(v[i]), true }
}

func boolCol(v []bool) accessor {
	return func(i int) (float64, bool) {
		if v[i] {
			return 1, true
		}
		return 0, true
	}
}

// shifted wraps an accessor to look n rows back; undefined before row n.
func shifted(base accessor, n int) accessor {
	return func(i int) (float64, bool) {
		if i-n < 0 {
			return 0, false
		}
		return base(i - n)
	}
}

// has reports whether name is a valid identifier in this schema.
func (s *Schema) has(name string) bool {
	_, ok := s.cols[name]
	return ok
}
