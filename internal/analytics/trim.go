package analytics

// trim locates the earliest index where every warmup-dependent column is
// defined and the latest index where every forward-looking column is
// defined, recording the closed interval as TrimLeft/TrimRight. It does
// not reslice the table's columns — callers read Rows() for the
// trimmed view.
func trim(t *Table) {
	n := t.Len()

	left := 0
	for left < n {
		adrReady := t.Settings.ADRPeriod <= 0 || t.HasADR[left]
		if adrReady &&
			t.EMA1OK[left] && t.EMA2OK[left] && t.EMA3OK[left] &&
			t.SMAE1.OK[left] && t.SMAE2.OK[left] {
			break
		}
		left++
	}

	right := n - 1
	for right >= left {
		if allRealMADefined(t, right) {
			break
		}
		right--
	}

	if right < left {
		// No row satisfies both trims: degrade to an empty, but still
		// valid, trimmed view rather than reporting left > right.
		t.TrimLeft = n
		t.TrimRight = n - 1
		return
	}
	t.TrimLeft = left
	t.TrimRight = right
}

func allRealMADefined(t *Table, i int) bool {
	for k := 0; k < 3; k++ {
		if !t.RealMAOK[k][i] {
			return false
		}
	}
	return true
}

// Rows returns the trimmed [TrimLeft, TrimRight] row count, or 0 if the
// trim produced an empty interval.
func (t *Table) Rows() int {
	if t.TrimRight < t.TrimLeft {
		return 0
	}
	return t.TrimRight - t.TrimLeft + 1
}
