package ohlc

import (
	"bufio"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/forrestang/RenkoDiscovery/internal/errs"
)

// jsonBar mirrors the external interface contract's per-row shape:
// {timestamp, open, high, low, close, volume}. Missing volume defaults to
// 0 per the contract.
type jsonBar struct {
	Timestamp string  `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// LoadJSONL reads one OHLC bar per line from r (newline-delimited JSON,
// blank lines skipped) into a Series. Timestamps are JSON strings holding
// either RFC3339 or unix-millis digits; a bare JSON number is rejected.
func LoadJSONL(r io.Reader) (Series, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var series Series
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var jb jsonBar
		if err := json.Unmarshal([]byte(line), &jb); err != nil {
			return nil, errs.New(errs.EmptyInput, "invalid JSONL bar %q: %v", line, err)
		}
		ts, err := parseTimestamp(jb.Timestamp)
		if err != nil {
			return nil, errs.New(errs.EmptyInput, "invalid timestamp %q: %v", jb.Timestamp, err)
		}
		series = append(series, Bar{
			Timestamp: ts, Open: jb.Open, High: jb.High, Low: jb.Low, Close: jb.Close, Volume: jb.Volume,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.New(errs.EmptyInput, "reading JSONL input: %v", err)
	}
	return series, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errs.New(errs.EmptyInput, "timestamp %q is neither RFC3339 nor unix-millis", s)
	}
	return t.UTC(), nil
}
