// Package contention turns a Go block profile into a report of which
// call sites spent the most time blocked, giving lock contention on a
// Channel's master lock a concrete, measurable shape instead of an
// abstract concern. It is built on github.com/google/pprof/profile,
// the same profile-handling library that backs `go tool pprof`.
package contention

import (
	"errors"
	"io"
	"sort"

	"github.com/google/pprof/profile"
)

// Entry summarizes the blocking contributed by one call site, as
// identified by the innermost named function on its profiled stack.
type Entry struct {
	Site        string
	Contentions int64
	DelayNanos  int64
}

// Report is a contention analysis, sorted by descending total delay.
type Report struct {
	Entries []Entry
}

// Analyze parses a Go block profile (as produced by
// runtime/pprof.Lookup("block").WriteTo) and aggregates contention
// count and delay per call site.
func Analyze(r io.Reader) (Report, error) {
	prof, err := profile.Parse(r)
	if err != nil {
		return Report{}, err
	}

	contentionsIdx, delayIdx := -1, -1
	for i, st := range prof.SampleType {
		switch st.Type {
		case "contentions":
			contentionsIdx = i
		case "delay":
			delayIdx = i
		}
	}
	if contentionsIdx == -1 || delayIdx == -1 {
		return Report{}, errors.New("contention: not a block profile (missing contentions/delay sample types)")
	}

	totals := make(map[string]*Entry)
	for _, s := range prof.Sample {
		if len(s.Value) <= contentionsIdx || len(s.Value) <= delayIdx {
			continue
		}
		site := siteOf(s)
		e, ok := totals[site]
		if !ok {
			e = &Entry{Site: site}
			totals[site] = e
		}
		e.Contentions += s.Value[contentionsIdx]
		e.DelayNanos += s.Value[delayIdx]
	}

	var report Report
	for _, e := range totals {
		report.Entries = append(report.Entries, *e)
	}
	sort.Slice(report.Entries, func(i, j int) bool {
		return report.Entries[i].DelayNanos > report.Entries[j].DelayNanos
	})
	return report, nil
}

// siteOf returns the name of the innermost named function on the
// sample's call stack, or "unknown" if the profile carries no symbol
// information for it.
func siteOf(s *profile.Sample) string {
	for _, loc := range s.Location {
		for _, line := range loc.Line {
			if line.Function != nil && line.Function.Name != "" {
				return line.Function.Name
			}
		}
	}
	return "unknown"
}

// TopN returns the first n entries of the report (or all of them if
// there are fewer than n), already sorted by Analyze.
func (r Report) TopN(n int) []Entry {
	if n > len(r.Entries) {
		n = len(r.Entries)
	}
	return r.Entries[:n]
}
