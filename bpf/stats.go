package bpf

import (
	"fmt"

	"pingdrop/classifier"
)

// Stats holds per-verdict packet counts accumulated by the classifier.
type Stats struct {
	Passed  uint64
	Dropped uint64
	Aborted uint64
}

// VerdictStats sums the per-CPU verdict counters.
func (f *Filter) VerdictStats() (*Stats, error) {
	sum := func(verdict classifier.Verdict) (uint64, error) {
		var percpu []uint64
		if err := f.coll.Maps[verdictStatsMap].Lookup(uint32(verdict), &percpu); err != nil {
			return 0, fmt.Errorf("failed to read %s counter: %w", verdict, err)
		}

		var total uint64
		for _, v := range percpu {
			total += v
		}

		return total, nil
	}

	var (
		stats Stats
		err   error
	)

	if stats.Passed, err = sum(classifier.Pass); err != nil {
		return nil, err
	}

	if stats.Dropped, err = sum(classifier.Drop); err != nil {
		return nil, err
	}

	if stats.Aborted, err = sum(classifier.Aborted); err != nil {
		return nil, err
	}

	return &stats, nil
}
