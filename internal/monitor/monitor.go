// Package monitor samples host CPU and memory usage for the chat TUI's
// status bar.
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Sample is one reading of host resource usage.
type Sample struct {
	CPUPercent float64
	MemPercent float64
	Taken      time.Time
}

// String renders the sample the way the status bar shows it.
func (s Sample) String() string {
	return fmt.Sprintf("CPU %.1f%% · RAM %.1f%%", s.CPUPercent, s.MemPercent)
}

// Read takes one sample. The CPU reading compares against the previous
// call, so the first reading after process start may be zero.
func Read(ctx context.Context) (Sample, error) {
	sample := Sample{Taken: time.Now()}

	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return sample, fmt.Errorf("failed to read cpu usage: %w", err)
	}
	if len(percents) > 0 {
		sample.CPUPercent = percents[0]
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return sample, fmt.Errorf("failed to read memory usage: %w", err)
	}
	sample.MemPercent = vm.UsedPercent

	return sample, nil
}

// Watch emits a sample at each tick until the context is cancelled. Failed
// reads are skipped rather than closing the stream.
func Watch(ctx context.Context, interval time.Duration) <-chan Sample {
	if interval <= 0 {
		interval = 2 * time.Second
	}

	samples := make(chan Sample, 1)
	go func() {
		defer close(samples)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sample, err := Read(ctx)
				if err != nil {
					continue
				}
				select {
				case samples <- sample:
				case <-ctx.Done():
					return
				default:
					// Drop the sample when the consumer is behind
				}
			}
		}
	}()

	return samples
}
