package batch

import (
	"log"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// logHostInfo logs the job count, worker count, and host resources once
// at the start of a run. Host probes are best-effort; a probe error just
// omits that part of the line.
func logHostInfo(jobs, workers int) {
	line := log.Printf
	line("batch: %d images, %d workers", jobs, workers)

	if n, err := cpu.Counts(true); err == nil {
		line("host: %d logical CPUs", n)
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		const gib = 1 << 30
		line("host: %.1f GiB memory available of %.1f GiB",
			float64(vm.Available)/gib, float64(vm.Total)/gib)
	}
}
