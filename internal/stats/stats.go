package stats

import (
	"runtime"

	"github.com/rs/zerolog/log"
)

// LogMemUsage logs the allocated, total and OS memory in MiB together with the number of
// completed garbage collection cycles. It returns the currently allocated bytes.
func LogMemUsage() uint64 {
	bToMB := func(b uint64) uint64 {
		return b / 1024 / 1024
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	log.Info().
		Uint64("allocMiB", bToMB(m.Alloc)).
		Uint64("heapAllocMiB", bToMB(m.HeapAlloc)).
		Uint64("totalAllocMiB", bToMB(m.TotalAlloc)).
		Uint64("sysMiB", bToMB(m.Sys)).
		Uint32("numGC", m.NumGC).
		Msg("memory usage")

	return m.Alloc
}
