package timer

import (
	"time"

	"github.com/rs/zerolog/log"
)

// TimeTrack logs the time elapsed since start. Use it with defer.
func TimeTrack(start time.Time, name string) time.Duration {
	elapsed := time.Since(start)
	log.Info().Dur("elapsed", elapsed).Msgf("%s took %s", name, elapsed)

	return elapsed
}
