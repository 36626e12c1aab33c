package pprof

import (
	"fmt"
	"net/http"
	_ "net/http/pprof"

	"github.com/rs/zerolog"
)

// Start serves the pprof handlers in the background when port is non-empty.
func Start(port string, logger zerolog.Logger) {
	if port == "" {
		return
	}

	go func() {
		addr := fmt.Sprintf(":%s", port)

		logger.Info().Str("addr", addr).Msg("pprof listening")

		if err := http.ListenAndServe(addr, nil); err != nil {
			logger.Warn().Err(err).Msg("pprof server error")
		}
	}()
}
