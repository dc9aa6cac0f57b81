package mail

import (
	"context"

	"github.com/rs/zerolog/log"
)

// SelectTransport verifies the candidates in order and returns the first one
// that connects. It returns ErrNoTransport when none do.
func SelectTransport(ctx context.Context, candidates ...Transport) (Transport, error) {
	for _, t := range candidates {
		if t == nil {
			continue
		}
		if err := t.Verify(ctx); err != nil {
			log.Warn().Err(err).Str("transport", t.Name()).Msg("Mail transport verification failed")
			continue
		}
		log.Info().Str("transport", t.Name()).Msg("Mail transport ready")
		return t, nil
	}
	return nil, ErrNoTransport
}
