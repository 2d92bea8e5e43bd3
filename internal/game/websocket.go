package game

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/scythe504/typerace-backend/internal"
	"github.com/scythe504/typerace-backend/internal/metrics"
)

// =============================================================================
// INBOUND EVENT HANDLING
// =============================================================================

// HandleMessage decodes one inbound frame from token and routes it. Frames
// from one connection arrive here in order; malformed frames are dropped.
func (e *Engine) HandleMessage(ctx context.Context, token string, raw []byte) {
	var baseMsg internal.Message[json.RawMessage]
	if err := json.Unmarshal(raw, &baseMsg); err != nil {
		log.Warn().Err(err).Str("token", token).Msg("failed to parse base message")
		return
	}

	log.Debug().Str("type", baseMsg.Type).Str("token", token).Msg("received message")

	switch baseMsg.Type {
	case internal.EventFindMatch:
		metrics.InboundEventsTotal.WithLabelValues(baseMsg.Type).Inc()
		e.FindMatch(ctx, token)

	case internal.EventCancelFindMatch:
		metrics.InboundEventsTotal.WithLabelValues(baseMsg.Type).Inc()
		e.CancelFindMatch(token)

	case internal.EventMatchLog:
		metrics.InboundEventsTotal.WithLabelValues(baseMsg.Type).Inc()
		var data internal.MatchLogData
		if err := json.Unmarshal(baseMsg.Data, &data); err != nil {
			log.Warn().Err(err).Str("token", token).Msg("invalid match_log payload")
			return
		}
		e.MatchLog(token, data.RoomID, data.Log)

	case internal.EventMatchCPM:
		metrics.InboundEventsTotal.WithLabelValues(baseMsg.Type).Inc()
		var data internal.MatchCPMData
		if err := json.Unmarshal(baseMsg.Data, &data); err != nil {
			log.Warn().Err(err).Str("token", token).Msg("invalid match_cpm payload")
			return
		}
		e.MatchCPM(token, data.RoomID, data.CPM)

	default:
		log.Debug().Str("type", baseMsg.Type).Str("token", token).Msg("unknown message type")
	}
}

// HandleDisconnect is called once when token's connection closes.
func (e *Engine) HandleDisconnect(token string) {
	e.Disconnect(token)
}
