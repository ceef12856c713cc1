package events

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"leadchat-backend/internal/leads"
)

// LeadSink stores a captured lead. Saving the same lead twice must be harmless.
type LeadSink interface {
	SaveLead(ctx context.Context, lead leads.Captured) error
}

// RunArchiver saves every lead event until msgs closes or ctx is done. Bad
// payloads are acked and dropped; sink failures are nacked for redelivery.
func RunArchiver(ctx context.Context, msgs <-chan *message.Message, sink LeadSink, logger zerolog.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			var lead leads.Captured
			if err := json.Unmarshal(msg.Payload, &lead); err != nil {
				logger.Error().Err(err).Str("message_uuid", msg.UUID).Msg("dropping undecodable lead event")
				msg.Ack()
				continue
			}
			if err := sink.SaveLead(ctx, lead); err != nil {
				logger.Warn().Err(err).Str("lead_id", lead.ID).Msg("archive lead failed")
				msg.Nack()
				continue
			}
			logger.Debug().Str("lead_id", lead.ID).Msg("lead archived")
			msg.Ack()
		}
	}
}
