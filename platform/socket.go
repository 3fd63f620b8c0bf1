package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gorilla/websocket"

	"coffeetalk/domain/event"
)

// Publisher receives the envelopes decoded off the socket. The runtime
// orchestrator satisfies it.
type Publisher interface {
	Publish(envelope event.Envelope)
}

// SocketTransport is the worker that holds the Socket Mode connection. It
// opens a fresh endpoint, acknowledges every envelope, decodes the payloads
// the system cares about and hands them to the publisher. Any read error is
// returned so the supervisor reconnects with a new endpoint.
type SocketTransport struct {
	client    *Client
	publisher Publisher
	dialer    *websocket.Dialer
	log       *slog.Logger
}

func NewSocketTransport(client *Client, publisher Publisher, log *slog.Logger) *SocketTransport {
	return &SocketTransport{
		client:    client,
		publisher: publisher,
		dialer:    websocket.DefaultDialer,
		log:       log,
	}
}

func (s *SocketTransport) Run(ctx context.Context) error {
	endpoint, err := s.client.openSocketURL(ctx)
	if err != nil {
		return err
	}

	conn, _, err := s.dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to dial socket endpoint: %w", err)
	}
	defer conn.Close()

	// Unblock ReadMessage when the context is cancelled. The watcher must
	// not outlive this connection: Run returns on every disconnect and the
	// supervisor restarts it, so a leak here accumulates per reconnect.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	s.log.Info("socket transport connected")

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("socket read failed: %w", err)
		}

		var envelope socketEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			s.log.Warn("discarding undecodable socket frame", "error", err)
			continue
		}

		if envelope.EnvelopeID != "" {
			if err := conn.WriteJSON(socketAck{EnvelopeID: envelope.EnvelopeID}); err != nil {
				return fmt.Errorf("failed to acknowledge envelope: %w", err)
			}
		}

		switch envelope.Type {
		case "hello":
			s.log.Debug("socket hello received")
		case "disconnect":
			// The platform refreshes endpoints periodically. Returning lets
			// the supervisor restart the worker against a fresh URL.
			return fmt.Errorf("socket disconnect requested by platform")
		case "events_api":
			s.handleEvent(envelope.Payload.Event)
		case "slash_commands":
			s.publisher.Publish(event.NewEnvelope(event.KindCommand, event.CommandInvoked{
				Command:     strings.TrimPrefix(envelope.Payload.Command, "/"),
				UserID:      envelope.Payload.UserID,
				ChannelID:   envelope.Payload.ChannelID,
				ChannelName: envelope.Payload.ChannelName,
				Text:        envelope.Payload.Text,
			}))
		default:
			s.log.Debug("ignoring socket envelope", "type", envelope.Type)
		}
	}
}

func (s *SocketTransport) handleEvent(ev socketEvent) {
	switch ev.Type {
	case "message":
		var userID string
		if err := json.Unmarshal(ev.User, &userID); err != nil {
			s.log.Warn("discarding message with unreadable author", "error", err)
			return
		}
		s.publisher.Publish(event.NewEnvelope(event.KindMessage, event.MessagePosted{
			ChannelID:    ev.Channel,
			ChannelType:  ev.ChannelType,
			UserID:       userID,
			Text:         ev.Text,
			Timestamp:    ev.TS,
			ThreadParent: ev.ThreadTS,
			Subtype:      ev.Subtype,
		}))
	case "team_join":
		var joined wireUser
		if err := json.Unmarshal(ev.User, &joined); err != nil {
			s.log.Warn("discarding team_join with unreadable record", "error", err)
			return
		}
		s.publisher.Publish(event.NewEnvelope(event.KindMember, event.MemberJoined{
			User: joined.toDomain(),
		}))
	default:
		s.log.Debug("ignoring platform event", "type", ev.Type)
	}
}
