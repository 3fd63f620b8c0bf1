package platform

import (
	"encoding/json"

	"coffeetalk/domain"
)

// Wire shapes of the messaging platform's JSON Web API. Only the fields the
// adapter reads are declared.

type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type wireChannel struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Creator   string `json:"creator"`
	IsPrivate bool   `json:"is_private"`
	IsMember  bool   `json:"is_member"`
}

func (w wireChannel) toDomain() domain.Channel {
	return domain.Channel{
		ID:        w.ID,
		Name:      w.Name,
		Creator:   w.Creator,
		IsPrivate: w.IsPrivate,
		IsMember:  w.IsMember,
	}
}

type wireProfile struct {
	DisplayName string `json:"display_name"`
}

type wireUser struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Deleted      bool        `json:"deleted"`
	IsAdmin      bool        `json:"is_admin"`
	IsOwner      bool        `json:"is_owner"`
	IsBot        bool        `json:"is_bot"`
	IsRestricted bool        `json:"is_restricted"`
	Profile      wireProfile `json:"profile"`
}

func (w wireUser) toDomain() domain.User {
	return domain.User{
		ID:           w.ID,
		Name:         w.Name,
		DisplayName:  w.Profile.DisplayName,
		IsAdmin:      w.IsAdmin || w.IsOwner,
		IsBot:        w.IsBot,
		IsRestricted: w.IsRestricted,
		Deleted:      w.Deleted,
	}
}

type channelResponse struct {
	apiResponse
	Channel wireChannel `json:"channel"`
}

type channelListResponse struct {
	apiResponse
	Channels         []wireChannel `json:"channels"`
	ResponseMetadata struct {
		NextCursor string `json:"next_cursor"`
	} `json:"response_metadata"`
}

type userResponse struct {
	apiResponse
	User wireUser `json:"user"`
}

type userListResponse struct {
	apiResponse
	Members          []wireUser `json:"members"`
	ResponseMetadata struct {
		NextCursor string `json:"next_cursor"`
	} `json:"response_metadata"`
}

type authTestResponse struct {
	apiResponse
	UserID string `json:"user_id"`
	Team   string `json:"team"`
}

type connectionsOpenResponse struct {
	apiResponse
	URL string `json:"url"`
}

// Socket Mode envelopes. The "user" field of an event is a plain id for
// messages but a full record for team_join, hence the raw message.

type socketEvent struct {
	Type        string          `json:"type"` // message, team_join
	Subtype     string          `json:"subtype"`
	Channel     string          `json:"channel"`
	ChannelType string          `json:"channel_type"`
	User        json.RawMessage `json:"user"`
	Text        string          `json:"text"`
	TS          string          `json:"ts"`
	ThreadTS    *string         `json:"thread_ts"`
}

type socketEnvelope struct {
	Type       string `json:"type"` // hello, disconnect, events_api, slash_commands
	EnvelopeID string `json:"envelope_id"`
	Payload    struct {
		Event socketEvent `json:"event"`

		// Slash command fields sit directly on the payload.
		Command     string `json:"command"`
		UserID      string `json:"user_id"`
		ChannelID   string `json:"channel_id"`
		ChannelName string `json:"channel_name"`
		Text        string `json:"text"`
	} `json:"payload"`
}

type socketAck struct {
	EnvelopeID string `json:"envelope_id"`
}
