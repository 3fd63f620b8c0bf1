package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"coffeetalk/domain"
	apperrors "coffeetalk/errors"
)

const defaultBaseURL = "https://slack.com/api"

// Client talks to the platform's Web API and implements contract.Directory.
// Every call carries the caller's context plus a per-call timeout so a slow
// API can never stall a worker loop.
type Client struct {
	httpClient *http.Client
	baseURL    string
	botToken   string
	appToken   string
	timeout    time.Duration
	botUserID  string
	log        *slog.Logger
}

type ClientOption func(*Client)

// WithBaseURL points the client at another API root, used by tests.
func WithBaseURL(base string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = h
	}
}

func NewClient(botToken, appToken string, timeout time.Duration, log *slog.Logger, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    defaultBaseURL,
		botToken:   botToken,
		appToken:   appToken,
		timeout:    timeout,
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authenticate resolves the bot's own user id via auth.test. Must be called
// once before the client is handed to anything that reads BotUserID.
func (c *Client) Authenticate(ctx context.Context) error {
	var resp authTestResponse
	if err := c.call(ctx, "auth.test", nil, c.botToken, &resp); err != nil {
		return fmt.Errorf("failed to authenticate bot: %w", err)
	}
	c.botUserID = resp.UserID
	c.log.Info("authenticated against platform", "bot_user_id", resp.UserID, "team", resp.Team)
	return nil
}

func (c *Client) BotUserID() string {
	return c.botUserID
}

func (c *Client) LookupChannelByName(ctx context.Context, name string) (domain.Channel, error) {
	cursor := ""
	for {
		form := url.Values{
			"limit":            {"200"},
			"types":            {"public_channel,private_channel"},
			"exclude_archived": {"true"},
		}
		if cursor != "" {
			form.Set("cursor", cursor)
		}
		var resp channelListResponse
		if err := c.call(ctx, "conversations.list", form, c.botToken, &resp); err != nil {
			return domain.Channel{}, fmt.Errorf("failed to list channels: %w", err)
		}
		for _, ch := range resp.Channels {
			if ch.Name == name {
				return ch.toDomain(), nil
			}
		}
		cursor = resp.ResponseMetadata.NextCursor
		if cursor == "" {
			return domain.Channel{}, fmt.Errorf("%w: %s", apperrors.ErrChannelNotFound, name)
		}
	}
}

func (c *Client) GetChannel(ctx context.Context, channelID string) (domain.Channel, error) {
	form := url.Values{"channel": {channelID}}
	var resp channelResponse
	if err := c.call(ctx, "conversations.info", form, c.botToken, &resp); err != nil {
		return domain.Channel{}, fmt.Errorf("failed to fetch channel %s: %w", channelID, err)
	}
	return resp.Channel.toDomain(), nil
}

func (c *Client) CreateChannel(ctx context.Context, name string, private bool) (domain.Channel, error) {
	form := url.Values{
		"name":       {name},
		"is_private": {fmt.Sprintf("%t", private)},
	}
	var resp channelResponse
	if err := c.call(ctx, "conversations.create", form, c.botToken, &resp); err != nil {
		return domain.Channel{}, fmt.Errorf("failed to create channel %s: %w", name, err)
	}
	return resp.Channel.toDomain(), nil
}

func (c *Client) InviteUser(ctx context.Context, channelID, userID string) error {
	form := url.Values{
		"channel": {channelID},
		"users":   {userID},
	}
	var resp channelResponse
	if err := c.call(ctx, "conversations.invite", form, c.botToken, &resp); err != nil {
		return fmt.Errorf("failed to invite %s into %s: %w", userID, channelID, err)
	}
	return nil
}

func (c *Client) JoinChannel(ctx context.Context, channelID string) error {
	form := url.Values{"channel": {channelID}}
	var resp channelResponse
	if err := c.call(ctx, "conversations.join", form, c.botToken, &resp); err != nil {
		return fmt.Errorf("failed to join channel %s: %w", channelID, err)
	}
	return nil
}

func (c *Client) PostMessage(ctx context.Context, targetID, text string) error {
	form := url.Values{
		"channel": {targetID},
		"text":    {text},
	}
	var resp apiResponse
	if err := c.call(ctx, "chat.postMessage", form, c.botToken, &resp); err != nil {
		return fmt.Errorf("failed to post message to %s: %w", targetID, err)
	}
	return nil
}

func (c *Client) DeleteMessage(ctx context.Context, channelID, timestamp string) error {
	form := url.Values{
		"channel": {channelID},
		"ts":      {timestamp},
	}
	var resp apiResponse
	if err := c.call(ctx, "chat.delete", form, c.botToken, &resp); err != nil {
		return fmt.Errorf("failed to delete message %s in %s: %w", timestamp, channelID, err)
	}
	return nil
}

func (c *Client) GetUser(ctx context.Context, userID string) (domain.User, error) {
	form := url.Values{"user": {userID}}
	var resp userResponse
	if err := c.call(ctx, "users.info", form, c.botToken, &resp); err != nil {
		return domain.User{}, fmt.Errorf("failed to fetch user %s: %w", userID, err)
	}
	return resp.User.toDomain(), nil
}

func (c *Client) ListMembers(ctx context.Context) ([]domain.User, error) {
	var members []domain.User
	cursor := ""
	for {
		form := url.Values{"limit": {"200"}}
		if cursor != "" {
			form.Set("cursor", cursor)
		}
		var resp userListResponse
		if err := c.call(ctx, "users.list", form, c.botToken, &resp); err != nil {
			return nil, fmt.Errorf("failed to list members: %w", err)
		}
		for _, m := range resp.Members {
			members = append(members, m.toDomain())
		}
		cursor = resp.ResponseMetadata.NextCursor
		if cursor == "" {
			return members, nil
		}
	}
}

func (c *Client) OpenDirectMessage(ctx context.Context, userID string) (string, error) {
	form := url.Values{"users": {userID}}
	var resp channelResponse
	if err := c.call(ctx, "conversations.open", form, c.botToken, &resp); err != nil {
		return "", fmt.Errorf("failed to open direct message with %s: %w", userID, err)
	}
	return resp.Channel.ID, nil
}

// openSocketURL asks the platform for a fresh Socket Mode endpoint. This is
// the one call authenticated with the app-level token.
func (c *Client) openSocketURL(ctx context.Context) (string, error) {
	var resp connectionsOpenResponse
	if err := c.call(ctx, "apps.connections.open", nil, c.appToken, &resp); err != nil {
		return "", fmt.Errorf("failed to open socket connection: %w", err)
	}
	return resp.URL, nil
}

type okChecker interface {
	ok() (bool, string)
}

func (r apiResponse) ok() (bool, string) { return r.OK, r.Error }

func (c *Client) call(ctx context.Context, method string, form url.Values, token string, out okChecker) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body := ""
	if form != nil {
		body = form.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call to %s failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("call to %s returned status %d", method, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if ok, apiErr := out.ok(); !ok {
		return translateAPIError(apiErr)
	}
	return nil
}

// translateAPIError maps the platform's string error codes onto the package
// sentinels so callers can match with errors.Is.
func translateAPIError(code string) error {
	switch code {
	case "name_taken":
		return apperrors.ErrNameTaken
	case "channel_not_found":
		return apperrors.ErrChannelNotFound
	case "user_not_found", "users_not_found":
		return apperrors.ErrUserNotFound
	case "already_in_channel":
		return apperrors.ErrAlreadyInChannel
	default:
		return fmt.Errorf("platform api error: %s", code)
	}
}
