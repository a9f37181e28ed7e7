package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://slack.com/api"
	defaultTimeout = 5 * time.Second
)

// Client wraps the handful of Slack Web API calls the bot needs. All
// directory calls carry a bounded timeout; callers that can degrade
// gracefully treat a failure as a miss.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
	cache   *MemberCache
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithMemberCache puts a shared cache in front of the member listing.
func WithMemberCache(mc *MemberCache) Option {
	return func(c *Client) { c.cache = mc }
}

func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		token:   token,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListActiveMembers returns every non-deleted, non-bot member of the
// workspace, following pagination cursors.
func (c *Client) ListActiveMembers(ctx context.Context) ([]Member, error) {
	if c.cache != nil {
		if members, ok := c.cache.Get(ctx); ok {
			return members, nil
		}
	}

	var members []Member
	cursor := ""
	for {
		q := url.Values{"limit": {"200"}}
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		var resp usersListResponse
		if err := c.get(ctx, "users.list", q, &resp); err != nil {
			return nil, err
		}
		if !resp.OK {
			return nil, fmt.Errorf("ListActiveMembers: slack api error: %s", resp.Error)
		}

		for _, m := range resp.Members {
			if m.Deleted || m.IsBot {
				continue
			}
			members = append(members, m.toMember())
		}

		cursor = resp.ResponseMetadata.NextCursor
		if cursor == "" {
			break
		}
	}

	if c.cache != nil {
		c.cache.Set(ctx, members)
	}

	return members, nil
}

// GetMemberByID looks up a single member via users.info.
func (c *Client) GetMemberByID(ctx context.Context, id string) (*Member, error) {
	var resp usersInfoResponse
	if err := c.get(ctx, "users.info", url.Values{"user": {id}}, &resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, fmt.Errorf("GetMemberByID: slack api error: %s", resp.Error)
	}
	member := resp.User.toMember()
	return &member, nil
}

// PostMessage posts to a channel via chat.postMessage.
func (c *Client) PostMessage(ctx context.Context, channel, text string, blocks []Block) error {
	payload := map[string]any{
		"channel": channel,
		"text":    text,
	}
	if len(blocks) > 0 {
		payload["blocks"] = blocks
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("PostMessage: failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat.postMessage", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("PostMessage: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("PostMessage: failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("PostMessage: slack api responded with status %s", resp.Status)
	}

	var result postMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("PostMessage: failed to decode response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("PostMessage: slack api error: %s", result.Error)
	}

	return nil
}

func (c *Client) get(ctx context.Context, method string, q url.Values, out any) error {
	u := c.baseURL + "/" + method
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", method, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[ERROR] slack %s responded with status %s", method, resp.Status)
		return fmt.Errorf("%s: slack api responded with status %s", method, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", method, err)
	}

	return nil
}
