package v2

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/go-querystring/query"

	"github.com/kbukum/twitterkit/request"
	"github.com/kbukum/twitterkit/stream"
	"github.com/kbukum/twitterkit/transport"
)

const apiBase = "https://api.twitter.com/2/"

// Sender executes built API calls. *twitterkit.Client satisfies it.
type Sender interface {
	Send(ctx context.Context, p request.Params) (*transport.Response, error)
	SendStream(ctx context.Context, p request.Params) (*stream.Stream, error)
}

// Client is the typed v2 surface.
type Client struct {
	s Sender
}

// New wraps a Sender in the typed v2 surface.
func New(s Sender) *Client {
	return &Client{s: s}
}

// queryOf encodes a typed option struct into query parameters.
// A nil pointer yields no parameters.
func queryOf(opts any) (map[string]any, error) {
	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("encode query options: %w", err)
	}
	if len(v) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(v))
	for k := range v {
		out[k] = v.Get(k)
	}
	return out, nil
}

// bodyOf flattens a typed request struct into body fields.
func bodyOf(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, p request.Params, out any) error {
	resp, err := c.s.Send(ctx, p)
	if err != nil {
		return err
	}
	return resp.DecodeJSON(out)
}

// TweetLookup fetches a single tweet by ID.
func (c *Client) TweetLookup(ctx context.Context, id string, opts *TweetLookupOpts) (*TweetResponse, error) {
	q, err := queryOf(opts)
	if err != nil {
		return nil, err
	}
	var out TweetResponse
	err = c.get(ctx, request.Params{
		URL:        apiBase + "tweets/:id",
		PathParams: map[string]string{"id": id},
		Query:      q,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UserByUsername fetches a single user by handle.
func (c *Client) UserByUsername(ctx context.Context, username string, opts *UserLookupOpts) (*UserResponse, error) {
	q, err := queryOf(opts)
	if err != nil {
		return nil, err
	}
	var out UserResponse
	err = c.get(ctx, request.Params{
		URL:        apiBase + "users/by/username/:username",
		PathParams: map[string]string{"username": username},
		Query:      q,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchRecent runs a recent-search query.
func (c *Client) SearchRecent(ctx context.Context, searchQuery string, opts *SearchOpts) (*SearchResponse, error) {
	q, err := queryOf(opts)
	if err != nil {
		return nil, err
	}
	if q == nil {
		q = make(map[string]any, 1)
	}
	q["query"] = searchQuery
	var out SearchResponse
	err = c.get(ctx, request.Params{
		URL:   apiBase + "tweets/search/recent",
		Query: q,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTweet posts a tweet.
func (c *Client) CreateTweet(ctx context.Context, req CreateTweetRequest) (*CreateTweetResponse, error) {
	body, err := bodyOf(req)
	if err != nil {
		return nil, err
	}
	resp, err := c.s.Send(ctx, request.Params{
		URL:      apiBase + "tweets",
		Method:   "POST",
		Body:     body,
		BodyType: request.BodyTypeJSON,
	})
	if err != nil {
		return nil, err
	}
	var out CreateTweetResponse
	if err := resp.DecodeJSON(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StreamRules fetches the active filtered-stream rules.
func (c *Client) StreamRules(ctx context.Context) (*StreamRulesResponse, error) {
	var out StreamRulesResponse
	err := c.get(ctx, request.Params{URL: apiBase + "tweets/search/stream/rules"}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStreamRules adds or deletes filtered-stream rules. Set
// DryRun to validate the change without applying it.
func (c *Client) UpdateStreamRules(ctx context.Context, req UpdateRulesRequest, dryRun bool) (*StreamRulesResponse, error) {
	body, err := bodyOf(req)
	if err != nil {
		return nil, err
	}
	var q map[string]any
	if dryRun {
		q = map[string]any{"dry_run": true}
	}
	resp, err := c.s.Send(ctx, request.Params{
		URL:      apiBase + "tweets/search/stream/rules",
		Method:   "POST",
		Query:    q,
		Body:     body,
		BodyType: request.BodyTypeJSON,
	})
	if err != nil {
		return nil, err
	}
	var out StreamRulesResponse
	if err := resp.DecodeJSON(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchStream connects to the filtered stream.
func (c *Client) SearchStream(ctx context.Context, opts *StreamOpts) (*stream.Stream, error) {
	return c.connectStream(ctx, apiBase+"tweets/search/stream", opts)
}

// SampleStream connects to the 1% sampled stream.
func (c *Client) SampleStream(ctx context.Context, opts *StreamOpts) (*stream.Stream, error) {
	return c.connectStream(ctx, apiBase+"tweets/sample/stream", opts)
}

func (c *Client) connectStream(ctx context.Context, url string, opts *StreamOpts) (*stream.Stream, error) {
	q, err := queryOf(opts)
	if err != nil {
		return nil, err
	}
	var noConnect bool
	if opts != nil {
		noConnect = opts.NoAutoConnect
	}
	return c.s.SendStream(ctx, request.Params{
		URL:           url,
		Query:         q,
		NoAutoConnect: noConnect,
	})
}
