package v1

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kbukum/twitterkit/request"
	"github.com/kbukum/twitterkit/transport"
	"github.com/kbukum/twitterkit/util"
)

const (
	apiBase    = "https://api.twitter.com/1.1/"
	uploadBase = "https://upload.twitter.com/1.1/"

	// chunkSize is the APPEND segment size for chunked media upload.
	chunkSize = 1024 * 1024
)

// Sender executes built API calls. *twitterkit.Client satisfies it.
type Sender interface {
	Send(ctx context.Context, p request.Params) (*transport.Response, error)
}

// Client is the typed v1.1 surface.
type Client struct {
	s Sender
}

// New wraps a Sender in the typed v1.1 surface.
func New(s Sender) *Client {
	return &Client{s: s}
}

// UpdateStatus posts a tweet through the v1.1 endpoint. The form body
// participates in the OAuth1 signature.
func (c *Client) UpdateStatus(ctx context.Context, status string, opts *UpdateStatusOpts) (*Tweet, error) {
	body := map[string]any{"status": status}
	if opts != nil {
		if opts.InReplyToStatusID != "" {
			body["in_reply_to_status_id"] = opts.InReplyToStatusID
			body["auto_populate_reply_metadata"] = true
		}
		if len(opts.MediaIDs) > 0 {
			body["media_ids"] = opts.MediaIDs
		}
		if opts.PossiblySensitive != nil {
			body["possibly_sensitive"] = util.Deref(opts.PossiblySensitive)
		}
	}
	resp, err := c.s.Send(ctx, request.Params{
		URL:    apiBase + "statuses/update.json",
		Method: "POST",
		Body:   body,
	})
	if err != nil {
		return nil, err
	}
	var tweet Tweet
	if err := resp.DecodeJSON(&tweet); err != nil {
		return nil, err
	}
	return &tweet, nil
}

// UploadMedia runs the chunked INIT / APPEND / FINALIZE flow against
// the upload host and returns the finalized media. The media ID goes
// into UpdateStatusOpts.MediaIDs or a v2 create-tweet call.
func (c *Client) UploadMedia(ctx context.Context, media []byte, opts UploadMediaOpts) (*MediaUpload, error) {
	if len(media) == 0 {
		return nil, fmt.Errorf("upload media: empty payload")
	}
	if opts.MimeType == "" {
		return nil, fmt.Errorf("upload media: missing mime type")
	}

	init, err := c.mediaCommand(ctx, map[string]any{
		"command":        "INIT",
		"total_bytes":    len(media),
		"media_type":     opts.MimeType,
		"media_category": nilIfEmpty(opts.MediaCategory),
	})
	if err != nil {
		return nil, fmt.Errorf("media INIT: %w", err)
	}
	mediaID := init.MediaIDString
	if mediaID == "" {
		return nil, fmt.Errorf("media INIT: response carries no media id")
	}

	for segment := 0; segment*chunkSize < len(media); segment++ {
		start := segment * chunkSize
		end := min(start+chunkSize, len(media))
		_, err := c.mediaCommand(ctx, map[string]any{
			"command":       "APPEND",
			"media_id":      mediaID,
			"segment_index": strconv.Itoa(segment),
			"media":         media[start:end],
		})
		if err != nil {
			return nil, fmt.Errorf("media APPEND segment %d: %w", segment, err)
		}
	}

	fin, err := c.mediaCommand(ctx, map[string]any{
		"command":  "FINALIZE",
		"media_id": mediaID,
	})
	if err != nil {
		return nil, fmt.Errorf("media FINALIZE: %w", err)
	}
	return fin, nil
}

// mediaCommand issues one media/upload call. The upload host makes
// the builder encode the body as multipart; []byte values become file
// parts.
func (c *Client) mediaCommand(ctx context.Context, body map[string]any) (*MediaUpload, error) {
	resp, err := c.s.Send(ctx, request.Params{
		URL:    uploadBase + "media/upload.json",
		Method: "POST",
		Body:   body,
	})
	if err != nil {
		return nil, err
	}
	out := &MediaUpload{}
	// APPEND responds 204 with no body.
	if len(resp.Body) > 0 {
		if err := resp.DecodeJSON(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
