package v1

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/kbukum/twitterkit/request"
	"github.com/kbukum/twitterkit/transport"
	"github.com/kbukum/twitterkit/util"
)

type fakeSender struct {
	params []request.Params
	// bodies replays one response per call, in order. An empty string
	// replays a 204 with no body.
	bodies []string
}

func (f *fakeSender) Send(ctx context.Context, p request.Params) (*transport.Response, error) {
	f.params = append(f.params, p)
	var body string
	if n := len(f.params) - 1; n < len(f.bodies) {
		body = f.bodies[n]
	}
	status := http.StatusOK
	if body == "" {
		status = http.StatusNoContent
	}
	return &transport.Response{StatusCode: status, Body: []byte(body)}, nil
}

func TestUpdateStatus(t *testing.T) {
	f := &fakeSender{bodies: []string{`{"id":99,"id_str":"99","text":"hello"}`}}
	c := New(f)

	tweet, err := c.UpdateStatus(context.Background(), "hello", &UpdateStatusOpts{
		InReplyToStatusID: "20",
		MediaIDs:          []string{"710511363345354753"},
		PossiblySensitive: util.Ptr(false),
	})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if tweet.IDStr != "99" {
		t.Errorf("tweet %+v", tweet)
	}

	p := f.params[0]
	if p.URL != "https://api.twitter.com/1.1/statuses/update.json" {
		t.Errorf("URL = %q", p.URL)
	}
	if p.Method != "POST" {
		t.Errorf("method %q", p.Method)
	}
	if p.BodyType != request.BodyTypeAuto {
		t.Errorf("body type %q should stay auto so the v1.1 host resolves to form", p.BodyType)
	}
	if p.Body["status"] != "hello" {
		t.Errorf("body status %v", p.Body["status"])
	}
	if p.Body["in_reply_to_status_id"] != "20" || p.Body["auto_populate_reply_metadata"] != true {
		t.Errorf("reply fields %v", p.Body)
	}
	if p.Body["possibly_sensitive"] != false {
		t.Errorf("possibly_sensitive %v", p.Body["possibly_sensitive"])
	}
}

func TestUpdateStatus_MinimalBody(t *testing.T) {
	f := &fakeSender{bodies: []string{`{"id_str":"1","text":"x"}`}}
	c := New(f)

	if _, err := c.UpdateStatus(context.Background(), "x", nil); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got := len(f.params[0].Body); got != 1 {
		t.Errorf("nil opts produced %d body fields: %v", got, f.params[0].Body)
	}
}

func TestUploadMedia_ChunksAndFinalizes(t *testing.T) {
	media := bytes.Repeat([]byte{0xAB}, chunkSize+chunkSize/2) // two segments
	f := &fakeSender{bodies: []string{
		`{"media_id":710,"media_id_string":"710","expires_after_secs":86400}`, // INIT
		"", // APPEND 0
		"", // APPEND 1
		`{"media_id":710,"media_id_string":"710","size":1572864}`, // FINALIZE
	}}
	c := New(f)

	up, err := c.UploadMedia(context.Background(), media, UploadMediaOpts{MimeType: "video/mp4", MediaCategory: "tweet_video"})
	if err != nil {
		t.Fatalf("UploadMedia: %v", err)
	}
	if up.MediaIDString != "710" || up.Size != 1572864 {
		t.Errorf("finalized %+v", up)
	}
	if len(f.params) != 4 {
		t.Fatalf("expected INIT+2 APPEND+FINALIZE, got %d calls", len(f.params))
	}

	init := f.params[0]
	if init.URL != "https://upload.twitter.com/1.1/media/upload.json" {
		t.Errorf("INIT URL %q", init.URL)
	}
	if init.Body["command"] != "INIT" || init.Body["total_bytes"] != len(media) {
		t.Errorf("INIT body %v", init.Body)
	}
	if init.Body["media_category"] != "tweet_video" {
		t.Errorf("INIT media_category %v", init.Body["media_category"])
	}

	for i, want := range []string{"0", "1"} {
		app := f.params[1+i]
		if app.Body["command"] != "APPEND" || app.Body["segment_index"] != want {
			t.Errorf("APPEND %d body %v", i, app.Body)
		}
		chunk, ok := app.Body["media"].([]byte)
		if !ok {
			t.Fatalf("APPEND %d media is %T", i, app.Body["media"])
		}
		wantLen := chunkSize
		if i == 1 {
			wantLen = chunkSize / 2
		}
		if len(chunk) != wantLen {
			t.Errorf("APPEND %d chunk length %d, want %d", i, len(chunk), wantLen)
		}
	}

	fin := f.params[3]
	if fin.Body["command"] != "FINALIZE" || fin.Body["media_id"] != "710" {
		t.Errorf("FINALIZE body %v", fin.Body)
	}
}

func TestUploadMedia_OmitsEmptyCategory(t *testing.T) {
	f := &fakeSender{bodies: []string{
		`{"media_id_string":"5"}`,
		"",
		`{"media_id_string":"5"}`,
	}}
	c := New(f)

	if _, err := c.UploadMedia(context.Background(), []byte("png-bytes"), UploadMediaOpts{MimeType: "image/png"}); err != nil {
		t.Fatalf("UploadMedia: %v", err)
	}
	if v, present := f.params[0].Body["media_category"]; present && v != nil {
		t.Errorf("empty category sent as %v", v)
	}
}

func TestUploadMedia_Validation(t *testing.T) {
	c := New(&fakeSender{})
	if _, err := c.UploadMedia(context.Background(), nil, UploadMediaOpts{MimeType: "image/png"}); err == nil {
		t.Error("expected error for empty media")
	}
	if _, err := c.UploadMedia(context.Background(), []byte("x"), UploadMediaOpts{}); err == nil {
		t.Error("expected error for missing mime type")
	}
}
