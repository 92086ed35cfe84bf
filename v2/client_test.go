package v2

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/kbukum/twitterkit/request"
	"github.com/kbukum/twitterkit/stream"
	"github.com/kbukum/twitterkit/transport"
)

// fakeSender records the parameters of each call and replays a canned
// response body.
type fakeSender struct {
	params   []request.Params
	status   int
	body     string
	sendErr  error
	streamed bool
}

func (f *fakeSender) Send(ctx context.Context, p request.Params) (*transport.Response, error) {
	f.params = append(f.params, p)
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	return &transport.Response{StatusCode: status, Body: []byte(f.body)}, nil
}

func (f *fakeSender) SendStream(ctx context.Context, p request.Params) (*stream.Stream, error) {
	f.params = append(f.params, p)
	f.streamed = true
	return stream.New(stream.Config{}), nil
}

func (f *fakeSender) last(t *testing.T) request.Params {
	t.Helper()
	if len(f.params) == 0 {
		t.Fatal("no call recorded")
	}
	return f.params[len(f.params)-1]
}

func TestTweetLookup(t *testing.T) {
	f := &fakeSender{body: `{"data":{"id":"20","text":"just setting up my twttr","author_id":"12"}}`}
	c := New(f)

	resp, err := c.TweetLookup(context.Background(), "20", &TweetLookupOpts{
		Expansions:  []string{"author_id"},
		TweetFields: []string{"created_at", "lang"},
	})
	if err != nil {
		t.Fatalf("TweetLookup: %v", err)
	}
	if resp.Data.ID != "20" || resp.Data.AuthorID != "12" {
		t.Errorf("decoded tweet %+v", resp.Data)
	}

	p := f.last(t)
	if p.URL != "https://api.twitter.com/2/tweets/:id" {
		t.Errorf("URL = %q", p.URL)
	}
	if p.PathParams["id"] != "20" {
		t.Errorf("path params %v", p.PathParams)
	}
	if p.Query["expansions"] != "author_id" {
		t.Errorf("expansions query %v", p.Query["expansions"])
	}
	if p.Query["tweet.fields"] != "created_at,lang" {
		t.Errorf("tweet.fields query %v", p.Query["tweet.fields"])
	}
	if p.Method != "" {
		t.Errorf("method %q should be left for the builder default", p.Method)
	}
}

func TestTweetLookup_NilOpts(t *testing.T) {
	f := &fakeSender{body: `{"data":{"id":"20","text":"x"}}`}
	c := New(f)

	if _, err := c.TweetLookup(context.Background(), "20", nil); err != nil {
		t.Fatalf("TweetLookup: %v", err)
	}
	if q := f.last(t).Query; len(q) != 0 {
		t.Errorf("nil opts produced query %v", q)
	}
}

func TestUserByUsername(t *testing.T) {
	f := &fakeSender{body: `{"data":{"id":"12","name":"Jack","username":"jack"}}`}
	c := New(f)

	resp, err := c.UserByUsername(context.Background(), "jack", nil)
	if err != nil {
		t.Fatalf("UserByUsername: %v", err)
	}
	if resp.Data.Username != "jack" {
		t.Errorf("decoded user %+v", resp.Data)
	}
	p := f.last(t)
	if p.URL != "https://api.twitter.com/2/users/by/username/:username" {
		t.Errorf("URL = %q", p.URL)
	}
	if p.PathParams["username"] != "jack" {
		t.Errorf("path params %v", p.PathParams)
	}
}

func TestSearchRecent(t *testing.T) {
	f := &fakeSender{body: `{"data":[{"id":"1","text":"a"},{"id":"2","text":"b"}],"meta":{"result_count":2,"next_token":"tok"}}`}
	c := New(f)

	resp, err := c.SearchRecent(context.Background(), "golang -is:retweet", &SearchOpts{MaxResults: 25})
	if err != nil {
		t.Fatalf("SearchRecent: %v", err)
	}
	if len(resp.Data) != 2 || resp.Meta.NextToken != "tok" {
		t.Errorf("decoded search %+v", resp)
	}

	p := f.last(t)
	if p.Query["query"] != "golang -is:retweet" {
		t.Errorf("query param %v", p.Query["query"])
	}
	if p.Query["max_results"] != "25" {
		t.Errorf("max_results %v", p.Query["max_results"])
	}
}

func TestCreateTweet(t *testing.T) {
	f := &fakeSender{body: `{"data":{"id":"99","text":"hello"}}`}
	c := New(f)

	resp, err := c.CreateTweet(context.Background(), CreateTweetRequest{
		Text:  "hello",
		Reply: &TweetReply{InReplyToTweetID: "20"},
	})
	if err != nil {
		t.Fatalf("CreateTweet: %v", err)
	}
	if resp.Data.ID != "99" {
		t.Errorf("created id %q", resp.Data.ID)
	}

	p := f.last(t)
	if p.Method != "POST" || p.BodyType != request.BodyTypeJSON {
		t.Errorf("method %q body type %q", p.Method, p.BodyType)
	}
	if p.Body["text"] != "hello" {
		t.Errorf("body text %v", p.Body["text"])
	}
	reply, ok := p.Body["reply"].(map[string]any)
	if !ok || reply["in_reply_to_tweet_id"] != "20" {
		t.Errorf("body reply %v", p.Body["reply"])
	}
	if _, present := p.Body["reply_settings"]; present {
		t.Error("empty reply_settings should be omitted")
	}
}

func TestUpdateStreamRules(t *testing.T) {
	f := &fakeSender{body: `{"data":[{"id":"r1","value":"golang"}],"meta":{"summary":{"created":1}}}`}
	c := New(f)

	resp, err := c.UpdateStreamRules(context.Background(), UpdateRulesRequest{
		Add: []StreamRule{{Value: "golang", Tag: "go"}},
	}, true)
	if err != nil {
		t.Fatalf("UpdateStreamRules: %v", err)
	}
	if resp.Meta.Summary.Created != 1 {
		t.Errorf("summary %+v", resp.Meta)
	}

	p := f.last(t)
	if p.URL != "https://api.twitter.com/2/tweets/search/stream/rules" {
		t.Errorf("URL = %q", p.URL)
	}
	if p.Query["dry_run"] != true {
		t.Errorf("dry_run query %v", p.Query)
	}
	add, ok := p.Body["add"].([]any)
	if !ok || len(add) != 1 {
		t.Fatalf("body add %v", p.Body["add"])
	}
}

func TestSearchStream_PassesOptionsAndConnectFlag(t *testing.T) {
	f := &fakeSender{}
	c := New(f)

	_, err := c.SearchStream(context.Background(), &StreamOpts{
		TweetFields:   []string{"created_at"},
		NoAutoConnect: true,
	})
	if err != nil {
		t.Fatalf("SearchStream: %v", err)
	}
	if !f.streamed {
		t.Fatal("SendStream not invoked")
	}
	p := f.last(t)
	if p.URL != "https://api.twitter.com/2/tweets/search/stream" {
		t.Errorf("URL = %q", p.URL)
	}
	if !p.NoAutoConnect {
		t.Error("NoAutoConnect not propagated")
	}
	if p.Query["tweet.fields"] != "created_at" {
		t.Errorf("tweet.fields %v", p.Query["tweet.fields"])
	}
	if _, present := p.Query["-"]; present {
		t.Error("NoAutoConnect leaked into the query")
	}
}

func TestSampleStreamURL(t *testing.T) {
	f := &fakeSender{}
	c := New(f)
	if _, err := c.SampleStream(context.Background(), nil); err != nil {
		t.Fatalf("SampleStream: %v", err)
	}
	if got := f.last(t).URL; got != "https://api.twitter.com/2/tweets/sample/stream" {
		t.Errorf("URL = %q", got)
	}
}

func TestBodyOfRoundTrip(t *testing.T) {
	body, err := bodyOf(CreateTweetRequest{Text: "x", Poll: &TweetPoll{Options: []string{"a", "b"}, DurationMinutes: 60}})
	if err != nil {
		t.Fatalf("bodyOf: %v", err)
	}
	raw, _ := json.Marshal(body)
	var back CreateTweetRequest
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if back.Poll == nil || back.Poll.DurationMinutes != 60 {
		t.Errorf("round tripped %+v", back)
	}
}
