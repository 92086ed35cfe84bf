package v2

import "time"

// Tweet is a v2 tweet object. Optional fields appear only when the
// corresponding tweet.fields expansion was requested.
type Tweet struct {
	ID             string        `json:"id"`
	Text           string        `json:"text"`
	AuthorID       string        `json:"author_id,omitempty"`
	ConversationID string        `json:"conversation_id,omitempty"`
	CreatedAt      *time.Time    `json:"created_at,omitempty"`
	Lang           string        `json:"lang,omitempty"`
	PublicMetrics  *TweetMetrics `json:"public_metrics,omitempty"`
}

// TweetMetrics are public engagement counts.
type TweetMetrics struct {
	RetweetCount int `json:"retweet_count"`
	ReplyCount   int `json:"reply_count"`
	LikeCount    int `json:"like_count"`
	QuoteCount   int `json:"quote_count"`
}

// User is a v2 user object.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Username  string     `json:"username"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	Protected bool       `json:"protected,omitempty"`
	Verified  bool       `json:"verified,omitempty"`
}

// Includes carries expanded objects referenced by the primary data.
type Includes struct {
	Tweets []Tweet `json:"tweets,omitempty"`
	Users  []User  `json:"users,omitempty"`
}

// APIError is one in-band error entry of a v2 response envelope.
type APIError struct {
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
	Type   string `json:"type,omitempty"`
}

// TweetResponse is the envelope of a single-tweet lookup.
type TweetResponse struct {
	Data     Tweet      `json:"data"`
	Includes *Includes  `json:"includes,omitempty"`
	Errors   []APIError `json:"errors,omitempty"`
}

// UserResponse is the envelope of a single-user lookup.
type UserResponse struct {
	Data     User       `json:"data"`
	Includes *Includes  `json:"includes,omitempty"`
	Errors   []APIError `json:"errors,omitempty"`
}

// SearchMeta is the paging block of a search response.
type SearchMeta struct {
	NewestID    string `json:"newest_id,omitempty"`
	OldestID    string `json:"oldest_id,omitempty"`
	ResultCount int    `json:"result_count"`
	NextToken   string `json:"next_token,omitempty"`
}

// SearchResponse is the envelope of a recent-search call.
type SearchResponse struct {
	Data     []Tweet     `json:"data"`
	Includes *Includes   `json:"includes,omitempty"`
	Meta     *SearchMeta `json:"meta,omitempty"`
	Errors   []APIError  `json:"errors,omitempty"`
}

// TweetLookupOpts select the fields and expansions of a tweet lookup.
type TweetLookupOpts struct {
	Expansions  []string `url:"expansions,comma,omitempty"`
	TweetFields []string `url:"tweet.fields,comma,omitempty"`
	UserFields  []string `url:"user.fields,comma,omitempty"`
}

// UserLookupOpts select the fields and expansions of a user lookup.
type UserLookupOpts struct {
	Expansions  []string `url:"expansions,comma,omitempty"`
	TweetFields []string `url:"tweet.fields,comma,omitempty"`
	UserFields  []string `url:"user.fields,comma,omitempty"`
}

// SearchOpts page and shape a recent-search call. The search query
// itself is a separate argument.
type SearchOpts struct {
	MaxResults  int      `url:"max_results,omitempty"`
	NextToken   string   `url:"next_token,omitempty"`
	SinceID     string   `url:"since_id,omitempty"`
	UntilID     string   `url:"until_id,omitempty"`
	Expansions  []string `url:"expansions,comma,omitempty"`
	TweetFields []string `url:"tweet.fields,comma,omitempty"`
	UserFields  []string `url:"user.fields,comma,omitempty"`
}

// CreateTweetRequest is the body of a tweet-create call.
type CreateTweetRequest struct {
	Text          string      `json:"text"`
	ReplySettings string      `json:"reply_settings,omitempty"`
	QuoteTweetID  string      `json:"quote_tweet_id,omitempty"`
	Reply         *TweetReply `json:"reply,omitempty"`
	Poll          *TweetPoll  `json:"poll,omitempty"`
}

// TweetReply threads a created tweet under another.
type TweetReply struct {
	InReplyToTweetID    string   `json:"in_reply_to_tweet_id"`
	ExcludeReplyUserIDs []string `json:"exclude_reply_user_ids,omitempty"`
}

// TweetPoll attaches a poll to a created tweet.
type TweetPoll struct {
	Options         []string `json:"options"`
	DurationMinutes int      `json:"duration_minutes"`
}

// CreateTweetResponse is the envelope of a tweet-create call.
type CreateTweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
	Errors []APIError `json:"errors,omitempty"`
}

// StreamRule is one filtered-stream matching rule.
type StreamRule struct {
	ID    string `json:"id,omitempty"`
	Value string `json:"value"`
	Tag   string `json:"tag,omitempty"`
}

// RulesMeta summarizes a rule fetch or update.
type RulesMeta struct {
	Sent    string `json:"sent,omitempty"`
	Summary *struct {
		Created    int `json:"created,omitempty"`
		NotCreated int `json:"not_created,omitempty"`
		Deleted    int `json:"deleted,omitempty"`
		NotDeleted int `json:"not_deleted,omitempty"`
	} `json:"summary,omitempty"`
}

// StreamRulesResponse is the envelope of rule fetch and update calls.
type StreamRulesResponse struct {
	Data   []StreamRule `json:"data"`
	Meta   *RulesMeta   `json:"meta,omitempty"`
	Errors []APIError   `json:"errors,omitempty"`
}

// RuleDelete names rules to remove by ID.
type RuleDelete struct {
	IDs []string `json:"ids"`
}

// UpdateRulesRequest adds and/or deletes filtered-stream rules.
type UpdateRulesRequest struct {
	Add    []StreamRule `json:"add,omitempty"`
	Delete *RuleDelete  `json:"delete,omitempty"`
}

// StreamOpts shape a filtered or sampled stream connection.
type StreamOpts struct {
	Expansions      []string `url:"expansions,comma,omitempty"`
	TweetFields     []string `url:"tweet.fields,comma,omitempty"`
	UserFields      []string `url:"user.fields,comma,omitempty"`
	BackfillMinutes int      `url:"backfill_minutes,omitempty"`

	// NoAutoConnect returns the stream unconnected.
	NoAutoConnect bool `url:"-"`
}
