// Package twitterkit is a client library for the Twitter/X API,
// covering both the v1.1 and v2 surfaces.
//
// A Client owns one immutable credential set, builds and signs
// requests, executes them with per-endpoint rate-limit tracking, and
// exposes typed API surfaces through V1 and V2:
//
//	client, err := twitterkit.New(twitterkit.Config{
//		Credentials: credentials.Config{BearerToken: token},
//	})
//	if err != nil {
//		return err
//	}
//	tweet, err := client.V2().TweetLookup(ctx, "20", nil)
//
// Untyped access is available through Send and SendStream, which take
// a request.Params describing a single call.
package twitterkit
