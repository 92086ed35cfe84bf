// Package v2 provides typed access to the Twitter API v2 surface:
// tweet lookup, user lookup, recent search, tweet creation, and the
// filtered and sampled streams with their rule management.
//
// Methods assemble request parameters and delegate to a Sender,
// normally the twitterkit Client.
package v2
