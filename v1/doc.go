// Package v1 provides typed access to the Twitter API v1.1 surface
// the library still needs: chunked media upload against the upload
// host, and status updates.
//
// Methods assemble request parameters and delegate to a Sender,
// normally the twitterkit Client.
package v1
