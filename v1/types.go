package v1

// Tweet is a v1.1 status object, trimmed to the fields the library
// exposes.
type Tweet struct {
	ID        int64  `json:"id"`
	IDStr     string `json:"id_str"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
	User      *struct {
		ID         int64  `json:"id"`
		ScreenName string `json:"screen_name"`
	} `json:"user,omitempty"`
}

// UpdateStatusOpts are the optional fields of a status update.
type UpdateStatusOpts struct {
	InReplyToStatusID string
	MediaIDs          []string
	PossiblySensitive *bool
}

// UploadMediaOpts shape a chunked media upload.
type UploadMediaOpts struct {
	// MimeType is the media MIME type, e.g. "image/png".
	MimeType string
	// MediaCategory is the optional processing category, e.g.
	// "tweet_video".
	MediaCategory string
}

// MediaUpload is the upload host's INIT / FINALIZE response.
type MediaUpload struct {
	MediaID          int64  `json:"media_id"`
	MediaIDString    string `json:"media_id_string"`
	Size             int64  `json:"size,omitempty"`
	ExpiresAfterSecs int    `json:"expires_after_secs,omitempty"`
	ProcessingInfo   *struct {
		State          string `json:"state"`
		CheckAfterSecs int    `json:"check_after_secs,omitempty"`
	} `json:"processing_info,omitempty"`
}
