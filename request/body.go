package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// bodyTypeRule maps a URL shape to the body encoding the endpoint
// family expects.
type bodyTypeRule struct {
	match    func(u *url.URL) bool
	bodyType BodyType
}

// Encoding rules, checked in order. Media uploads are multipart, the
// v2 and Labs families speak JSON, OAuth token endpoints and the
// legacy v1.1 family are form-encoded.
var bodyTypeRules = []bodyTypeRule{
	{
		match: func(u *url.URL) bool {
			return u.Host == "upload.twitter.com" || strings.Contains(u.Path, "/media/upload")
		},
		bodyType: BodyTypeMultipart,
	},
	{
		match: func(u *url.URL) bool {
			return strings.HasPrefix(u.Path, "/2/") || strings.HasPrefix(u.Path, "/labs/")
		},
		bodyType: BodyTypeJSON,
	},
	{
		match: func(u *url.URL) bool {
			return strings.HasPrefix(u.Path, "/oauth")
		},
		bodyType: BodyTypeForm,
	},
}

// DetectBodyType infers the body encoding from the target URL. An
// explicit BodyType on Params always overrides the inference.
func DetectBodyType(u *url.URL) BodyType {
	for _, rule := range bodyTypeRules {
		if rule.match(u) {
			return rule.bodyType
		}
	}
	return BodyTypeForm
}

// FileField is a file to upload inside a multipart body.
type FileField struct {
	// FileName is the file name sent to the server.
	FileName string
	// ContentType is the part's MIME type. Defaults to
	// application/octet-stream when empty.
	ContentType string
	// Data is the file content.
	Data []byte
}

// EncodeBody serializes body (or passes rawBody through) according to
// bodyType, setting Content-Type and Content-Length on headers.
// Returns nil when there is no body to send, so callers can tell
// "no body" apart from an empty one.
func EncodeBody(body map[string]any, rawBody []byte, headers map[string]string, bodyType BodyType) ([]byte, error) {
	if rawBody != nil {
		setLength(headers, len(rawBody))
		return rawBody, nil
	}
	if len(body) == 0 {
		return nil, nil
	}

	switch bodyType {
	case BodyTypeJSON:
		enc, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode JSON body: %w", err)
		}
		setContentType(headers, "application/json;charset=UTF-8")
		setLength(headers, len(enc))
		return enc, nil

	case BodyTypeForm:
		form, err := encodeForm(body)
		if err != nil {
			return nil, err
		}
		setContentType(headers, "application/x-www-form-urlencoded;charset=UTF-8")
		setLength(headers, len(form))
		return form, nil

	case BodyTypeMultipart:
		enc, contentType, err := encodeMultipart(body)
		if err != nil {
			return nil, err
		}
		setContentType(headers, contentType)
		setLength(headers, len(enc))
		return enc, nil

	default:
		return nil, fmt.Errorf("unsupported body type %q", bodyType)
	}
}

// encodeForm percent-encodes body fields as form key/value pairs.
func encodeForm(body map[string]any) ([]byte, error) {
	values := url.Values{}
	for k, v := range body {
		s, err := formatValue(k, v)
		if err != nil {
			return nil, err
		}
		values.Set(k, s)
	}
	return []byte(values.Encode()), nil
}

// encodeMultipart builds a multipart/form-data body. String and
// scalar values become form fields; []byte and FileField values
// become file parts. Fields are written in sorted key order so the
// part sequence is stable.
func encodeMultipart(body map[string]any) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := body[k].(type) {
		case []byte:
			part, err := w.CreateFormFile(k, k)
			if err != nil {
				return nil, "", err
			}
			if _, err := part.Write(v); err != nil {
				return nil, "", err
			}
		case FileField:
			part, err := createFilePart(w, k, v)
			if err != nil {
				return nil, "", err
			}
			if _, err := part.Write(v.Data); err != nil {
				return nil, "", err
			}
		default:
			s, err := formatValue(k, v)
			if err != nil {
				return nil, "", err
			}
			if err := w.WriteField(k, s); err != nil {
				return nil, "", err
			}
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// createFilePart creates a multipart file part with an explicit
// content type.
func createFilePart(w *multipart.Writer, field string, f FileField) (io.Writer, error) {
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	fileName := f.FileName
	if fileName == "" {
		fileName = field
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		`form-data; name="`+escapeQuotes(field)+`"; filename="`+escapeQuotes(fileName)+`"`)
	header.Set("Content-Type", contentType)
	return w.CreatePart(header)
}

// escapeQuotes escapes quote and backslash characters in multipart
// header values.
func escapeQuotes(s string) string {
	var buf bytes.Buffer
	for _, b := range []byte(s) {
		if b == '"' || b == '\\' {
			buf.WriteByte('\\')
		}
		buf.WriteByte(b)
	}
	return buf.String()
}

func setContentType(headers map[string]string, value string) {
	if headerPresent(headers, "Content-Type") {
		return
	}
	headers["Content-Type"] = value
}

func setLength(headers map[string]string, n int) {
	headers["Content-Length"] = strconv.Itoa(n)
}

// headerPresent reports whether the header key is already set,
// ignoring case.
func headerPresent(headers map[string]string, key string) bool {
	for k := range headers {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}
