package common

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// Response is the decoded judge response with the HTTP status code attached.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// Data is the body when it is a JSON object. An empty body yields an
	// empty map.
	Data map[string]interface{}
}

func newResponse(statusCode int, header http.Header, body []byte) (*Response, error) {
	r := &Response{
		StatusCode: statusCode,
		Header:     header,
		Body:       body,
	}
	if len(bytes.TrimSpace(body)) == 0 {
		r.Data = map[string]interface{}{}
		return r, nil
	}
	var v interface{}
	err := json.Unmarshal(body, &v)
	if err != nil {
		return r, &DecodeError{StatusCode: statusCode, Err: err}
	}
	if m, ok := v.(map[string]interface{}); ok {
		r.Data = m
	}
	return r, nil
}

// IsSuccess reports whether the status code is in [200, 300).
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Message returns the "message" field of the body, if any.
func (r *Response) Message() string {
	if r.Data == nil {
		return ""
	}
	m, ok := r.Data["message"].(string)
	if !ok {
		return ""
	}
	return m
}

// Decode unmarshals the raw body into v.
func (r *Response) Decode(v interface{}) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	err := json.Unmarshal(r.Body, v)
	if err != nil {
		return &DecodeError{StatusCode: r.StatusCode, Err: err}
	}
	return nil
}

// Indent returns the body as indented JSON for display.
func (r *Response) Indent() string {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return "{}"
	}
	buf := new(bytes.Buffer)
	err := json.Indent(buf, r.Body, "", "  ")
	if err != nil {
		return string(r.Body)
	}
	return buf.String()
}
