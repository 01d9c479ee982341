package transport

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

// Transport invokes an operation of the remote API.
type Transport interface {
	Invoke(ctx context.Context, req *Request) (*Response, error)
}

// Params are the path parameters of a request.
type Params map[string]string

// ID formats a remote id as a path parameter.
func ID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Headers carry the caller's session context.
type Headers struct {
	SessionID  string
	ProjectKey string

	// Email is the generic operator email, sent when the session is shared.
	Email string
}

// Request is a call to a named operation.
type Request struct {
	Operation  string
	PathParams Params
	Headers    Headers

	// Body is encoded as JSON when non-nil.
	Body any
}

// Response is the decoded reply of the remote service.
type Response struct {
	StatusCode int

	// Payload is the decoded JSON object. A non-object reply is stored under "data".
	Payload map[string]any
}

// Decode copies the payload into out, matching fields by their json tag.
func (r *Response) Decode(out any) error {
	return decode(r.Payload, out)
}

// DecodeField copies the payload value at key into out. A missing key leaves
// out untouched.
func (r *Response) DecodeField(key string, out any) error {
	v, ok := r.Payload[key]
	if !ok || v == nil {
		return nil
	}
	return decode(v, out)
}

// Has reports whether the payload carries a non-null value at key.
func (r *Response) Has(key string) bool {
	v, ok := r.Payload[key]
	return ok && v != nil
}

// Message returns the service's "message" field, if any.
func (r *Response) Message() string {
	if s, ok := r.Payload["message"].(string); ok {
		return s
	}
	return ""
}

// IsNotFound reports a 404 reply.
func (r *Response) IsNotFound() bool {
	return r.StatusCode == http.StatusNotFound
}

func decode(in, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}
