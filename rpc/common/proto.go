package common

import (
	"encoding/json"
	"fmt"
)

// --------------------------------------------------------------------------
// Request Structure
// --------------------------------------------------------------------------

// Request is one logical client request. Which fields are used depends on the kind:
// Get only carries a Key, Put carries a Key and a Value.
type Request struct {
	Kind  RequestKind `json:"kind"`
	Key   string      `json:"key"`
	Value string      `json:"value,omitempty"`
}

// NewGetRequest creates a new Get request
func NewGetRequest(key string) *Request {
	return &Request{
		Kind: ReqGet,
		Key:  key,
	}
}

// NewPutRequest creates a new Put request
func NewPutRequest(key, value string) *Request {
	return &Request{
		Kind:  ReqPut,
		Key:   key,
		Value: value,
	}
}

// String returns a short, human-readable representation of the request (used for logging)
func (r *Request) String() string {
	switch r.Kind {
	case ReqGet:
		return fmt.Sprintf("Get(%q)", r.Key)
	case ReqPut:
		return fmt.Sprintf("Put(%q, %q)", r.Key, r.Value)
	default:
		return fmt.Sprintf("%s(%q)", r.Kind, r.Key)
	}
}

// --------------------------------------------------------------------------
// Response Structure
// --------------------------------------------------------------------------

// Response is the single answer to a request. The message is the retrieved value
// for a successful Get, a confirmation for a Put and an error description otherwise.
type Response struct {
	Kind    ResponseKind `json:"kind"`
	Message string       `json:"message"`
}

// NewOkResponse creates a new Ok response
func NewOkResponse(message string) *Response {
	return &Response{
		Kind:    RespOk,
		Message: message,
	}
}

// NewErrResponse creates a new Err response
func NewErrResponse(message string) *Response {
	return &Response{
		Kind:    RespErr,
		Message: message,
	}
}

// IsOk reports whether the response is an Ok response
func (r *Response) IsOk() bool {
	return r.Kind == RespOk
}

func (r *Response) String() string {
	return fmt.Sprintf("%s(%q)", r.Kind, r.Message)
}

// --------------------------------------------------------------------------
// Kind Definitions
// --------------------------------------------------------------------------

// RequestKind is the variant tag of a Request.
type RequestKind uint8

const (
	ReqUnknown RequestKind = iota
	ReqGet                 // Get the value of a key
	ReqPut                 // Insert or overwrite a key-value pair
)

// String returns the variant tag as it appears on the wire.
func (k RequestKind) String() string {
	switch k {
	case ReqGet:
		return "Get"
	case ReqPut:
		return "Put"
	default:
		return "Unknown"
	}
}

// ParseRequestKind converts a wire tag back to a RequestKind.
func ParseRequestKind(tag string) (RequestKind, error) {
	switch tag {
	case "Get":
		return ReqGet, nil
	case "Put":
		return ReqPut, nil
	default:
		return ReqUnknown, fmt.Errorf("unknown request kind: %q", tag)
	}
}

// MarshalJSON implements the json.Marshaller interface for RequestKind.
func (k RequestKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for RequestKind.
func (k *RequestKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	kind, err := ParseRequestKind(s)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ResponseKind is the variant tag of a Response.
type ResponseKind uint8

const (
	RespOk  ResponseKind = iota // Request handled successfully
	RespErr                     // Request could not be handled
)

// String returns the variant tag as it appears on the wire.
func (k ResponseKind) String() string {
	switch k {
	case RespOk:
		return "Ok"
	case RespErr:
		return "Err"
	default:
		return "Unknown"
	}
}

// ParseResponseKind converts a wire tag back to a ResponseKind.
func ParseResponseKind(tag string) (ResponseKind, error) {
	switch tag {
	case "Ok":
		return RespOk, nil
	case "Err":
		return RespErr, nil
	default:
		return 0, fmt.Errorf("unknown response kind: %q", tag)
	}
}

// MarshalJSON implements the json.Marshaller interface for ResponseKind.
func (k ResponseKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for ResponseKind.
func (k *ResponseKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	kind, err := ParseResponseKind(s)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}
