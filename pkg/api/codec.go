// Package api defines the request and response messages of the budgetwiser
// Connect services.
//
// Messages are plain Go structs carried as JSON. Money is a decimal string
// and dates are YYYY-MM-DD strings.
package api

import (
	"bytes"
	"encoding/json"

	"connectrpc.com/connect"
)

// CodecName is the Connect codec name, giving Content-Type application/json.
const CodecName = "json"

// Codec returns the JSON codec every handler and client is built with.
func Codec() connect.Codec {
	return jsonCodec{}
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return CodecName }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil // empty body is the zero message
	}
	return json.Unmarshal(data, msg)
}
