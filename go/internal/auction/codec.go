package auction

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// JSONCodec lets connect carry the plain Go request/response structs as JSON.
// It replaces connect's protobuf-only "json" codec.
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(message any) ([]byte, error) {
	return json.Marshal(message)
}

func (JSONCodec) Unmarshal(data []byte, message any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, message)
}
