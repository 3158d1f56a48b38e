package cacheinfra

import "github.com/vmihailenco/msgpack/v5"

// MsgpackCodec serializes cache values with msgpack.
type MsgpackCodec struct{}

// NewMsgpackCodec returns the default cache codec.
func NewMsgpackCodec() MsgpackCodec {
	return MsgpackCodec{}
}

// Marshal encodes v.
func (MsgpackCodec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Unmarshal decodes data into v, which must be a pointer.
func (MsgpackCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}
