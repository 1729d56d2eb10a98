package store

import (
	"encoding/json"
)

// Codec turns keys and values into the bytes a store persists.
type Codec[K comparable, V any] interface {
	EncodeKey(K) ([]byte, error)
	DecodeKey([]byte) (K, error)
	EncodeValue(V) ([]byte, error)
	DecodeValue([]byte) (V, error)
}

type StringCodec struct{}

func (StringCodec) EncodeKey(k string) ([]byte, error) {
	return []byte(k), nil
}

func (StringCodec) DecodeKey(k []byte) (string, error) {
	return string(k), nil
}

func (StringCodec) EncodeValue(v string) ([]byte, error) {
	return []byte(v), nil
}

func (StringCodec) DecodeValue(v []byte) (string, error) {
	return string(v), nil
}

// JSONCodec stores string keys as is and values as JSON documents.
type JSONCodec[V any] struct{}

func (JSONCodec[V]) EncodeKey(k string) ([]byte, error) {
	return []byte(k), nil
}

func (JSONCodec[V]) DecodeKey(k []byte) (string, error) {
	return string(k), nil
}

func (JSONCodec[V]) EncodeValue(v V) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec[V]) DecodeValue(data []byte) (v V, err error) {
	err = json.Unmarshal(data, &v)
	return
}
