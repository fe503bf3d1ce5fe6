// Package json wraps JSON serialization behind a swappable driver, and adds
// the extra types the wire protocol needs.
package json

import (
	"encoding/json"
	"io"
)

type Driver interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error

	DecodeStream(r io.Reader, v interface{}) error
	EncodeStream(w io.Writer, v interface{}) error
}

type DefaultDriver struct{}

func (d DefaultDriver) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (d DefaultDriver) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (d DefaultDriver) DecodeStream(r io.Reader, v interface{}) error {
	return json.NewDecoder(r).Decode(v)
}

func (d DefaultDriver) EncodeStream(w io.Writer, v interface{}) error {
	return json.NewEncoder(w).Encode(v)
}

// Default is the JSON driver used when none is given.
var Default Driver = DefaultDriver{}

func Marshal(v interface{}) ([]byte, error) {
	return Default.Marshal(v)
}

func Unmarshal(data []byte, v interface{}) error {
	return Default.Unmarshal(data, v)
}

func DecodeStream(r io.Reader, v interface{}) error {
	return Default.DecodeStream(r, v)
}

func EncodeStream(w io.Writer, v interface{}) error {
	return Default.EncodeStream(w, v)
}
