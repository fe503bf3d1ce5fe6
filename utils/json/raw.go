package json

// Raw is a raw encoded JSON value. It implements Marshaler and Unmarshaler
// and can be used to delay JSON decoding or precompute a JSON encoding.
type Raw []byte

func (m Raw) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return m, nil
}

func (m *Raw) UnmarshalJSON(data []byte) error {
	*m = append((*m)[0:0], data...)
	return nil
}

func (m Raw) String() string {
	return string(m)
}
