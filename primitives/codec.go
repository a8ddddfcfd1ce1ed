package primitives

import "github.com/odana/odana-core/rlp"

// Encode returns the canonical length-prefixed binary encoding of val,
// reusing the execution core's RLP codec (the teacher's wire format) as the
// canonical encoding referenced throughout the data model.
func Encode(val interface{}) ([]byte, error) {
	return rlp.EncodeToBytes(val)
}

// Decode parses the canonical encoding in data into out, which must be a
// pointer to a value of the same shape that was encoded.
func Decode(data []byte, out interface{}) error {
	return rlp.DecodeBytes(data, out)
}
