package internal

// MaxPayload is the largest payload a classic CAN frame carries.
const MaxPayload = 8

// Frame is the smallest unit of bus traffic: an identifier plus a small
// fixed-maximum payload. It is a plain value type with no ownership
// concerns; copying a Frame copies its payload.
//
// The identifier is 11-bit (standard) or 29-bit (extended, Extended=true).
// Only the first Len bytes of Data are valid. The core never inspects the
// payload; encoding and decoding of command/feedback bytes belong to the
// layers above.
type Frame struct {
	// ID is the bus identifier (11-bit standard or 29-bit extended).
	ID uint32

	// Extended marks a 29-bit identifier.
	Extended bool

	// Len is the payload length (0..MaxPayload).
	Len uint8

	// Data holds the payload; bytes past Len are undefined.
	Data [MaxPayload]byte
}

// NewFrame builds a Frame from an identifier and payload, copying at most
// MaxPayload bytes.
func NewFrame(id uint32, payload []byte) Frame {
	f := Frame{ID: id}
	n := len(payload)
	if n > MaxPayload {
		n = MaxPayload
	}
	f.Len = uint8(n)
	copy(f.Data[:], payload[:n])
	return f
}

// Payload returns the valid portion of the frame data.
// The returned slice aliases the receiver; callers that retain it must copy.
func (f *Frame) Payload() []byte {
	return f.Data[:f.Len]
}
