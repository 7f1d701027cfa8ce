// Package secretbuf provides a scoped buffer for key material that must be
// zeroized on every exit path. It generalizes the zero-loops the teacher
// repo inlines in SecureSession.Close() into a single reusable type used by
// every component that touches a long-term secret key, a derived X25519
// scalar, a session key, or a KDF seed.
package secretbuf

// Buffer holds secret bytes that the owner is responsible for wiping via
// Wipe, typically in a defer placed immediately after allocation.
type Buffer struct {
	b []byte
}

// New allocates a zeroed Buffer of the given size.
func New(size int) *Buffer {
	return &Buffer{b: make([]byte, size)}
}

// NewFrom copies data into a new Buffer. The caller retains ownership of
// data; NewFrom does not wipe its argument.
func NewFrom(data []byte) *Buffer {
	b := make([]byte, len(data))
	copy(b, data)
	return &Buffer{b: b}
}

// Bytes returns the underlying slice. The returned slice aliases the
// Buffer's storage and becomes invalid after Wipe.
func (s *Buffer) Bytes() []byte {
	if s == nil {
		return nil
	}
	return s.b
}

// Len reports the buffer's size.
func (s *Buffer) Len() int {
	if s == nil {
		return 0
	}
	return len(s.b)
}

// Wipe zeroes the buffer in place. Safe to call multiple times and on a
// nil receiver.
func (s *Buffer) Wipe() {
	if s == nil {
		return
	}
	for i := range s.b {
		s.b[i] = 0
	}
}
