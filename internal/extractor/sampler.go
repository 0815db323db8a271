package extractor

// ByteSampler provides bounded views of a file's byte buffer so that
// analyzers never scan more input than they asked for. The underlying
// buffer is shared and read-only; samplers never copy.
type ByteSampler struct {
	data []byte
}

// NewByteSampler wraps a byte buffer for bounded access.
func NewByteSampler(data []byte) *ByteSampler {
	return &ByteSampler{data: data}
}

// FullBytes returns the whole buffer.
func (s *ByteSampler) FullBytes() []byte {
	return s.data
}

// Prefix returns the first n bytes, clamped to the buffer length.
func (s *ByteSampler) Prefix(n int) []byte {
	if n < 0 {
		n = 0
	}
	if n > len(s.data) {
		n = len(s.data)
	}
	return s.data[:n]
}

// Len returns the buffer length.
func (s *ByteSampler) Len() int {
	return len(s.data)
}
