package bind_group_provider

// BufferWrite describes a single GPU buffer write operation targeting a specific binding
// on a BindGroupProvider at a given byte offset.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// Size returns the number of bytes the write covers.
//
// Returns:
//   - uint64: the byte count
func (w BufferWrite) Size() uint64 {
	return uint64(len(w.Data))
}

// End returns the offset one past the last byte written.
//
// Returns:
//   - uint64: Offset + Size
func (w BufferWrite) End() uint64 {
	return w.Offset + w.Size()
}
