package chunk

// Chunk is one framed unit. Data is the decompressed payload. Body holds the
// bytes exactly as they were stored when the chunk came from a Reader, so
// that a Writer can re-emit chunks it does not understand verbatim.
type Chunk struct {
	Name        Name
	Data        []byte
	Compression string
	Body        []byte
}

// Raw builds an in-memory chunk that a Writer will compress with its default
// compressor.
func Raw(name Name, data []byte) *Chunk {
	return &Chunk{Name: name, Data: data}
}

// Detach drops the stored body so the chunk is re-encoded from Data.
func (c *Chunk) Detach() *Chunk {
	c.Body = nil
	return c
}

// EndPayload is what producers store in the END chunk.
const EndPayload = "</roblox>"
