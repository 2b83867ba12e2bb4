package audio

// Chunks splits audio into consecutive slices of at most size bytes.
// A size of zero or less yields the whole audio as a single chunk, and
// empty audio yields one empty chunk so a config-only stream still sends
// an audio message.
func Chunks(data []byte, size int) [][]byte {
	if size <= 0 || len(data) == 0 {
		return [][]byte{data}
	}
	chunks := make([][]byte, 0, (len(data)+size-1)/size)
	for start := 0; start < len(data); start += size {
		end := start + size
		if end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, data[start:end])
	}
	return chunks
}
