package survey

// Chunks splits items into ordered sub-slices of at most size elements.
// Concatenating the result in order reproduces items. An empty input
// yields zero chunks; size <= 0 yields a single chunk.
func Chunks(items []string, size int) [][]string {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 {
		return [][]string{items}
	}
	var out [][]string
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[start:end])
	}
	return out
}
