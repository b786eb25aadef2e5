package collector

// IDRange is a closed interval of candidate vacancy ids.
type IDRange struct {
	Low  int64
	High int64
}

// Size returns the number of ids in the range.
func (r IDRange) Size() int64 {
	if r.Low > r.High {
		return 0
	}
	return r.High - r.Low + 1
}

// SplitIDRange partitions [low, high] into chunks of at most chunkSize ids,
// ordered high to low to match the descending sweep. Chunks bound peak
// outstanding work and give the sweep natural progress checkpoints.
func SplitIDRange(low, high int64, chunkSize int) []IDRange {
	if low > high || chunkSize <= 0 {
		return nil
	}

	var chunks []IDRange
	for hi := high; hi >= low; hi -= int64(chunkSize) {
		lo := hi - int64(chunkSize) + 1
		if lo < low {
			lo = low
		}
		chunks = append(chunks, IDRange{Low: lo, High: hi})
	}
	return chunks
}
