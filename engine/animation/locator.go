package animation

// Bracket is the pair of keyframes surrounding a query time together with the
// normalized position U between them.
type Bracket struct {
	Prev     int
	Next     int
	PrevTime float32
	NextTime float32
	U        float32
}

// Dt returns the length of the bracketed interval in seconds.
func (b Bracket) Dt() float32 {
	return b.NextTime - b.PrevTime
}

// Locate finds the keyframe interval containing t by scanning timestamps in order
// and stopping at the first entry >= t.
//
// Boundary behavior:
//   - t before the first timestamp has no bracket and ok is false.
//   - t equal to the first timestamp yields the first interval with U = 0.
//   - t past the last timestamp clamps to the last interval with U = 1.
//   - a zero-length interval yields U = 1 once t reaches it, 0 otherwise.
//
// Parameters:
//   - timestamps: non-decreasing keyframe times, at least two entries
//   - t: the query time in seconds
//
// Returns:
//   - Bracket: the located interval
//   - bool: false when no bracket exists
func Locate(timestamps []float32, t float32) (Bracket, bool) {
	n := len(timestamps)
	if n < 2 || t < timestamps[0] || t != t {
		return Bracket{}, false
	}

	next := n - 1
	for i, ts := range timestamps {
		if ts >= t {
			next = i
			break
		}
	}
	if next == 0 {
		next = 1
	}
	prev := next - 1

	b := Bracket{
		Prev:     prev,
		Next:     next,
		PrevTime: timestamps[prev],
		NextTime: timestamps[next],
	}
	dt := b.Dt()
	switch {
	case dt > 0:
		b.U = (t - b.PrevTime) / dt
	case t >= b.NextTime:
		b.U = 1
	}
	if b.U < 0 {
		b.U = 0
	} else if b.U > 1 {
		b.U = 1
	}
	return b, true
}
