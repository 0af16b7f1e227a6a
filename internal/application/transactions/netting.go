package transactions

// Net reduces a two-sided cash adjustment to a single-sided residual:
// the smaller (or equal) side is zeroed and subtracted from the other.
// Applying Net to its own output is a no-op.
func Net(offered, requested int64) (int64, int64) {
	switch {
	case offered > requested:
		return offered - requested, 0
	case offered < requested:
		return 0, requested - offered
	default:
		return 0, 0
	}
}
