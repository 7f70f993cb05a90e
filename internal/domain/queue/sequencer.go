package queue

// rankLess orders entries for dispatch: lexicographic on
// (priority class rank, queue number). The tuple is a total order, so
// "who is next" is deterministic.
func rankLess(a, b *Entry) bool {
	ra, rb := a.Priority.Rank(), b.Priority.Rank()
	if ra != rb {
		return ra < rb
	}
	return a.QueueNumber < b.QueueNumber
}

// SelectNext returns the confirmed entry with the lowest dispatch rank, or
// nil when no confirmed entries exist.
func SelectNext(entries []*Entry) *Entry {
	var best *Entry
	for _, e := range entries {
		if e.Status != StatusConfirmed {
			continue
		}
		if best == nil || rankLess(e, best) {
			best = e
		}
	}
	return best
}

// NextQueueNumber computes the number for a newly accepted entry given the
// current maximum among non-cancelled entries for the (doctor, date) pair.
// Numbering restarts at 1 each calendar date.
func NextQueueNumber(currentMax int) int {
	return currentMax + 1
}
