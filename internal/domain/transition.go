package domain

// transitionTable lists, for each status, the statuses it may move to.
type transitionTable[S ~string] map[S][]S

func (t transitionTable[S]) allows(from, to S) bool {
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (t transitionTable[S]) terminal(s S) bool {
	return len(t[s]) == 0
}
