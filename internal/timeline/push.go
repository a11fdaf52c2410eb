package timeline

// PushForward shifts every task at or after from one slot later.
//
// Tasks in blocks[from:] are collected in order and cleared, then the k-th
// task lands at from+1+k. Tasks that would land past the end of the day are
// dropped. Placed blocks are flagged RecentlyMoved. The input is not modified.
func PushForward(blocks []Block, from int) ([]Block, []string) {
	return PushWithin(blocks, from, len(blocks))
}

// PushWithin is PushForward limited to blocks[from:end]. Blocks at or after
// end are left alone and tasks that would land there are dropped.
func PushWithin(blocks []Block, from, end int) ([]Block, []string) {
	out := Clone(blocks)
	end = min(end, len(out))
	if from < 0 || from >= end {
		return out, nil
	}

	var moving []*Task
	for i := from; i < end; i++ {
		if out[i].HasTask() {
			moving = append(moving, out[i].Task)
			out[i].Task = nil
		}
	}

	var affected []string
	for k, t := range moving {
		idx := from + 1 + k
		if idx >= end {
			break
		}
		out[idx].Task = t
		out[idx].RecentlyMoved = true
		affected = append(affected, out[idx].ID)
	}
	return out, affected
}

// Dropped returns how many tasks a push from the given index would lose.
func Dropped(blocks []Block, from int) int {
	return DroppedWithin(blocks, from, len(blocks))
}

// DroppedWithin returns how many tasks PushWithin would lose.
func DroppedWithin(blocks []Block, from, end int) int {
	end = min(end, len(blocks))
	if from < 0 || from >= end {
		return 0
	}
	count := 0
	for i := from; i < end; i++ {
		if blocks[i].HasTask() {
			count++
		}
	}
	if room := end - from - 1; count > room {
		return count - room
	}
	return 0
}

// FirstFree returns the index of the first block in blocks[from:end] without
// a task, or -1.
func FirstFree(blocks []Block, from, end int) int {
	for i := max(from, 0); i < min(end, len(blocks)); i++ {
		if !blocks[i].HasTask() {
			return i
		}
	}
	return -1
}

// PushLimit is the exclusive end of the range a push from next may touch
// while completed is being resolved. When next wrapped past midnight to an
// index at or before completed, the push stops short of completed so the
// block being resolved and the end of the previous day stay in place.
func PushLimit(blocks []Block, next, completed int) int {
	if completed >= 0 && next <= completed {
		return completed
	}
	return len(blocks)
}
