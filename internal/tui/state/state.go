// Package state holds the cursor and scroll arithmetic shared by the list
// and the content pane.
package state

import "sort"

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

func PageStep(height int, hasStatus bool) int {
	if height <= 0 {
		return 10
	}
	headerLines := 6
	if hasStatus {
		headerLines += 2
	}
	step := height - headerLines
	if step < 3 {
		step = 3
	}
	return step
}

func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}

// ItemAtOffset returns the index of the item whose first line (from the
// ascending offsets slice) is the last one at or above line, or -1.
func ItemAtOffset(offsets []int, line int) int {
	if len(offsets) == 0 {
		return -1
	}
	i := sort.Search(len(offsets), func(i int) bool { return offsets[i] > line })
	if i == 0 {
		return 0
	}
	return i - 1
}

// OffsetForItem returns the first line of item, clamped to the known items.
func OffsetForItem(offsets []int, item int) int {
	if len(offsets) == 0 {
		return 0
	}
	return offsets[ClampCursor(item, len(offsets))]
}
