package tui

import (
	"fmt"
	"strconv"

	"github.com/vinayprograms/dayjot/internal/day"
	"github.com/vinayprograms/dayjot/internal/index"
)

// treeWidth is the width of the day tree pane, separator excluded.
const treeWidth = 12

type treeEntry struct {
	label string
	// day is zero for year and month headings.
	day day.ID
}

// treeEntries lists the indexed days newest first under year and month
// headings.
func treeEntries(set index.Set) []treeEntry {
	years := index.Group(set)
	var entries []treeEntry
	for yi := len(years) - 1; yi >= 0; yi-- {
		y := years[yi]
		entries = append(entries, treeEntry{label: strconv.Itoa(y.Year)})
		for mi := len(y.Months) - 1; mi >= 0; mi-- {
			mo := y.Months[mi]
			entries = append(entries, treeEntry{label: " " + mo.Label()})
			for di := len(mo.Days) - 1; di >= 0; di-- {
				d := mo.Days[di]
				entries = append(entries, treeEntry{label: fmt.Sprintf("   %02d", d.Day), day: d})
			}
		}
	}
	return entries
}

// treeTop is the first entry shown in a pane of height rows so that the
// resident day stays near the middle.
func treeTop(entries []treeEntry, resident day.ID, height int) int {
	if height <= 0 || len(entries) <= height {
		return 0
	}
	at := 0
	for i, e := range entries {
		if e.day == resident {
			at = i
			break
		}
	}
	return min(max(at-height/2, 0), len(entries)-height)
}

// neighbour returns the indexed day just before (dir < 0) or after (dir > 0)
// id, which need not be indexed itself.
func neighbour(set index.Set, id day.ID, dir int) (day.ID, bool) {
	days := set.Sorted()
	if dir < 0 {
		for i := len(days) - 1; i >= 0; i-- {
			if days[i].Before(id) {
				return days[i], true
			}
		}
		return day.ID{}, false
	}
	for _, d := range days {
		if id.Before(d) {
			return d, true
		}
	}
	return day.ID{}, false
}
