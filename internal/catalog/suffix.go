package catalog

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Matches a trailing "_<digits>" group, optionally followed by an extension,
// anchored at the end of the final path segment: "shoe_12.jpg" → 12.
var suffixPattern = regexp.MustCompile(`_([0-9]+)(\.[^.]*)?$`)

// ExtractOrderKey returns the numeric ordering key embedded in a filename's
// trailing "_<digits>" segment. Filenames without such a segment score 0.
// Leading zeros are insignificant ("item_07.png" → 7).
func ExtractOrderKey(filename string) int {
	segment := filename
	if i := strings.LastIndexAny(segment, "/\\"); i >= 0 {
		segment = segment[i+1:]
	}

	m := suffixPattern.FindStringSubmatch(segment)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// digits too long for int; treat as unordered
		return 0
	}
	return n
}

// SortBySuffix orders records ascending by their filename's suffix key.
// The sort is stable: records with equal keys keep their fetch order.
func SortBySuffix(records []FileRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return ExtractOrderKey(records[i].Filename) < ExtractOrderKey(records[j].Filename)
	})
}
