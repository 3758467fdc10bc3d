package irrigation

import "sort"

// nextID returns the smallest positive integer that is not a key of m.
func nextID[V any](m map[int]V) int {
	ids := sortedIDs(m)
	next := 1
	for _, id := range ids {
		if id < next {
			continue
		}
		if id > next {
			break
		}
		next++
	}
	return next
}

func sortedIDs[V any](m map[int]V) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
