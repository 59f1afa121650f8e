package analysis

import (
	"cmp"
	"slices"

	domain "gotitanic/domain/analysis"
)

// Members is one partition of a record set: the records sharing Key
type Members[R any, K cmp.Ordered] struct {
	Key     K
	Records []R
}

// PartitionBy splits records by key, ordered ascending by key. Records keep
// their input order inside each partition.
func PartitionBy[R any, K cmp.Ordered](records []R, key func(R) K) []Members[R, K] {
	if len(records) == 0 {
		return nil
	}

	index := make(map[K]int)
	var parts []Members[R, K]
	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(parts)
			index[k] = i
			parts = append(parts, Members[R, K]{Key: k})
		}
		parts[i].Records = append(parts[i].Records, r)
	}

	slices.SortFunc(parts, func(a, b Members[R, K]) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return parts
}

// Group counts records per key, ascending by key. Keys absent from the input
// do not appear.
func Group[R any, K cmp.Ordered](records []R, key func(R) K) []domain.GroupCount[K] {
	parts := PartitionBy(records, key)
	counts := make([]domain.GroupCount[K], len(parts))
	for i, part := range parts {
		counts[i] = domain.GroupCount[K]{Key: part.Key, Count: len(part.Records)}
	}
	return counts
}

// GroupWithDomain counts records per key over an enumerated domain, emitting
// zero counts for domain values with no records. Keys found in the input but
// missing from the domain are kept, so the counts still sum to len(records).
func GroupWithDomain[R any, K cmp.Ordered](records []R, key func(R) K, keys []K) []domain.GroupCount[K] {
	counts := make(map[K]int, len(keys))
	for _, k := range keys {
		counts[k] = 0
	}
	for _, r := range records {
		counts[key(r)]++
	}

	out := make([]domain.GroupCount[K], 0, len(counts))
	for k, n := range counts {
		out = append(out, domain.GroupCount[K]{Key: k, Count: n})
	}
	slices.SortFunc(out, func(a, b domain.GroupCount[K]) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return out
}
