package core

import "sort"

// UnknownBucket collects records whose date is empty or too short to carry a
// month prefix. They are counted, never discarded.
const UnknownBucket = "Unknown"

// CountsByMonth groups records by the "YYYY-MM" prefix of their date.
func CountsByMonth(records []Record) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		bucket := UnknownBucket
		if len(r.Date) >= 7 {
			bucket = r.Date[:7]
		}
		counts[bucket]++
	}
	return counts
}

// CountsBySpecialty groups records by exact specialty string. No
// normalization: "ENT" and "ent" are distinct buckets. That is a deliberate
// simplicity choice, matching how the data is entered from a fixed picker.
func CountsBySpecialty(records []Record) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Specialty]++
	}
	return counts
}

// SortedBuckets returns the keys of a counts map in ascending lexicographic
// order, which is chronological for "YYYY-MM" buckets.
func SortedBuckets(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
