package tally

import "sort"

// Entry is a single group and the number of rows seen for it.
type Entry struct {
	Group string
	Count int
}

// Tally counts rows per group. Counts are collected unordered and only sorted when read back with
// Sorted.
type Tally struct {
	counts map[string]int
	total  int
}

func New() *Tally {
	return &Tally{
		counts: make(map[string]int),
	}
}

// Add records one row for group. The empty string is a group like any other.
func (t *Tally) Add(group string) {
	t.counts[group]++
	t.total++
}

// Count returns the rows seen for group, 0 if it was never added.
func (t *Tally) Count(group string) int {
	return t.counts[group]
}

// Len is the number of distinct groups.
func (t *Tally) Len() int {
	return len(t.counts)
}

// Total is the number of rows added across all groups.
func (t *Tally) Total() int {
	return t.total
}

// Sorted returns every group with its count, ascending by group name.
func (t *Tally) Sorted() []Entry {
	entries := make([]Entry, 0, len(t.counts))
	for group, count := range t.counts {
		entries = append(entries, Entry{Group: group, Count: count})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Group < entries[j].Group
	})

	return entries
}
