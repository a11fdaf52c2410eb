package source

import (
	"slices"
	"strings"
)

// DefaultList is the list items are filed under when none is given.
const DefaultList = "inbox"

// Filter narrows the backlog. An empty List matches every list and an empty
// Query matches every item.
type Filter struct {
	List  string
	Query string
}

// Match reports whether item belongs to the filtered list and its title,
// description or one of its tags contains the query, ignoring case.
func (f Filter) Match(item *Item) bool {
	if f.List != "" && !strings.EqualFold(item.listName(), f.List) {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(item.Title), q) ||
		strings.Contains(strings.ToLower(item.Description), q) {
		return true
	}
	return slices.ContainsFunc(item.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), q)
	})
}

// Apply returns the items matching f, in order.
func (f Filter) Apply(items []*Item) []*Item {
	out := make([]*Item, 0, len(items))
	for _, item := range items {
		if f.Match(item) {
			out = append(out, item)
		}
	}
	return out
}

// Lists returns the distinct list names used by items, sorted.
func Lists(items []*Item) []string {
	var names []string
	for _, item := range items {
		if name := item.listName(); !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// ParseTags splits a comma-separated tag list, lowercasing and dropping
// blanks and duplicates.
func ParseTags(s string) []string {
	var tags []string
	for _, part := range strings.Split(s, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag != "" && !slices.Contains(tags, tag) {
			tags = append(tags, tag)
		}
	}
	return tags
}

func (i *Item) listName() string {
	if i.List == "" {
		return DefaultList
	}
	return i.List
}
