package models

// Group is a named set of people usable as shorthand inside a recipient
// expression ("Pizza" instead of "Alice + Bob").
type Group struct {
	// Name is the group name as written in recipient expressions.
	Name string

	// Members is the list of person names in this group. May be empty.
	Members []string

	// CreatedAt is the Unix timestamp when the group was first stored.
	CreatedAt int64
}

// GroupTableOf builds a GroupTable from a list of groups.
func GroupTableOf(groups []*Group) GroupTable {
	table := make(GroupTable, len(groups))
	for _, g := range groups {
		table[g.Name] = append([]string{}, g.Members...)
	}
	return table
}
