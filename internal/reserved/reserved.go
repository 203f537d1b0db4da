// Package reserved defines the argument and field names that carry query
// control semantics rather than data filters. The set is closed: every
// argument on a paged query field classifies as exactly one Kind, and
// unknown names fall through to the field filter kind.
package reserved

// Names holds the reserved names used by paged query fields. The zero
// value is not usable; construct with Defaults and override as needed.
type Names struct {
	// Page is the pagination argument carrying PageStart and PageLimit.
	Page      string
	PageStart string
	PageLimit string

	// Distinct toggles result deduplication per request.
	Distinct string

	// Where is the structured condition tree argument.
	Where string

	// Logical are the grouping operator names inside a where tree.
	Logical []string

	// Envelope selection field names.
	Records string
	Total   string
	Pages   string
}

// Defaults returns the standard reserved names.
func Defaults() Names {
	return Names{
		Page:      "page",
		PageStart: "start",
		PageLimit: "limit",
		Distinct:  "distinct",
		Where:     "where",
		Logical:   []string{"AND", "OR", "NOT"},
		Records:   "records",
		Total:     "total",
		Pages:     "pages",
	}
}

// Kind classifies a query field argument.
type Kind int

const (
	// KindFieldFilter is the default: an argument naming an entity field,
	// compiled to an equality condition.
	KindFieldFilter Kind = iota
	// KindLogical is a grouping operator (AND, OR, NOT).
	KindLogical
	// KindDistinct is the per-request deduplication toggle.
	KindDistinct
	// KindWhere is the structured condition tree.
	KindWhere
	// KindPage is the pagination window argument.
	KindPage
)

// Classify returns the Kind of an argument name. Names not claimed by a
// reserved role classify as field filters.
func (n Names) Classify(name string) Kind {
	switch name {
	case n.Page:
		return KindPage
	case n.Distinct:
		return KindDistinct
	case n.Where:
		return KindWhere
	}
	for _, op := range n.Logical {
		if name == op {
			return KindLogical
		}
	}
	return KindFieldFilter
}
