package entity

import "strings"

// PageSize is the fixed number of rows per listing page.
const PageSize = 10

type SortField string

const (
	SortByName      SortField = "name"
	SortByCreatedAt SortField = "createdAt"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// StatusFilter is a UserStatus or "All".
type StatusFilter string

const StatusAll StatusFilter = "All"

// ParseSortField accepts "name", "createdAt" and "created_at".
func ParseSortField(s string) (SortField, bool) {
	switch strings.ToLower(s) {
	case "name":
		return SortByName, true
	case "createdat", "created_at":
		return SortByCreatedAt, true
	}
	return "", false
}

func ParseSortOrder(s string) (SortOrder, bool) {
	switch strings.ToLower(s) {
	case "asc":
		return SortAsc, true
	case "desc":
		return SortDesc, true
	}
	return "", false
}

// ParseStatusFilter maps "" and "all" to StatusAll.
func ParseStatusFilter(s string) (StatusFilter, bool) {
	if s == "" || strings.EqualFold(s, string(StatusAll)) {
		return StatusAll, true
	}
	st, err := ParseUserStatus(s)
	if err != nil {
		return "", false
	}
	return StatusFilter(st), true
}

// Matches reports whether a record with status st passes the filter.
func (f StatusFilter) Matches(st UserStatus) bool {
	return f == StatusAll || f == "" || UserStatus(f) == st
}

// SortState is the active sort column and direction of a listing view.
type SortState struct {
	Field SortField `json:"field"`
	Order SortOrder `json:"order"`
}

// Toggle selects field: a new field starts ascending, the active field flips direction.
func (s SortState) Toggle(field SortField) SortState {
	if s.Field == field {
		if s.Order == SortAsc {
			return SortState{Field: field, Order: SortDesc}
		}
		return SortState{Field: field, Order: SortAsc}
	}
	return SortState{Field: field, Order: SortAsc}
}

// ListQuery drives one recomputation of the users listing.
type ListQuery struct {
	Search string
	Status StatusFilter
	Sort   SortState
	Page   int
}

// DefaultListQuery is the listing's initial state: newest first, page 1.
func DefaultListQuery() ListQuery {
	return ListQuery{
		Status: StatusAll,
		Sort:   SortState{Field: SortByCreatedAt, Order: SortDesc},
		Page:   1,
	}
}
