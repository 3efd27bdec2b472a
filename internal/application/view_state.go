package application

import "github.com/oksasatya/go-admin-dashboard/internal/domain/entity"

// ViewState holds the derivation inputs owned by a listing view and applies
// the interaction rules: filter changes go back to page 1, sort headers toggle.
type ViewState struct {
	query entity.ListQuery
}

func NewViewState() *ViewState {
	return &ViewState{query: entity.DefaultListQuery()}
}

func (v *ViewState) Query() entity.ListQuery { return v.query }

func (v *ViewState) SetSearch(search string) {
	v.query.Search = search
	v.query.Page = 1
}

func (v *ViewState) SetStatus(f entity.StatusFilter) {
	v.query.Status = f
	v.query.Page = 1
}

// SetSort replaces the sort outright, as a request parameter would.
func (v *ViewState) SetSort(s entity.SortState) {
	v.query.Sort = s
}

func (v *ViewState) ToggleSort(field entity.SortField) {
	v.query.Sort = v.query.Sort.Toggle(field)
}

// SetPage moves to page p if it lies within [1, totalPages] and reports
// whether the page changed.
func (v *ViewState) SetPage(p, totalPages int) bool {
	if p < 1 || p > totalPages {
		return false
	}
	v.query.Page = p
	return true
}

// Render derives the visible page for users.
func (v *ViewState) Render(users []entity.User) Page {
	return Derive(users, v.query)
}
