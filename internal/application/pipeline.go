package application

import (
	"slices"
	"strings"

	"github.com/oksasatya/go-admin-dashboard/internal/domain/entity"
)

type PageMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
	TotalCount int `json:"total_count"`
}

// Page is one visible slice of the filtered and sorted collection.
type Page struct {
	Users []entity.User
	Meta  PageMeta
}

// Derive runs the listing pipeline: text filter, status filter, stable sort, paginate.
// It never modifies users.
func Derive(users []entity.User, q entity.ListQuery) Page {
	filtered := FilterUsers(users, q.Search, q.Status)
	SortUsers(filtered, q.Sort)
	return Paginate(filtered, q.Page, entity.PageSize)
}

// FilterUsers returns a new slice with the users matching search and status.
// search matches name or email, case-insensitively; "" matches everything.
func FilterUsers(users []entity.User, search string, status entity.StatusFilter) []entity.User {
	needle := strings.ToLower(search)
	out := make([]entity.User, 0, len(users))
	for _, u := range users {
		if !matchesSearch(u, needle) || !status.Matches(u.Status) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func matchesSearch(u entity.User, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(u.Name), needle) ||
		strings.Contains(strings.ToLower(u.Email), needle)
}

// SortUsers sorts in place; equal keys keep their relative order.
func SortUsers(users []entity.User, s entity.SortState) {
	var cmp func(a, b entity.User) int
	switch s.Field {
	case entity.SortByName:
		cmp = func(a, b entity.User) int { return strings.Compare(a.Name, b.Name) }
	case entity.SortByCreatedAt:
		cmp = func(a, b entity.User) int { return a.CreatedAt.Compare(b.CreatedAt) }
	default:
		return
	}
	if s.Order == entity.SortDesc {
		asc := cmp
		cmp = func(a, b entity.User) int { return -asc(a, b) }
	}
	slices.SortStableFunc(users, cmp)
}

// Paginate slices out the 1-based page. Out-of-range pages are clamped
// into [1, TotalPages]; an empty input yields page 1 with no rows.
func Paginate(users []entity.User, page, size int) Page {
	if size <= 0 {
		size = entity.PageSize
	}
	total := len(users)
	totalPages := (total + size - 1) / size
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	meta := PageMeta{Page: page, PageSize: size, TotalPages: totalPages, TotalCount: total}
	if totalPages == 0 {
		return Page{Users: []entity.User{}, Meta: meta}
	}
	start := (page - 1) * size
	end := min(start+size, total)
	return Page{Users: slices.Clone(users[start:end]), Meta: meta}
}

// FindByID is the lookup used by detail views.
func FindByID(users []entity.User, id string) (entity.User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return entity.User{}, false
}
