package helper

import (
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Sort is the ?sort_by= & ?order= pair of a list request.
type Sort struct {
	SortBy    string
	SortOrder string // asc|desc
}

// ResolveSort reads ?sort_by= and ?order= (alias ?sort=). Unknown orders fall back
// to defaultOrder.
func ResolveSort(c *fiber.Ctx, defaultSortBy, defaultOrder string) Sort {
	sortBy := strings.TrimSpace(c.Query("sort_by"))
	if sortBy == "" {
		sortBy = defaultSortBy
	}
	order := strings.ToLower(strings.TrimSpace(c.Query("order")))
	if order == "" {
		order = strings.ToLower(strings.TrimSpace(c.Query("sort")))
	}
	if order != "asc" && order != "desc" {
		order = strings.ToLower(defaultOrder)
		if order != "asc" && order != "desc" {
			order = "desc"
		}
	}
	return Sort{SortBy: sortBy, SortOrder: order}
}

// OrderClause maps SortBy through a column whitelist. An unknown key is a 400.
func (s Sort) OrderClause(allowed map[string]string) (string, error) {
	col, ok := allowed[s.SortBy]
	if !ok {
		keys := make([]string, 0, len(allowed))
		for k := range allowed {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "", fiber.NewError(fiber.StatusBadRequest, "Invalid sort_by, allowed: "+strings.Join(keys, ", "))
	}
	dir := "DESC"
	if s.SortOrder == "asc" {
		dir = "ASC"
	}
	return col + " " + dir, nil
}
