package sqlquery

import (
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/execution-hub/definition-registry/internal/domain/definition"
)

// likeEscape is the escape character used by every search predicate.
const likeEscape = "!"

// ScopeCondition renders the owner filter of s, or nil when s spans all owners.
func ScopeCondition(s definition.Scope) sq.Sqlizer {
	owner, owned := s.Owner()
	if !owned {
		return nil
	}
	return sq.Eq{"user_id": int(owner)}
}

// SearchCondition renders a case-insensitive substring match on name, or nil
// when searchVal is empty. Folding happens in Go on both sides, so every
// dialect matches the same rows.
func SearchCondition(searchVal string) sq.Sqlizer {
	if searchVal == "" {
		return nil
	}
	pattern := "%" + escapeLike(definition.SearchKey(searchVal)) + "%"
	return sq.Expr("search_name LIKE ? ESCAPE '"+likeEscape+"'", pattern)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return r.Replace(s)
}

func where(conds ...sq.Sqlizer) sq.And {
	and := sq.And{}
	for _, c := range conds {
		if c != nil {
			and = append(and, c)
		}
	}
	return and
}

// ListPaged renders the page query and its count query for a filtered listing.
func (b Builder) ListPaged(page definition.PageSpec, filter definition.ListFilter) (Query, Query, error) {
	cond := where(
		sq.Eq{"project_code": int64(filter.ProjectCode)},
		ScopeCondition(filter.Scope),
		SearchCondition(filter.SearchVal),
	)
	list, err := render(b.selectDefinitions().
		Where(cond).
		OrderBy("updated_at DESC", "id DESC").
		Limit(page.Limit()).
		Offset(page.Offset()))
	if err != nil {
		return Query{}, Query{}, err
	}
	count, err := render(b.sb.Select("COUNT(*)").From(TDefinition).Where(cond))
	if err != nil {
		return Query{}, Query{}, err
	}
	return list, count, nil
}

// CountGroupByUser renders the per-owner definition count across projectCodes.
func (b Builder) CountGroupByUser(scope definition.Scope, projectCodes []definition.ProjectCode) (Query, error) {
	codes := make([]int64, 0, len(projectCodes))
	for _, c := range projectCodes {
		codes = append(codes, int64(c))
	}
	return render(b.sb.Select("user_id", "COUNT(*) AS cnt").
		From(TDefinition).
		Where(where(sq.Eq{"project_code": codes}, ScopeCondition(scope))).
		GroupBy("user_id").
		OrderBy("user_id ASC"))
}
