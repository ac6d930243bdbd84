package query

import (
	"fmt"
	"strings"

	"events-analytics-service/internal/analytics/core/domain"
)

// predicate is one WHERE clause with its bound values. The expression side is
// always a whitelist-derived fragment with $%d placeholders already numbered
// by the renderer; caller values only ever travel through args.
type predicate struct {
	expr string // format string, one %d verb per placeholder
	args []any
}

// aggregationQuery is the typed form of a built query. It exists so that
// nothing caller-influenced can reach a structural position: the renderer is
// the only place clause text is assembled.
type aggregationQuery struct {
	groupExpr string
	alias     string
	wheres    []predicate
	orderBy   string
	limit     int
}

func (q aggregationQuery) render() (string, []any) {
	var sb strings.Builder
	var args []any

	fmt.Fprintf(&sb, "SELECT %s AS %s, COUNT(*) AS event_count, COUNT(DISTINCT %s) AS unique_count\nFROM events",
		q.groupExpr, q.alias, q.groupExpr)

	if len(q.wheres) > 0 {
		sb.WriteString("\nWHERE ")
		idx := 1
		for i, p := range q.wheres {
			if i > 0 {
				sb.WriteString(" AND ")
			}
			placeholders := make([]any, 0, len(p.args))
			for range p.args {
				placeholders = append(placeholders, idx)
				idx++
			}
			fmt.Fprintf(&sb, p.expr, placeholders...)
			args = append(args, p.args...)
		}
	}

	fmt.Fprintf(&sb, "\nGROUP BY %s\nORDER BY %s\nLIMIT %d", q.groupExpr, q.orderBy, q.limit)

	return sb.String(), args
}

// Build turns a validated QuerySpec and a resolved time window into
// parameterized SQL. The spec is trusted to be whitelist-validated; Build
// still resolves the dimension itself so no unvalidated value can slip
// through another code path.
func Build(spec domain.QuerySpec, window domain.TimeWindow) (string, []any, error) {
	expr, err := ResolveDimension(spec.Dimension)
	if err != nil {
		return "", nil, err
	}

	q := aggregationQuery{
		groupExpr: expr,
		alias:     spec.Dimension,
		orderBy:   ResolveSort(spec.SortBy),
		limit:     spec.Limit,
		wheres: []predicate{
			{expr: "created_at >= $%d", args: []any{window.LowerBound}},
		},
	}

	if !spec.FiltersAll() && len(spec.EventTypes) > 0 {
		verbs := make([]string, len(spec.EventTypes))
		args := make([]any, len(spec.EventTypes))
		for i, t := range spec.EventTypes {
			verbs[i] = "$%d"
			args[i] = t
		}
		q.wheres = append(q.wheres, predicate{
			expr: "event_type IN (" + strings.Join(verbs, ", ") + ")",
			args: args,
		})
	}

	sqlText, args := q.render()
	return sqlText, args, nil
}
