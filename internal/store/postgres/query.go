package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/shelf/internal/domain"
)

// selectBuilder renders a FilterSpec into SQL with positional arguments.
// Field names come from collection descriptors and are checked against the
// table columns before being spliced into the statement.
type selectBuilder struct {
	table   string
	columns map[string]bool
	args    []any
	where   []string
}

func newSelectBuilder(table string, columns []string) *selectBuilder {
	cols := make(map[string]bool, len(columns))
	for _, c := range columns {
		cols[c] = true
	}
	return &selectBuilder{table: table, columns: cols}
}

func (b *selectBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

func (b *selectBuilder) column(name string) (string, error) {
	if !b.columns[name] {
		return "", fmt.Errorf("unknown column %q on %s", name, b.table)
	}
	return name, nil
}

func (b *selectBuilder) predicate(p domain.Predicate) error {
	switch p.Op {
	case domain.OpContains:
		ph := b.arg("%" + escapeLike(fmt.Sprint(p.Value)) + "%")
		parts := make([]string, 0, len(p.Fields))
		for _, f := range p.Fields {
			col, err := b.column(f)
			if err != nil {
				return err
			}
			parts = append(parts, col+" ILIKE "+ph+` ESCAPE '\'`)
		}
		b.where = append(b.where, "("+strings.Join(parts, " OR ")+")")
	case domain.OpEquals, domain.OpNotEquals:
		col, err := b.column(p.Fields[0])
		if err != nil {
			return err
		}
		op := "="
		if p.Op == domain.OpNotEquals {
			op = "<>"
		}
		if s, ok := p.Value.(string); ok {
			b.where = append(b.where, fmt.Sprintf("lower(%s) %s lower(%s)", col, op, b.arg(s)))
		} else {
			b.where = append(b.where, fmt.Sprintf("%s %s %s", col, op, b.arg(p.Value)))
		}
	case domain.OpHasTag:
		col, err := b.column(p.Fields[0])
		if err != nil {
			return err
		}
		b.where = append(b.where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM jsonb_array_elements_text(%s) AS t(v) WHERE lower(t.v) = lower(%s))",
			col, b.arg(fmt.Sprint(p.Value)),
		))
	default:
		return fmt.Errorf("unsupported predicate %s", p.Op)
	}
	return nil
}

func (b *selectBuilder) build(selectCols []string, spec domain.FilterSpec) (string, []any, error) {
	for _, p := range spec.Predicates {
		if err := b.predicate(p); err != nil {
			return "", nil, err
		}
	}

	var q strings.Builder
	q.WriteString("SELECT ")
	q.WriteString(strings.Join(selectCols, ", "))
	q.WriteString(" FROM ")
	q.WriteString(b.table)
	if len(b.where) > 0 {
		q.WriteString(" WHERE ")
		q.WriteString(strings.Join(b.where, " AND "))
	}

	order := make([]string, 0, len(spec.Order.Keys)+1)
	for _, c := range spec.Order.Columns() {
		col, err := b.column(c)
		if err != nil {
			return "", nil, err
		}
		order = append(order, col+" DESC")
	}
	q.WriteString(" ORDER BY ")
	q.WriteString(strings.Join(order, ", "))

	if spec.Page.Limit > 0 {
		q.WriteString(" LIMIT " + b.arg(spec.Page.Limit))
	}
	if spec.Page.Offset > 0 {
		q.WriteString(" OFFSET " + b.arg(spec.Page.Offset))
	}
	return q.String(), b.args, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
