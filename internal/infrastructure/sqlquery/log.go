package sqlquery

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/execution-hub/definition-registry/internal/domain/definition"
)

// InsertLog appends a history snapshot.
func (b Builder) InsertLog(log *definition.ProcessDefinitionLog) (Query, error) {
	values := append(definitionValues(&log.ProcessDefinition), int(log.Operator), log.OperatedAt)
	ins := b.sb.Insert(TDefinitionLog).
		Columns(LogColumns[1:]...).
		Values(values...)
	if b.Returning() {
		ins = ins.Suffix("RETURNING id")
	}
	return render(ins)
}

// LogByCodeAndVersion selects one snapshot.
func (b Builder) LogByCodeAndVersion(code definition.Code, version int) (Query, error) {
	return render(b.sb.Select(LogColumns...).From(TDefinitionLog).
		Where(sq.Eq{"code": int64(code), "version": version}))
}

// MaxLogVersion selects the highest snapshot version for code, 0 when none.
func (b Builder) MaxLogVersion(code definition.Code) (Query, error) {
	return render(b.sb.Select("COALESCE(MAX(version), 0)").From(TDefinitionLog).
		Where(sq.Eq{"code": int64(code)}))
}

// ListVersionsPaged renders the newest-first history page and its count query.
func (b Builder) ListVersionsPaged(page definition.PageSpec, code definition.Code) (Query, Query, error) {
	cond := sq.Eq{"code": int64(code)}
	list, err := render(b.sb.Select(LogColumns...).From(TDefinitionLog).
		Where(cond).
		OrderBy("version DESC").
		Limit(page.Limit()).
		Offset(page.Offset()))
	if err != nil {
		return Query{}, Query{}, err
	}
	count, err := render(b.sb.Select("COUNT(*)").From(TDefinitionLog).Where(cond))
	if err != nil {
		return Query{}, Query{}, err
	}
	return list, count, nil
}

// DeleteLog removes one snapshot.
func (b Builder) DeleteLog(code definition.Code, version int) (Query, error) {
	return render(b.sb.Delete(TDefinitionLog).Where(sq.Eq{"code": int64(code), "version": version}))
}
