// Package sqlquery builds the process definition statements shared by every
// SQL store. Dialects differ only in placeholder format and in how an
// inserted id is read back.
package sqlquery

import (
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/execution-hub/definition-registry/internal/domain/definition"
)

const (
	TDefinition    = "process_definitions"
	TDefinitionLog = "process_definition_logs"
)

// Dialect selects placeholder and insert-id conventions.
type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
	SQLite   Dialect = "sqlite"
)

// ParseDialect maps a configured driver name to a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return "", definition.InvalidArgumentf("unsupported database driver %q", name)
	}
}

// DefinitionColumns is the select list for live rows, in scan order.
var DefinitionColumns = []string{
	"id", "code", "name", "version", "release_state", "project_code", "description",
	"global_params", "definition_json", "resource_ids", "timeout_minutes",
	"tenant_id", "user_id", "created_at", "updated_at",
}

// LogColumns is the select list for history rows, in scan order.
var LogColumns = append(append([]string{}, DefinitionColumns...), "operator", "operated_at")

// Query is a rendered statement with its bound arguments.
type Query struct {
	SQL  string
	Args []interface{}
}

func render(s sq.Sqlizer) (Query, error) {
	sql, args, err := s.ToSql()
	if err != nil {
		return Query{}, err
	}
	return Query{SQL: sql, Args: args}, nil
}

// Builder renders statements for one dialect.
type Builder struct {
	dialect Dialect
	sb      sq.StatementBuilderType
}

// New returns a Builder for d.
func New(d Dialect) Builder {
	var format sq.PlaceholderFormat = sq.Question
	if d == Postgres {
		format = sq.Dollar
	}
	return Builder{dialect: d, sb: sq.StatementBuilder.PlaceholderFormat(format)}
}

// Dialect reports the builder's dialect.
func (b Builder) Dialect() Dialect { return b.dialect }

// Returning reports whether inserts read the new id back with RETURNING.
func (b Builder) Returning() bool { return b.dialect == Postgres }

// Stamp fills unset timestamps on a definition about to be written.
func Stamp(def *definition.ProcessDefinition, now time.Time) {
	now = now.UTC()
	if def.CreatedAt.IsZero() {
		def.CreatedAt = now
	}
	if def.UpdatedAt.IsZero() {
		def.UpdatedAt = now
	}
}

func jsonText(raw []byte, empty string) string {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return empty
	}
	return string(raw)
}

// PayloadText and ParamsText render the JSON columns, defaulting empty values.
func PayloadText(raw []byte) string { return jsonText(raw, "{}") }
func ParamsText(raw []byte) string  { return jsonText(raw, "[]") }

func definitionValues(def *definition.ProcessDefinition) []interface{} {
	return []interface{}{
		int64(def.Code), def.Name, def.Version, int(def.ReleaseState), int64(def.ProjectCode),
		def.Description, ParamsText(def.GlobalParams), PayloadText(def.Payload),
		definition.FormatResourceIDs(def.ResourceIDs), def.Timeout,
		int(def.TenantID), int(def.UserID), def.CreatedAt, def.UpdatedAt,
	}
}

// insertColumns is the live-row insert list: every selected column but id,
// plus the folded search key.
var insertColumns = append(append([]string{}, DefinitionColumns[1:]...), "search_name")

// InsertDefinition inserts a live row. Postgres reads the id back with RETURNING.
func (b Builder) InsertDefinition(def *definition.ProcessDefinition) (Query, error) {
	ins := b.sb.Insert(TDefinition).
		Columns(insertColumns...).
		Values(append(definitionValues(def), definition.SearchKey(def.Name))...)
	if b.Returning() {
		ins = ins.Suffix("RETURNING id")
	}
	return render(ins)
}

// UpdateDefinition rewrites content fields by id. Identity, owner, version and
// release state stay.
func (b Builder) UpdateDefinition(def *definition.ProcessDefinition) (Query, error) {
	return render(b.sb.Update(TDefinition).
		Set("name", def.Name).
		Set("search_name", definition.SearchKey(def.Name)).
		Set("description", def.Description).
		Set("global_params", ParamsText(def.GlobalParams)).
		Set("definition_json", PayloadText(def.Payload)).
		Set("resource_ids", definition.FormatResourceIDs(def.ResourceIDs)).
		Set("timeout_minutes", def.Timeout).
		Set("tenant_id", int(def.TenantID)).
		Set("updated_at", def.UpdatedAt).
		Where(sq.Eq{"id": int(def.ID)}))
}

func (b Builder) selectDefinitions() sq.SelectBuilder {
	return b.sb.Select(DefinitionColumns...).From(TDefinition)
}

// DefinitionByCode selects the live row for code.
func (b Builder) DefinitionByCode(code definition.Code) (Query, error) {
	return render(b.selectDefinitions().Where(sq.Eq{"code": int64(code)}))
}

// DefinitionsByCodes selects the live rows whose code is in codes.
func (b Builder) DefinitionsByCodes(codes []definition.Code) (Query, error) {
	vals := make([]int64, 0, len(codes))
	for _, c := range codes {
		vals = append(vals, int64(c))
	}
	return render(b.selectDefinitions().Where(sq.Eq{"code": vals}).OrderBy("id ASC"))
}

// DefinitionByName selects the live row named name within a project.
func (b Builder) DefinitionByName(projectCode definition.ProjectCode, name string) (Query, error) {
	return render(b.selectDefinitions().Where(sq.Eq{"project_code": int64(projectCode), "name": name}))
}

// DefinitionByID selects the live row with surrogate id.
func (b Builder) DefinitionByID(id definition.ID) (Query, error) {
	return render(b.selectDefinitions().Where(sq.Eq{"id": int(id)}))
}

// DefinitionsByIDs selects the live rows whose id is in ids.
func (b Builder) DefinitionsByIDs(ids []definition.ID) (Query, error) {
	vals := make([]int, 0, len(ids))
	for _, id := range ids {
		vals = append(vals, int(id))
	}
	return render(b.selectDefinitions().Where(sq.Eq{"id": vals}).OrderBy("id ASC"))
}

// DefinitionsByProject selects every live row in a project.
func (b Builder) DefinitionsByProject(projectCode definition.ProjectCode) (Query, error) {
	return render(b.selectDefinitions().Where(sq.Eq{"project_code": int64(projectCode)}).OrderBy("id ASC"))
}

// DefinitionsByTenant selects every live row bound to a tenant.
func (b Builder) DefinitionsByTenant(tenantID definition.TenantID) (Query, error) {
	return render(b.selectDefinitions().Where(sq.Eq{"tenant_id": int(tenantID)}).OrderBy("id ASC"))
}

// DeleteByCode removes the live row for code.
func (b Builder) DeleteByCode(code definition.Code) (Query, error) {
	return render(b.sb.Delete(TDefinition).Where(sq.Eq{"code": int64(code)}))
}

// UpdateVersionByID advances only the version counter of a live row.
func (b Builder) UpdateVersionByID(id definition.ID, version int) (Query, error) {
	return render(b.sb.Update(TDefinition).Set("version", version).Where(sq.Eq{"id": int(id)}))
}

// UpdateReleaseStateByID changes only the release state of a live row.
func (b Builder) UpdateReleaseStateByID(id definition.ID, state definition.ReleaseState, at time.Time) (Query, error) {
	return render(b.sb.Update(TDefinition).
		Set("release_state", int(state)).
		Set("updated_at", at).
		Where(sq.Eq{"id": int(id)}))
}

// AssociatedDefinition selects the id of the live row still at version.
func (b Builder) AssociatedDefinition(id definition.ID, version int) (Query, error) {
	return render(b.sb.Select("id").From(TDefinition).
		Where(sq.Eq{"id": int(id), "version": version}).
		Limit(1))
}

// ProjectCodes selects each project code that has at least one live row.
func (b Builder) ProjectCodes() (Query, error) {
	return render(b.sb.Select("DISTINCT project_code").From(TDefinition).OrderBy("project_code ASC"))
}

// ResourceRefs selects the raw resource column of live rows, optionally for one owner.
func (b Builder) ResourceRefs(owner *definition.UserID) (Query, error) {
	q := b.sb.Select("code", "resource_ids").From(TDefinition).
		Where(sq.NotEq{"resource_ids": ""})
	if owner != nil {
		q = q.Where(sq.Eq{"user_id": int(*owner)})
	}
	return render(q.OrderBy("id ASC"))
}
