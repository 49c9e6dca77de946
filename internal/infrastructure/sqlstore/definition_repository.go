package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/execution-hub/definition-registry/internal/domain/definition"
	"github.com/execution-hub/definition-registry/internal/infrastructure/sqlquery"
)

type definitionRow struct {
	ID           int       `db:"id"`
	Code         int64     `db:"code"`
	Name         string    `db:"name"`
	Version      int       `db:"version"`
	ReleaseState int       `db:"release_state"`
	ProjectCode  int64     `db:"project_code"`
	Description  string    `db:"description"`
	GlobalParams string    `db:"global_params"`
	Payload      string    `db:"definition_json"`
	ResourceIDs  string    `db:"resource_ids"`
	Timeout      int       `db:"timeout_minutes"`
	TenantID     int       `db:"tenant_id"`
	UserID       int       `db:"user_id"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r definitionRow) toDomain() (*definition.ProcessDefinition, error) {
	ids, err := definition.ParseResourceIDs(r.ResourceIDs)
	if err != nil {
		return nil, err
	}
	return &definition.ProcessDefinition{
		ID:           definition.ID(r.ID),
		Code:         definition.Code(r.Code),
		Name:         r.Name,
		Version:      r.Version,
		ReleaseState: definition.ReleaseState(r.ReleaseState),
		ProjectCode:  definition.ProjectCode(r.ProjectCode),
		Description:  r.Description,
		GlobalParams: json.RawMessage(r.GlobalParams),
		Payload:      json.RawMessage(r.Payload),
		ResourceIDs:  ids,
		Timeout:      r.Timeout,
		TenantID:     definition.TenantID(r.TenantID),
		UserID:       definition.UserID(r.UserID),
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}, nil
}

type logRow struct {
	definitionRow
	Operator   int       `db:"operator"`
	OperatedAt time.Time `db:"operated_at"`
}

func (r logRow) toDomain() (*definition.ProcessDefinitionLog, error) {
	def, err := r.definitionRow.toDomain()
	if err != nil {
		return nil, err
	}
	return &definition.ProcessDefinitionLog{
		ProcessDefinition: *def,
		Operator:          definition.UserID(r.Operator),
		OperatedAt:        r.OperatedAt.UTC(),
	}, nil
}

type groupRow struct {
	UserID int   `db:"user_id"`
	Count  int64 `db:"cnt"`
}

type resourceRow struct {
	Code        int64  `db:"code"`
	ResourceIDs string `db:"resource_ids"`
}

// DefinitionRepository implements definition.Repository on MySQL or SQLite.
type DefinitionRepository struct {
	db      *sqlx.DB
	ext     sqlx.ExtContext
	sql     sqlquery.Builder
	timeout time.Duration
}

// NewDefinitionRepository returns a repository over db. A positive
// queryTimeout bounds every statement.
func NewDefinitionRepository(db *sqlx.DB, dialect sqlquery.Dialect, queryTimeout time.Duration) *DefinitionRepository {
	return &DefinitionRepository{
		db:      db,
		ext:     db,
		sql:     sqlquery.New(dialect),
		timeout: queryTimeout,
	}
}

func (r *DefinitionRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *DefinitionRepository) exec(ctx context.Context, q sqlquery.Query) (sql.Result, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	res, err := r.ext.ExecContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, translate(err)
	}
	return res, nil
}

func (r *DefinitionRepository) affected(ctx context.Context, q sqlquery.Query, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	res, err := r.exec(ctx, q)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return n, translate(err)
}

// get scans one row into dest and reports whether a row was found.
func (r *DefinitionRepository) get(ctx context.Context, dest interface{}, q sqlquery.Query) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := sqlx.GetContext(ctx, r.ext, dest, q.SQL, q.Args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, translate(err)
	}
	return true, nil
}

func (r *DefinitionRepository) selectRows(ctx context.Context, dest interface{}, q sqlquery.Query) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return translate(sqlx.SelectContext(ctx, r.ext, dest, q.SQL, q.Args...))
}

func (r *DefinitionRepository) getOne(ctx context.Context, q sqlquery.Query, err error) (*definition.ProcessDefinition, error) {
	if err != nil {
		return nil, err
	}
	var row definitionRow
	found, err := r.get(ctx, &row, q)
	if err != nil || !found {
		return nil, err
	}
	return row.toDomain()
}

func (r *DefinitionRepository) list(ctx context.Context, q sqlquery.Query, err error) ([]*definition.ProcessDefinition, error) {
	if err != nil {
		return nil, err
	}
	var rows []definitionRow
	if err := r.selectRows(ctx, &rows, q); err != nil {
		return nil, err
	}
	defs := make([]*definition.ProcessDefinition, 0, len(rows))
	for _, row := range rows {
		def, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (r *DefinitionRepository) count(ctx context.Context, q sqlquery.Query) (int64, error) {
	var total int64
	if _, err := r.get(ctx, &total, q); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *DefinitionRepository) Create(ctx context.Context, def *definition.ProcessDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	sqlquery.Stamp(def, time.Now())
	q, err := r.sql.InsertDefinition(def)
	if err != nil {
		return err
	}
	res, err := r.exec(ctx, q)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return translate(err)
	}
	def.ID = definition.ID(id)
	return nil
}

func (r *DefinitionRepository) Update(ctx context.Context, def *definition.ProcessDefinition) (int64, error) {
	if def == nil {
		return 0, definition.InvalidArgumentf("definition is nil")
	}
	if err := definition.ValidateName(def.Name); err != nil {
		return 0, err
	}
	def.UpdatedAt = time.Now().UTC()
	q, err := r.sql.UpdateDefinition(def)
	return r.affected(ctx, q, err)
}

func (r *DefinitionRepository) GetByCode(ctx context.Context, code definition.Code) (*definition.ProcessDefinition, error) {
	q, err := r.sql.DefinitionByCode(code)
	return r.getOne(ctx, q, err)
}

func (r *DefinitionRepository) ListByCodes(ctx context.Context, codes []definition.Code) ([]*definition.ProcessDefinition, error) {
	if len(codes) == 0 {
		return []*definition.ProcessDefinition{}, nil
	}
	q, err := r.sql.DefinitionsByCodes(codes)
	return r.list(ctx, q, err)
}

func (r *DefinitionRepository) DeleteByCode(ctx context.Context, code definition.Code) (int64, error) {
	q, err := r.sql.DeleteByCode(code)
	return r.affected(ctx, q, err)
}

func (r *DefinitionRepository) VerifyByName(ctx context.Context, projectCode definition.ProjectCode, name string) (*definition.ProcessDefinition, error) {
	return r.GetByName(ctx, projectCode, name)
}

func (r *DefinitionRepository) GetByName(ctx context.Context, projectCode definition.ProjectCode, name string) (*definition.ProcessDefinition, error) {
	q, err := r.sql.DefinitionByName(projectCode, name)
	return r.getOne(ctx, q, err)
}

func (r *DefinitionRepository) GetByID(ctx context.Context, id definition.ID) (*definition.ProcessDefinition, error) {
	q, err := r.sql.DefinitionByID(id)
	return r.getOne(ctx, q, err)
}

func (r *DefinitionRepository) ListPaged(ctx context.Context, page definition.PageSpec, filter definition.ListFilter) (*definition.Page[*definition.ProcessDefinition], error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	listQ, countQ, err := r.sql.ListPaged(page, filter)
	if err != nil {
		return nil, err
	}
	total, err := r.count(ctx, countQ)
	if err != nil {
		return nil, err
	}
	items, err := r.list(ctx, listQ, nil)
	if err != nil {
		return nil, err
	}
	return definition.NewPage(page, items, total), nil
}

func (r *DefinitionRepository) ListByProject(ctx context.Context, projectCode definition.ProjectCode) ([]*definition.ProcessDefinition, error) {
	q, err := r.sql.DefinitionsByProject(projectCode)
	return r.list(ctx, q, err)
}

func (r *DefinitionRepository) ListByIDs(ctx context.Context, ids []definition.ID) ([]*definition.ProcessDefinition, error) {
	if len(ids) == 0 {
		return []*definition.ProcessDefinition{}, nil
	}
	q, err := r.sql.DefinitionsByIDs(ids)
	return r.list(ctx, q, err)
}

func (r *DefinitionRepository) ListByTenant(ctx context.Context, tenantID definition.TenantID) ([]*definition.ProcessDefinition, error) {
	q, err := r.sql.DefinitionsByTenant(tenantID)
	return r.list(ctx, q, err)
}

func (r *DefinitionRepository) CountGroupByUser(ctx context.Context, scope definition.Scope, projectCodes []definition.ProjectCode) ([]definition.DefinitionGroupByUser, error) {
	if len(projectCodes) == 0 {
		return []definition.DefinitionGroupByUser{}, nil
	}
	q, err := r.sql.CountGroupByUser(scope, projectCodes)
	if err != nil {
		return nil, err
	}
	var rows []groupRow
	if err := r.selectRows(ctx, &rows, q); err != nil {
		return nil, err
	}
	out := make([]definition.DefinitionGroupByUser, 0, len(rows))
	for _, row := range rows {
		out = append(out, definition.DefinitionGroupByUser{UserID: definition.UserID(row.UserID), Count: row.Count})
	}
	return out, nil
}

func (r *DefinitionRepository) ListResources(ctx context.Context) (map[definition.ResourceID]definition.ResourceUsage, error) {
	return r.resources(ctx, nil)
}

func (r *DefinitionRepository) ListResourcesByUser(ctx context.Context, userID definition.UserID) (map[definition.ResourceID]definition.ResourceUsage, error) {
	return r.resources(ctx, &userID)
}

func (r *DefinitionRepository) resources(ctx context.Context, owner *definition.UserID) (map[definition.ResourceID]definition.ResourceUsage, error) {
	q, err := r.sql.ResourceRefs(owner)
	if err != nil {
		return nil, err
	}
	var rows []resourceRow
	if err := r.selectRows(ctx, &rows, q); err != nil {
		return nil, err
	}
	refs := make([]definition.ResourceRef, 0, len(rows))
	for _, row := range rows {
		ids, err := definition.ParseResourceIDs(row.ResourceIDs)
		if err != nil {
			return nil, err
		}
		refs = append(refs, definition.ResourceRef{Code: definition.Code(row.Code), ResourceIDs: ids})
	}
	return definition.AggregateResources(refs), nil
}

func (r *DefinitionRepository) ListProjectCodes(ctx context.Context) ([]definition.ProjectCode, error) {
	q, err := r.sql.ProjectCodes()
	if err != nil {
		return nil, err
	}
	var codes []int64
	if err := r.selectRows(ctx, &codes, q); err != nil {
		return nil, err
	}
	out := make([]definition.ProjectCode, 0, len(codes))
	for _, c := range codes {
		out = append(out, definition.ProjectCode(c))
	}
	return out, nil
}

func (r *DefinitionRepository) UpdateVersionByID(ctx context.Context, id definition.ID, version int) error {
	if version < 1 {
		return definition.InvalidArgumentf("version must be >= 1")
	}
	q, err := r.sql.UpdateVersionByID(id, version)
	_, err = r.affected(ctx, q, err)
	return err
}

func (r *DefinitionRepository) UpdateReleaseStateByID(ctx context.Context, id definition.ID, state definition.ReleaseState) (int64, error) {
	if state != definition.ReleaseOnline && state != definition.ReleaseOffline {
		return 0, definition.InvalidArgumentf("unknown release state %d", state)
	}
	q, err := r.sql.UpdateReleaseStateByID(id, state, time.Now().UTC())
	return r.affected(ctx, q, err)
}

func (r *DefinitionRepository) HasAssociatedDefinition(ctx context.Context, id definition.ID, version int) (definition.ID, bool, error) {
	q, err := r.sql.AssociatedDefinition(id, version)
	if err != nil {
		return 0, false, err
	}
	var found int
	ok, err := r.get(ctx, &found, q)
	if err != nil || !ok {
		return 0, false, err
	}
	return definition.ID(found), true, nil
}

func (r *DefinitionRepository) CreateLog(ctx context.Context, log *definition.ProcessDefinitionLog) error {
	if err := log.Validate(); err != nil {
		return err
	}
	if log.OperatedAt.IsZero() {
		log.OperatedAt = time.Now().UTC()
	}
	sqlquery.Stamp(&log.ProcessDefinition, log.OperatedAt)
	q, err := r.sql.InsertLog(log)
	if err != nil {
		return err
	}
	res, err := r.exec(ctx, q)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return translate(err)
	}
	log.ID = definition.ID(id)
	return nil
}

func (r *DefinitionRepository) GetLog(ctx context.Context, code definition.Code, version int) (*definition.ProcessDefinitionLog, error) {
	q, err := r.sql.LogByCodeAndVersion(code, version)
	if err != nil {
		return nil, err
	}
	var row logRow
	found, err := r.get(ctx, &row, q)
	if err != nil || !found {
		return nil, err
	}
	return row.toDomain()
}

func (r *DefinitionRepository) MaxLogVersion(ctx context.Context, code definition.Code) (int, error) {
	q, err := r.sql.MaxLogVersion(code)
	if err != nil {
		return 0, err
	}
	var version int
	if _, err := r.get(ctx, &version, q); err != nil {
		return 0, err
	}
	return version, nil
}

func (r *DefinitionRepository) ListVersionsPaged(ctx context.Context, page definition.PageSpec, code definition.Code) (*definition.Page[*definition.ProcessDefinitionLog], error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	listQ, countQ, err := r.sql.ListVersionsPaged(page, code)
	if err != nil {
		return nil, err
	}
	total, err := r.count(ctx, countQ)
	if err != nil {
		return nil, err
	}
	var rows []logRow
	if err := r.selectRows(ctx, &rows, listQ); err != nil {
		return nil, err
	}
	logs := make([]*definition.ProcessDefinitionLog, 0, len(rows))
	for _, row := range rows {
		log, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return definition.NewPage(page, logs, total), nil
}

func (r *DefinitionRepository) DeleteLog(ctx context.Context, code definition.Code, version int) (int64, error) {
	q, err := r.sql.DeleteLog(code, version)
	return r.affected(ctx, q, err)
}

// WithinTx runs fn in a single transaction. Nested calls reuse the outer one.
func (r *DefinitionRepository) WithinTx(ctx context.Context, fn func(tx definition.Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return translate(err)
	}
	txRepo := &DefinitionRepository{ext: tx, sql: r.sql, timeout: r.timeout}
	if err := fn(txRepo); err != nil {
		_ = tx.Rollback()
		return err
	}
	return translate(tx.Commit())
}
