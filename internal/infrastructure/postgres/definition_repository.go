package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/execution-hub/definition-registry/internal/domain/definition"
	"github.com/execution-hub/definition-registry/internal/infrastructure/sqlquery"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DefinitionRepository implements definition.Repository on PostgreSQL.
type DefinitionRepository struct {
	pool    *pgxpool.Pool
	q       querier
	sql     sqlquery.Builder
	timeout time.Duration
}

// NewDefinitionRepository returns a pool-backed repository. A positive
// queryTimeout bounds every statement.
func NewDefinitionRepository(pool *pgxpool.Pool, queryTimeout time.Duration) *DefinitionRepository {
	return &DefinitionRepository{
		pool:    pool,
		q:       pool,
		sql:     sqlquery.New(sqlquery.Postgres),
		timeout: queryTimeout,
	}
}

func (r *DefinitionRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *DefinitionRepository) exec(ctx context.Context, q sqlquery.Query) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.q.Exec(ctx, q.SQL, q.Args...)
	if err != nil {
		return 0, translate(err)
	}
	return tag.RowsAffected(), nil
}

func (r *DefinitionRepository) getOne(ctx context.Context, q sqlquery.Query, err error) (*definition.ProcessDefinition, error) {
	if err != nil {
		return nil, err
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return scanDefinition(r.q.QueryRow(ctx, q.SQL, q.Args...))
}

func (r *DefinitionRepository) list(ctx context.Context, q sqlquery.Query, err error) ([]*definition.ProcessDefinition, error) {
	if err != nil {
		return nil, err
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.q.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	defs := make([]*definition.ProcessDefinition, 0)
	for rows.Next() {
		def, err := scanDefinition(rows)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, translate(rows.Err())
}

func (r *DefinitionRepository) count(ctx context.Context, q sqlquery.Query) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	var total int64
	if err := r.q.QueryRow(ctx, q.SQL, q.Args...).Scan(&total); err != nil {
		return 0, translate(err)
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
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	var id int
	if err := r.q.QueryRow(ctx, q.SQL, q.Args...).Scan(&id); err != nil {
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
	if err != nil {
		return 0, err
	}
	return r.exec(ctx, q)
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
	if err != nil {
		return 0, err
	}
	return r.exec(ctx, q)
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
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.q.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	out := make([]definition.DefinitionGroupByUser, 0)
	for rows.Next() {
		var g definition.DefinitionGroupByUser
		if err := rows.Scan(&g.UserID, &g.Count); err != nil {
			return nil, translate(err)
		}
		out = append(out, g)
	}
	return out, translate(rows.Err())
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
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.q.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	var refs []definition.ResourceRef
	for rows.Next() {
		var code int64
		var raw string
		if err := rows.Scan(&code, &raw); err != nil {
			return nil, translate(err)
		}
		ids, err := definition.ParseResourceIDs(raw)
		if err != nil {
			return nil, err
		}
		refs = append(refs, definition.ResourceRef{Code: definition.Code(code), ResourceIDs: ids})
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err)
	}
	return definition.AggregateResources(refs), nil
}

func (r *DefinitionRepository) ListProjectCodes(ctx context.Context) ([]definition.ProjectCode, error) {
	q, err := r.sql.ProjectCodes()
	if err != nil {
		return nil, err
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.q.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	out := make([]definition.ProjectCode, 0)
	for rows.Next() {
		var code int64
		if err := rows.Scan(&code); err != nil {
			return nil, translate(err)
		}
		out = append(out, definition.ProjectCode(code))
	}
	return out, translate(rows.Err())
}

func (r *DefinitionRepository) UpdateVersionByID(ctx context.Context, id definition.ID, version int) error {
	if version < 1 {
		return definition.InvalidArgumentf("version must be >= 1")
	}
	q, err := r.sql.UpdateVersionByID(id, version)
	if err != nil {
		return err
	}
	_, err = r.exec(ctx, q)
	return err
}

func (r *DefinitionRepository) UpdateReleaseStateByID(ctx context.Context, id definition.ID, state definition.ReleaseState) (int64, error) {
	if state != definition.ReleaseOnline && state != definition.ReleaseOffline {
		return 0, definition.InvalidArgumentf("unknown release state %d", state)
	}
	q, err := r.sql.UpdateReleaseStateByID(id, state, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return r.exec(ctx, q)
}

func (r *DefinitionRepository) HasAssociatedDefinition(ctx context.Context, id definition.ID, version int) (definition.ID, bool, error) {
	q, err := r.sql.AssociatedDefinition(id, version)
	if err != nil {
		return 0, false, err
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	var found int
	if err := r.q.QueryRow(ctx, q.SQL, q.Args...).Scan(&found); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, translate(err)
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
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	var id int
	if err := r.q.QueryRow(ctx, q.SQL, q.Args...).Scan(&id); err != nil {
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
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return scanLog(r.q.QueryRow(ctx, q.SQL, q.Args...))
}

func (r *DefinitionRepository) MaxLogVersion(ctx context.Context, code definition.Code) (int, error) {
	q, err := r.sql.MaxLogVersion(code)
	if err != nil {
		return 0, err
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	var version int
	if err := r.q.QueryRow(ctx, q.SQL, q.Args...).Scan(&version); err != nil {
		return 0, translate(err)
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
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.q.Query(ctx, listQ.SQL, listQ.Args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()
	logs := make([]*definition.ProcessDefinitionLog, 0)
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err)
	}
	return definition.NewPage(page, logs, total), nil
}

func (r *DefinitionRepository) DeleteLog(ctx context.Context, code definition.Code, version int) (int64, error) {
	q, err := r.sql.DeleteLog(code, version)
	if err != nil {
		return 0, err
	}
	return r.exec(ctx, q)
}

// WithinTx runs fn in a single transaction. Nested calls reuse the outer one.
func (r *DefinitionRepository) WithinTx(ctx context.Context, fn func(tx definition.Repository) error) error {
	if r.pool == nil {
		return fn(r)
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return translate(err)
	}
	txRepo := &DefinitionRepository{q: tx, sql: r.sql, timeout: r.timeout}
	if err := fn(txRepo); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return translate(tx.Commit(ctx))
}

func scanDefinition(row pgx.Row) (*definition.ProcessDefinition, error) {
	var def definition.ProcessDefinition
	var params, payload, resources string
	if err := row.Scan(&def.ID, &def.Code, &def.Name, &def.Version, &def.ReleaseState, &def.ProjectCode,
		&def.Description, &params, &payload, &resources, &def.Timeout,
		&def.TenantID, &def.UserID, &def.CreatedAt, &def.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translate(err)
	}
	if err := fillColumns(&def, params, payload, resources); err != nil {
		return nil, err
	}
	return &def, nil
}

func scanLog(row pgx.Row) (*definition.ProcessDefinitionLog, error) {
	var log definition.ProcessDefinitionLog
	def := &log.ProcessDefinition
	var params, payload, resources string
	if err := row.Scan(&def.ID, &def.Code, &def.Name, &def.Version, &def.ReleaseState, &def.ProjectCode,
		&def.Description, &params, &payload, &resources, &def.Timeout,
		&def.TenantID, &def.UserID, &def.CreatedAt, &def.UpdatedAt,
		&log.Operator, &log.OperatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translate(err)
	}
	if err := fillColumns(def, params, payload, resources); err != nil {
		return nil, err
	}
	return &log, nil
}

func fillColumns(def *definition.ProcessDefinition, params, payload, resources string) error {
	ids, err := definition.ParseResourceIDs(resources)
	if err != nil {
		return err
	}
	def.GlobalParams = json.RawMessage(params)
	def.Payload = json.RawMessage(payload)
	def.ResourceIDs = ids
	def.CreatedAt = def.CreatedAt.UTC()
	def.UpdatedAt = def.UpdatedAt.UTC()
	return nil
}
