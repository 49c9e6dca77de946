package instrumented

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/execution-hub/definition-registry/internal/domain/definition"
)

const tracerName = "github.com/execution-hub/definition-registry/internal/infrastructure/instrumented"

// Repository wraps a definition.Repository. Every call records a span, a
// latency sample and an outcome count. Errors pass through unchanged.
type Repository struct {
	next    definition.Repository
	metrics *Metrics
	tracer  trace.Tracer
}

var _ definition.Repository = (*Repository)(nil)

// New wraps next. A nil metrics disables Prometheus recording; a nil tracer
// uses the global provider.
func New(next definition.Repository, metrics *Metrics, tracer trace.Tracer) *Repository {
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &Repository{next: next, metrics: metrics, tracer: tracer}
}

func (r *Repository) observe(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := r.tracer.Start(ctx, "definition.Repository/"+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(append(attrs, attribute.String("db.operation", op))...),
	)
	start := time.Now()
	return ctx, func(err error) {
		if r.metrics != nil {
			r.metrics.calls.WithLabelValues(op, Outcome(err)).Inc()
			r.metrics.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, Outcome(err))
		}
		span.End()
	}
}

func codeAttr(def *definition.ProcessDefinition) attribute.KeyValue {
	if def == nil {
		return attribute.Int64("definition.code", 0)
	}
	return attribute.Int64("definition.code", int64(def.Code))
}

func (r *Repository) Create(ctx context.Context, def *definition.ProcessDefinition) (err error) {
	ctx, done := r.observe(ctx, "Create", codeAttr(def))
	defer func() { done(err) }()
	return r.next.Create(ctx, def)
}

func (r *Repository) Update(ctx context.Context, def *definition.ProcessDefinition) (_ int64, err error) {
	ctx, done := r.observe(ctx, "Update", codeAttr(def))
	defer func() { done(err) }()
	return r.next.Update(ctx, def)
}

func (r *Repository) GetByCode(ctx context.Context, code definition.Code) (_ *definition.ProcessDefinition, err error) {
	ctx, done := r.observe(ctx, "GetByCode", attribute.Int64("definition.code", int64(code)))
	defer func() { done(err) }()
	return r.next.GetByCode(ctx, code)
}

func (r *Repository) ListByCodes(ctx context.Context, codes []definition.Code) (_ []*definition.ProcessDefinition, err error) {
	ctx, done := r.observe(ctx, "ListByCodes", attribute.Int("definition.codes", len(codes)))
	defer func() { done(err) }()
	return r.next.ListByCodes(ctx, codes)
}

func (r *Repository) DeleteByCode(ctx context.Context, code definition.Code) (_ int64, err error) {
	ctx, done := r.observe(ctx, "DeleteByCode", attribute.Int64("definition.code", int64(code)))
	defer func() { done(err) }()
	return r.next.DeleteByCode(ctx, code)
}

func (r *Repository) VerifyByName(ctx context.Context, projectCode definition.ProjectCode, name string) (_ *definition.ProcessDefinition, err error) {
	ctx, done := r.observe(ctx, "VerifyByName", attribute.Int64("project.code", int64(projectCode)))
	defer func() { done(err) }()
	return r.next.VerifyByName(ctx, projectCode, name)
}

func (r *Repository) GetByName(ctx context.Context, projectCode definition.ProjectCode, name string) (_ *definition.ProcessDefinition, err error) {
	ctx, done := r.observe(ctx, "GetByName", attribute.Int64("project.code", int64(projectCode)))
	defer func() { done(err) }()
	return r.next.GetByName(ctx, projectCode, name)
}

func (r *Repository) GetByID(ctx context.Context, id definition.ID) (_ *definition.ProcessDefinition, err error) {
	ctx, done := r.observe(ctx, "GetByID", attribute.Int("definition.id", int(id)))
	defer func() { done(err) }()
	return r.next.GetByID(ctx, id)
}

func (r *Repository) ListPaged(ctx context.Context, page definition.PageSpec, filter definition.ListFilter) (_ *definition.Page[*definition.ProcessDefinition], err error) {
	ctx, done := r.observe(ctx, "ListPaged", attribute.Int64("project.code", int64(filter.ProjectCode)), attribute.String("scope", filter.Scope.String()))
	defer func() { done(err) }()
	return r.next.ListPaged(ctx, page, filter)
}

func (r *Repository) ListByProject(ctx context.Context, projectCode definition.ProjectCode) (_ []*definition.ProcessDefinition, err error) {
	ctx, done := r.observe(ctx, "ListByProject", attribute.Int64("project.code", int64(projectCode)))
	defer func() { done(err) }()
	return r.next.ListByProject(ctx, projectCode)
}

func (r *Repository) ListByIDs(ctx context.Context, ids []definition.ID) (_ []*definition.ProcessDefinition, err error) {
	ctx, done := r.observe(ctx, "ListByIDs", attribute.Int("definition.ids", len(ids)))
	defer func() { done(err) }()
	return r.next.ListByIDs(ctx, ids)
}

func (r *Repository) ListByTenant(ctx context.Context, tenantID definition.TenantID) (_ []*definition.ProcessDefinition, err error) {
	ctx, done := r.observe(ctx, "ListByTenant", attribute.Int("tenant.id", int(tenantID)))
	defer func() { done(err) }()
	return r.next.ListByTenant(ctx, tenantID)
}

func (r *Repository) CountGroupByUser(ctx context.Context, scope definition.Scope, projectCodes []definition.ProjectCode) (_ []definition.DefinitionGroupByUser, err error) {
	ctx, done := r.observe(ctx, "CountGroupByUser", attribute.String("scope", scope.String()))
	defer func() { done(err) }()
	return r.next.CountGroupByUser(ctx, scope, projectCodes)
}

func (r *Repository) ListResources(ctx context.Context) (_ map[definition.ResourceID]definition.ResourceUsage, err error) {
	ctx, done := r.observe(ctx, "ListResources")
	defer func() { done(err) }()
	return r.next.ListResources(ctx)
}

func (r *Repository) ListResourcesByUser(ctx context.Context, userID definition.UserID) (_ map[definition.ResourceID]definition.ResourceUsage, err error) {
	ctx, done := r.observe(ctx, "ListResourcesByUser", attribute.Int("user.id", int(userID)))
	defer func() { done(err) }()
	return r.next.ListResourcesByUser(ctx, userID)
}

func (r *Repository) ListProjectCodes(ctx context.Context) (_ []definition.ProjectCode, err error) {
	ctx, done := r.observe(ctx, "ListProjectCodes")
	defer func() { done(err) }()
	return r.next.ListProjectCodes(ctx)
}

func (r *Repository) UpdateVersionByID(ctx context.Context, id definition.ID, version int) (err error) {
	ctx, done := r.observe(ctx, "UpdateVersionByID", attribute.Int("definition.id", int(id)), attribute.Int("definition.version", version))
	defer func() { done(err) }()
	return r.next.UpdateVersionByID(ctx, id, version)
}

func (r *Repository) UpdateReleaseStateByID(ctx context.Context, id definition.ID, state definition.ReleaseState) (_ int64, err error) {
	ctx, done := r.observe(ctx, "UpdateReleaseStateByID", attribute.Int("definition.id", int(id)), attribute.String("definition.release_state", state.String()))
	defer func() { done(err) }()
	return r.next.UpdateReleaseStateByID(ctx, id, state)
}

func (r *Repository) HasAssociatedDefinition(ctx context.Context, id definition.ID, version int) (_ definition.ID, _ bool, err error) {
	ctx, done := r.observe(ctx, "HasAssociatedDefinition", attribute.Int("definition.id", int(id)), attribute.Int("definition.version", version))
	defer func() { done(err) }()
	return r.next.HasAssociatedDefinition(ctx, id, version)
}

func (r *Repository) CreateLog(ctx context.Context, log *definition.ProcessDefinitionLog) (err error) {
	ctx, done := r.observe(ctx, "CreateLog", attribute.Int64("definition.code", int64(log.Code)), attribute.Int("definition.version", log.Version))
	defer func() { done(err) }()
	return r.next.CreateLog(ctx, log)
}

func (r *Repository) GetLog(ctx context.Context, code definition.Code, version int) (_ *definition.ProcessDefinitionLog, err error) {
	ctx, done := r.observe(ctx, "GetLog", attribute.Int64("definition.code", int64(code)), attribute.Int("definition.version", version))
	defer func() { done(err) }()
	return r.next.GetLog(ctx, code, version)
}

func (r *Repository) MaxLogVersion(ctx context.Context, code definition.Code) (_ int, err error) {
	ctx, done := r.observe(ctx, "MaxLogVersion", attribute.Int64("definition.code", int64(code)))
	defer func() { done(err) }()
	return r.next.MaxLogVersion(ctx, code)
}

func (r *Repository) ListVersionsPaged(ctx context.Context, page definition.PageSpec, code definition.Code) (_ *definition.Page[*definition.ProcessDefinitionLog], err error) {
	ctx, done := r.observe(ctx, "ListVersionsPaged", attribute.Int64("definition.code", int64(code)))
	defer func() { done(err) }()
	return r.next.ListVersionsPaged(ctx, page, code)
}

func (r *Repository) DeleteLog(ctx context.Context, code definition.Code, version int) (_ int64, err error) {
	ctx, done := r.observe(ctx, "DeleteLog", attribute.Int64("definition.code", int64(code)), attribute.Int("definition.version", version))
	defer func() { done(err) }()
	return r.next.DeleteLog(ctx, code, version)
}

// WithinTx instruments the transaction and every call made inside it.
func (r *Repository) WithinTx(ctx context.Context, fn func(tx definition.Repository) error) (err error) {
	ctx, done := r.observe(ctx, "WithinTx")
	defer func() { done(err) }()
	return r.next.WithinTx(ctx, func(tx definition.Repository) error {
		return fn(&Repository{next: tx, metrics: r.metrics, tracer: r.tracer})
	})
}
