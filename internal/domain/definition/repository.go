package definition

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Repository

import (
	"context"
)

// ListFilter narrows a paged listing. An empty SearchVal matches every name.
type ListFilter struct {
	ProjectCode ProjectCode
	SearchVal   string
	Scope       Scope
}

// Repository defines process definition persistence.
//
// Lookups report absence with a nil result and a nil error. Writes that break a
// uniqueness invariant return an error matching ErrConstraintViolation; store
// outages and timeouts return an error matching ErrStoreUnavailable.
type Repository interface {
	// Live definitions
	Create(ctx context.Context, def *ProcessDefinition) error
	// Update rewrites content fields of the live row by id. It never touches
	// version or release state.
	Update(ctx context.Context, def *ProcessDefinition) (int64, error)
	GetByCode(ctx context.Context, code Code) (*ProcessDefinition, error)
	ListByCodes(ctx context.Context, codes []Code) ([]*ProcessDefinition, error)
	DeleteByCode(ctx context.Context, code Code) (int64, error)
	VerifyByName(ctx context.Context, projectCode ProjectCode, name string) (*ProcessDefinition, error)
	GetByName(ctx context.Context, projectCode ProjectCode, name string) (*ProcessDefinition, error)
	GetByID(ctx context.Context, id ID) (*ProcessDefinition, error)
	ListPaged(ctx context.Context, page PageSpec, filter ListFilter) (*Page[*ProcessDefinition], error)
	ListByProject(ctx context.Context, projectCode ProjectCode) ([]*ProcessDefinition, error)
	ListByIDs(ctx context.Context, ids []ID) ([]*ProcessDefinition, error)
	ListByTenant(ctx context.Context, tenantID TenantID) ([]*ProcessDefinition, error)
	CountGroupByUser(ctx context.Context, scope Scope, projectCodes []ProjectCode) ([]DefinitionGroupByUser, error)
	ListResources(ctx context.Context) (map[ResourceID]ResourceUsage, error)
	ListResourcesByUser(ctx context.Context, userID UserID) (map[ResourceID]ResourceUsage, error)
	ListProjectCodes(ctx context.Context) ([]ProjectCode, error)
	UpdateVersionByID(ctx context.Context, id ID, version int) error
	// UpdateReleaseStateByID changes only release state and updated_at.
	UpdateReleaseStateByID(ctx context.Context, id ID, state ReleaseState) (int64, error)
	// HasAssociatedDefinition returns the live definition id when the live row
	// with this id is still at this version.
	HasAssociatedDefinition(ctx context.Context, id ID, version int) (ID, bool, error)

	// Version history
	CreateLog(ctx context.Context, log *ProcessDefinitionLog) error
	GetLog(ctx context.Context, code Code, version int) (*ProcessDefinitionLog, error)
	MaxLogVersion(ctx context.Context, code Code) (int, error)
	ListVersionsPaged(ctx context.Context, page PageSpec, code Code) (*Page[*ProcessDefinitionLog], error)
	DeleteLog(ctx context.Context, code Code, version int) (int64, error)

	// WithinTx runs fn against a repository bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(tx Repository) error) error
}
