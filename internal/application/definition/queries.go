package definition

import (
	"context"
	"fmt"

	"github.com/execution-hub/definition-registry/internal/domain/definition"
)

// Get returns the live definition for code.
func (s *Service) Get(ctx context.Context, code definition.Code) (*definition.ProcessDefinition, error) {
	def, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get process definition: %w", err)
	}
	if def == nil {
		return nil, notFound(code)
	}
	return def, nil
}

// GetByID returns the live definition with surrogate id.
func (s *Service) GetByID(ctx context.Context, id definition.ID) (*definition.ProcessDefinition, error) {
	def, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get process definition: %w", err)
	}
	if def == nil {
		return nil, fmt.Errorf("%w: id %d", definition.ErrNotFound, id)
	}
	return def, nil
}

// GetByName returns the live definition named name within a project.
func (s *Service) GetByName(ctx context.Context, projectCode definition.ProjectCode, name string) (*definition.ProcessDefinition, error) {
	def, err := s.repo.GetByName(ctx, projectCode, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get process definition: %w", err)
	}
	if def == nil {
		return nil, fmt.Errorf("%w: name %q in project %d", definition.ErrNotFound, name, projectCode)
	}
	return def, nil
}

// VerifyName reports a constraint violation when name is already used in the project.
func (s *Service) VerifyName(ctx context.Context, projectCode definition.ProjectCode, name string) error {
	if err := definition.ValidateName(name); err != nil {
		return err
	}
	def, err := s.repo.VerifyByName(ctx, projectCode, name)
	if err != nil {
		return fmt.Errorf("failed to verify process definition name: %w", err)
	}
	if def != nil {
		return nameTaken(projectCode, name)
	}
	return nil
}

// List returns one page of a project's definitions visible to the caller.
func (s *Service) List(ctx context.Context, userID definition.UserID, isAdmin bool, projectCode definition.ProjectCode, searchVal string, page definition.PageSpec) (*definition.Page[*definition.ProcessDefinition], error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return s.repo.ListPaged(ctx, page, definition.ListFilter{
		ProjectCode: projectCode,
		SearchVal:   searchVal,
		Scope:       definition.ScopeFor(userID, isAdmin),
	})
}

// ListAll returns every definition in a project.
func (s *Service) ListAll(ctx context.Context, projectCode definition.ProjectCode) ([]*definition.ProcessDefinition, error) {
	return s.repo.ListByProject(ctx, projectCode)
}

// ListByCodes returns the existing definitions among codes.
func (s *Service) ListByCodes(ctx context.Context, codes []definition.Code) ([]*definition.ProcessDefinition, error) {
	return s.repo.ListByCodes(ctx, codes)
}

// ListByIDs returns the existing definitions among ids.
func (s *Service) ListByIDs(ctx context.Context, ids []definition.ID) ([]*definition.ProcessDefinition, error) {
	return s.repo.ListByIDs(ctx, ids)
}

// ListByTenant returns the definitions bound to a tenant.
func (s *Service) ListByTenant(ctx context.Context, tenantID definition.TenantID) ([]*definition.ProcessDefinition, error) {
	return s.repo.ListByTenant(ctx, tenantID)
}

// CountByUser counts definitions per owner across projectCodes, limited to
// the caller unless isAdmin.
func (s *Service) CountByUser(ctx context.Context, userID definition.UserID, isAdmin bool, projectCodes []definition.ProjectCode) ([]definition.DefinitionGroupByUser, error) {
	return s.repo.CountGroupByUser(ctx, definition.ScopeFor(userID, isAdmin), projectCodes)
}

// Resources maps every referenced resource to the definitions using it.
func (s *Service) Resources(ctx context.Context) (map[definition.ResourceID]definition.ResourceUsage, error) {
	return s.repo.ListResources(ctx)
}

// ResourcesByUser is Resources limited to one owner's definitions.
func (s *Service) ResourcesByUser(ctx context.Context, userID definition.UserID) (map[definition.ResourceID]definition.ResourceUsage, error) {
	return s.repo.ListResourcesByUser(ctx, userID)
}

// Projects lists the projects that hold at least one definition.
func (s *Service) Projects(ctx context.Context) ([]definition.ProjectCode, error) {
	return s.repo.ListProjectCodes(ctx)
}

// Versions returns one page of code's history, newest first.
func (s *Service) Versions(ctx context.Context, code definition.Code, page definition.PageSpec) (*definition.Page[*definition.ProcessDefinitionLog], error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return s.repo.ListVersionsPaged(ctx, page, code)
}

// GetVersion returns one history snapshot.
func (s *Service) GetVersion(ctx context.Context, code definition.Code, version int) (*definition.ProcessDefinitionLog, error) {
	log, err := s.repo.GetLog(ctx, code, version)
	if err != nil {
		return nil, fmt.Errorf("failed to get process definition version: %w", err)
	}
	if log == nil {
		return nil, fmt.Errorf("%w: code %d version %d", definition.ErrNotFound, code, version)
	}
	return log, nil
}
