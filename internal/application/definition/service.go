package definition

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/execution-hub/definition-registry/internal/domain/definition"
)

// CodeGenerator issues codes for new definitions.
type CodeGenerator interface {
	NextCode() definition.Code
}

// CreateInput describes a new definition. It starts offline at version 1.
type CreateInput struct {
	ProjectCode  definition.ProjectCode  `json:"projectCode"`
	Name         string                  `json:"name"`
	Description  string                  `json:"description"`
	GlobalParams json.RawMessage         `json:"globalParams,omitempty"`
	Payload      json.RawMessage         `json:"payload,omitempty"`
	ResourceIDs  []definition.ResourceID `json:"resourceIds,omitempty"`
	Timeout      int                     `json:"timeout"`
	TenantID     definition.TenantID     `json:"tenantId"`
}

// UpdateInput replaces the content of a definition and produces a new version.
type UpdateInput struct {
	Name         string                  `json:"name"`
	Description  string                  `json:"description"`
	GlobalParams json.RawMessage         `json:"globalParams,omitempty"`
	Payload      json.RawMessage         `json:"payload,omitempty"`
	ResourceIDs  []definition.ResourceID `json:"resourceIds,omitempty"`
	Timeout      int                     `json:"timeout"`
	TenantID     definition.TenantID     `json:"tenantId"`
}

// Service handles process definition operations.
type Service struct {
	repo   definition.Repository
	codes  CodeGenerator
	logger zerolog.Logger
	now    func() time.Time
}

// NewService creates a process definition service.
func NewService(repo definition.Repository, codes CodeGenerator, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		codes:  codes,
		logger: logger.With().Str("service", "definition").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func notFound(code definition.Code) error {
	return fmt.Errorf("%w: code %d", definition.ErrNotFound, code)
}

func nameTaken(projectCode definition.ProjectCode, name string) error {
	return definition.NewConstraintError(definition.ConstraintProjectName,
		fmt.Errorf("name %q already exists in project %d", name, projectCode))
}

// Create stores a new definition together with its first history snapshot.
func (s *Service) Create(ctx context.Context, actor definition.UserID, in CreateInput) (*definition.ProcessDefinition, error) {
	if err := definition.ValidateName(in.Name); err != nil {
		return nil, err
	}
	if in.ProjectCode <= 0 {
		return nil, definition.InvalidArgumentf("projectCode is required")
	}
	existing, err := s.repo.VerifyByName(ctx, in.ProjectCode, in.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to verify process definition name: %w", err)
	}
	if existing != nil {
		return nil, nameTaken(in.ProjectCode, in.Name)
	}

	now := s.now()
	def := &definition.ProcessDefinition{
		Code:         s.codes.NextCode(),
		Name:         in.Name,
		Version:      1,
		ReleaseState: definition.ReleaseOffline,
		ProjectCode:  in.ProjectCode,
		Description:  in.Description,
		GlobalParams: in.GlobalParams,
		Payload:      in.Payload,
		ResourceIDs:  in.ResourceIDs,
		Timeout:      in.Timeout,
		TenantID:     in.TenantID,
		UserID:       actor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	err = s.repo.WithinTx(ctx, func(tx definition.Repository) error {
		if err := tx.Create(ctx, def); err != nil {
			return err
		}
		return tx.CreateLog(ctx, definition.NewLog(def, actor, now))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create process definition: %w", err)
	}

	s.logger.Info().
		Int64("code", int64(def.Code)).
		Int("version", def.Version).
		Int64("project_code", int64(def.ProjectCode)).
		Msg("process definition created")
	return def, nil
}

// Update replaces the content of code and advances its version.
func (s *Service) Update(ctx context.Context, actor definition.UserID, code definition.Code, in UpdateInput) (*definition.ProcessDefinition, error) {
	if err := definition.ValidateName(in.Name); err != nil {
		return nil, err
	}
	var updated *definition.ProcessDefinition
	err := s.repo.WithinTx(ctx, func(tx definition.Repository) error {
		live, err := s.editable(ctx, tx, code)
		if err != nil {
			return err
		}
		live.Name = in.Name
		live.Description = in.Description
		live.GlobalParams = in.GlobalParams
		live.Payload = in.Payload
		live.ResourceIDs = in.ResourceIDs
		live.Timeout = in.Timeout
		live.TenantID = in.TenantID
		if err := s.writeVersion(ctx, tx, actor, live); err != nil {
			return err
		}
		updated = live
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update process definition: %w", err)
	}

	s.logger.Info().
		Int64("code", int64(code)).
		Int("version", updated.Version).
		Int64("project_code", int64(updated.ProjectCode)).
		Msg("process definition updated")
	return updated, nil
}

// SwitchVersion restores the content of a historical version as a new version.
func (s *Service) SwitchVersion(ctx context.Context, actor definition.UserID, code definition.Code, version int) (*definition.ProcessDefinition, error) {
	var switched *definition.ProcessDefinition
	err := s.repo.WithinTx(ctx, func(tx definition.Repository) error {
		live, err := s.editable(ctx, tx, code)
		if err != nil {
			return err
		}
		snap, err := tx.GetLog(ctx, code, version)
		if err != nil {
			return err
		}
		if snap == nil {
			return fmt.Errorf("%w: code %d version %d", definition.ErrNotFound, code, version)
		}
		live.Name = snap.Name
		live.Description = snap.Description
		live.GlobalParams = snap.GlobalParams
		live.Payload = snap.Payload
		live.ResourceIDs = snap.ResourceIDs
		live.Timeout = snap.Timeout
		live.TenantID = snap.TenantID
		if err := s.writeVersion(ctx, tx, actor, live); err != nil {
			return err
		}
		switched = live
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to switch process definition version: %w", err)
	}

	s.logger.Info().
		Int64("code", int64(code)).
		Int("from_version", version).
		Int("version", switched.Version).
		Int64("project_code", int64(switched.ProjectCode)).
		Msg("process definition version switched")
	return switched, nil
}

// editable loads the live row of code and checks that it may be changed.
func (s *Service) editable(ctx context.Context, tx definition.Repository, code definition.Code) (*definition.ProcessDefinition, error) {
	live, err := tx.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if live == nil {
		return nil, notFound(code)
	}
	if live.ReleaseState == definition.ReleaseOnline {
		return nil, definition.InvalidArgumentf("process definition %d is online, take it offline first", code)
	}
	return live, nil
}

// writeVersion snapshots live at the next version, then rewrites its content
// and advances the live version. tx must be transactional.
func (s *Service) writeVersion(ctx context.Context, tx definition.Repository, actor definition.UserID, live *definition.ProcessDefinition) error {
	if err := live.Validate(); err != nil {
		return err
	}
	holder, err := tx.VerifyByName(ctx, live.ProjectCode, live.Name)
	if err != nil {
		return err
	}
	if holder != nil && holder.Code != live.Code {
		return nameTaken(live.ProjectCode, live.Name)
	}

	latest, err := tx.MaxLogVersion(ctx, live.Code)
	if err != nil {
		return err
	}
	if live.Version > latest {
		latest = live.Version
	}
	next := latest + 1

	now := s.now()
	live.Version = next
	live.UpdatedAt = now
	if err := tx.CreateLog(ctx, definition.NewLog(live, actor, now)); err != nil {
		return err
	}
	n, err := tx.Update(ctx, live)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(live.Code)
	}
	return tx.UpdateVersionByID(ctx, live.ID, next)
}

// Release moves code online or offline. Only the release state is written, so
// the content and version of the live row stay as the last edit left them.
func (s *Service) Release(ctx context.Context, code definition.Code, state definition.ReleaseState) (*definition.ProcessDefinition, error) {
	if state != definition.ReleaseOnline && state != definition.ReleaseOffline {
		return nil, definition.InvalidArgumentf("unknown release state %d", state)
	}
	var released *definition.ProcessDefinition
	err := s.repo.WithinTx(ctx, func(tx definition.Repository) error {
		def, err := tx.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if def == nil {
			return notFound(code)
		}
		if def.ReleaseState != state {
			n, err := tx.UpdateReleaseStateByID(ctx, def.ID, state)
			if err != nil {
				return err
			}
			if n == 0 {
				return notFound(code)
			}
		}
		released, err = tx.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if released == nil {
			return notFound(code)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to release process definition: %w", err)
	}

	s.logger.Info().
		Int64("code", int64(code)).
		Int("version", released.Version).
		Str("release_state", state.String()).
		Msg("process definition release state changed")
	return released, nil
}

// Delete removes the live row of code. History is kept.
func (s *Service) Delete(ctx context.Context, code definition.Code) error {
	var deleted *definition.ProcessDefinition
	err := s.repo.WithinTx(ctx, func(tx definition.Repository) error {
		def, err := tx.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if def == nil {
			return notFound(code)
		}
		if def.ReleaseState == definition.ReleaseOnline {
			return definition.InvalidArgumentf("process definition %d is online, take it offline first", code)
		}
		n, err := tx.DeleteByCode(ctx, code)
		if err != nil {
			return err
		}
		if n == 0 {
			return notFound(code)
		}
		deleted = def
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete process definition: %w", err)
	}

	s.logger.Info().
		Int64("code", int64(code)).
		Int("version", deleted.Version).
		Int64("project_code", int64(deleted.ProjectCode)).
		Msg("process definition deleted")
	return nil
}

// DeleteVersion removes one history snapshot. The current version cannot be removed.
func (s *Service) DeleteVersion(ctx context.Context, code definition.Code, version int) error {
	live, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to get process definition: %w", err)
	}
	if live != nil {
		_, inUse, err := s.repo.HasAssociatedDefinition(ctx, live.ID, version)
		if err != nil {
			return fmt.Errorf("failed to check process definition version: %w", err)
		}
		if inUse {
			return definition.InvalidArgumentf("version %d is the current version of %d", version, code)
		}
	}
	n, err := s.repo.DeleteLog(ctx, code, version)
	if err != nil {
		return fmt.Errorf("failed to delete process definition version: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: code %d version %d", definition.ErrNotFound, code, version)
	}

	s.logger.Info().
		Int64("code", int64(code)).
		Int("version", version).
		Msg("process definition version deleted")
	return nil
}
