package definition

import (
	"encoding/json"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// ID is the surrogate row identity of a live definition or a history snapshot.
// It is kept for legacy joins; new cross-references use Code.
type ID int

// Code is the stable logical identifier of a definition across all versions.
type Code int64

// ProjectCode identifies the owning project.
type ProjectCode int64

// UserID identifies a user.
type UserID int

// TenantID identifies an execution tenant.
type TenantID int

// ResourceID identifies a file or jar referenced by a definition.
type ResourceID int

// Valid reports whether the code can identify a definition.
func (c Code) Valid() bool { return c > 0 }

// ReleaseState represents whether a definition may be scheduled.
type ReleaseState int

const (
	ReleaseOffline ReleaseState = 0
	ReleaseOnline  ReleaseState = 1
)

func (s ReleaseState) String() string {
	switch s {
	case ReleaseOnline:
		return "ONLINE"
	case ReleaseOffline:
		return "OFFLINE"
	default:
		return "UNKNOWN"
	}
}

// ParseReleaseState parses "ONLINE" or "OFFLINE" (case-insensitive).
func ParseReleaseState(s string) (ReleaseState, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ONLINE":
		return ReleaseOnline, nil
	case "OFFLINE":
		return ReleaseOffline, nil
	default:
		return ReleaseOffline, InvalidArgumentf("unknown release state %q", s)
	}
}

// MaxNameLength bounds the definition name column.
const MaxNameLength = 255

// ProcessDefinition is the live, current record for a code.
type ProcessDefinition struct {
	ID           ID              `json:"id"`
	Code         Code            `json:"code"`
	Name         string          `json:"name"`
	Version      int             `json:"version"`
	ReleaseState ReleaseState    `json:"releaseState"`
	ProjectCode  ProjectCode     `json:"projectCode"`
	Description  string          `json:"description"`
	GlobalParams json.RawMessage `json:"globalParams,omitempty"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	ResourceIDs  []ResourceID    `json:"resourceIds,omitempty"`
	Timeout      int             `json:"timeout"`
	TenantID     TenantID        `json:"tenantId"`
	UserID       UserID          `json:"userId"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ProcessDefinitionLog is an append-only snapshot taken when a version is written.
// ID is the log row's own identity, not the live row's.
type ProcessDefinitionLog struct {
	ProcessDefinition
	Operator   UserID    `json:"operator"`
	OperatedAt time.Time `json:"operatedAt"`
}

// NewLog snapshots def at its current version.
func NewLog(def *ProcessDefinition, operator UserID, at time.Time) *ProcessDefinitionLog {
	snapshot := *def
	snapshot.ID = 0
	snapshot.ResourceIDs = append([]ResourceID(nil), def.ResourceIDs...)
	return &ProcessDefinitionLog{
		ProcessDefinition: snapshot,
		Operator:          operator,
		OperatedAt:        at,
	}
}

// DefinitionGroupByUser is the number of definitions owned by a user.
type DefinitionGroupByUser struct {
	UserID UserID `json:"userId"`
	Count  int64  `json:"count"`
}

// ValidateName checks a definition name before it reaches storage.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return InvalidArgumentf("name is required")
	}
	if len(name) > MaxNameLength {
		return InvalidArgumentf("name exceeds %d characters", MaxNameLength)
	}
	return nil
}

// SearchKey is the case-folded form of a name that searches match against.
// Stored names and search terms go through the same folding.
func SearchKey(name string) string {
	return cases.Fold().String(name)
}

// Validate checks the fields every stored definition must carry.
func (d *ProcessDefinition) Validate() error {
	if d == nil {
		return InvalidArgumentf("definition is nil")
	}
	if !d.Code.Valid() {
		return InvalidArgumentf("code is required")
	}
	if err := ValidateName(d.Name); err != nil {
		return err
	}
	if d.ProjectCode <= 0 {
		return InvalidArgumentf("projectCode is required")
	}
	if d.Version < 1 {
		return InvalidArgumentf("version must be >= 1")
	}
	if d.Timeout < 0 {
		return InvalidArgumentf("timeout must be >= 0")
	}
	if len(d.GlobalParams) > 0 && !json.Valid(d.GlobalParams) {
		return InvalidArgumentf("globalParams is not valid JSON")
	}
	if len(d.Payload) > 0 && !json.Valid(d.Payload) {
		return InvalidArgumentf("payload is not valid JSON")
	}
	for _, id := range d.ResourceIDs {
		if id <= 0 {
			return InvalidArgumentf("resource ids must be positive")
		}
	}
	return nil
}
