package definition

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ResourceUsage lists the live definitions that reference one resource.
type ResourceUsage struct {
	ResourceID      ResourceID `json:"resourceId"`
	DefinitionCodes []Code     `json:"definitionCodes"`
}

// ResourceRef is the raw projection read from storage: one definition and the
// resource ids embedded in it.
type ResourceRef struct {
	Code        Code
	ResourceIDs []ResourceID
}

// FormatResourceIDs renders ids in the comma separated column form.
func FormatResourceIDs(ids []ResourceID) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(int(id)))
	}
	return strings.Join(parts, ",")
}

// ParseResourceIDs reads the comma separated column form. Blank entries are skipped.
func ParseResourceIDs(s string) ([]ResourceID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]ResourceID, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid resource id %q: %w", p, err)
		}
		out = append(out, ResourceID(n))
	}
	return out, nil
}

// AggregateResources folds per-definition references into one entry per resource.
func AggregateResources(refs []ResourceRef) map[ResourceID]ResourceUsage {
	seen := make(map[ResourceID]map[Code]struct{})
	for _, ref := range refs {
		for _, id := range ref.ResourceIDs {
			codes, ok := seen[id]
			if !ok {
				codes = make(map[Code]struct{})
				seen[id] = codes
			}
			codes[ref.Code] = struct{}{}
		}
	}
	out := make(map[ResourceID]ResourceUsage, len(seen))
	for id, codes := range seen {
		usage := ResourceUsage{ResourceID: id, DefinitionCodes: make([]Code, 0, len(codes))}
		for c := range codes {
			usage.DefinitionCodes = append(usage.DefinitionCodes, c)
		}
		sort.Slice(usage.DefinitionCodes, func(i, j int) bool {
			return usage.DefinitionCodes[i] < usage.DefinitionCodes[j]
		})
		out[id] = usage
	}
	return out
}
