// Package permissions holds the role table consulted by the RBAC middleware.
package permissions

import (
	_ "embed"
	"encoding/json"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Permission lists the roles allowed on one route pattern. An empty role
// list lets any authenticated operator through.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

func (p Permission) Allows(role string) bool {
	return p.Skip || len(p.Permissions) == 0 || slices.Contains(p.Permissions, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`
}

func normalizePath(path string) string {
	if path == "/" {
		return path
	}

	return strings.TrimSuffix(path, "/")
}

// FindPermissions matches a chi route pattern such as /v1/periods/{id}.
// A trailing slash is ignored on both sides.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	path = normalizePath(path)

	idx := slices.IndexFunc(r.Endpoints, func(rp Permission) bool {
		return normalizePath(rp.Path) == path && strings.EqualFold(rp.Method, method)
	})

	if idx == -1 {
		return Permission{}
	}

	return r.Endpoints[idx]
}

func Parse(data []byte) (*PermissionData, error) {
	var permissions PermissionData

	if err := json.Unmarshal(data, &permissions); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &permissions, nil
}

func Get() *PermissionData {
	permissions, err := Parse(permissionsData)
	if err != nil {
		log.Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Successfully loaded embedded permissions")

	return permissions
}
