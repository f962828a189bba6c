package auth

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Permissions maps an upper-case role name to the permissions it grants.
type Permissions map[string][]string

type permissionsFile struct {
	Roles map[string][]string `yaml:"roles"`
}

var knownRoles = map[string]bool{
	strings.ToUpper(RoleDoctor):       true,
	strings.ToUpper(RoleReceptionist): true,
}

// LoadPermissions reads the role table from a YAML file. Every role must be
// a clinic role and every permission must look like resource:action.
func LoadPermissions(path string) (Permissions, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read permissions file: %w", err)
	}
	var pf permissionsFile
	if err := yaml.Unmarshal(b, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse permissions file %s: %w", path, err)
	}
	if len(pf.Roles) == 0 {
		return nil, fmt.Errorf("permissions file %s defines no roles", path)
	}

	perms := make(Permissions, len(pf.Roles))
	for role, list := range pf.Roles {
		key := strings.ToUpper(role)
		if !knownRoles[key] {
			return nil, fmt.Errorf("permissions file %s: unknown role %q", path, role)
		}
		for _, p := range list {
			resource, action, ok := strings.Cut(p, ":")
			if !ok || resource == "" || action == "" {
				return nil, fmt.Errorf("permissions file %s: role %s has malformed permission %q", path, role, p)
			}
		}
		perms[key] = append(perms[key], list...)
	}
	return perms, nil
}

// Allows reports whether role grants permission. Role names match
// case-insensitively, so the token's "Doctor" finds the DOCTOR entry.
func (p Permissions) Allows(role, permission string) bool {
	if role == "" {
		return false
	}
	for _, granted := range p[strings.ToUpper(role)] {
		if granted == permission {
			return true
		}
	}
	return false
}
