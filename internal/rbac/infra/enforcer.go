package infra

import (
	"os"
	"path/filepath"

	"github.com/casbin/casbin/v2"
)

// ModelPath resolves the casbin model location. RBAC_MODEL_PATH lets the
// binary start from outside the repo root; the in-repo file is the default.
func ModelPath() string {
	if p := os.Getenv("RBAC_MODEL_PATH"); p != "" {
		return p
	}
	return filepath.Join("internal", "rbac", "infra", "model.conf")
}

func NewEnforcer(modelPath string) (*casbin.Enforcer, error) {
	return casbin.NewEnforcer(modelPath)
}
