package infra_test

import (
	"path/filepath"
	"testing"

	"go-hrms/internal/rbac/infra"

	"github.com/stretchr/testify/assert"
)

func TestModelPath(t *testing.T) {
	t.Run("defaults to the in-repo model", func(t *testing.T) {
		t.Setenv("RBAC_MODEL_PATH", "")

		assert.Equal(t, filepath.Join("internal", "rbac", "infra", "model.conf"), infra.ModelPath())
	})

	t.Run("env override wins", func(t *testing.T) {
		t.Setenv("RBAC_MODEL_PATH", "/etc/go-hrms/model.conf")

		assert.Equal(t, "/etc/go-hrms/model.conf", infra.ModelPath())
	})
}
