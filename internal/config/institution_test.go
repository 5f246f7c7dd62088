package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadInstitution(t *testing.T) {
	path := filepath.Join(t.TempDir(), "institution.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
city: Recife
director_name: Carla Lima
director_registration: D-001
secretary_name: João Alves
secretary_registration: S-002
letterhead_path: ./assets/brasao.png
`), 0o644))

	t.Run("file only", func(t *testing.T) {
		inst, err := LoadInstitution(path)
		require.NoError(t, err)
		assert.Equal(t, "Recife", inst.City)
		assert.Equal(t, "Carla Lima", inst.DirectorName)
		assert.Equal(t, "D-001", inst.DirectorRegistration)
		assert.Equal(t, "João Alves", inst.SecretaryName)
		assert.Equal(t, "S-002", inst.SecretaryRegistration)
		assert.Equal(t, "./assets/brasao.png", inst.LetterheadPath)
	})

	t.Run("environment wins", func(t *testing.T) {
		t.Setenv("APP_CIDADE", "Olinda")
		t.Setenv("APP_SECRETARIO_NOME", "Marta Reis")

		inst, err := LoadInstitution(path)
		require.NoError(t, err)
		assert.Equal(t, "Olinda", inst.City)
		assert.Equal(t, "Marta Reis", inst.SecretaryName)
		assert.Equal(t, "Carla Lima", inst.DirectorName)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Setenv("APP_DIRETOR_NOME", "Paulo Melo")

		inst, err := LoadInstitution(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "Paulo Melo", inst.DirectorName)
		assert.Empty(t, inst.City)
	})

	t.Run("malformed file", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("city: [unclosed"), 0o644))

		_, err := LoadInstitution(bad)
		assert.Error(t, err)
	})
}

func TestCacheKey(t *testing.T) {
	a := CacheKey.VerificationQRKey("https://escola.example/verify/historico?student=1")
	b := CacheKey.VerificationQRKey("https://escola.example/verify/historico?student=2")

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, CacheKey.VerificationQRKey("https://escola.example/verify/historico?student=1"))
	assert.Regexp(t, `^verify:qr:[0-9a-f]{32}$`, a)
}
