package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/stemsi/historico-backend/internal/model"
	"gopkg.in/yaml.v3"
)

// LoadInstitution reads the issuing school's metadata from a YAML file and
// then applies APP_* environment overrides. A missing file is not an error;
// the result then comes from the environment alone.
//
//	city: Recife
//	director_name: Carla Lima
//	director_registration: D-001
//	secretary_name: João Alves
//	secretary_registration: S-002
//	letterhead_path: ./assets/brasao.png
func LoadInstitution(path string) (model.Institution, error) {
	var inst model.Institution

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return inst, fmt.Errorf("read institution file: %w", err)
		default:
			if err := yaml.Unmarshal(raw, &inst); err != nil {
				return inst, fmt.Errorf("parse institution file: %w", err)
			}
		}
	}

	overrideEnv(&inst.City, "APP_CIDADE")
	overrideEnv(&inst.DirectorName, "APP_DIRETOR_NOME")
	overrideEnv(&inst.DirectorRegistration, "APP_DIRETOR_MATRICULA")
	overrideEnv(&inst.SecretaryName, "APP_SECRETARIO_NOME")
	overrideEnv(&inst.SecretaryRegistration, "APP_SECRETARIO_MATRICULA")
	overrideEnv(&inst.LetterheadPath, "APP_LETTERHEAD_PATH")

	return inst, nil
}

func overrideEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
