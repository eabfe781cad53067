package predict

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	apperrors "pvcli/internal/errors"
	"pvcli/pkg/contracts/domain"
)

// WriteManifest persists the run manifest as indented JSON
func WriteManifest(path string, m domain.RunManifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return apperrors.NewInternalError("failed to marshal run manifest", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.NewConfigurationError(
			fmt.Sprintf("failed to create manifest directory for %s", path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.NewConfigurationError(
			fmt.Sprintf("failed to write manifest to %s", path), err)
	}
	return nil
}

// ReadManifest loads a previously written run manifest
func ReadManifest(path string) (domain.RunManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.RunManifest{}, apperrors.NewNotFoundError(fmt.Sprintf("manifest file %s", path))
		}
		return domain.RunManifest{}, apperrors.NewConfigurationError(
			fmt.Sprintf("failed to read manifest from %s", path), err)
	}
	var m domain.RunManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return domain.RunManifest{}, apperrors.NewSchemaMismatchError(
			fmt.Sprintf("failed to decode manifest from %s", path), err)
	}
	return m, nil
}
