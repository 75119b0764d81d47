package results

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mgarton/screenrun/pkg/models"
)

// SaveManifest writes the run manifest atomically: the JSON is written to a
// temp file in the same directory, then renamed over the final path.
func SaveManifest(path string, m *models.Manifest, logger *slog.Logger) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp manifest: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename manifest: %w", err)
	}

	logger.Debug("Manifest saved", "path", path, "pairs", len(m.Pairs))
	return nil
}

// LoadManifest reads a previously written run manifest
func LoadManifest(path string) (*models.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m models.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}

	return &m, nil
}

// ConfigHash fingerprints the fields that define the enumeration, so status
// output can flag a manifest written under a different configuration
func ConfigHash(method string, targets []string, trialStart, trialEnd int) string {
	data := fmt.Sprintf("%s:%s:%d:%d",
		method,
		strings.Join(targets, ","),
		trialStart,
		trialEnd)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash[:8]) // First 8 bytes
}
