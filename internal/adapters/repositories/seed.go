package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"darkstore-sim/internal/domain"
	"darkstore-sim/internal/ports"
)

// Load demand profiles from a JSON array and upsert them through repo.
// Every profile is validated before any is written.
func SeedProfilesFromJSON(ctx context.Context, repo ports.ScenarioRepository, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed profiles: read %q: %w", jsonPath, err)
	}

	var data []domain.DemandProfile
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed profiles: parse json: %w", err)
	}

	for i := range data {
		data[i].Name = strings.TrimSpace(data[i].Name)
		if data[i].Name == "" {
			return 0, fmt.Errorf("seed profiles: profile at index %d: name cannot be empty", i+1)
		}
		if len(data[i].Zones) == 0 {
			return 0, fmt.Errorf("seed profiles: profile %q: no zones", data[i].Name)
		}
		if err := data[i].Validate(); err != nil {
			return 0, fmt.Errorf("seed profiles: %w", err)
		}
	}

	for _, p := range data {
		if err := repo.SaveProfile(ctx, p); err != nil {
			return 0, fmt.Errorf("seed profiles: %w", err)
		}
	}

	return len(data), nil
}
