package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"darkstore-sim/internal/domain"
	"darkstore-sim/internal/sim"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var smallArgs = []string{"-min-agents", "4", "-max-agents", "6", "-reps", "1", "-horizon", "60"}

func TestRunJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), append(smallArgs, "-format", "json"), &out))

	var report domain.SweepReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	require.Len(t, report.Rows, 3)
	assert.Equal(t, sim.BuiltinUniform, report.Request.Builtin)

	recommended := 0
	for _, r := range report.Rows {
		if r.Recommended {
			recommended++
			assert.Equal(t, report.Recommended, r.AgentCount)
		}
	}
	assert.Equal(t, 1, recommended)
}

func TestRunCSV(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), append(smallArgs, "-format", "csv", "-profile", sim.BuiltinHotspot), &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "agent_count,"))
	assert.True(t, strings.HasPrefix(lines[1], "4,"))
}

func TestRunProfileFile(t *testing.T) {
	profile := domain.DemandProfile{
		Name: "evening",
		Zones: []domain.DemandZone{{
			Name:             "market",
			Kind:             domain.ZoneHotspot,
			MinOrdersPerHour: 10,
			MaxOrdersPerHour: 20,
			StartHour:        0,
			EndHour:          23,
			Center:           &sim.DefaultStore.Position,
			RadiusKm:         1.5,
		}},
	}
	b, err := json.Marshal(profile)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(path, b, 0o600))

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), append(smallArgs, "-format", "json", "-profile-file", path), &out))

	var report domain.SweepReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, "evening", report.Request.Profile.Name)
	assert.Empty(t, report.Request.Builtin)
}

func TestRunRejectsBadInput(t *testing.T) {
	tests := map[string][]string{
		"UnknownFormat":  append(smallArgs, "-format", "xml"),
		"UnknownProfile": append(smallArgs, "-profile", "rush-hour"),
		"MissingFile":    append(smallArgs, "-profile-file", filepath.Join(t.TempDir(), "nope.json")),
		"EmptyRange":     {"-min-agents", "6", "-max-agents", "4"},
		"UnknownFlag":    {"-agents", "4"},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			assert.Error(t, run(context.Background(), args, &out))
		})
	}
}

func TestRunPushesMetrics(t *testing.T) {
	var gotPath string
	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer gw.Close()

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), append(smallArgs, "-push-url", gw.URL), &out))
	assert.Contains(t, out.String(), "Recommended agents:")
	assert.Equal(t, "/metrics/job/darkstore_sweep", gotPath)
}
