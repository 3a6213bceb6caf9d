package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"darkstore-sim/internal/adapters/advisory"
	"darkstore-sim/internal/adapters/cache"
	"darkstore-sim/internal/adapters/repositories"
	"darkstore-sim/internal/api/dto"
	"darkstore-sim/internal/domain"
	"darkstore-sim/internal/services"
	"darkstore-sim/internal/sim"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

type testServer struct {
	*httptest.Server
	sim      *services.SimulationService
	advisory *services.AdvisoryService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, repositories.InitSchema(db))

	p := sim.DefaultParams()
	p.Seed = 42
	simulation, err := services.NewSimulationService(p, time.Hour, nil)
	require.NoError(t, err)
	t.Cleanup(simulation.Close)

	adv := services.NewAdvisoryService(
		advisory.NewFixedClient("add two agents before noon"),
		time.Hour,
		time.Second,
	)

	h := NewRouter(Deps{
		Sim:       simulation,
		Scenarios: services.NewScenarioService(repositories.NewSqliteScenarioRepository(db), simulation),
		Sweeps:    services.NewSweepService(cache.NewSqliteSweepCache(db)),
		Advisory:  adv,
	})

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, sim: simulation, advisory: adv}
}

func (s *testServer) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, s.URL+path, r)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := s.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func decode[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	res := s.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))
	assert.Equal(t, "ok", decode[map[string]string](t, res)["status"])

	res = s.do(t, http.MethodPost, "/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, s.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")

	res, err := s.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, "abc-123", res.Header.Get("X-Request-ID"))
}

func TestSimulationLifecycle(t *testing.T) {
	s := newTestServer(t)

	st := decode[services.Status](t, s.do(t, http.MethodGet, "/api/v1/simulation/", ""))
	assert.Equal(t, services.StateStopped, st.State)
	assert.Equal(t, 0, st.Snapshot.Tick)

	res := s.do(t, http.MethodPost, "/api/v1/simulation/step", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	tick := decode[sim.TickResult](t, res)
	assert.Equal(t, 1, tick.Tick)

	res = s.do(t, http.MethodPost, "/api/v1/simulation/start", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, services.StateRunning, decode[services.Status](t, res).State)

	res = s.do(t, http.MethodPost, "/api/v1/simulation/start", "")
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	res = s.do(t, http.MethodPost, "/api/v1/simulation/step", "")
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	res = s.do(t, http.MethodPut, "/api/v1/simulation/config", `{"agent_count": 4}`)
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	res = s.do(t, http.MethodPost, "/api/v1/simulation/pause", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, services.StatePaused, decode[services.Status](t, res).State)

	res = s.do(t, http.MethodPost, "/api/v1/simulation/reset", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	st = decode[services.Status](t, res)
	assert.Equal(t, services.StateStopped, st.State)
	assert.Equal(t, 0, st.Snapshot.Tick)
}

func TestConfigure(t *testing.T) {
	s := newTestServer(t)

	tests := map[string]struct {
		body   string
		status int
	}{
		"Valid":          {body: `{"agent_count": 4, "agent_speed_kmh": 30, "profile": "default-hotspot"}`, status: http.StatusOK},
		"UnknownField":   {body: `{"agents": 4}`, status: http.StatusBadRequest},
		"TwoObjects":     {body: `{"agent_count": 4}{}`, status: http.StatusBadRequest},
		"Empty":          {body: "", status: http.StatusBadRequest},
		"NegativeAgents": {body: `{"agent_count": -1}`, status: http.StatusBadRequest},
		"BadProfileName": {body: `{"profile": "../etc"}`, status: http.StatusBadRequest},
		"MissingProfile": {body: `{"profile": "nope"}`, status: http.StatusNotFound},
		"BadStore":       {body: `{"stores": [{"id": 1, "lat": 91, "lng": 0}]}`, status: http.StatusBadRequest},
		"DuplicateStore": {body: `{"stores": [{"id": 1, "lat": 30.73, "lng": 76.77}, {"id": 1, "lat": 30.76, "lng": 76.82}]}`, status: http.StatusBadRequest},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			res := s.do(t, http.MethodPut, "/api/v1/simulation/config", tt.body)
			assert.Equal(t, tt.status, res.StatusCode)
		})
	}

	p := s.sim.Params()
	assert.Equal(t, 4, p.AgentCount)
	assert.Equal(t, 30.0, p.AgentSpeedKmh)
	assert.Equal(t, sim.BuiltinHotspot, p.Builtin)
	assert.Empty(t, p.Profile.Zones)
}

func TestConfigureWithStoredProfile(t *testing.T) {
	s := newTestServer(t)

	profile := `{"name": "corridor", "zones": [{"name": "ring road", "kind": "route",
		"min_orders_per_hour": 5, "max_orders_per_hour": 10, "start_hour": 0, "end_hour": 23,
		"path": [{"lat": 30.72, "lng": 76.74}, {"lat": 30.74, "lng": 76.80}], "buffer_km": 0.5}]}`
	res := s.do(t, http.MethodPost, "/api/v1/profiles/", profile)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res = s.do(t, http.MethodPut, "/api/v1/simulation/config", `{"profile": "corridor"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "corridor", s.sim.Params().Profile.Name)

	list := decode[dto.ListProfileResponse](t, s.do(t, http.MethodGet, "/api/v1/profiles/", ""))
	assert.Equal(t, sim.BuiltinNames(), list.Builtin)
	require.Len(t, list.Profiles, 1)
	assert.Equal(t, domain.ZoneRoute, list.Profiles[0].Zones[0].Kind)

	res = s.do(t, http.MethodPost, "/api/v1/profiles/", `{"name": "empty", "zones": []}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestOrders(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < 20; i++ {
		_, err := s.sim.Step()
		require.NoError(t, err)
	}
	total := len(s.sim.Status(true).Snapshot.Orders)
	require.Positive(t, total)

	orders := decode[dto.OrdersResponse](t, s.do(t, http.MethodGet, "/api/v1/simulation/orders", ""))
	assert.Len(t, orders.Orders, total)

	res := s.do(t, http.MethodGet, "/api/v1/simulation/orders.csv", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/csv", res.Header.Get("Content-Type"))

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	assert.Len(t, lines, total+1)
	assert.True(t, strings.HasPrefix(lines[0], "order_id,zone,status"))
}

func TestScenarios(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < 6; i++ {
		_, err := s.sim.Step()
		require.NoError(t, err)
	}

	res := s.do(t, http.MethodPost, "/api/v1/scenarios/", `{"name": "baseline"}`)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	saved := decode[domain.Scenario](t, res)
	assert.Equal(t, "baseline", saved.Name)
	assert.Equal(t, domain.ScenarioSourceManual, saved.Source)

	res = s.do(t, http.MethodPost, "/api/v1/scenarios/", "")
	require.Equal(t, http.StatusCreated, res.StatusCode)

	list := decode[dto.ListScenarioResponse](t, s.do(t, http.MethodGet, "/api/v1/scenarios/?limit=1", ""))
	assert.Len(t, list.Scenarios, 1)

	res = s.do(t, http.MethodGet, "/api/v1/scenarios/?limit=x", "")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	got := decode[domain.Scenario](t, s.do(t, http.MethodGet, "/api/v1/scenarios/"+saved.ID, ""))
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, saved.TotalGenerated, got.TotalGenerated)

	res = s.do(t, http.MethodGet, "/api/v1/scenarios/missing", "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

const smallSweepBody = `{"min_agents": 5, "max_agents": 6, "repetitions": 1, "horizon_minutes": 60, "seed": 3}`

func TestOptimize(t *testing.T) {
	s := newTestServer(t)

	res := s.do(t, http.MethodPost, "/api/v1/optimize/", smallSweepBody)
	require.Equal(t, http.StatusOK, res.StatusCode)
	report := decode[domain.SweepReport](t, res)
	require.Len(t, report.Rows, 2)
	assert.Contains(t, []int{5, 6}, report.Recommended)

	res = s.do(t, http.MethodPost, "/api/v1/optimize/?format=csv", smallSweepBody)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/csv", res.Header.Get("Content-Type"))
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "agent_count,"))

	res = s.do(t, http.MethodPost, "/api/v1/optimize/?format=text", smallSweepBody)
	require.Equal(t, http.StatusOK, res.StatusCode)
	body, err = io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Recommended agents:")

	res = s.do(t, http.MethodPost, "/api/v1/optimize/?format=xml", smallSweepBody)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = s.do(t, http.MethodPost, "/api/v1/optimize/", `{"min_agents": 8, "max_agents": 4}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestOptimizeTargetsStore(t *testing.T) {
	s := newTestServer(t)

	stores := `{"stores": [{"id": 1, "name": "central", "lat": 30.7333, "lng": 76.7794}, {"id": 2, "name": "east", "lat": 30.76, "lng": 76.82}]}`
	res := s.do(t, http.MethodPut, "/api/v1/simulation/config", stores)
	require.Equal(t, http.StatusOK, res.StatusCode)

	sweep := func(storeField string) *http.Response {
		body := `{"min_agents": 5, "max_agents": 5, "repetitions": 1, "horizon_minutes": 60` + storeField + `}`
		return s.do(t, http.MethodPost, "/api/v1/optimize/", body)
	}

	res = sweep(`, "store_id": 2`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	report := decode[domain.SweepReport](t, res)
	assert.Equal(t, 2, report.Request.Store.ID)
	assert.Equal(t, domain.Coordinates{Lat: 30.76, Lng: 76.82}, report.Request.Store.Position)

	res = sweep("")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 1, decode[domain.SweepReport](t, res).Request.Store.ID)

	res = sweep(`, "store_id": 9`)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res = sweep(`, "store_id": 0`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestOptimizeJobsNeedRedis(t *testing.T) {
	s := newTestServer(t)

	res := s.do(t, http.MethodPost, "/api/v1/optimize/jobs", smallSweepBody)
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)

	res = s.do(t, http.MethodGet, "/api/v1/optimize/jobs/abc", "")
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
}

func TestAdvisory(t *testing.T) {
	s := newTestServer(t)

	res := s.do(t, http.MethodPost, "/api/v1/advisory/", `{"question": "how many agents for lunch?"}`)
	require.Equal(t, http.StatusAccepted, res.StatusCode)
	s.advisory.Wait()

	latest := decode[services.Advisory](t, s.do(t, http.MethodGet, "/api/v1/advisory/", ""))
	assert.Equal(t, "add two agents before noon", latest.Text)
	assert.False(t, latest.Pending)

	res = s.do(t, http.MethodPost, "/api/v1/advisory/", "")
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/health", "")

	res := s.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, res.StatusCode)

	var buf bytes.Buffer
	_, err := buf.ReadFrom(res.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `darkstore_http_requests_total{method="GET",route="/health",status="200"}`)
}
