package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"runtime"
	"slices"
	"time"

	"darkstore-sim/internal/domain"
	"darkstore-sim/internal/platform/metrics"
	"darkstore-sim/internal/platform/obs"
	"darkstore-sim/internal/ports"
	"darkstore-sim/internal/sim"

	"github.com/rs/zerolog/log"
)

// DefaultSweepRequest fills the knobs a caller usually leaves alone.
func DefaultSweepRequest() domain.SweepRequest {
	return domain.SweepRequest{
		Store:                 sim.DefaultStore,
		Builtin:               sim.BuiltinUniform,
		MinAgents:             3,
		MaxAgents:             12,
		Repetitions:           3,
		HorizonMinutes:        240,
		StepMinutes:           5,
		AgentSpeedKmh:         25,
		StartHour:             9,
		Seed:                  1,
		SLAMinutes:            30,
		TargetDeliveryMinutes: 30,
		MinCompletionPct:      90,
		MinSLAPct:             80,
		RelaxedCompletionPct:  75,
		UtilizationLowPct:     60,
		UtilizationHighPct:    85,
		HourlyRate:            120,
		PerKmRate:             4,
	}
}

// SweepService runs sweeps and memoizes reports in an optional cache.
type SweepService struct {
	cache ports.SweepCache
}

func NewSweepService(cache ports.SweepCache) *SweepService {
	return &SweepService{cache: cache}
}

// Run returns a cached report for an identical request when available.
func (s *SweepService) Run(ctx context.Context, req domain.SweepRequest) (_ *domain.SweepReport, err error) {
	defer obs.Time(ctx, "sweep.Run")(&err)

	key, err := SweepKey(req)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, err := s.cache.GetReport(ctx, key)
		switch {
		case err == nil:
			metrics.SweepCacheLookups.WithLabelValues("hit").Inc()
			return cached, nil
		case errors.Is(err, domain.ErrCacheMiss):
			metrics.SweepCacheLookups.WithLabelValues("miss").Inc()
		default:
			metrics.SweepCacheLookups.WithLabelValues("error").Inc()
			log.Warn().Err(err).Str("key", key).Msg("sweep cache read failed")
		}
	}

	report, err := RunSweep(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.PutReport(ctx, key, report); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("sweep cache write failed")
		}
	}
	return report, nil
}

// SweepKey is a stable digest of the request.
func SweepKey(req domain.SweepRequest) (string, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("sweep key: marshal request: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// SweepParams maps a sweep request onto reduced-fidelity engine params
// for one repetition.
func SweepParams(req domain.SweepRequest, agents, rep int) sim.Params {
	p := sim.DefaultParams()
	p.Fidelity = sim.FidelityReduced
	p.AgentCount = agents
	p.AgentSpeedKmh = req.AgentSpeedKmh
	p.StepMinutes = req.StepMinutes
	p.StartHour = req.StartHour
	p.Stores = []domain.DarkStore{req.Store}
	p.Profile = req.Profile
	if req.Builtin != "" {
		p.Builtin = req.Builtin
	}
	p.Seed = req.Seed + int64(agents)*1000 + int64(rep)
	return p
}

// RunSweep runs Repetitions headless runs per agent count, sequentially,
// and ranks the aggregated rows.
func RunSweep(ctx context.Context, req domain.SweepRequest) (*domain.SweepReport, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("run sweep: %w", err)
	}
	start := time.Now()

	rows := make([]domain.SweepRow, 0, req.MaxAgents-req.MinAgents+1)
	for agents := req.MinAgents; agents <= req.MaxAgents; agents++ {
		runs := make([]sim.RunSummary, 0, req.Repetitions)
		for rep := 0; rep < req.Repetitions; rep++ {
			sum, err := sim.RunHeadless(ctx, SweepParams(req, agents, rep), req.HorizonMinutes)
			if err != nil {
				return nil, fmt.Errorf("run sweep: agents=%d rep=%d: %w", agents, rep, err)
			}
			runs = append(runs, sum)
			runtime.Gosched()
		}
		rows = append(rows, aggregateRuns(req, agents, runs))
	}

	idx, relaxed := Recommend(rows, req)
	rows[idx].Recommended = true

	elapsed := time.Since(start)
	metrics.SweepDuration.Observe(elapsed.Seconds())
	metrics.SweepRecommendedAgents.Set(float64(rows[idx].AgentCount))

	log.Info().
		Int("min_agents", req.MinAgents).
		Int("max_agents", req.MaxAgents).
		Int("reps", req.Repetitions).
		Int("recommended", rows[idx].AgentCount).
		Str("relaxed", relaxed).
		Int64("dur_ms", elapsed.Milliseconds()).
		Msg("sweep finished")

	return &domain.SweepReport{
		Request:     req,
		Rows:        rows,
		Recommended: rows[idx].AgentCount,
		Relaxed:     relaxed,
		ElapsedMs:   elapsed.Milliseconds(),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// aggregateRuns pools deliveries across repetitions.
func aggregateRuns(req domain.SweepRequest, agents int, runs []sim.RunSummary) domain.SweepRow {
	var generated, delivered, withinSLA int
	var deliverySum, utilSum, distance float64
	for _, r := range runs {
		generated += r.Generated
		delivered += r.Delivered
		distance += r.DistanceKm
		utilSum += r.Utilization()
		for _, d := range r.DeliveryMinutes {
			deliverySum += d
			if d <= req.SLAMinutes {
				withinSLA++
			}
		}
	}

	n := float64(len(runs))
	row := domain.SweepRow{
		AgentCount:        agents,
		AvgGenerated:      float64(generated) / n,
		AvgDelivered:      float64(delivered) / n,
		AvgUtilizationPct: 100 * utilSum / n,
		AvgDistanceKm:     distance / n,
	}
	if delivered > 0 {
		row.AvgDeliveryMinutes = deliverySum / float64(delivered)
		row.SLAPct = 100 * float64(withinSLA) / float64(delivered)
	}
	if generated > 0 {
		row.CompletionPct = 100 * float64(delivered) / float64(generated)
	}
	row.CostPerOrder = CostPerOrder(req, agents, row.AvgDistanceKm, row.AvgDelivered)
	row.InBand = row.AvgUtilizationPct >= req.UtilizationLowPct && row.AvgUtilizationPct <= req.UtilizationHighPct
	return row
}

// CostPerOrder is (agent-hours x hourly rate + km x per-km rate) per
// delivered order, nil when nothing was delivered.
func CostPerOrder(req domain.SweepRequest, agents int, distanceKm, delivered float64) *float64 {
	if delivered <= 0 {
		return nil
	}
	agentHours := float64(agents) * req.HorizonMinutes / 60
	cost := (agentHours*req.HourlyRate + distanceKm*req.PerKmRate) / delivered
	return &cost
}

// Recommend picks the index of the recommended row. Rows must be
// non-empty. Candidates must meet completion and SLA minimums and the
// delivery-time target; with none, the completion minimum is relaxed, then
// every row is considered. Candidates rank by cost, then in-band
// utilization, then distance to the band midpoint, then fewer agents.
func Recommend(rows []domain.SweepRow, req domain.SweepRequest) (int, string) {
	filter := func(minCompletion float64) []int {
		var out []int
		for i, r := range rows {
			if r.CompletionPct >= minCompletion && r.SLAPct >= req.MinSLAPct && r.AvgDeliveryMinutes <= req.TargetDeliveryMinutes {
				out = append(out, i)
			}
		}
		return out
	}

	relaxed := domain.RelaxNone
	candidates := filter(req.MinCompletionPct)
	if len(candidates) == 0 {
		relaxed = domain.RelaxCompletion
		candidates = filter(req.RelaxedCompletionPct)
	}
	if len(candidates) == 0 {
		relaxed = domain.RelaxAll
		candidates = make([]int, len(rows))
		for i := range rows {
			candidates[i] = i
		}
	}

	mid := (req.UtilizationLowPct + req.UtilizationHighPct) / 2
	slices.SortStableFunc(candidates, func(a, b int) int {
		ra, rb := rows[a], rows[b]
		if c := compareFloat(roundedCost(ra.CostPerOrder), roundedCost(rb.CostPerOrder)); c != 0 {
			return c
		}
		if ra.InBand != rb.InBand {
			if ra.InBand {
				return -1
			}
			return 1
		}
		if c := compareFloat(math.Abs(ra.AvgUtilizationPct-mid), math.Abs(rb.AvgUtilizationPct-mid)); c != 0 {
			return c
		}
		return ra.AgentCount - rb.AgentCount
	})
	return candidates[0], relaxed
}

// roundedCost rounds to cents so near-equal costs fall through to the
// utilization tie-breaks.
func roundedCost(c *float64) float64 {
	if c == nil {
		return math.Inf(1)
	}
	return math.Round(*c*100) / 100
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
