package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"darkstore-sim/internal/platform/metrics"
	"darkstore-sim/internal/ports"
	"darkstore-sim/internal/sim"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

var (
	ErrCooldown         = errors.New("advisory requested within cooldown window")
	ErrAdvisoryDisabled = errors.New("advisory service is not configured")
)

// Advisory is the latest advisory outcome. Err carries a failure notice
// for display; it never affects the simulation.
type Advisory struct {
	Text        string    `json:"text,omitempty"`
	Err         string    `json:"error,omitempty"`
	Pending     bool      `json:"pending"`
	RequestedAt time.Time `json:"requested_at,omitzero"`
	CompletedAt time.Time `json:"completed_at,omitzero"`
}

// AdvisoryService forwards prompts to the completion service at most once
// per cooldown. Requests inside the window are rejected, never queued.
type AdvisoryService struct {
	client  ports.AdvisoryClient
	limiter *rate.Limiter
	timeout time.Duration
	logger  zerolog.Logger

	mu     sync.Mutex
	latest Advisory
	wg     sync.WaitGroup
}

func NewAdvisoryService(client ports.AdvisoryClient, cooldown, timeout time.Duration) *AdvisoryService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &AdvisoryService{
		client:  client,
		limiter: rate.NewLimiter(rate.Every(cooldown), 1),
		timeout: timeout,
		logger:  log.With().Str("component", "advisory").Logger(),
	}
}

// Request starts an asynchronous completion and returns immediately. The
// result is available from Latest once it arrives.
func (a *AdvisoryService) Request(ctx context.Context, prompt string) error {
	if a.client == nil {
		metrics.AdvisoryRequests.WithLabelValues("disabled").Inc()
		return ErrAdvisoryDisabled
	}
	if strings.TrimSpace(prompt) == "" {
		return errors.New("advisory request: prompt must be non-empty")
	}
	if !a.limiter.Allow() {
		metrics.AdvisoryRequests.WithLabelValues("cooldown").Inc()
		return ErrCooldown
	}

	a.mu.Lock()
	a.latest.Pending = true
	a.latest.RequestedAt = time.Now()
	a.mu.Unlock()

	// detach from the caller so the request outlives the HTTP handler
	reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer cancel()
		a.complete(reqCtx, prompt)
	}()
	return nil
}

func (a *AdvisoryService) complete(ctx context.Context, prompt string) {
	text, err := a.client.Complete(ctx, prompt)

	a.mu.Lock()
	defer a.mu.Unlock()

	a.latest.Pending = false
	a.latest.CompletedAt = time.Now()
	if err != nil {
		a.logger.Warn().Err(err).Msg("advisory request failed")
		metrics.AdvisoryRequests.WithLabelValues("error").Inc()
		a.latest.Err = fmt.Sprintf("advisory unavailable: %v", err)
		return
	}
	metrics.AdvisoryRequests.WithLabelValues("ok").Inc()
	a.latest.Text = text
	a.latest.Err = ""
}

func (a *AdvisoryService) Latest() Advisory {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.latest
}

// Wait blocks until in-flight requests finish.
func (a *AdvisoryService) Wait() {
	a.wg.Wait()
}

// BuildPrompt summarizes a run for the completion service.
func BuildPrompt(p sim.Params, st Status) string {
	k := st.Snapshot.KPIs

	var sb strings.Builder
	fmt.Fprintf(&sb, "Quick-commerce simulation at %s (%.0f simulated minutes).\n", st.Snapshot.TimeOfDay, st.Snapshot.Clock)
	fmt.Fprintf(&sb, "Setup: %d agents at %.1f km/h, %d dark store(s), demand profile %q, traffic x%.2f.\n",
		p.AgentCount, p.AgentSpeedKmh, len(p.Stores), profileName(p), st.Snapshot.Traffic)
	fmt.Fprintf(&sb, "Orders: %d generated, %d delivered, %d cancelled, %d pending, %d in flight.\n",
		k.TotalGenerated, k.TotalDelivered, k.TotalCancelled, k.Pending, k.InFlight)
	fmt.Fprintf(&sb, "Average delivery %.1f min, completion %.1f%%, utilization %.1f%%, average fatigue %.2f.\n",
		k.AvgDeliveryMinutes, k.CompletionPct, k.UtilizationPct, k.AvgFatigue)
	sb.WriteString("Suggest staffing, store placement and shift changes to cut delivery time.")
	return sb.String()
}
