package sim

import "darkstore-sim/internal/domain"

// ApplyFatigue runs the fatigue model for one step over all agents.
func ApplyFatigue(agents []*domain.Agent, cfg FatigueConfig, stepMinutes float64) {
	for _, a := range agents {
		UpdateFatigue(a, cfg, stepMinutes)
	}
}

// UpdateFatigue recovers idle agents and degrades agents under sustained
// load. The factor stays within [FatigueFloor, FatigueFresh].
func UpdateFatigue(a *domain.Agent, cfg FatigueConfig, stepMinutes float64) {
	if a.IsAvailable() {
		// fully rested: nothing left to recover
		if a.Fatigue >= domain.FatigueFresh && a.IdleStreakMinutes >= cfg.RecoveryIdleMinutes {
			a.ActiveStreakMinutes = 0
			a.ConsecutiveDeliveries = 0
			return
		}
		a.IdleStreakMinutes += stepMinutes
		if a.IdleStreakMinutes < cfg.RecoveryIdleMinutes {
			return
		}
		a.Fatigue = min(domain.FatigueFresh, a.Fatigue+cfg.RecoveryIncrement)
		if a.Fatigue >= domain.FatigueFresh {
			a.ActiveStreakMinutes = 0
			a.ConsecutiveDeliveries = 0
		}
		return
	}

	a.IdleStreakMinutes = 0
	a.ActiveStreakMinutes += stepMinutes

	if a.Fatigue <= domain.FatigueFloor {
		return
	}
	if a.ConsecutiveDeliveries >= cfg.DeliveryThreshold || a.ActiveStreakMinutes >= cfg.ActiveThresholdMinutes {
		a.Fatigue = max(domain.FatigueFloor, a.Fatigue-cfg.Decrement)
		a.ConsecutiveDeliveries = 0
		a.ActiveStreakMinutes = 0
	}
}
