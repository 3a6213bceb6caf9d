package dto

import "darkstore-sim/internal/domain"

type SaveScenarioRequest struct {
	Name string `json:"name" validate:"max=120"`
}

type ListScenarioResponse struct {
	Scenarios []*domain.Scenario `json:"scenarios"`
}

type ListProfileResponse struct {
	Builtin  []string               `json:"builtin"`
	Profiles []domain.DemandProfile `json:"profiles"`
}

type AdvisoryRequest struct {
	Question string `json:"question" validate:"max=500"`
}
