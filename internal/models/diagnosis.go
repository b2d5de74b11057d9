package models

import "time"

// Diagnosis stages.
const (
	StageNormal  = "normal"
	StageCaution = "caution"
	StageRisk    = "risk"
)

// Stages lists all diagnosis stages in severity order.
var Stages = []string{StageNormal, StageCaution, StageRisk}

// ValidStage reports whether stage is a supported diagnosis stage.
func ValidStage(stage string) bool {
	switch stage {
	case StageNormal, StageCaution, StageRisk:
		return true
	}
	return false
}

// DiagnosisResult is a mock analysis outcome. It lives only in the
// per-device ledger, never in the relational store.
type DiagnosisResult struct {
	ID           string    `json:"id"`
	Stage        string    `json:"stage"`
	Confidence   float64   `json:"confidence"`
	Summary      string    `json:"summary"`
	GuideSummary string    `json:"guide_summary"`
	CreatedAt    time.Time `json:"created_at"`
}

// ManagementGuide is the per-stage care guidance shown with a result.
type ManagementGuide struct {
	Stage string   `json:"stage" yaml:"stage"`
	Title string   `json:"title" yaml:"title"`
	Items []string `json:"items" yaml:"items"`
}
