// Package diagnosis produces hair-loss stage assessments from scalp photos.
//
// The current analyzer is a stand-in for the real model: it validates the
// uploaded photos, simulates inference latency, and draws a stage with a
// plausible confidence score.
package diagnosis

import (
	"context"
	"fmt"
	"image"
	"io"
	"math/rand"
	"sync"
	"time"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"modam/internal/middleware"
	"modam/internal/models"
)

// StageLabels maps a stage to its user-facing Korean label.
var StageLabels = map[string]string{
	models.StageNormal:  "정상",
	models.StageCaution: "주의",
	models.StageRisk:    "위험",
}

var stageSummaries = map[string]string{
	models.StageNormal:  "현재 두피 상태가 양호한 편으로 판단됩니다. 꾸준한 관리로 유지해 주세요.",
	models.StageCaution: "탈모 주의 단계로 판단됩니다. 맞춤 관리 방법과 제품 추천을 확인해 보세요.",
	models.StageRisk:    "전문가 상담을 권장드립니다. 병원 방문을 고려해 주세요.",
}

var stageGuideSummaries = map[string]string{
	models.StageNormal:  "건강한 두피 유지 가이드를 확인하세요.",
	models.StageCaution: "주의 단계 관리 가이드와 추천 제품을 확인하세요.",
	models.StageRisk:    "위험 단계 관리 가이드와 전문가 연계를 안내합니다.",
}

// Analyzer runs the staged photo analysis.
type Analyzer struct {
	delay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewAnalyzer returns an analyzer that waits delay before producing a
// result, to mirror real inference latency.
func NewAnalyzer(delay time.Duration) *Analyzer {
	return &Analyzer{
		delay: delay,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Analyze validates the crown and hairline photos and returns a diagnosis.
// It honors ctx cancellation during the simulated inference wait.
func (a *Analyzer) Analyze(ctx context.Context, crown, hairline io.Reader) (*models.DiagnosisResult, error) {
	if err := validatePhoto(crown, "crown"); err != nil {
		return nil, err
	}
	if err := validatePhoto(hairline, "hairline"); err != nil {
		return nil, err
	}

	if a.delay > 0 {
		timer := time.NewTimer(a.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	a.mu.Lock()
	stage := models.Stages[a.rng.Intn(len(models.Stages))]
	confidence := 0.75 + a.rng.Float64()*0.20
	a.mu.Unlock()

	middleware.DiagnosesTotal.WithLabelValues(stage).Inc()

	now := time.Now()
	return &models.DiagnosisResult{
		ID:           fmt.Sprintf("diag_%d", now.UnixMilli()),
		Stage:        stage,
		Confidence:   confidence,
		Summary:      stageSummaries[stage],
		GuideSummary: stageGuideSummaries[stage],
		CreatedAt:    now.UTC(),
	}, nil
}

func validatePhoto(r io.Reader, slot string) error {
	if r == nil {
		return models.NewValidationError(fmt.Sprintf("Missing %s photo", slot))
	}
	if _, _, err := image.DecodeConfig(r); err != nil {
		return models.NewValidationError(fmt.Sprintf("The %s photo is not a supported image", slot))
	}
	return nil
}
