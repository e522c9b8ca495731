package rest

import (
	"fruit-quality-bot/internal/domain/entity"
	"fruit-quality-bot/internal/report"
)

type imageResponse struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	Mode   string `json:"mode"`
	Source string `json:"source"`
}

type assessmentResponse struct {
	RequestID         string        `json:"request_id"`
	Label             string        `json:"label"`
	Confidence        float64       `json:"confidence"`
	ConfidencePercent float64       `json:"confidence_percent"`
	Tier              string        `json:"tier"`
	Headline          string        `json:"headline"`
	CaptureMode       string        `json:"capture_mode"`
	Interpretation    []string      `json:"interpretation"`
	Image             imageResponse `json:"image"`
	DurationMs        float64       `json:"duration_ms"`
}

func newAssessmentResponse(a *entity.Assessment) assessmentResponse {
	p := report.Build(a)
	return assessmentResponse{
		RequestID:         a.ID,
		Label:             string(p.Label),
		Confidence:        p.Confidence,
		ConfidencePercent: p.ConfidencePercent,
		Tier:              string(p.Tier),
		Headline:          p.Headline,
		CaptureMode:       p.CaptureMode,
		Interpretation:    p.Interpretation,
		Image: imageResponse{
			Width:  a.Image.Width,
			Height: a.Image.Height,
			Format: a.Image.Format,
			Mode:   string(a.Image.Mode),
			Source: string(a.Image.Source),
		},
		DurationMs: float64(a.Duration.Microseconds()) / 1000,
	}
}
