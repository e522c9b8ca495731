package entity

import "time"

// AssessmentRequest запрос на оценку одного изображения
type AssessmentRequest struct {
	ID     string // пустой ID будет сгенерирован
	Data   []byte
	Source Source
}

// Assessment результат обработки запроса
type Assessment struct {
	ID       string
	Result   ScoreResult
	Image    ImageInfo
	Duration time.Duration
}
