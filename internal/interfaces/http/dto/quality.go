package dto

import (
	"copystudio-api/internal/application/quality"
	"copystudio-api/internal/domain/entity"
)

// ScoreRequest 评分请求；空文本是合法输入
type ScoreRequest struct {
	Text string `json:"text"`
}

// DeepScoreRequest 深度评估请求
type DeepScoreRequest struct {
	Text string `json:"text" binding:"required"`
}

// ScoreCompareRequest 两段文本评分对比请求
type ScoreCompareRequest struct {
	Baseline string `json:"baseline"`
	Current  string `json:"current"`
}

// ScoreCompareResponse 评分对比响应
type ScoreCompareResponse struct {
	Baseline   entity.QualityScore     `json:"baseline"`
	Current    entity.QualityScore     `json:"current"`
	Comparison quality.ScoreComparison `json:"comparison"`
}
