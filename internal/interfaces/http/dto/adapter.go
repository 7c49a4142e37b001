package dto

import "copystudio-api/internal/application/adapter"

// AdapterResponse 归一化结果
type AdapterResponse struct {
	Kind  adapter.Kind    `json:"kind"`
	Count int             `json:"count"`
	Items adapter.Records `json:"items"`
}

// ToAdapterResponse 转换为响应
func ToAdapterResponse(records adapter.Records) *AdapterResponse {
	return &AdapterResponse{
		Kind:  records.Kind(),
		Count: records.Len(),
		Items: records,
	}
}
