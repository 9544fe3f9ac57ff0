package dto

import "basegraph.app/bff/internal/model"

type GenerateQueryRequest struct {
	Schema    string `json:"schema"`
	UserStory string `json:"userStory"`
}

func (r GenerateQueryRequest) ToModel() model.GenerationRequest {
	return model.GenerationRequest{
		Schema:    r.Schema,
		UserStory: r.UserStory,
	}
}

type HistoryResponse struct {
	Success bool                  `json:"success"`
	Data    []model.HistoryRecord `json:"data"`
}
