package model

// GenerationRequest is the input of a single query generation.
type GenerationRequest struct {
	Schema    string `json:"schema"`
	UserStory string `json:"userStory"`
}

// GenerationResult is the uniform envelope returned to callers, whatever the
// origin of a failure.
type GenerationResult struct {
	Success bool   `json:"success"`
	Data    string `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

func Succeeded(data string) GenerationResult {
	return GenerationResult{Success: true, Data: data}
}

func Failed(message string) GenerationResult {
	return GenerationResult{Success: false, Error: message}
}
