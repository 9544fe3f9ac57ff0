package service

import (
	"basegraph.app/bff/common/llm"
	"basegraph.app/bff/internal/store"
)

type Services struct {
	llm                 llm.Client
	history             store.HistoryStore
	historyDefaultLimit int
}

type ServicesConfig struct {
	LLM                 llm.Client
	History             store.HistoryStore
	HistoryDefaultLimit int
}

func NewServices(cfg ServicesConfig) *Services {
	return &Services{
		llm:                 cfg.LLM,
		history:             cfg.History,
		historyDefaultLimit: cfg.HistoryDefaultLimit,
	}
}

func (s *Services) Generation() GenerationService {
	return NewGenerationService(s.llm, s.history)
}

func (s *Services) History() HistoryService {
	return NewHistoryService(s.history, s.historyDefaultLimit)
}
