package handler

import (
	"net/http"

	"github.com/kumar241977/ai-coaching-assistant/internal/api/response"
	"github.com/kumar241977/ai-coaching-assistant/internal/catalog"
	"github.com/kumar241977/ai-coaching-assistant/internal/llm"
	"github.com/kumar241977/ai-coaching-assistant/internal/service"
)

// ListTopics returns the coaching topic catalog
func ListTopics(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]any{
		"topics": catalog.Topics(),
	})
}

// ListLLMProviders returns the registered generation providers
func ListLLMProviders(svc *service.CoachingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providers := svc.ProvidersInfo()
		if providers == nil {
			providers = []llm.ProviderInfo{}
		}
		response.OK(w, map[string]any{
			"providers": providers,
		})
	}
}
