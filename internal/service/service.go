package service

import (
	"travelmail/internal/service/assistant"
	"travelmail/internal/service/chat"
	"travelmail/internal/service/completion"
	"travelmail/internal/service/models"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewHealthService,
	NewHTTPClient,
	NewHistoryService,
	models.NewGeminiService,
	models.NewResolver,
	chat.NewGeminiService,
	completion.NewClient,
	wire.Bind(new(completion.ModelResolver), new(*models.Resolver)),
	assistant.NewService,
	wire.Bind(new(assistant.Completer), new(*completion.Client)),
)
