package responseengine

import (
	"log/slog"
	"time"

	httpadapter "crewcall/contexts/recruitment/response-engine/adapters/http"
	"crewcall/contexts/recruitment/response-engine/adapters/memory"
	"crewcall/contexts/recruitment/response-engine/application/commands"
	"crewcall/contexts/recruitment/response-engine/application/queries"
	"crewcall/contexts/recruitment/response-engine/domain/entities"
	"crewcall/contexts/recruitment/response-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Campaigns      ports.CampaignRepository
	Responses      ports.ResponseRepository
	Attachments    ports.AttachmentStore
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	submitResponse := commands.SubmitResponseUseCase{
		Campaigns:      deps.Campaigns,
		Responses:      deps.Responses,
		Attachments:    deps.Attachments,
		Idempotency:    deps.Idempotency,
		Clock:          deps.Clock,
		IDGen:          deps.IDGenerator,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	reviewResponse := commands.ReviewResponseUseCase{
		Responses: deps.Responses,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	bulkSetStatus := commands.BulkSetStatusUseCase{
		Responses: deps.Responses,
		Review:    reviewResponse,
		Logger:    deps.Logger,
	}

	listCampaigns := queries.ListCampaignsUseCase{
		Campaigns: deps.Campaigns,
		Responses: deps.Responses,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	getCampaign := queries.GetCampaignUseCase{
		Campaigns: deps.Campaigns,
		Responses: deps.Responses,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	getResponse := queries.GetResponseUseCase{
		Responses: deps.Responses,
		Logger:    deps.Logger,
	}
	listResponses := queries.ListResponsesUseCase{
		Responses: deps.Responses,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	analytics := queries.CampaignAnalyticsUseCase{
		Campaigns: deps.Campaigns,
		Responses: deps.Responses,
		Logger:    deps.Logger,
	}
	exportResponses := queries.ExportResponsesUseCase{
		Campaigns: deps.Campaigns,
		Responses: deps.Responses,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			SubmitResponse:  submitResponse,
			ReviewResponse:  reviewResponse,
			BulkSetStatus:   bulkSetStatus,
			ListCampaigns:   listCampaigns,
			GetCampaign:     getCampaign,
			GetResponse:     getResponse,
			ListResponses:   listResponses,
			Analytics:       analytics,
			ExportResponses: exportResponses,
			Logger:          deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Campaign, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Campaigns:      store,
		Responses:      store,
		Attachments:    store,
		Idempotency:    store,
		Clock:          store,
		IDGenerator:    store,
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})
	module.Store = store
	return module
}
