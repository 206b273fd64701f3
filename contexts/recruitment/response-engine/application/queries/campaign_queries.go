package queries

import (
	"context"
	"log/slog"
	"strings"

	"crewcall/contexts/recruitment/response-engine/domain/services"
	"crewcall/contexts/recruitment/response-engine/ports"
)

type GetCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Responses ports.ResponseRepository
	Clock     ports.Clock
	Logger    *slog.Logger
}

// Execute returns the campaign annotated with its derived runtime status.
// The projection is recomputed from the clock on every call.
func (uc GetCampaignUseCase) Execute(ctx context.Context, campaignID string) (services.DerivedCampaignView, error) {
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return services.DerivedCampaignView{}, err
	}
	count, err := uc.Responses.CountResponses(ctx, campaign.CampaignID)
	if err != nil {
		return services.DerivedCampaignView{}, err
	}
	return services.ResolveCampaign(campaign, uc.Clock.Now().UTC(), count), nil
}

type ListCampaignsUseCase struct {
	Campaigns ports.CampaignRepository
	Responses ports.ResponseRepository
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (uc ListCampaignsUseCase) Execute(ctx context.Context, filter ports.CampaignFilter) ([]services.DerivedCampaignView, error) {
	campaigns, err := uc.Campaigns.ListCampaigns(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := uc.Clock.Now().UTC()
	views := make([]services.DerivedCampaignView, 0, len(campaigns))
	for _, campaign := range campaigns {
		count, err := uc.Responses.CountResponses(ctx, campaign.CampaignID)
		if err != nil {
			return nil, err
		}
		views = append(views, services.ResolveCampaign(campaign, now, count))
	}
	return views, nil
}
