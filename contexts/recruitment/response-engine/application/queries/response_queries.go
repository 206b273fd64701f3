package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"crewcall/contexts/recruitment/response-engine/domain/entities"
	"crewcall/contexts/recruitment/response-engine/ports"
)

// DateRange narrows a response set by submission time.
type DateRange string

const (
	DateRangeAll       DateRange = "all"
	DateRangeLastWeek  DateRange = "lastWeek"
	DateRangeLastMonth DateRange = "lastMonth"
)

// CutOff returns the inclusive lower bound for the range, or nil for all.
func (r DateRange) CutOff(now time.Time) *time.Time {
	switch r {
	case DateRangeLastWeek:
		cut := now.Add(-7 * 24 * time.Hour)
		return &cut
	case DateRangeLastMonth:
		cut := now.Add(-30 * 24 * time.Hour)
		return &cut
	default:
		return nil
	}
}

// FilterByRange returns the responses submitted at or after the range's
// cut-off. The input slice is never mutated.
func FilterByRange(responses []entities.Response, rng DateRange, now time.Time) []entities.Response {
	cutOff := rng.CutOff(now)
	if cutOff == nil {
		return append([]entities.Response(nil), responses...)
	}
	filtered := make([]entities.Response, 0, len(responses))
	for _, response := range responses {
		if !response.SubmittedAt.Before(*cutOff) {
			filtered = append(filtered, response)
		}
	}
	return filtered
}

type GetResponseUseCase struct {
	Responses ports.ResponseRepository
	Logger    *slog.Logger
}

func (uc GetResponseUseCase) Execute(ctx context.Context, responseID string) (entities.Response, error) {
	return uc.Responses.GetResponse(ctx, strings.TrimSpace(responseID))
}

type ListResponsesQuery struct {
	CampaignID string
	Status     entities.ReviewStatus
	Range      DateRange
}

type ListResponsesUseCase struct {
	Responses ports.ResponseRepository
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (uc ListResponsesUseCase) Execute(ctx context.Context, query ListResponsesQuery) ([]entities.Response, error) {
	filter := ports.ResponseFilter{
		CampaignID: strings.TrimSpace(query.CampaignID),
		Status:     query.Status,
	}
	if cutOff := query.Range.CutOff(uc.Clock.Now().UTC()); cutOff != nil {
		filter.SubmittedFrom = cutOff
	}
	return uc.Responses.ListResponses(ctx, filter)
}
