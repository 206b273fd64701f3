package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "crewcall/contexts/recruitment/response-engine/application"
	"crewcall/contexts/recruitment/response-engine/domain/entities"
	domainerrors "crewcall/contexts/recruitment/response-engine/domain/errors"
	"crewcall/contexts/recruitment/response-engine/ports"
)

type BulkSetStatusCommand struct {
	ResponseIDs []string
	NewStatus   entities.ReviewStatus
	ReviewerID  string
}

type BulkSetStatusResult struct {
	Updated  []string
	NotFound []string
}

type BulkSetStatusUseCase struct {
	Responses ports.ResponseRepository
	Review    ReviewResponseUseCase
	Logger    *slog.Logger
}

// Execute applies SetStatus to every id it can find. A missing id never
// aborts the batch: it is reported in NotFound while the rest transition.
// Each individual response either fully transitions or is left untouched.
func (uc BulkSetStatusUseCase) Execute(ctx context.Context, cmd BulkSetStatusCommand) (BulkSetStatusResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if !entities.IsSupportedReviewStatus(cmd.NewStatus) {
		return BulkSetStatusResult{}, domainerrors.ErrInvalidReviewStatus
	}
	if len(cmd.ResponseIDs) == 0 {
		return BulkSetStatusResult{}, domainerrors.ErrInvalidResponseInput
	}

	result := BulkSetStatusResult{
		Updated:  []string{},
		NotFound: []string{},
	}
	seen := make(map[string]bool, len(cmd.ResponseIDs))
	for _, rawID := range cmd.ResponseIDs {
		responseID := strings.TrimSpace(rawID)
		if responseID == "" || seen[responseID] {
			continue
		}
		seen[responseID] = true

		_, err := uc.Review.SetStatus(ctx, SetStatusCommand{
			ResponseID: responseID,
			NewStatus:  cmd.NewStatus,
			ReviewerID: cmd.ReviewerID,
		})
		switch {
		case err == nil:
			result.Updated = append(result.Updated, responseID)
		case errors.Is(err, domainerrors.ErrResponseNotFound):
			result.NotFound = append(result.NotFound, responseID)
		default:
			return BulkSetStatusResult{}, err
		}
	}

	logger.Info("bulk status transition completed",
		"event", "response_bulk_status_completed",
		"module", "recruitment/response-engine",
		"layer", "application",
		"status", string(cmd.NewStatus),
		"updated", len(result.Updated),
		"not_found", len(result.NotFound),
	)
	return result, nil
}
