package commands

import (
	"context"
	"log/slog"
	"strings"

	application "crewcall/contexts/recruitment/response-engine/application"
	"crewcall/contexts/recruitment/response-engine/domain/entities"
	domainerrors "crewcall/contexts/recruitment/response-engine/domain/errors"
	"crewcall/contexts/recruitment/response-engine/ports"
)

type SetStatusCommand struct {
	ResponseID string
	NewStatus  entities.ReviewStatus
	ReviewerID string
	Notes      *string
}

type SetRatingCommand struct {
	ResponseID string
	Rating     int
}

type TagCommand struct {
	ResponseID string
	Tag        string
}

type ReviewResponseUseCase struct {
	Responses ports.ResponseRepository
	Clock     ports.Clock
	Logger    *slog.Logger
}

// SetStatus moves a response to any review status. Every transition is
// permitted, including re-opening to pending, so reviewers can correct
// earlier decisions.
func (uc ReviewResponseUseCase) SetStatus(ctx context.Context, cmd SetStatusCommand) (entities.Response, error) {
	logger := application.ResolveLogger(uc.Logger)
	if !entities.IsSupportedReviewStatus(cmd.NewStatus) {
		return entities.Response{}, domainerrors.ErrInvalidReviewStatus
	}

	response, err := uc.Responses.GetResponse(ctx, strings.TrimSpace(cmd.ResponseID))
	if err != nil {
		return entities.Response{}, err
	}

	now := uc.Clock.Now().UTC()
	response.Status = cmd.NewStatus
	response.ReviewedAt = &now
	response.ReviewedBy = strings.TrimSpace(cmd.ReviewerID)
	if cmd.Notes != nil {
		response.Notes = strings.TrimSpace(*cmd.Notes)
	}
	if err := uc.Responses.UpdateResponse(ctx, response); err != nil {
		return entities.Response{}, err
	}

	logger.Info("response status changed",
		"event", "response_status_changed",
		"module", "recruitment/response-engine",
		"layer", "application",
		"response_id", response.ResponseID,
		"status", string(response.Status),
	)
	return response, nil
}

func (uc ReviewResponseUseCase) SetRating(ctx context.Context, cmd SetRatingCommand) (entities.Response, error) {
	if !entities.IsValidRating(cmd.Rating) {
		return entities.Response{}, domainerrors.ErrInvalidRating
	}

	response, err := uc.Responses.GetResponse(ctx, strings.TrimSpace(cmd.ResponseID))
	if err != nil {
		return entities.Response{}, err
	}
	response.Rating = cmd.Rating
	if err := uc.Responses.UpdateResponse(ctx, response); err != nil {
		return entities.Response{}, err
	}
	return response, nil
}

func (uc ReviewResponseUseCase) AddTag(ctx context.Context, cmd TagCommand) (entities.Response, error) {
	tag := strings.TrimSpace(cmd.Tag)
	if tag == "" {
		return entities.Response{}, domainerrors.ErrInvalidResponseInput
	}

	response, err := uc.Responses.GetResponse(ctx, strings.TrimSpace(cmd.ResponseID))
	if err != nil {
		return entities.Response{}, err
	}
	if response.HasTag(tag) {
		return response, nil
	}
	response.AddTag(tag)
	if err := uc.Responses.UpdateResponse(ctx, response); err != nil {
		return entities.Response{}, err
	}
	return response, nil
}

func (uc ReviewResponseUseCase) RemoveTag(ctx context.Context, cmd TagCommand) (entities.Response, error) {
	tag := strings.TrimSpace(cmd.Tag)
	if tag == "" {
		return entities.Response{}, domainerrors.ErrInvalidResponseInput
	}

	response, err := uc.Responses.GetResponse(ctx, strings.TrimSpace(cmd.ResponseID))
	if err != nil {
		return entities.Response{}, err
	}
	if !response.HasTag(tag) {
		return response, nil
	}
	response.RemoveTag(tag)
	if err := uc.Responses.UpdateResponse(ctx, response); err != nil {
		return entities.Response{}, err
	}
	return response, nil
}
