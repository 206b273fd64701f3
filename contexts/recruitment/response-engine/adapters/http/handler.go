package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "crewcall/contexts/recruitment/response-engine/application"
	"crewcall/contexts/recruitment/response-engine/application/commands"
	"crewcall/contexts/recruitment/response-engine/application/queries"
	"crewcall/contexts/recruitment/response-engine/domain/entities"
	"crewcall/contexts/recruitment/response-engine/domain/services"
	"crewcall/contexts/recruitment/response-engine/ports"
	httptransport "crewcall/contexts/recruitment/response-engine/transport/http"
)

type Handler struct {
	SubmitResponse  commands.SubmitResponseUseCase
	ReviewResponse  commands.ReviewResponseUseCase
	BulkSetStatus   commands.BulkSetStatusUseCase
	ListCampaigns   queries.ListCampaignsUseCase
	GetCampaign     queries.GetCampaignUseCase
	GetResponse     queries.GetResponseUseCase
	ListResponses   queries.ListResponsesUseCase
	Analytics       queries.CampaignAnalyticsUseCase
	ExportResponses queries.ExportResponsesUseCase
	Logger          *slog.Logger
}

func (h Handler) ListCampaignsHandler(ctx context.Context, role string, status string) (httptransport.ListCampaignsResponse, error) {
	views, err := h.ListCampaigns.Execute(ctx, ports.CampaignFilter{
		Role:   entities.CampaignRole(strings.TrimSpace(role)),
		Status: entities.CampaignStatus(strings.TrimSpace(status)),
	})
	if err != nil {
		return httptransport.ListCampaignsResponse{}, err
	}
	items := make([]httptransport.CampaignViewDTO, 0, len(views))
	for _, view := range views {
		items = append(items, mapCampaignView(view))
	}
	return httptransport.ListCampaignsResponse{Items: items}, nil
}

func (h Handler) GetCampaignHandler(ctx context.Context, campaignID string) (httptransport.GetCampaignResponse, error) {
	view, err := h.GetCampaign.Execute(ctx, campaignID)
	if err != nil {
		return httptransport.GetCampaignResponse{}, err
	}
	return httptransport.GetCampaignResponse{Campaign: mapCampaignView(view)}, nil
}

func (h Handler) SubmitResponseHandler(
	ctx context.Context,
	campaignID string,
	identity Identity,
	idempotencyKey string,
	req httptransport.SubmitResponseRequest,
) (httptransport.SubmitResponseResponse, error) {
	logger := application.ResolveLogger(h.Logger)

	answers := make([]commands.RawAnswer, 0, len(req.Answers))
	for _, item := range req.Answers {
		answers = append(answers, commands.RawAnswer{
			FieldID: item.FieldID,
			Value:   item.Value,
			Values:  append([]string(nil), item.Values...),
		})
	}
	attachments := make([]commands.RawAttachment, 0, len(req.Attachments))
	for _, item := range req.Attachments {
		attachments = append(attachments, commands.RawAttachment{
			FieldID:      item.FieldID,
			OriginalName: item.FileName,
			ContentType:  item.ContentType,
			SizeBytes:    int64(len(item.Data)),
			Data:         item.Data,
		})
	}

	response, err := h.SubmitResponse.Execute(ctx, commands.SubmitResponseCommand{
		IdempotencyKey: idempotencyKey,
		CampaignID:     campaignID,
		UserID:         identity.UserID,
		UserEmail:      identity.UserEmail,
		UserName:       identity.UserName,
		Answers:        answers,
		Attachments:    attachments,
	})
	if err != nil {
		return httptransport.SubmitResponseResponse{}, err
	}

	logger.Info("submission accepted",
		"event", "submission_accepted",
		"module", "recruitment/response-engine",
		"layer", "transport",
		"campaign_id", campaignID,
		"response_id", response.ResponseID,
	)
	return httptransport.SubmitResponseResponse{Response: mapResponse(response)}, nil
}

func (h Handler) GetResponseHandler(ctx context.Context, responseID string) (httptransport.GetResponseResponse, error) {
	response, err := h.GetResponse.Execute(ctx, responseID)
	if err != nil {
		return httptransport.GetResponseResponse{}, err
	}
	return httptransport.GetResponseResponse{Response: mapResponse(response)}, nil
}

func (h Handler) ListResponsesHandler(
	ctx context.Context,
	campaignID string,
	status string,
	rng string,
) (httptransport.ListResponsesResponse, error) {
	responses, err := h.ListResponses.Execute(ctx, queries.ListResponsesQuery{
		CampaignID: campaignID,
		Status:     entities.ReviewStatus(strings.TrimSpace(status)),
		Range:      parseRange(rng),
	})
	if err != nil {
		return httptransport.ListResponsesResponse{}, err
	}
	items := make([]httptransport.ResponseDTO, 0, len(responses))
	for _, response := range responses {
		items = append(items, mapResponse(response))
	}
	return httptransport.ListResponsesResponse{Items: items}, nil
}

func (h Handler) SetStatusHandler(
	ctx context.Context,
	responseID string,
	reviewerID string,
	req httptransport.SetStatusRequest,
) (httptransport.GetResponseResponse, error) {
	response, err := h.ReviewResponse.SetStatus(ctx, commands.SetStatusCommand{
		ResponseID: responseID,
		NewStatus:  entities.ReviewStatus(strings.TrimSpace(req.Status)),
		ReviewerID: reviewerID,
		Notes:      req.Notes,
	})
	if err != nil {
		return httptransport.GetResponseResponse{}, err
	}
	return httptransport.GetResponseResponse{Response: mapResponse(response)}, nil
}

func (h Handler) SetRatingHandler(
	ctx context.Context,
	responseID string,
	req httptransport.SetRatingRequest,
) (httptransport.GetResponseResponse, error) {
	response, err := h.ReviewResponse.SetRating(ctx, commands.SetRatingCommand{
		ResponseID: responseID,
		Rating:     req.Rating,
	})
	if err != nil {
		return httptransport.GetResponseResponse{}, err
	}
	return httptransport.GetResponseResponse{Response: mapResponse(response)}, nil
}

func (h Handler) AddTagHandler(
	ctx context.Context,
	responseID string,
	req httptransport.AddTagRequest,
) (httptransport.GetResponseResponse, error) {
	response, err := h.ReviewResponse.AddTag(ctx, commands.TagCommand{
		ResponseID: responseID,
		Tag:        req.Tag,
	})
	if err != nil {
		return httptransport.GetResponseResponse{}, err
	}
	return httptransport.GetResponseResponse{Response: mapResponse(response)}, nil
}

func (h Handler) RemoveTagHandler(ctx context.Context, responseID string, tag string) (httptransport.GetResponseResponse, error) {
	response, err := h.ReviewResponse.RemoveTag(ctx, commands.TagCommand{
		ResponseID: responseID,
		Tag:        tag,
	})
	if err != nil {
		return httptransport.GetResponseResponse{}, err
	}
	return httptransport.GetResponseResponse{Response: mapResponse(response)}, nil
}

func (h Handler) BulkSetStatusHandler(
	ctx context.Context,
	reviewerID string,
	req httptransport.BulkSetStatusRequest,
) (httptransport.BulkSetStatusResponse, error) {
	result, err := h.BulkSetStatus.Execute(ctx, commands.BulkSetStatusCommand{
		ResponseIDs: append([]string(nil), req.ResponseIDs...),
		NewStatus:   entities.ReviewStatus(strings.TrimSpace(req.Status)),
		ReviewerID:  reviewerID,
	})
	if err != nil {
		return httptransport.BulkSetStatusResponse{}, err
	}
	return httptransport.BulkSetStatusResponse{
		Updated:  result.Updated,
		NotFound: result.NotFound,
	}, nil
}

func (h Handler) StatusBreakdownHandler(ctx context.Context, campaignID string) (httptransport.StatusBreakdownResponse, error) {
	breakdown, err := h.Analytics.StatusBreakdown(ctx, campaignID)
	if err != nil {
		return httptransport.StatusBreakdownResponse{}, err
	}
	pending := breakdown[entities.ReviewStatusPending]
	approved := breakdown[entities.ReviewStatusApproved]
	rejected := breakdown[entities.ReviewStatusRejected]
	return httptransport.StatusBreakdownResponse{
		CampaignID: strings.TrimSpace(campaignID),
		Total:      pending + approved + rejected,
		Pending:    pending,
		Approved:   approved,
		Rejected:   rejected,
	}, nil
}

func (h Handler) AnalyticsFieldsHandler(ctx context.Context, campaignID string) (httptransport.AnalyticsFieldsResponse, error) {
	fields, err := h.Analytics.SelectableFields(ctx, campaignID)
	if err != nil {
		return httptransport.AnalyticsFieldsResponse{}, err
	}
	items := make([]httptransport.AnalyticsFieldDTO, 0, len(fields))
	for _, field := range fields {
		items = append(items, httptransport.AnalyticsFieldDTO{
			FieldID: field.FieldID,
			Type:    string(field.Type),
			Label:   field.Label,
		})
	}
	return httptransport.AnalyticsFieldsResponse{Items: items}, nil
}

func (h Handler) FieldHistogramHandler(ctx context.Context, campaignID string, fieldID string) (httptransport.FieldHistogramResponse, error) {
	histogram, err := h.Analytics.FieldHistogram(ctx, campaignID, fieldID)
	if err != nil {
		return httptransport.FieldHistogramResponse{}, err
	}
	buckets := make([]httptransport.HistogramBucketDTO, 0, len(histogram.Buckets))
	for _, bucket := range histogram.Buckets {
		buckets = append(buckets, httptransport.HistogramBucketDTO{
			Label: bucket.Label,
			Count: bucket.Count,
		})
	}
	return httptransport.FieldHistogramResponse{
		FieldID:    histogram.FieldID,
		Answered:   histogram.Answered,
		OutOfRange: histogram.OutOfRange,
		Buckets:    buckets,
	}, nil
}

// ExportResponsesHandler renders the export body; the server layer sets the
// content type and disposition headers.
func (h Handler) ExportResponsesHandler(ctx context.Context, campaignID string, format string, rng string) (string, queries.ExportFormat, error) {
	exportFormat := queries.ExportFormatCSV
	if strings.TrimSpace(format) == string(queries.ExportFormatJSON) {
		exportFormat = queries.ExportFormatJSON
	}
	rendered, err := h.ExportResponses.Execute(ctx, campaignID, exportFormat, parseRange(rng))
	if err != nil {
		return "", exportFormat, err
	}
	return rendered, exportFormat, nil
}

// Identity is the submitter's identity as asserted by the gateway headers.
type Identity struct {
	UserID    string
	UserEmail string
	UserName  string
}

func parseRange(raw string) queries.DateRange {
	switch strings.TrimSpace(raw) {
	case "week", string(queries.DateRangeLastWeek):
		return queries.DateRangeLastWeek
	case "month", string(queries.DateRangeLastMonth):
		return queries.DateRangeLastMonth
	default:
		return queries.DateRangeAll
	}
}

func mapCampaignView(view services.DerivedCampaignView) httptransport.CampaignViewDTO {
	item := view.Campaign
	result := httptransport.CampaignViewDTO{
		CampaignID:  item.CampaignID,
		Title:       item.Title,
		Description: item.Description,
		Role:        string(item.Role),
		LinkedEntity: httptransport.LinkedEntityDTO{
			Type: item.LinkedEntity.Type,
			ID:   item.LinkedEntity.ID,
		},
		Fields:        make([]httptransport.FieldDTO, 0, len(item.Fields)),
		StartDate:     item.StartDate.UTC().Format(time.RFC3339),
		EndDate:       item.EndDate.UTC().Format(time.RFC3339),
		ResponseLimit: item.ResponseLimit,
		Status:        string(item.Status),
		DynamicStatus: string(view.DynamicStatus),
		DaysLeft:      view.DaysLeft,
		ResponseCount: view.ResponseCount,
		SpotsLeft:     view.SpotsLeft,
		CreatedAt:     item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     item.UpdatedAt.UTC().Format(time.RFC3339),
	}
	for _, field := range item.Fields {
		result.Fields = append(result.Fields, mapField(field))
	}
	return result
}

func mapField(field entities.FieldDefinition) httptransport.FieldDTO {
	result := httptransport.FieldDTO{
		FieldID:       field.FieldID,
		Type:          string(field.Type),
		Label:         field.Label,
		Placeholder:   field.Placeholder,
		Required:      field.Required,
		AcceptedTypes: append([]string(nil), field.AcceptedTypes...),
		MaxSizeBytes:  field.MaxSizeBytes,
	}
	for _, option := range field.Options {
		result.Options = append(result.Options, option)
	}
	if field.Settings != nil {
		result.Settings = &httptransport.NumberSettingsDTO{
			Min: field.Settings.Min,
			Max: field.Settings.Max,
		}
	}
	return result
}

func mapResponse(item entities.Response) httptransport.ResponseDTO {
	result := httptransport.ResponseDTO{
		ResponseID:  item.ResponseID,
		CampaignID:  item.CampaignID,
		SubmittedAt: item.SubmittedAt.UTC().Format(time.RFC3339),
		UserID:      item.UserID,
		UserEmail:   item.UserEmail,
		UserName:    item.UserName,
		Answers:     make([]httptransport.AnswerDTO, 0, len(item.Answers)),
		Status:      string(item.Status),
		ReviewedBy:  item.ReviewedBy,
		Rating:      item.Rating,
		Tags:        append([]string{}, item.Tags...),
		Notes:       item.Notes,
	}
	if item.ReviewedAt != nil {
		result.ReviewedAt = item.ReviewedAt.UTC().Format(time.RFC3339)
	}
	for _, answer := range item.Answers {
		result.Answers = append(result.Answers, httptransport.AnswerDTO{
			FieldID: answer.FieldID,
			Value:   answer.Value,
			Values:  answer.Values,
		})
	}
	for _, attachment := range item.Attachments {
		result.Attachments = append(result.Attachments, httptransport.AttachmentDTO{
			FieldID:      attachment.FieldID,
			OriginalName: attachment.OriginalName,
			StorageName:  attachment.StorageName,
			SizeBytes:    attachment.SizeBytes,
			ContentType:  attachment.ContentType,
		})
	}
	return result
}
