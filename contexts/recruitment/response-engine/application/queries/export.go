package queries

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "crewcall/contexts/recruitment/response-engine/application"
	"crewcall/contexts/recruitment/response-engine/domain/entities"
	"crewcall/contexts/recruitment/response-engine/ports"
)

const multiValueSeparator = ", "

// csvBaseHeader is the fixed response-column prefix; one column per
// campaign field follows, in declaration order.
var csvBaseHeader = []string{"id", "submittedAt", "status", "userName", "userEmail"}

// RenderCSV formats a response set as CSV. Field columns use the localized
// field label as header; multi-valued answers are joined with ", " and the
// csv writer applies standard quoting/doubling for embedded separators.
func RenderCSV(campaign entities.Campaign, responses []entities.Response) (string, error) {
	fields := campaign.InteractiveFields()

	header := append([]string(nil), csvBaseHeader...)
	for _, field := range fields {
		header = append(header, field.Label.Resolve("en"))
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(header); err != nil {
		return "", err
	}
	for _, response := range responses {
		row := []string{
			response.ResponseID,
			response.SubmittedAt.UTC().Format(time.RFC3339),
			string(response.Status),
			response.UserName,
			response.UserEmail,
		}
		for _, field := range fields {
			answer, ok := response.Answer(field.FieldID)
			if !ok {
				row = append(row, "")
				continue
			}
			if field.MultiValued() {
				row = append(row, strings.Join(answer.Values, multiValueSeparator))
			} else {
				row = append(row, answer.Value)
			}
		}
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type exportAnswer struct {
	FieldID string   `json:"field_id"`
	Value   string   `json:"value,omitempty"`
	Values  []string `json:"values,omitempty"`
}

type exportAttachment struct {
	FieldID      string `json:"field_id"`
	OriginalName string `json:"original_name"`
	StorageName  string `json:"storage_name"`
	SizeBytes    int64  `json:"size_bytes"`
}

type exportResponse struct {
	ResponseID  string             `json:"response_id"`
	CampaignID  string             `json:"campaign_id"`
	SubmittedAt string             `json:"submitted_at"`
	UserID      string             `json:"user_id"`
	UserEmail   string             `json:"user_email"`
	UserName    string             `json:"user_name"`
	Answers     []exportAnswer     `json:"answers"`
	Attachments []exportAttachment `json:"attachments,omitempty"`
	Status      string             `json:"status"`
	ReviewedAt  string             `json:"reviewed_at,omitempty"`
	ReviewedBy  string             `json:"reviewed_by,omitempty"`
	Rating      int                `json:"rating,omitempty"`
	Tags        []string           `json:"tags"`
	Notes       string             `json:"notes,omitempty"`
}

type exportDocument struct {
	ExportedAt    string           `json:"exported_at"`
	Range         string           `json:"range"`
	CampaignID    string           `json:"campaign_id"`
	CampaignTitle string           `json:"campaign_title"`
	LinkedEntity  string           `json:"linked_entity,omitempty"`
	ResponseCount int              `json:"response_count"`
	Responses     []exportResponse `json:"responses"`
}

// RenderJSON formats a response set plus export metadata as a single
// parseable JSON document.
func RenderJSON(campaign entities.Campaign, responses []entities.Response, rng DateRange, exportedAt time.Time) (string, error) {
	doc := exportDocument{
		ExportedAt:    exportedAt.UTC().Format(time.RFC3339),
		Range:         string(rng),
		CampaignID:    campaign.CampaignID,
		CampaignTitle: campaign.Title.Resolve("en"),
		ResponseCount: len(responses),
		Responses:     make([]exportResponse, 0, len(responses)),
	}
	if campaign.LinkedEntity.ID != "" {
		doc.LinkedEntity = campaign.LinkedEntity.Type + "/" + campaign.LinkedEntity.ID
	}

	for _, response := range responses {
		item := exportResponse{
			ResponseID:  response.ResponseID,
			CampaignID:  response.CampaignID,
			SubmittedAt: response.SubmittedAt.UTC().Format(time.RFC3339),
			UserID:      response.UserID,
			UserEmail:   response.UserEmail,
			UserName:    response.UserName,
			Answers:     make([]exportAnswer, 0, len(response.Answers)),
			Status:      string(response.Status),
			ReviewedBy:  response.ReviewedBy,
			Rating:      response.Rating,
			Tags:        response.Tags,
			Notes:       response.Notes,
		}
		if response.ReviewedAt != nil {
			item.ReviewedAt = response.ReviewedAt.UTC().Format(time.RFC3339)
		}
		for _, answer := range response.Answers {
			item.Answers = append(item.Answers, exportAnswer{
				FieldID: answer.FieldID,
				Value:   answer.Value,
				Values:  answer.Values,
			})
		}
		for _, attachment := range response.Attachments {
			item.Attachments = append(item.Attachments, exportAttachment{
				FieldID:      attachment.FieldID,
				OriginalName: attachment.OriginalName,
				StorageName:  attachment.StorageName,
				SizeBytes:    attachment.SizeBytes,
			})
		}
		doc.Responses = append(doc.Responses, item)
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatJSON ExportFormat = "json"
)

type ExportResponsesUseCase struct {
	Campaigns ports.CampaignRepository
	Responses ports.ResponseRepository
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (uc ExportResponsesUseCase) Execute(ctx context.Context, campaignID string, format ExportFormat, rng DateRange) (string, error) {
	logger := application.ResolveLogger(uc.Logger)
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return "", err
	}
	responses, err := uc.Responses.ListResponses(ctx, ports.ResponseFilter{
		CampaignID: campaign.CampaignID,
	})
	if err != nil {
		return "", err
	}

	now := uc.Clock.Now().UTC()
	filtered := FilterByRange(responses, rng, now)

	var rendered string
	switch format {
	case ExportFormatJSON:
		rendered, err = RenderJSON(campaign, filtered, rng, now)
	default:
		rendered, err = RenderCSV(campaign, filtered)
	}
	if err != nil {
		return "", err
	}

	logger.Info("responses exported",
		"event", "responses_exported",
		"module", "recruitment/response-engine",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"format", string(format),
		"range", string(rng),
		"count", len(filtered),
	)
	return rendered, nil
}
