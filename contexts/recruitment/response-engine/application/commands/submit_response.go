package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "crewcall/contexts/recruitment/response-engine/application"
	"crewcall/contexts/recruitment/response-engine/domain/entities"
	domainerrors "crewcall/contexts/recruitment/response-engine/domain/errors"
	"crewcall/contexts/recruitment/response-engine/domain/services"
	"crewcall/contexts/recruitment/response-engine/ports"
)

type RawAnswer struct {
	FieldID string
	Value   string
	Values  []string
}

type RawAttachment struct {
	FieldID      string
	OriginalName string
	ContentType  string
	SizeBytes    int64
	Data         []byte
}

type SubmitResponseCommand struct {
	IdempotencyKey string
	CampaignID     string
	UserID         string
	UserEmail      string
	UserName       string
	Answers        []RawAnswer
	Attachments    []RawAttachment
}

type SubmitResponseUseCase struct {
	Campaigns      ports.CampaignRepository
	Responses      ports.ResponseRepository
	Attachments    ports.AttachmentStore
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

// Execute validates a raw submission against the campaign's field schema
// and appends a pending response. The capacity check and the insert are one
// atomic unit inside the repository, so concurrent submissions can never
// admit more responses than the campaign's limit.
func (uc SubmitResponseUseCase) Execute(ctx context.Context, cmd SubmitResponseCommand) (entities.Response, error) {
	logger := application.ResolveLogger(uc.Logger)

	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(cmd.CampaignID))
	if err != nil {
		return entities.Response{}, err
	}

	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}

	requestHash := hashSubmitCommand(cmd)
	if key := strings.TrimSpace(cmd.IdempotencyKey); key != "" && uc.Idempotency != nil {
		record, found, err := uc.Idempotency.GetRecord(ctx, key, now)
		if err != nil {
			return entities.Response{}, err
		}
		if found {
			if record.RequestHash != requestHash {
				return entities.Response{}, domainerrors.ErrIdempotencyKeyConflict
			}
			var replayed entities.Response
			if err := json.Unmarshal(record.ResponsePayload, &replayed); err != nil {
				return entities.Response{}, err
			}
			return replayed, nil
		}
	}

	count, err := uc.Responses.CountResponses(ctx, campaign.CampaignID)
	if err != nil {
		return entities.Response{}, err
	}
	view := services.ResolveCampaign(campaign, now, count)
	if view.DynamicStatus != entities.DynamicStatusActive {
		return entities.Response{}, domainerrors.ErrCampaignNotOpen
	}
	if view.SpotsLeft != nil && *view.SpotsLeft == 0 {
		return entities.Response{}, domainerrors.ErrCampaignFull
	}

	answers, pendingUploads, verr := normalizeAnswers(campaign, cmd)
	if verr != nil {
		return entities.Response{}, verr
	}

	attachments := make([]entities.Attachment, 0, len(pendingUploads))
	for _, upload := range pendingUploads {
		storageName, err := uc.Attachments.StoreAttachment(ctx, ports.AttachmentUpload{
			OriginalName: upload.OriginalName,
			ContentType:  upload.ContentType,
			SizeBytes:    upload.SizeBytes,
			Data:         upload.Data,
		})
		if err != nil {
			return entities.Response{}, domainerrors.ErrAttachmentStoreFailed
		}
		attachments = append(attachments, entities.Attachment{
			FieldID:      upload.FieldID,
			OriginalName: upload.OriginalName,
			StorageName:  storageName,
			SizeBytes:    upload.SizeBytes,
			ContentType:  upload.ContentType,
		})
	}

	responseID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Response{}, err
	}
	response := entities.Response{
		ResponseID:  responseID,
		CampaignID:  campaign.CampaignID,
		SubmittedAt: now,
		UserID:      strings.TrimSpace(cmd.UserID),
		UserEmail:   strings.TrimSpace(cmd.UserEmail),
		UserName:    strings.TrimSpace(cmd.UserName),
		Answers:     answers,
		Attachments: attachments,
		Status:      entities.ReviewStatusPending,
		Tags:        []string{},
	}

	if err := uc.Responses.InsertResponse(ctx, response, campaign.ResponseLimit); err != nil {
		return entities.Response{}, err
	}

	if key := strings.TrimSpace(cmd.IdempotencyKey); key != "" && uc.Idempotency != nil {
		payload, err := json.Marshal(response)
		if err != nil {
			return entities.Response{}, err
		}
		if err := uc.Idempotency.PutRecord(ctx, ports.IdempotencyRecord{
			Key:             key,
			RequestHash:     requestHash,
			ResponsePayload: payload,
			ExpiresAt:       now.Add(uc.resolveIdempotencyTTL()),
		}); err != nil {
			return entities.Response{}, err
		}
	}

	logger.Info("response submitted",
		"event", "response_submitted",
		"module", "recruitment/response-engine",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"response_id", response.ResponseID,
	)
	return response, nil
}

// normalizeAnswers walks the campaign's fields in declaration order,
// validates every raw answer, and collects all violations so the submitter
// sees the full picture in one round-trip.
func normalizeAnswers(campaign entities.Campaign, cmd SubmitResponseCommand) ([]entities.Answer, []RawAttachment, error) {
	answersByField := make(map[string]RawAnswer, len(cmd.Answers))
	for _, raw := range cmd.Answers {
		answersByField[strings.TrimSpace(raw.FieldID)] = raw
	}
	attachmentsByField := make(map[string]RawAttachment, len(cmd.Attachments))
	for _, raw := range cmd.Attachments {
		attachmentsByField[strings.TrimSpace(raw.FieldID)] = raw
	}

	violations := []domainerrors.FieldViolation{}
	answers := make([]entities.Answer, 0, len(campaign.Fields))
	uploads := make([]RawAttachment, 0, len(cmd.Attachments))

	for _, field := range campaign.InteractiveFields() {
		raw, answered := answersByField[field.FieldID]
		upload, uploaded := attachmentsByField[field.FieldID]
		delete(answersByField, field.FieldID)
		delete(attachmentsByField, field.FieldID)

		input := services.AnswerInput{
			Value:  strings.TrimSpace(raw.Value),
			Values: raw.Values,
		}
		if uploaded {
			input.File = &services.FileInput{
				OriginalName: upload.OriginalName,
				ContentType:  upload.ContentType,
				SizeBytes:    upload.SizeBytes,
			}
		}
		if v := services.ValidateAnswer(field, input); v != nil {
			violations = append(violations, *v)
			continue
		}
		if !answered && !uploaded {
			continue
		}
		if strings.TrimSpace(raw.Value) == "" && len(raw.Values) == 0 && !uploaded {
			// an empty optional answer is treated as unanswered
			continue
		}

		answer := entities.Answer{FieldID: field.FieldID}
		switch {
		case field.Type == entities.FieldTypeFileUpload:
			answer.Value = upload.OriginalName
			uploads = append(uploads, upload)
		case field.MultiValued():
			answer.Values = append([]string(nil), raw.Values...)
		default:
			answer.Value = strings.TrimSpace(raw.Value)
		}
		answers = append(answers, answer)
	}

	for fieldID := range answersByField {
		violations = append(violations, domainerrors.FieldViolation{
			FieldID: fieldID,
			Reason:  domainerrors.ReasonUnknownField,
			Message: "answer references a field the campaign does not declare",
		})
	}
	for fieldID := range attachmentsByField {
		violations = append(violations, domainerrors.FieldViolation{
			FieldID: fieldID,
			Reason:  domainerrors.ReasonUnknownField,
			Message: "attachment references a field the campaign does not declare",
		})
	}

	if len(violations) > 0 {
		return nil, nil, &domainerrors.ValidationError{Violations: violations}
	}
	return answers, uploads, nil
}

func (uc SubmitResponseUseCase) resolveIdempotencyTTL() time.Duration {
	if uc.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return uc.IdempotencyTTL
}

func hashSubmitCommand(cmd SubmitResponseCommand) string {
	attachmentMeta := make([]map[string]any, 0, len(cmd.Attachments))
	for _, item := range cmd.Attachments {
		attachmentMeta = append(attachmentMeta, map[string]any{
			"field_id":      strings.TrimSpace(item.FieldID),
			"original_name": item.OriginalName,
			"size_bytes":    item.SizeBytes,
		})
	}
	payload := map[string]any{
		"campaign_id": strings.TrimSpace(cmd.CampaignID),
		"user_id":     strings.TrimSpace(cmd.UserID),
		"answers":     cmd.Answers,
		"attachments": attachmentMeta,
	}
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
