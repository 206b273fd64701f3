package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"crewcall/contexts/recruitment/response-engine/domain/entities"
	domainerrors "crewcall/contexts/recruitment/response-engine/domain/errors"
	"crewcall/contexts/recruitment/response-engine/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error) {
	var row campaignModel
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Campaign{}, domainerrors.ErrCampaignNotFound
		}
		return entities.Campaign{}, err
	}
	return row.toEntity()
}

func (r *Repository) ListCampaigns(ctx context.Context, filter ports.CampaignFilter) ([]entities.Campaign, error) {
	tx := r.db.WithContext(ctx).Model(&campaignModel{})
	if filter.Role != "" {
		tx = tx.Where("role = ?", string(filter.Role))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}

	var rows []campaignModel
	if err := tx.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Campaign, 0, len(rows))
	for _, row := range rows {
		item, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// InsertResponse admits a response under the campaign's limit. The campaign
// row is locked FOR UPDATE while counting and inserting, so two concurrent
// submissions against the last spot serialize and the loser sees
// ErrCampaignFull.
func (r *Repository) InsertResponse(ctx context.Context, response entities.Response, responseLimit *int) error {
	row, err := responseModelFromEntity(response)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if responseLimit != nil {
			var campaignRow campaignModel
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("campaign_id = ?", response.CampaignID).
				First(&campaignRow).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domainerrors.ErrCampaignNotFound
				}
				return err
			}

			var count int64
			if err := tx.Model(&responseModel{}).
				Where("campaign_id = ?", response.CampaignID).
				Count(&count).
				Error; err != nil {
				return err
			}
			if count >= int64(*responseLimit) {
				return domainerrors.ErrCampaignFull
			}
		}

		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrInvalidResponseInput
			}
			return err
		}
		return nil
	})
}

func (r *Repository) GetResponse(ctx context.Context, responseID string) (entities.Response, error) {
	var row responseModel
	err := r.db.WithContext(ctx).
		Where("response_id = ?", strings.TrimSpace(responseID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Response{}, domainerrors.ErrResponseNotFound
		}
		return entities.Response{}, err
	}
	return row.toEntity()
}

func (r *Repository) UpdateResponse(ctx context.Context, response entities.Response) error {
	row, err := responseModelFromEntity(response)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&responseModel{}).
		Where("response_id = ?", row.ResponseID).
		Updates(map[string]any{
			"status":      row.Status,
			"reviewed_at": row.ReviewedAt,
			"reviewed_by": row.ReviewedBy,
			"rating":      row.Rating,
			"tags":        row.Tags,
			"notes":       row.Notes,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrResponseNotFound
	}
	return nil
}

func (r *Repository) ListResponses(ctx context.Context, filter ports.ResponseFilter) ([]entities.Response, error) {
	tx := r.db.WithContext(ctx).Model(&responseModel{})
	if strings.TrimSpace(filter.CampaignID) != "" {
		tx = tx.Where("campaign_id = ?", strings.TrimSpace(filter.CampaignID))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	if filter.SubmittedFrom != nil {
		tx = tx.Where("submitted_at >= ?", filter.SubmittedFrom.UTC())
	}

	var rows []responseModel
	if err := tx.Order("submitted_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Response, 0, len(rows))
	for _, row := range rows {
		item, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *Repository) CountResponses(ctx context.Context, campaignID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&responseModel{}).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *Repository) GetRecord(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ?", strings.TrimSpace(key)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, err
	}
	if !row.ExpiresAt.After(now) {
		return ports.IdempotencyRecord{}, false, nil
	}
	return ports.IdempotencyRecord{
		Key:             row.Key,
		RequestHash:     row.RequestHash,
		ResponsePayload: row.ResponsePayload,
		ExpiresAt:       row.ExpiresAt,
	}, true, nil
}

func (r *Repository) PutRecord(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:             strings.TrimSpace(record.Key),
		RequestHash:     record.RequestHash,
		ResponsePayload: record.ResponsePayload,
		ExpiresAt:       record.ExpiresAt.UTC(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"request_hash", "response_payload", "expires_at"}),
		}).
		Create(&row).
		Error
	if err != nil && isUniqueViolation(err) {
		return domainerrors.ErrIdempotencyKeyConflict
	}
	return err
}

type campaignModel struct {
	CampaignID       string    `gorm:"column:campaign_id;primaryKey"`
	Title            []byte    `gorm:"column:title;type:jsonb"`
	Description      []byte    `gorm:"column:description;type:jsonb"`
	Role             string    `gorm:"column:role"`
	LinkedEntityType string    `gorm:"column:linked_entity_type"`
	LinkedEntityID   string    `gorm:"column:linked_entity_id"`
	Fields           []byte    `gorm:"column:fields;type:jsonb"`
	StartDate        time.Time `gorm:"column:start_date"`
	EndDate          time.Time `gorm:"column:end_date"`
	ResponseLimit    *int      `gorm:"column:response_limit"`
	Status           string    `gorm:"column:status"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (campaignModel) TableName() string {
	return "campaigns"
}

func (m campaignModel) toEntity() (entities.Campaign, error) {
	item := entities.Campaign{
		CampaignID: m.CampaignID,
		Role:       entities.CampaignRole(m.Role),
		LinkedEntity: entities.LinkedEntity{
			Type: m.LinkedEntityType,
			ID:   m.LinkedEntityID,
		},
		StartDate:     m.StartDate.UTC(),
		EndDate:       m.EndDate.UTC(),
		ResponseLimit: m.ResponseLimit,
		Status:        entities.CampaignStatus(m.Status),
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
	if len(m.Title) > 0 {
		if err := json.Unmarshal(m.Title, &item.Title); err != nil {
			return entities.Campaign{}, err
		}
	}
	if len(m.Description) > 0 {
		if err := json.Unmarshal(m.Description, &item.Description); err != nil {
			return entities.Campaign{}, err
		}
	}
	if len(m.Fields) > 0 {
		var fields []fieldDocument
		if err := json.Unmarshal(m.Fields, &fields); err != nil {
			return entities.Campaign{}, err
		}
		item.Fields = make([]entities.FieldDefinition, 0, len(fields))
		for _, doc := range fields {
			item.Fields = append(item.Fields, doc.toEntity())
		}
	}
	return item, nil
}

type responseModel struct {
	ResponseID  string     `gorm:"column:response_id;primaryKey"`
	CampaignID  string     `gorm:"column:campaign_id;index"`
	SubmittedAt time.Time  `gorm:"column:submitted_at"`
	UserID      string     `gorm:"column:user_id"`
	UserEmail   string     `gorm:"column:user_email"`
	UserName    string     `gorm:"column:user_name"`
	Answers     []byte     `gorm:"column:answers;type:jsonb"`
	Attachments []byte     `gorm:"column:attachments;type:jsonb"`
	Status      string     `gorm:"column:status"`
	ReviewedAt  *time.Time `gorm:"column:reviewed_at"`
	ReviewedBy  string     `gorm:"column:reviewed_by"`
	Rating      int        `gorm:"column:rating"`
	Tags        []string   `gorm:"column:tags;type:text[]"`
	Notes       string     `gorm:"column:notes"`
}

func (responseModel) TableName() string {
	return "campaign_responses"
}

func responseModelFromEntity(item entities.Response) (responseModel, error) {
	answers, err := json.Marshal(item.Answers)
	if err != nil {
		return responseModel{}, err
	}
	attachments, err := json.Marshal(item.Attachments)
	if err != nil {
		return responseModel{}, err
	}
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}
	return responseModel{
		ResponseID:  strings.TrimSpace(item.ResponseID),
		CampaignID:  strings.TrimSpace(item.CampaignID),
		SubmittedAt: item.SubmittedAt.UTC(),
		UserID:      item.UserID,
		UserEmail:   item.UserEmail,
		UserName:    item.UserName,
		Answers:     answers,
		Attachments: attachments,
		Status:      string(item.Status),
		ReviewedAt:  normalizeOptionalTime(item.ReviewedAt),
		ReviewedBy:  item.ReviewedBy,
		Rating:      item.Rating,
		Tags:        tags,
		Notes:       item.Notes,
	}, nil
}

func (m responseModel) toEntity() (entities.Response, error) {
	item := entities.Response{
		ResponseID:  m.ResponseID,
		CampaignID:  m.CampaignID,
		SubmittedAt: m.SubmittedAt.UTC(),
		UserID:      m.UserID,
		UserEmail:   m.UserEmail,
		UserName:    m.UserName,
		Status:      entities.ReviewStatus(m.Status),
		ReviewedAt:  normalizeOptionalTime(m.ReviewedAt),
		ReviewedBy:  m.ReviewedBy,
		Rating:      m.Rating,
		Tags:        m.Tags,
		Notes:       m.Notes,
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
	if len(m.Answers) > 0 {
		if err := json.Unmarshal(m.Answers, &item.Answers); err != nil {
			return entities.Response{}, err
		}
	}
	if len(m.Attachments) > 0 {
		if err := json.Unmarshal(m.Attachments, &item.Attachments); err != nil {
			return entities.Response{}, err
		}
	}
	return item, nil
}

type idempotencyModel struct {
	Key             string    `gorm:"column:key;primaryKey"`
	RequestHash     string    `gorm:"column:request_hash"`
	ResponsePayload []byte    `gorm:"column:response_payload;type:jsonb"`
	ExpiresAt       time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "response_idempotency"
}

// fieldDocument is the persisted shape of a field definition inside the
// campaign's jsonb schema column, written by the campaign authoring tool.
type fieldDocument struct {
	ID            string                 `json:"id"`
	Type          string                 `json:"type"`
	Label         map[string]string      `json:"label"`
	Placeholder   map[string]string      `json:"placeholder,omitempty"`
	Required      bool                   `json:"required"`
	Options       []map[string]string    `json:"options,omitempty"`
	AcceptedTypes []string               `json:"accepted_types,omitempty"`
	MaxSizeBytes  int64                  `json:"max_size_bytes,omitempty"`
	Settings      *fieldSettingsDocument `json:"settings,omitempty"`
}

type fieldSettingsDocument struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

func (d fieldDocument) toEntity() entities.FieldDefinition {
	field := entities.FieldDefinition{
		FieldID:       d.ID,
		Type:          entities.FieldType(d.Type),
		Label:         entities.LocalizedText(d.Label),
		Placeholder:   entities.LocalizedText(d.Placeholder),
		Required:      d.Required,
		AcceptedTypes: d.AcceptedTypes,
		MaxSizeBytes:  d.MaxSizeBytes,
	}
	for _, option := range d.Options {
		field.Options = append(field.Options, entities.LocalizedText(option))
	}
	if d.Settings != nil {
		field.Settings = &entities.NumberSettings{
			Min: d.Settings.Min,
			Max: d.Settings.Max,
		}
	}
	return field
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	utc := value.UTC()
	return &utc
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
