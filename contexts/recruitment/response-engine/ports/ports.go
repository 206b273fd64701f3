package ports

import (
	"context"
	"time"

	"crewcall/contexts/recruitment/response-engine/domain/entities"
)

type CampaignFilter struct {
	Role   entities.CampaignRole
	Status entities.CampaignStatus
}

type CampaignRepository interface {
	GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error)
	ListCampaigns(ctx context.Context, filter CampaignFilter) ([]entities.Campaign, error)
}

type ResponseFilter struct {
	CampaignID    string
	Status        entities.ReviewStatus
	SubmittedFrom *time.Time
}

// ResponseRepository persists responses. InsertResponse and the capacity
// check form one atomic unit: when responseLimit is non-nil, the insert
// must fail with ErrCampaignFull once the limit is consumed, even under
// concurrent submissions against the same campaign.
type ResponseRepository interface {
	InsertResponse(ctx context.Context, response entities.Response, responseLimit *int) error
	GetResponse(ctx context.Context, responseID string) (entities.Response, error)
	UpdateResponse(ctx context.Context, response entities.Response) error
	ListResponses(ctx context.Context, filter ResponseFilter) ([]entities.Response, error)
	CountResponses(ctx context.Context, campaignID string) (int, error)
}

// AttachmentUpload carries the bytes and metadata of one uploaded file.
type AttachmentUpload struct {
	OriginalName string
	ContentType  string
	SizeBytes    int64
	Data         []byte
}

// AttachmentStore persists uploaded bytes and returns an opaque storage
// name. The engine never reads attachment contents back.
type AttachmentStore interface {
	StoreAttachment(ctx context.Context, upload AttachmentUpload) (string, error)
}

type IdempotencyRecord struct {
	Key             string
	RequestHash     string
	ResponsePayload []byte
	ExpiresAt       time.Time
}

type IdempotencyStore interface {
	GetRecord(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	PutRecord(ctx context.Context, record IdempotencyRecord) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
