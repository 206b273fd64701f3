package memory

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"crewcall/contexts/recruitment/response-engine/domain/entities"
	domainerrors "crewcall/contexts/recruitment/response-engine/domain/errors"
	"crewcall/contexts/recruitment/response-engine/ports"

	"github.com/google/uuid"
)

// Store is the in-memory adapter backing tests and DSN-less local runs.
// One mutex guards everything, which makes the capacity check and the
// response insert a single atomic unit.
type Store struct {
	mu sync.RWMutex

	campaigns   map[string]entities.Campaign
	responses   map[string]entities.Response
	attachments map[string]ports.AttachmentUpload
	idempotency map[string]ports.IdempotencyRecord
}

func NewStore(seed []entities.Campaign) *Store {
	campaigns := make(map[string]entities.Campaign, len(seed))
	for _, item := range seed {
		campaigns[item.CampaignID] = item
	}
	return &Store{
		campaigns:   campaigns,
		responses:   make(map[string]entities.Response),
		attachments: make(map[string]ports.AttachmentUpload),
		idempotency: make(map[string]ports.IdempotencyRecord),
	}
}

// PutCampaign seeds or replaces a campaign. The engine itself never writes
// campaigns; this exists for the authoring collaborator and tests.
func (s *Store) PutCampaign(campaign entities.Campaign) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[campaign.CampaignID] = campaign
}

func (s *Store) GetCampaign(_ context.Context, campaignID string) (entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.campaigns[strings.TrimSpace(campaignID)]
	if !exists {
		return entities.Campaign{}, domainerrors.ErrCampaignNotFound
	}
	return item, nil
}

func (s *Store) ListCampaigns(_ context.Context, filter ports.CampaignFilter) ([]entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Campaign, 0, len(s.campaigns))
	for _, campaign := range s.campaigns {
		if filter.Role != "" && campaign.Role != filter.Role {
			continue
		}
		if filter.Status != "" && campaign.Status != filter.Status {
			continue
		}
		items = append(items, campaign)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) InsertResponse(_ context.Context, response entities.Response, responseLimit *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.responses[response.ResponseID]; exists {
		return domainerrors.ErrInvalidResponseInput
	}
	if responseLimit != nil {
		count := 0
		for _, item := range s.responses {
			if item.CampaignID == response.CampaignID {
				count++
			}
		}
		if count >= *responseLimit {
			return domainerrors.ErrCampaignFull
		}
	}
	s.responses[response.ResponseID] = response
	return nil
}

func (s *Store) GetResponse(_ context.Context, responseID string) (entities.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.responses[strings.TrimSpace(responseID)]
	if !exists {
		return entities.Response{}, domainerrors.ErrResponseNotFound
	}
	return item, nil
}

func (s *Store) UpdateResponse(_ context.Context, response entities.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.responses[response.ResponseID]; !exists {
		return domainerrors.ErrResponseNotFound
	}
	s.responses[response.ResponseID] = response
	return nil
}

func (s *Store) ListResponses(_ context.Context, filter ports.ResponseFilter) ([]entities.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Response, 0, len(s.responses))
	for _, response := range s.responses {
		if strings.TrimSpace(filter.CampaignID) != "" && response.CampaignID != strings.TrimSpace(filter.CampaignID) {
			continue
		}
		if filter.Status != "" && response.Status != filter.Status {
			continue
		}
		if filter.SubmittedFrom != nil && response.SubmittedAt.Before(*filter.SubmittedFrom) {
			continue
		}
		items = append(items, response)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].SubmittedAt.Before(items[j].SubmittedAt)
	})
	return items, nil
}

func (s *Store) CountResponses(_ context.Context, campaignID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, response := range s.responses {
		if response.CampaignID == strings.TrimSpace(campaignID) {
			count++
		}
	}
	return count, nil
}

func (s *Store) StoreAttachment(_ context.Context, upload ports.AttachmentUpload) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	storageName := uuid.NewString()
	s.attachments[storageName] = upload
	return storageName, nil
}

func (s *Store) GetRecord(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.idempotency[key]
	if !exists {
		return ports.IdempotencyRecord{}, false, nil
	}
	if !record.ExpiresAt.After(now) {
		delete(s.idempotency, key)
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) PutRecord(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.idempotency[record.Key]
	if exists {
		if existing.RequestHash != record.RequestHash {
			return domainerrors.ErrIdempotencyKeyConflict
		}
		if !bytes.Equal(existing.ResponsePayload, record.ResponsePayload) {
			return domainerrors.ErrIdempotencyKeyConflict
		}
	}
	s.idempotency[record.Key] = record
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
