package entities

import (
	"strings"
	"time"
)

type CampaignStatus string
type CampaignRole string
type DynamicStatus string

const (
	CampaignStatusDraft  CampaignStatus = "draft"
	CampaignStatusActive CampaignStatus = "active"
	CampaignStatusPaused CampaignStatus = "paused"

	CampaignRoleCrew        CampaignRole = "crew"
	CampaignRoleVolunteer   CampaignRole = "volunteer"
	CampaignRoleParticipant CampaignRole = "participant"

	DynamicStatusUpcoming DynamicStatus = "upcoming"
	DynamicStatusActive   DynamicStatus = "active"
	DynamicStatusExpired  DynamicStatus = "expired"
)

// LinkedEntity ties a campaign to the content it recruits for
// (a production, an event, a chat server).
type LinkedEntity struct {
	Type string
	ID   string
}

type Campaign struct {
	CampaignID    string
	Title         LocalizedText
	Description   LocalizedText
	Role          CampaignRole
	LinkedEntity  LinkedEntity
	Fields        []FieldDefinition
	StartDate     time.Time
	EndDate       time.Time
	ResponseLimit *int
	Status        CampaignStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Accepting reports whether the author-set base status allows intake at all.
// Draft and paused campaigns never accept, whatever the dates say.
func (c Campaign) Accepting() bool {
	return c.Status == CampaignStatusActive
}

// Field returns the definition for id, if the campaign declares it.
func (c Campaign) Field(fieldID string) (FieldDefinition, bool) {
	id := strings.TrimSpace(fieldID)
	for _, field := range c.Fields {
		if field.FieldID == id {
			return field, true
		}
	}
	return FieldDefinition{}, false
}

// InteractiveFields returns the answerable fields in declaration order.
func (c Campaign) InteractiveFields() []FieldDefinition {
	fields := make([]FieldDefinition, 0, len(c.Fields))
	for _, field := range c.Fields {
		if field.Interactive() {
			fields = append(fields, field)
		}
	}
	return fields
}

func IsSupportedRole(value CampaignRole) bool {
	switch value {
	case CampaignRoleCrew, CampaignRoleVolunteer, CampaignRoleParticipant:
		return true
	default:
		return false
	}
}

func IsSupportedCampaignStatus(value CampaignStatus) bool {
	switch value {
	case CampaignStatusDraft, CampaignStatusActive, CampaignStatusPaused:
		return true
	default:
		return false
	}
}
