package services

import (
	"math"
	"time"

	"crewcall/contexts/recruitment/response-engine/domain/entities"
)

// DerivedCampaignView is the read-only runtime projection of a campaign.
// It is recomputed on every read and never persisted.
type DerivedCampaignView struct {
	Campaign      entities.Campaign
	DynamicStatus entities.DynamicStatus
	DaysLeft      int
	ResponseCount int
	SpotsLeft     *int
}

// Open reports whether the campaign can take a new response right now.
func (v DerivedCampaignView) Open() bool {
	if v.DynamicStatus != entities.DynamicStatusActive {
		return false
	}
	return v.SpotsLeft == nil || *v.SpotsLeft > 0
}

// ResolveCampaign derives the runtime status of a campaign from its static
// configuration, the current time, and the current response count.
//
// A draft or paused base status overrides the date math: such campaigns
// never report active, however the window lines up. In-window draft/paused
// campaigns report upcoming, since they are not open to applicants yet.
func ResolveCampaign(campaign entities.Campaign, now time.Time, responseCount int) DerivedCampaignView {
	status := entities.DynamicStatusActive
	switch {
	case now.Before(campaign.StartDate):
		status = entities.DynamicStatusUpcoming
	case now.After(campaign.EndDate):
		status = entities.DynamicStatusExpired
	}
	if status == entities.DynamicStatusActive && !campaign.Accepting() {
		status = entities.DynamicStatusUpcoming
	}

	daysLeft := 0
	if remaining := campaign.EndDate.Sub(now); remaining > 0 {
		daysLeft = int(math.Ceil(remaining.Hours() / 24))
	}

	var spotsLeft *int
	if campaign.ResponseLimit != nil {
		left := *campaign.ResponseLimit - responseCount
		if left < 0 {
			left = 0
		}
		spotsLeft = &left
	}

	return DerivedCampaignView{
		Campaign:      campaign,
		DynamicStatus: status,
		DaysLeft:      daysLeft,
		ResponseCount: responseCount,
		SpotsLeft:     spotsLeft,
	}
}
