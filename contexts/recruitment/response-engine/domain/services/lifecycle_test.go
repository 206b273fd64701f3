package services

import (
	"testing"
	"time"

	"crewcall/contexts/recruitment/response-engine/domain/entities"
)

func windowCampaign(status entities.CampaignStatus, start, end time.Time) entities.Campaign {
	return entities.Campaign{
		CampaignID: "camp-1",
		Status:     status,
		StartDate:  start,
		EndDate:    end,
	}
}

func TestResolveCampaignBeforeStartIsUpcoming(t *testing.T) {
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	campaign := windowCampaign(entities.CampaignStatusActive, start, end)

	view := ResolveCampaign(campaign, start.Add(-time.Hour), 0)
	if view.DynamicStatus != entities.DynamicStatusUpcoming {
		t.Fatalf("expected upcoming before the window, got %q", view.DynamicStatus)
	}
	if view.Open() {
		t.Fatalf("upcoming campaign must not accept responses")
	}
}

func TestResolveCampaignAfterEndIsExpired(t *testing.T) {
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	campaign := windowCampaign(entities.CampaignStatusActive, start, end)

	view := ResolveCampaign(campaign, end.Add(time.Second), 0)
	if view.DynamicStatus != entities.DynamicStatusExpired {
		t.Fatalf("expected expired after the window, got %q", view.DynamicStatus)
	}
}

func TestResolveCampaignInWindowActiveBaseIsActive(t *testing.T) {
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	campaign := windowCampaign(entities.CampaignStatusActive, start, end)

	view := ResolveCampaign(campaign, start.Add(time.Hour), 0)
	if view.DynamicStatus != entities.DynamicStatusActive {
		t.Fatalf("expected active inside the window, got %q", view.DynamicStatus)
	}
	if !view.Open() {
		t.Fatalf("active campaign without a limit must be open")
	}
}

func TestResolveCampaignInWindowDraftAndPausedNeverActive(t *testing.T) {
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	now := start.Add(time.Hour)

	for _, status := range []entities.CampaignStatus{entities.CampaignStatusDraft, entities.CampaignStatusPaused} {
		view := ResolveCampaign(windowCampaign(status, start, end), now, 0)
		if view.DynamicStatus == entities.DynamicStatusActive {
			t.Fatalf("%s campaign must never report active", status)
		}
		if view.Open() {
			t.Fatalf("%s campaign must not accept responses", status)
		}
	}
}

func TestResolveCampaignWindowBoundariesAreInclusive(t *testing.T) {
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	campaign := windowCampaign(entities.CampaignStatusActive, start, end)

	if view := ResolveCampaign(campaign, start, 0); view.DynamicStatus != entities.DynamicStatusActive {
		t.Fatalf("start instant should be active, got %q", view.DynamicStatus)
	}
	if view := ResolveCampaign(campaign, end, 0); view.DynamicStatus != entities.DynamicStatusActive {
		t.Fatalf("end instant should be active, got %q", view.DynamicStatus)
	}
}

func TestResolveCampaignZeroWidthWindow(t *testing.T) {
	instant := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	campaign := windowCampaign(entities.CampaignStatusActive, instant, instant)

	if view := ResolveCampaign(campaign, instant, 0); view.DynamicStatus != entities.DynamicStatusActive {
		t.Fatalf("start==end campaign should be active at that instant, got %q", view.DynamicStatus)
	}
}

func TestResolveCampaignDaysLeftRoundsUp(t *testing.T) {
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(36 * time.Hour)
	campaign := windowCampaign(entities.CampaignStatusActive, start, end)

	view := ResolveCampaign(campaign, start, 0)
	if view.DaysLeft != 2 {
		t.Fatalf("expected 36h remaining to round up to 2 days, got %d", view.DaysLeft)
	}

	view = ResolveCampaign(campaign, end.Add(time.Hour), 0)
	if view.DaysLeft != 0 {
		t.Fatalf("expected 0 days left after the end, got %d", view.DaysLeft)
	}
}

func TestResolveCampaignSpotsLeft(t *testing.T) {
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	limit := 10
	campaign := windowCampaign(entities.CampaignStatusActive, start, end)
	campaign.ResponseLimit = &limit

	view := ResolveCampaign(campaign, start, 7)
	if view.SpotsLeft == nil || *view.SpotsLeft != 3 {
		t.Fatalf("expected 3 spots left, got %v", view.SpotsLeft)
	}

	view = ResolveCampaign(campaign, start, 12)
	if view.SpotsLeft == nil || *view.SpotsLeft != 0 {
		t.Fatalf("over-subscribed campaign must clamp spots to 0, got %v", view.SpotsLeft)
	}
	if view.Open() {
		t.Fatalf("full campaign must not be open")
	}

	campaign.ResponseLimit = nil
	view = ResolveCampaign(campaign, start, 1000)
	if view.SpotsLeft != nil {
		t.Fatalf("unlimited campaign must report nil spots, got %v", view.SpotsLeft)
	}
}
