package queries

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"crewcall/contexts/recruitment/response-engine/domain/entities"
)

func exportCampaign() entities.Campaign {
	return entities.Campaign{
		CampaignID: "camp-1",
		Title:      entities.LocalizedText{"en": "Festival Crew 2026"},
		LinkedEntity: entities.LinkedEntity{
			Type: "event",
			ID:   "event-9",
		},
		Fields: []entities.FieldDefinition{
			{FieldID: "intro", Type: entities.FieldTypeSectionBreak, Label: entities.LocalizedText{"en": "About you"}},
			{FieldID: "name", Type: entities.FieldTypeShortText, Label: entities.LocalizedText{"en": "Full name"}},
			{
				FieldID: "skills",
				Type:    entities.FieldTypeCheckboxes,
				Label:   entities.LocalizedText{"en": "Skills"},
				Options: []entities.LocalizedText{{"en": "JS"}, {"en": "Go"}},
			},
		},
	}
}

func TestRenderCSVQuotesAndJoins(t *testing.T) {
	campaign := exportCampaign()
	responses := []entities.Response{
		{
			ResponseID:  "resp-1",
			CampaignID:  "camp-1",
			SubmittedAt: time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC),
			UserName:    "Jane Doe",
			UserEmail:   "jane@example.com",
			Status:      entities.ReviewStatusPending,
			Answers: []entities.Answer{
				{FieldID: "name", Value: `Jane "JD" Doe`},
				{FieldID: "skills", Values: []string{"JS", "Go"}},
			},
		},
		{
			ResponseID:  "resp-2",
			CampaignID:  "camp-1",
			SubmittedAt: time.Date(2026, time.March, 11, 12, 0, 0, 0, time.UTC),
			UserName:    "Max",
			Status:      entities.ReviewStatusApproved,
		},
	}

	rendered, err := RenderCSV(campaign, responses)
	if err != nil {
		t.Fatalf("render csv: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(rendered)).ReadAll()
	if err != nil {
		t.Fatalf("rendered csv must parse back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}

	header := records[0]
	if header[0] != "id" || header[len(header)-1] != "Skills" {
		t.Fatalf("unexpected header: %v", header)
	}
	for _, column := range header {
		if column == "About you" {
			t.Fatalf("section breaks must not produce columns")
		}
	}

	row := records[1]
	if row[5] != `Jane "JD" Doe` {
		t.Fatalf("embedded quotes must round-trip, got %q", row[5])
	}
	if row[6] != "JS, Go" {
		t.Fatalf("multi-values must join with comma-space, got %q", row[6])
	}

	empty := records[2]
	if empty[5] != "" || empty[6] != "" {
		t.Fatalf("missing answers must render empty cells, got %v", empty)
	}
}

func TestRenderJSONCarriesMetadata(t *testing.T) {
	campaign := exportCampaign()
	exportedAt := time.Date(2026, time.March, 15, 8, 0, 0, 0, time.UTC)
	responses := []entities.Response{
		{
			ResponseID:  "resp-1",
			CampaignID:  "camp-1",
			SubmittedAt: time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC),
			Status:      entities.ReviewStatusPending,
			Tags:        []string{"shortlist"},
		},
	}

	rendered, err := RenderJSON(campaign, responses, DateRangeAll, exportedAt)
	if err != nil {
		t.Fatalf("render json: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(rendered), &doc); err != nil {
		t.Fatalf("rendered json must parse back: %v", err)
	}
	if doc["campaign_id"] != "camp-1" || doc["campaign_title"] != "Festival Crew 2026" {
		t.Fatalf("campaign metadata missing: %v", doc)
	}
	if doc["linked_entity"] != "event/event-9" {
		t.Fatalf("linked entity missing: %v", doc["linked_entity"])
	}
	if doc["range"] != "all" || doc["response_count"] != float64(1) {
		t.Fatalf("export metadata missing: %v", doc)
	}
	if doc["exported_at"] != "2026-03-15T08:00:00Z" {
		t.Fatalf("exported_at must be RFC3339, got %v", doc["exported_at"])
	}
}

func TestFilterByRangeDoesNotMutate(t *testing.T) {
	now := time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)
	responses := []entities.Response{
		{ResponseID: "old", SubmittedAt: now.AddDate(0, -2, 0)},
		{ResponseID: "recent", SubmittedAt: now.Add(-2 * 24 * time.Hour)},
		{ResponseID: "mid", SubmittedAt: now.Add(-20 * 24 * time.Hour)},
	}

	week := FilterByRange(responses, DateRangeLastWeek, now)
	if len(week) != 1 || week[0].ResponseID != "recent" {
		t.Fatalf("lastWeek should keep only the recent response, got %v", week)
	}

	month := FilterByRange(responses, DateRangeLastMonth, now)
	if len(month) != 2 {
		t.Fatalf("lastMonth should keep recent and mid, got %d", len(month))
	}

	all := FilterByRange(responses, DateRangeAll, now)
	if len(all) != 3 {
		t.Fatalf("all must keep everything, got %d", len(all))
	}

	if len(responses) != 3 || responses[0].ResponseID != "old" {
		t.Fatalf("input slice must not be mutated: %v", responses)
	}
	all[0] = entities.Response{ResponseID: "clobbered"}
	if responses[0].ResponseID != "old" {
		t.Fatalf("returned slice must not alias the input")
	}
}
