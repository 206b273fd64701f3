package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	responseengine "crewcall/contexts/recruitment/response-engine"
	"crewcall/contexts/recruitment/response-engine/domain/entities"
	enginehttp "crewcall/contexts/recruitment/response-engine/transport/http"
)

func newTestServer() *Server {
	limit := 2
	module := responseengine.NewInMemoryModule([]entities.Campaign{
		{
			CampaignID: "camp-1",
			Title:      entities.LocalizedText{"en": "Festival Crew 2026"},
			Role:       entities.CampaignRoleCrew,
			Status:     entities.CampaignStatusActive,
			StartDate:  time.Now().UTC().Add(-24 * time.Hour),
			EndDate:    time.Now().UTC().Add(24 * time.Hour),
			Fields: []entities.FieldDefinition{
				{
					FieldID:  "name",
					Type:     entities.FieldTypeShortText,
					Label:    entities.LocalizedText{"en": "Full name"},
					Required: true,
				},
				{
					FieldID: "dept",
					Type:    entities.FieldTypeDropdown,
					Label:   entities.LocalizedText{"en": "Department"},
					Options: []entities.LocalizedText{{"en": "Camera"}, {"en": "Sound"}},
				},
			},
			ResponseLimit: &limit,
		},
	}, nil)
	return New(module, nil, ":0")
}

func submitBody(t *testing.T, name string) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(enginehttp.SubmitResponseRequest{
		Answers: []enginehttp.AnswerInputDTO{
			{FieldID: "name", Value: name},
			{FieldID: "dept", Value: "Camera"},
		},
	})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return bytes.NewReader(raw)
}

func submitOne(t *testing.T, server *Server, name string) enginehttp.SubmitResponseResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/campaigns/camp-1/responses", submitBody(t, name))
	req.Header.Set("X-User-Id", "user-"+name)
	req.Header.Set("X-User-Name", name)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp enginehttp.SubmitResponseResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestListCampaignsReturnsDerivedStatus(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/v1/campaigns", nil)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var resp enginehttp.ListCampaignsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("expected 1 campaign, got %d", len(resp.Items))
	}
	if resp.Items[0].DynamicStatus != "active" {
		t.Fatalf("expected derived active status, got %q", resp.Items[0].DynamicStatus)
	}
	if resp.Items[0].SpotsLeft == nil || *resp.Items[0].SpotsLeft != 2 {
		t.Fatalf("expected 2 spots left, got %v", resp.Items[0].SpotsLeft)
	}
}

func TestSubmitResponseRequiresUserHeader(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/v1/campaigns/camp-1/responses", submitBody(t, "Jane"))

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSubmitResponseValidationFailureReturns422(t *testing.T) {
	server := newTestServer()
	raw, _ := json.Marshal(enginehttp.SubmitResponseRequest{
		Answers: []enginehttp.AnswerInputDTO{{FieldID: "dept", Value: "Catering"}},
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/campaigns/camp-1/responses", bytes.NewReader(raw))
	req.Header.Set("X-User-Id", "user-1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d body=%s", rr.Code, rr.Body.String())
	}

	var resp enginehttp.ValidationErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode validation payload: %v", err)
	}
	if len(resp.Violations) != 2 {
		t.Fatalf("expected missing name plus invalid option, got %v", resp.Violations)
	}
}

func TestSubmitResponseCapacityReturns409(t *testing.T) {
	server := newTestServer()
	submitOne(t, server, "Jane")
	submitOne(t, server, "Max")

	req := httptest.NewRequest(http.MethodPost, "/v1/campaigns/camp-1/responses", submitBody(t, "Late"))
	req.Header.Set("X-User-Id", "user-late")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 when full, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestReviewFlowOverHTTP(t *testing.T) {
	server := newTestServer()
	submitted := submitOne(t, server, "Jane")
	responseID := submitted.Response.ResponseID

	body := strings.NewReader(`{"status":"approved","notes":"solid application"}`)
	req := httptest.NewRequest(http.MethodPatch, "/v1/responses/"+responseID+"/status", body)
	req.Header.Set("X-User-Id", "reviewer-1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status patch: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodPatch, "/v1/responses/"+responseID+"/rating", strings.NewReader(`{"rating":9}`))
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("out-of-range rating: expected 400, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/responses/"+responseID+"/tags", strings.NewReader(`{"tag":"shortlist"}`))
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("add tag: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/responses/"+responseID, nil)
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	var got enginehttp.GetResponseResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Response.Status != "approved" || got.Response.ReviewedBy != "reviewer-1" {
		t.Fatalf("review state not persisted: %+v", got.Response)
	}
	if len(got.Response.Tags) != 1 || got.Response.Tags[0] != "shortlist" {
		t.Fatalf("tag not persisted: %v", got.Response.Tags)
	}
}

func TestBulkStatusOverHTTP(t *testing.T) {
	server := newTestServer()
	first := submitOne(t, server, "Jane")
	second := submitOne(t, server, "Max")

	raw, _ := json.Marshal(enginehttp.BulkSetStatusRequest{
		ResponseIDs: []string{first.Response.ResponseID, second.Response.ResponseID, "missing"},
		Status:      "rejected",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/responses/bulk-status", bytes.NewReader(raw))
	req.Header.Set("X-User-Id", "reviewer-1")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var resp enginehttp.BulkSetStatusResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Updated) != 2 || len(resp.NotFound) != 1 {
		t.Fatalf("unexpected bulk result: %+v", resp)
	}
}

func TestExportCSVOverHTTP(t *testing.T) {
	server := newTestServer()
	submitOne(t, server, "Jane Doe")

	req := httptest.NewRequest(http.MethodGet, "/v1/campaigns/camp-1/responses/export?format=csv", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("Content-Type"); got != "text/csv" {
		t.Fatalf("expected text/csv, got %q", got)
	}
	if !strings.Contains(rr.Header().Get("Content-Disposition"), "attachment") {
		t.Fatalf("export must set a download disposition")
	}
	if !strings.Contains(rr.Body.String(), "Jane Doe") {
		t.Fatalf("csv body missing submitted data: %s", rr.Body.String())
	}
}

func TestAnalyticsOverHTTP(t *testing.T) {
	server := newTestServer()
	submitOne(t, server, "Jane")

	req := httptest.NewRequest(http.MethodGet, "/v1/campaigns/camp-1/analytics", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var breakdown enginehttp.StatusBreakdownResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &breakdown); err != nil {
		t.Fatalf("decode breakdown: %v", err)
	}
	if breakdown.Total != 1 || breakdown.Pending != 1 {
		t.Fatalf("unexpected breakdown: %+v", breakdown)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/campaigns/camp-1/analytics/fields/dept", nil)
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var histogram enginehttp.FieldHistogramResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &histogram); err != nil {
		t.Fatalf("decode histogram: %v", err)
	}
	if histogram.Answered != 1 || len(histogram.Buckets) != 2 {
		t.Fatalf("unexpected histogram: %+v", histogram)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/campaigns/camp-1/analytics/fields/name", nil)
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("short-text histogram must be rejected, got %d", rr.Code)
	}
}
