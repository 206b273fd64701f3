package queries

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	application "crewcall/contexts/recruitment/response-engine/application"
	"crewcall/contexts/recruitment/response-engine/domain/entities"
	domainerrors "crewcall/contexts/recruitment/response-engine/domain/errors"
	"crewcall/contexts/recruitment/response-engine/ports"
)

const numberBucketCount = 5

type StatusBreakdown map[entities.ReviewStatus]int

type HistogramBucket struct {
	Label string
	Count int
}

// FieldHistogram is the per-field value distribution over a response set.
// Answered counts only responses that answered the field; unanswered ones
// are excluded from the denominator. OutOfRange surfaces number values
// outside the declared [min, max].
type FieldHistogram struct {
	FieldID    string
	Buckets    []HistogramBucket
	Answered   int
	OutOfRange int
}

// AggregateStatus tallies responses per review status.
func AggregateStatus(responses []entities.Response) StatusBreakdown {
	breakdown := StatusBreakdown{
		entities.ReviewStatusPending:  0,
		entities.ReviewStatusApproved: 0,
		entities.ReviewStatusRejected: 0,
	}
	for _, response := range responses {
		breakdown[response.Status]++
	}
	return breakdown
}

// Aggregatable reports whether a field supports value histograms: choice
// fields always do, number fields only with finite declared bounds.
func Aggregatable(field entities.FieldDefinition) bool {
	if entities.IsChoiceType(field.Type) {
		return true
	}
	if field.Type != entities.FieldTypeNumber || field.Settings == nil {
		return false
	}
	return field.Settings.Min != nil && field.Settings.Max != nil &&
		*field.Settings.Max > *field.Settings.Min
}

// AggregateField builds the value histogram for one field.
//
// Dropdown/multiple-choice answers land in exactly one bucket; checkboxes
// answers contribute one count per selected option, so bucket totals may
// exceed the answered count. Number fields partition [min, max) into five
// equal-width buckets with max itself falling in the last one.
func AggregateField(responses []entities.Response, field entities.FieldDefinition) (FieldHistogram, error) {
	if !Aggregatable(field) {
		return FieldHistogram{}, domainerrors.ErrUnsupportedField
	}
	if entities.IsChoiceType(field.Type) {
		return aggregateChoiceField(responses, field), nil
	}
	return aggregateNumberField(responses, field), nil
}

func aggregateChoiceField(responses []entities.Response, field entities.FieldDefinition) FieldHistogram {
	labels := field.OptionValues("en")
	counts := make(map[string]int, len(labels))

	histogram := FieldHistogram{FieldID: field.FieldID}
	for _, response := range responses {
		answer, ok := response.Answer(field.FieldID)
		if !ok {
			continue
		}
		histogram.Answered++
		if field.MultiValued() {
			for _, value := range answer.Values {
				counts[value]++
			}
		} else {
			counts[answer.Value]++
		}
	}

	for _, label := range labels {
		histogram.Buckets = append(histogram.Buckets, HistogramBucket{
			Label: label,
			Count: counts[label],
		})
	}
	return histogram
}

func aggregateNumberField(responses []entities.Response, field entities.FieldDefinition) FieldHistogram {
	min := *field.Settings.Min
	max := *field.Settings.Max
	width := (max - min) / numberBucketCount

	histogram := FieldHistogram{FieldID: field.FieldID}
	counts := make([]int, numberBucketCount)
	for _, response := range responses {
		answer, ok := response.Answer(field.FieldID)
		if !ok {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(answer.Value), 64)
		if err != nil {
			continue
		}
		histogram.Answered++
		if value < min || value > max {
			histogram.OutOfRange++
			continue
		}
		index := int((value - min) / width)
		if index >= numberBucketCount {
			// max is inclusive in the last bucket
			index = numberBucketCount - 1
		}
		counts[index]++
	}

	for i := 0; i < numberBucketCount; i++ {
		lower := min + float64(i)*width
		upper := lower + width
		histogram.Buckets = append(histogram.Buckets, HistogramBucket{
			Label: formatBound(lower) + " - " + formatBound(upper),
			Count: counts[i],
		})
	}
	return histogram
}

func formatBound(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}

type CampaignAnalyticsUseCase struct {
	Campaigns ports.CampaignRepository
	Responses ports.ResponseRepository
	Logger    *slog.Logger
}

func (uc CampaignAnalyticsUseCase) StatusBreakdown(ctx context.Context, campaignID string) (StatusBreakdown, error) {
	responses, err := uc.Responses.ListResponses(ctx, ports.ResponseFilter{
		CampaignID: strings.TrimSpace(campaignID),
	})
	if err != nil {
		return nil, err
	}
	return AggregateStatus(responses), nil
}

// SelectableFields lists the fields callers may request histograms for.
// Unsupported field types are omitted rather than erroring later.
func (uc CampaignAnalyticsUseCase) SelectableFields(ctx context.Context, campaignID string) ([]entities.FieldDefinition, error) {
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return nil, err
	}
	fields := make([]entities.FieldDefinition, 0, len(campaign.Fields))
	for _, field := range campaign.Fields {
		if Aggregatable(field) {
			fields = append(fields, field)
		}
	}
	return fields, nil
}

func (uc CampaignAnalyticsUseCase) FieldHistogram(ctx context.Context, campaignID string, fieldID string) (FieldHistogram, error) {
	logger := application.ResolveLogger(uc.Logger)
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return FieldHistogram{}, err
	}
	field, ok := campaign.Field(fieldID)
	if !ok {
		return FieldHistogram{}, domainerrors.ErrFieldNotFound
	}
	responses, err := uc.Responses.ListResponses(ctx, ports.ResponseFilter{
		CampaignID: campaign.CampaignID,
	})
	if err != nil {
		return FieldHistogram{}, err
	}
	histogram, err := AggregateField(responses, field)
	if err != nil {
		return FieldHistogram{}, err
	}

	logger.Debug("field histogram computed",
		"event", "field_histogram_computed",
		"module", "recruitment/response-engine",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"field_id", field.FieldID,
	)
	return histogram, nil
}
