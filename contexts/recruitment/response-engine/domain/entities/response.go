package entities

import (
	"sort"
	"time"
)

type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// Answer holds one field's submitted value. Value and Values are mutually
// exclusive: checkboxes fields fill Values, every other type fills Value.
// File-upload answers keep the original filename in Value; the stored bytes
// live behind the attachment's storage name.
type Answer struct {
	FieldID string
	Value   string
	Values  []string
}

type Attachment struct {
	FieldID      string
	OriginalName string
	StorageName  string
	SizeBytes    int64
	ContentType  string
}

type Response struct {
	ResponseID  string
	CampaignID  string
	SubmittedAt time.Time
	UserID      string
	UserEmail   string
	UserName    string
	Answers     []Answer
	Attachments []Attachment
	Status      ReviewStatus
	ReviewedAt  *time.Time
	ReviewedBy  string
	Rating      int
	Tags        []string
	Notes       string
}

// Answer returns the answer for fieldID, if the response carries one.
func (r Response) Answer(fieldID string) (Answer, bool) {
	for _, answer := range r.Answers {
		if answer.FieldID == fieldID {
			return answer, true
		}
	}
	return Answer{}, false
}

// HasTag reports set membership.
func (r Response) HasTag(tag string) bool {
	for _, item := range r.Tags {
		if item == tag {
			return true
		}
	}
	return false
}

// AddTag inserts tag with set semantics; adding an existing tag is a no-op.
func (r *Response) AddTag(tag string) {
	if r.HasTag(tag) {
		return
	}
	r.Tags = append(r.Tags, tag)
	sort.Strings(r.Tags)
}

// RemoveTag deletes tag; removing an absent tag is a no-op.
func (r *Response) RemoveTag(tag string) {
	for i, item := range r.Tags {
		if item == tag {
			r.Tags = append(r.Tags[:i], r.Tags[i+1:]...)
			return
		}
	}
}

func IsSupportedReviewStatus(value ReviewStatus) bool {
	switch value {
	case ReviewStatusPending, ReviewStatusApproved, ReviewStatusRejected:
		return true
	default:
		return false
	}
}

func IsValidRating(value int) bool {
	return value >= 1 && value <= 5
}
