package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type FieldViolationDTO struct {
	FieldID string `json:"field_id"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// ValidationErrorResponse is the 422 payload: every violating field in one
// round-trip.
type ValidationErrorResponse struct {
	Code       string              `json:"code"`
	Message    string              `json:"message"`
	Violations []FieldViolationDTO `json:"violations"`
}

type NumberSettingsDTO struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

type FieldDTO struct {
	FieldID       string              `json:"id"`
	Type          string              `json:"type"`
	Label         map[string]string   `json:"label"`
	Placeholder   map[string]string   `json:"placeholder,omitempty"`
	Required      bool                `json:"required"`
	Options       []map[string]string `json:"options,omitempty"`
	AcceptedTypes []string            `json:"accepted_types,omitempty"`
	MaxSizeBytes  int64               `json:"max_size_bytes,omitempty"`
	Settings      *NumberSettingsDTO  `json:"settings,omitempty"`
}

type LinkedEntityDTO struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type CampaignViewDTO struct {
	CampaignID    string            `json:"campaign_id"`
	Title         map[string]string `json:"title"`
	Description   map[string]string `json:"description,omitempty"`
	Role          string            `json:"role"`
	LinkedEntity  LinkedEntityDTO   `json:"linked_entity"`
	Fields        []FieldDTO        `json:"fields"`
	StartDate     string            `json:"start_date"`
	EndDate       string            `json:"end_date"`
	ResponseLimit *int              `json:"response_limit,omitempty"`
	Status        string            `json:"status"`
	DynamicStatus string            `json:"dynamic_status"`
	DaysLeft      int               `json:"days_left"`
	ResponseCount int               `json:"response_count"`
	SpotsLeft     *int              `json:"spots_left,omitempty"`
	CreatedAt     string            `json:"created_at"`
	UpdatedAt     string            `json:"updated_at"`
}

type ListCampaignsResponse struct {
	Items []CampaignViewDTO `json:"items"`
}

type GetCampaignResponse struct {
	Campaign CampaignViewDTO `json:"campaign"`
}

type AnswerInputDTO struct {
	FieldID string   `json:"field_id"`
	Value   string   `json:"value,omitempty"`
	Values  []string `json:"values,omitempty"`
}

// AttachmentInputDTO carries an inline upload; Data is base64 on the wire.
type AttachmentInputDTO struct {
	FieldID     string `json:"field_id"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

type SubmitResponseRequest struct {
	Answers     []AnswerInputDTO     `json:"answers"`
	Attachments []AttachmentInputDTO `json:"attachments,omitempty"`
}

type AnswerDTO struct {
	FieldID string   `json:"field_id"`
	Value   string   `json:"value,omitempty"`
	Values  []string `json:"values,omitempty"`
}

type AttachmentDTO struct {
	FieldID      string `json:"field_id"`
	OriginalName string `json:"original_name"`
	StorageName  string `json:"storage_name"`
	SizeBytes    int64  `json:"size_bytes"`
	ContentType  string `json:"content_type"`
}

type ResponseDTO struct {
	ResponseID  string          `json:"response_id"`
	CampaignID  string          `json:"campaign_id"`
	SubmittedAt string          `json:"submitted_at"`
	UserID      string          `json:"user_id"`
	UserEmail   string          `json:"user_email"`
	UserName    string          `json:"user_name"`
	Answers     []AnswerDTO     `json:"answers"`
	Attachments []AttachmentDTO `json:"attachments,omitempty"`
	Status      string          `json:"status"`
	ReviewedAt  string          `json:"reviewed_at,omitempty"`
	ReviewedBy  string          `json:"reviewed_by,omitempty"`
	Rating      int             `json:"rating,omitempty"`
	Tags        []string        `json:"tags"`
	Notes       string          `json:"notes,omitempty"`
}

type SubmitResponseResponse struct {
	Response ResponseDTO `json:"response"`
}

type GetResponseResponse struct {
	Response ResponseDTO `json:"response"`
}

type ListResponsesResponse struct {
	Items []ResponseDTO `json:"items"`
}

type SetStatusRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

type SetRatingRequest struct {
	Rating int `json:"rating"`
}

type AddTagRequest struct {
	Tag string `json:"tag"`
}

type BulkSetStatusRequest struct {
	ResponseIDs []string `json:"response_ids"`
	Status      string   `json:"status"`
}

type BulkSetStatusResponse struct {
	Updated  []string `json:"updated"`
	NotFound []string `json:"not_found"`
}

type StatusBreakdownResponse struct {
	CampaignID string `json:"campaign_id"`
	Total      int    `json:"total"`
	Pending    int    `json:"pending"`
	Approved   int    `json:"approved"`
	Rejected   int    `json:"rejected"`
}

type AnalyticsFieldDTO struct {
	FieldID string            `json:"field_id"`
	Type    string            `json:"type"`
	Label   map[string]string `json:"label"`
}

type AnalyticsFieldsResponse struct {
	Items []AnalyticsFieldDTO `json:"items"`
}

type HistogramBucketDTO struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type FieldHistogramResponse struct {
	FieldID    string               `json:"field_id"`
	Answered   int                  `json:"answered"`
	OutOfRange int                  `json:"out_of_range"`
	Buckets    []HistogramBucketDTO `json:"buckets"`
}
