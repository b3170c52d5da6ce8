package domain

import (
	"strings"
	"time"
)

// Campaign type and segment values known to the dashboard. Other values
// coming from the backend are kept verbatim.
const (
	CampaignPostPurchase = "POST_PURCHASE"
	SegmentAllCustomers  = "ALL_CUSTOMERS"
)

// Campaign schedules a feedback request message tied to a form.
type Campaign struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	CampaignType    string `json:"campaignType"`
	TargetSegment   string `json:"targetSegment"`
	StartDate       string `json:"startDate,omitempty"`
	EndDate         string `json:"endDate,omitempty"`
	MessageTemplate string `json:"messageTemplate"`
	FormID          string `json:"formId"`
	Active          bool   `json:"active"`
}

// Key returns the identity used by the resource cache.
func (c Campaign) Key() string { return c.ID }

// Ended reports whether the campaign end date is before now.
// Campaigns without a parseable end date never end.
func (c Campaign) Ended(now time.Time) bool {
	end, ok := ParseDate(c.EndDate)
	if !ok {
		return false
	}
	// Date-only values cover the whole day.
	if len(strings.TrimSpace(c.EndDate)) == len("2006-01-02") {
		end = end.Add(24 * time.Hour)
	}
	return now.After(end)
}

// NewCampaign is the body for creating a campaign. Campaigns are created
// paused unless Activate is set.
type NewCampaign struct {
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	CampaignType    string `json:"campaignType,omitempty"`
	TargetSegment   string `json:"targetSegment,omitempty"`
	StartDate       string `json:"startDate,omitempty"`
	EndDate         string `json:"endDate,omitempty"`
	MessageTemplate string `json:"messageTemplate"`
	FormID          string `json:"formId"`
	Activate        bool   `json:"activate,omitempty"`
}

// Validate checks the mandatory fields before any request is sent.
func (n NewCampaign) Validate() error {
	if strings.TrimSpace(n.Title) == "" || strings.TrimSpace(n.MessageTemplate) == "" || strings.TrimSpace(n.FormID) == "" {
		return &ErrValidation{Message: "Título, template e um formulário são obrigatórios."}
	}
	return nil
}

// WithDefaults fills the type and segment the dashboard preselects.
func (n NewCampaign) WithDefaults() NewCampaign {
	if n.CampaignType == "" {
		n.CampaignType = CampaignPostPurchase
	}
	if n.TargetSegment == "" {
		n.TargetSegment = SegmentAllCustomers
	}
	return n
}

// CampaignUpdate is the whitelisted payload accepted by the backend update.
type CampaignUpdate struct {
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	CampaignType    string `json:"campaignType"`
	TargetSegment   string `json:"targetSegment"`
	StartDate       string `json:"startDate,omitempty"`
	EndDate         string `json:"endDate,omitempty"`
	MessageTemplate string `json:"messageTemplate"`
	FormID          string `json:"formId"`
	Active          bool   `json:"active"`
}

// Validate checks the mandatory fields of an update.
func (u CampaignUpdate) Validate() error {
	if strings.TrimSpace(u.Title) == "" || strings.TrimSpace(u.MessageTemplate) == "" || strings.TrimSpace(u.FormID) == "" {
		return &ErrValidation{Message: "Título, template e um formulário são obrigatórios."}
	}
	return nil
}

// CampaignPatch is a partial campaign edit. Nil fields keep the current
// value of the cached campaign.
type CampaignPatch struct {
	Title           *string `json:"title,omitempty"`
	Description     *string `json:"description,omitempty"`
	CampaignType    *string `json:"campaignType,omitempty"`
	TargetSegment   *string `json:"targetSegment,omitempty"`
	StartDate       *string `json:"startDate,omitempty"`
	EndDate         *string `json:"endDate,omitempty"`
	MessageTemplate *string `json:"messageTemplate,omitempty"`
	FormID          *string `json:"formId,omitempty"`
	Active          *bool   `json:"active,omitempty"`
}

// Apply returns c with the fields set in p overwritten.
func (p CampaignPatch) Apply(c Campaign) Campaign {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&c.Title, p.Title)
	set(&c.Description, p.Description)
	set(&c.CampaignType, p.CampaignType)
	set(&c.TargetSegment, p.TargetSegment)
	set(&c.StartDate, p.StartDate)
	set(&c.EndDate, p.EndDate)
	set(&c.MessageTemplate, p.MessageTemplate)
	set(&c.FormID, p.FormID)
	if p.Active != nil {
		c.Active = *p.Active
	}
	return c
}

// UpdatePayload builds the whitelisted update from a full record.
func (c Campaign) UpdatePayload() CampaignUpdate {
	return CampaignUpdate{
		Title:           c.Title,
		Description:     c.Description,
		CampaignType:    c.CampaignType,
		TargetSegment:   c.TargetSegment,
		StartDate:       c.StartDate,
		EndDate:         c.EndDate,
		MessageTemplate: c.MessageTemplate,
		FormID:          c.FormID,
		Active:          c.Active,
	}
}

// ParseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
