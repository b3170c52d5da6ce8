package domain

// ============================================================
// Reports: computed from cached collections
// ============================================================

// Sentiment buckets ratings: positive >= 4, neutral == 3, negative <= 2.
type Sentiment struct {
	Positive        int     `json:"positive"`
	Neutral         int     `json:"neutral"`
	Negative        int     `json:"negative"`
	PositivePercent float64 `json:"positivePercent"`
	NeutralPercent  float64 `json:"neutralPercent"`
	NegativePercent float64 `json:"negativePercent"`
}

// ReportOverview is returned by GET /v1/reports/overview.
type ReportOverview struct {
	TotalFeedbacks  int       `json:"totalFeedbacks"`
	AverageRating   float64   `json:"averageRating"`
	ActiveCustomers int       `json:"activeCustomers"`
	ActiveProducts  int       `json:"activeProducts"`
	ActiveCampaigns int       `json:"activeCampaigns"`
	ResponseRate    float64   `json:"responseRate"`
	Sentiment       Sentiment `json:"sentiment"`
}

// RatingBucket is one bar of the rating distribution.
type RatingBucket struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

// CategoryCount is the number of feedbacks of one category.
type CategoryCount struct {
	Category FeedbackCategory `json:"category"`
	Label    string           `json:"label"`
	Count    int              `json:"count"`
}

// TrendPoint aggregates feedback of one month (YYYY-MM).
type TrendPoint struct {
	Month         string  `json:"month"`
	Count         int     `json:"count"`
	AverageRating float64 `json:"averageRating"`
}

// ProductScore ranks a product by its feedback.
type ProductScore struct {
	ProductID     string  `json:"productId"`
	ProductName   string  `json:"productName"`
	AverageRating float64 `json:"averageRating"`
	Count         int     `json:"count"`
}

// FormResponses counts submissions per form.
type FormResponses struct {
	FormID    string `json:"formId"`
	FormTitle string `json:"formTitle"`
	Responses int    `json:"responses"`
}
