package models

import "time"

// AnalyticsSnapshot is computed on demand for the admin dashboard.
type AnalyticsSnapshot struct {
	TotalUsers        int64     `json:"totalUsers"`
	TotalProperties   int64     `json:"totalProperties"` // active only
	SoldProperties    int64     `json:"soldProperties"`
	PendingProperties int64     `json:"pendingProperties"`
	TotalInquiries    int64     `json:"totalInquiries"`
	PendingInquiries  int64     `json:"pendingInquiries"`
	RecentUsers       int64     `json:"recentUsers"` // created in the last 30 days
	GeneratedAt       time.Time `json:"generatedAt"`
}
