package dto

import "time"

// StatusCounts is the dashboard tally.
type StatusCounts struct {
	Total          int `json:"total"`
	Pending        int `json:"pending"`
	InProgress     int `json:"in_progress"`
	Resolved       int `json:"resolved"`
	Closed         int `json:"closed"`
	ResolutionRate int `json:"resolution_rate"`
}

// DashboardStatsResponse is the staff dashboard snapshot.
type DashboardStatsResponse struct {
	StatusCounts
	StaffCount int `json:"staff_count"`
}

// DailyPoint is one day of the reported/resolved series.
type DailyPoint struct {
	Date     string `json:"date"`
	Reported int    `json:"reported"`
	Resolved int    `json:"resolved"`
}

// StaffPerformance is one row of the staff table.
type StaffPerformance struct {
	StaffID  string `json:"staff_id"`
	Name     string `json:"name"`
	Total    int    `json:"total"`
	Resolved int    `json:"resolved"`
	Rate     int    `json:"rate"`
}

// AnalyticsResponse is the analytics page payload.
type AnalyticsResponse struct {
	Period            string             `json:"period"`
	From              time.Time          `json:"from"`
	To                time.Time          `json:"to"`
	Reported          int                `json:"total_reported"`
	Resolved          int                `json:"total_resolved"`
	ResolutionRate    int                `json:"resolution_rate"`
	AvgResolutionDays float64            `json:"avg_resolution_days"`
	ByStatus          map[string]int     `json:"by_status"`
	ByCategory        map[string]int     `json:"by_category"`
	ByPriority        map[string]int     `json:"by_priority"`
	Daily             []DailyPoint       `json:"daily"`
	Staff             []StaffPerformance `json:"staff_performance"`
}
