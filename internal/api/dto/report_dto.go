package dto

// ReportSummary counts exported issues by status.
type ReportSummary struct {
	Total      int `json:"total"`
	Resolved   int `json:"resolved"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
}

// ReportResponse is the JSON export body.
type ReportResponse struct {
	Title   string          `json:"title"`
	Period  string          `json:"period"`
	Issues  []IssueResponse `json:"issues"`
	Summary ReportSummary   `json:"summary"`
}
