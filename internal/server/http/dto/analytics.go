package dto

// OrderCountsResponse is the number of orders per status.
type OrderCountsResponse struct {
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
	Complete   int64 `json:"complete"`
	Declined   int64 `json:"declined"`
	Total      int64 `json:"total"`
}

// ProfitResponse renders amounts with two decimals.
type ProfitResponse struct {
	TotalProfit  string            `json:"totalProfit"`
	ProfitPerOrg map[string]string `json:"profitPerOrg"`
}
