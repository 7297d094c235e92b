package dto

import (
	"github.com/anagroupsupplies/shop/model"
	"github.com/anagroupsupplies/shop/utils"
)

// DashboardStatsResponse pairs the store counters with a system health
// sample for the admin dashboard.
type DashboardStatsResponse struct {
	Stats  model.StatsSnapshot `json:"stats"`
	System utils.SystemHealth  `json:"system"`
}

type AssistantRequest struct {
	Prompt string `json:"prompt"`
}

type AssistantResponse struct {
	Response string `json:"response"`
}
