package handler

import (
	"log"

	"github.com/anagroupsupplies/shop/dto"
	"github.com/anagroupsupplies/shop/usecase"
	"github.com/anagroupsupplies/shop/utils"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	aggregator *usecase.StatsAggregator
}

func NewStatsHandler(aggregator *usecase.StatsAggregator) *StatsHandler {
	return &StatsHandler{aggregator: aggregator}
}

// GetDashboardStats serves the admin dashboard counters. ?refresh=true
// bypasses the snapshot cache. A refresh failure still returns the last
// good snapshot, with the error in the side channel.
func (h *StatsHandler) GetDashboardStats(c *gin.Context) {
	forceRefresh := c.Query("refresh") == "true"

	snapshot, err := h.aggregator.GetStats(c.Request.Context(), forceRefresh)

	response := dto.DashboardStatsResponse{
		Stats:  snapshot,
		System: utils.GetSystemHealth(),
	}

	if err != nil {
		log.Printf("Stats refresh degraded, serving last good snapshot: %v", err)
		utils.SuccessWithWarning(c, response, "Stats are temporarily stale: "+err.Error())
		return
	}

	utils.Success(c, response)
}
