package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/anagroupsupplies/shop/config"
	"github.com/anagroupsupplies/shop/dto"
	"github.com/anagroupsupplies/shop/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
)

// AssistantHandler proxies shopping-assistant prompts to the upstream
// generation API. It holds no state across calls.
type AssistantHandler struct {
	client      *resty.Client
	upstreamURL string
}

func NewAssistantHandler(cfg config.AssistantConfig) *AssistantHandler {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}

	return &AssistantHandler{
		client:      client,
		upstreamURL: cfg.UpstreamURL,
	}
}

func (h *AssistantHandler) HandlePrompt(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		utils.MethodNotAllowed(c, "Only POST is supported")
		return
	}

	var req dto.AssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		utils.BadRequest(c, "Missing prompt")
		return
	}

	var upstream dto.AssistantResponse
	resp, err := h.client.R().
		SetContext(c.Request.Context()).
		SetBody(dto.AssistantRequest{Prompt: req.Prompt}).
		SetResult(&upstream).
		Post(h.upstreamURL)
	if err != nil {
		log.Printf("Assistant upstream call failed: %v", err)
		utils.InternalError(c, "Assistant is unavailable")
		return
	}
	if resp.IsError() {
		log.Printf("Assistant upstream returned %d: %s", resp.StatusCode(), resp.String())
		utils.InternalError(c, "Assistant is unavailable")
		return
	}

	c.JSON(http.StatusOK, dto.AssistantResponse{Response: upstream.Response})
}
