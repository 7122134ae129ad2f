package handler

import (
	"Cadence/internal/model"
	"Cadence/internal/pkg/response"
	"Cadence/internal/service"

	"github.com/gin-gonic/gin"
)

type ConfigHandler struct {
	configSvc service.ConfigService
}

func NewConfigHandler(configSvc service.ConfigService) *ConfigHandler {
	return &ConfigHandler{configSvc: configSvc}
}

// Get 读取当前领域配置
func (h *ConfigHandler) Get(c *gin.Context) {
	cfg, err := h.configSvc.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cfg)
}

// Update 整体覆盖领域配置
func (h *ConfigHandler) Update(c *gin.Context) {
	var cfg model.NicheConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		response.Error(c, err)
		return
	}

	updated, err := h.configSvc.Update(c.Request.Context(), &cfg)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, updated)
}
