package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"layersense/internal/interfaces/http/dto"
)

// Info 返回服务名称
func Info(c *gin.Context) {
	c.JSON(http.StatusOK, dto.InfoResponse{AppName: dto.AppName})
}
