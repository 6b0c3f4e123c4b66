package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hussainashraf/sales-analytics-ai-application/pipeline"
	"github.com/hussainashraf/sales-analytics-ai-application/service"
)

// @title           Sales Analytics API
// @version         1.0
// @description     AI-powered sales data query API - ask questions in natural language, get SQL-backed answers, charts, and document comparisons

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:9090
// @BasePath  /

// @schemes   http https

type Handlers struct {
	pipeline   *pipeline.Pipeline
	sqlService *service.PostgresService
}

func New(p *pipeline.Pipeline, sqlService *service.PostgresService) *Handlers {
	return &Handlers{
		pipeline:   p,
		sqlService: sqlService,
	}
}

// RootHandler describes the API
// @Summary      API descriptor
// @Description  Returns a short message and the available endpoints
// @Tags         Meta
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       / [get]
func (h *Handlers) RootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "Sales Analytics API is running",
		"endpoints": []string{"/chat", "/health", "/swagger/index.html"},
	})
}
