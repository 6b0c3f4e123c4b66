package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hussainashraf/sales-analytics-ai-application/models"
)

// ChatHandler answers natural-language questions about sales data
// @Summary      Ask a question about the sales data
// @Description  Routes to SQL analysis (sales data) or document analysis (PO/PI comparison). With stream=true the response is a server-sent event stream of pipeline events; otherwise one aggregated JSON object. Pipeline failures are reported in the body with status "error", never as a non-2xx status.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body      models.ChatRequest  true  "Chat request"
// @Success      200      {object}  models.ChatResponse "Aggregated answer (non-streaming)"
// @Failure      400      {object}  map[string]string   "Invalid request"
// @Router       /chat [post]
func (h *Handlers) ChatHandler(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	log.Printf("[CHAT] Question: %q (stream=%v, document_mode=%v)", req.Question, req.Stream, req.DocumentMode)

	if req.Stream {
		h.streamChat(c, req)
		return
	}

	ctx := c.Request.Context()
	if req.DocumentMode {
		resp, err := h.pipeline.RunDocumentsSync(ctx, req.Question)
		if err != nil {
			log.Printf("[CHAT] Document analysis failed: %v", err)
			c.JSON(http.StatusOK, models.ErrorResponse{Question: req.Question, Error: err.Error(), Status: "error"})
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	resp, err := h.pipeline.RunQuerySync(ctx, req.Question)
	if err != nil {
		log.Printf("[CHAT] Query pipeline failed: %v", err)
		c.JSON(http.StatusOK, models.ErrorResponse{Question: req.Question, Error: err.Error(), Status: "error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// streamChat writes pipeline events as server-sent events. The
// request context is cancelled when the client disconnects, which
// stops the pipeline.
func (h *Handlers) streamChat(c *gin.Context, req models.ChatRequest) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	events := h.pipeline.Run(c.Request.Context(), req)

	c.Stream(func(w io.Writer) bool {
		event, ok := <-events
		if !ok {
			return false
		}
		data, err := json.Marshal(event)
		if err != nil {
			// Serialization failure is fatal to the stream.
			log.Printf("[CHAT] Failed to encode event: %v", err)
			fmt.Fprintf(w, "data: {\"type\":\"error\",\"error\":\"event encoding failed\"}\n\n")
			return false
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		return true
	})
}
