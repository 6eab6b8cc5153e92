package handlers

import (
  "fmt"
  "net/http"
  "strings"

  "github.com/gin-gonic/gin"

  "github.com/listenbank/listenbank-backend/internal/pkg/logger"
  "github.com/listenbank/listenbank-backend/internal/services"
)

type AssemblyHandler struct {
  log             *logger.Logger
  assemblyService services.AssemblyService
}

func NewAssemblyHandler(log *logger.Logger, assemblyService services.AssemblyService) *AssemblyHandler {
  return &AssemblyHandler{
    log:             log.With("handler", "AssemblyHandler"),
    assemblyService: assemblyService,
  }
}

// GenerateResponse is the JSON contract of the assembly endpoint. Any
// failure still answers 200 with success=false, matching the frontend.
type GenerateResponse struct {
  Success  bool   `json:"success"`
  Filename string `json:"filename,omitempty"`
  Message  string `json:"message,omitempty"`
}

// POST /generate_audio
func (h *AssemblyHandler) GenerateAudio(c *gin.Context) {
  var req services.AssembleRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    c.JSON(http.StatusOK, GenerateResponse{Success: false, Message: fmt.Sprintf("generation failed: %v", err)})
    return
  }

  result, err := h.assemblyService.Assemble(c.Request.Context(), req)
  if err != nil {
    h.log.Error("Assembly failed", "error", err)
    c.JSON(http.StatusOK, GenerateResponse{Success: false, Message: fmt.Sprintf("generation failed: %v", err)})
    return
  }

  resp := GenerateResponse{Success: true, Filename: result.Filename}
  if len(result.MissingClips) > 0 {
    resp.Message = fmt.Sprintf("missing clips: %s", strings.Join(result.MissingClips, ", "))
  }
  c.JSON(http.StatusOK, resp)
}
