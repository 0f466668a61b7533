package chat

import (
	"net/http"

	apphttp "bloodconnect_backend/internal/http"
	"bloodconnect_backend/platform/httpkit"
	"bloodconnect_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	Message string `json:"message" binding:"required,min=1,max=500"`
}

// Module serves the FAQ chat endpoint.
type Module struct {
	rules *RuleSet
	log   *logger.Logger
}

// NewModule creates the chat module with rules loaded from rulesPath,
// falling back to the embedded defaults when rulesPath is empty.
func NewModule(rulesPath string, log *logger.Logger) (*Module, error) {
	rules, err := LoadRules(rulesPath)
	if err != nil {
		return nil, err
	}
	log.Info("chat rules loaded", "rules", len(rules.Rules), "source", sourceName(rulesPath))
	return &Module{rules: rules, log: log}, nil
}

func sourceName(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "chat"
}

// RegisterRoutes mounts the chat endpoint. It is public so visitors can
// ask questions before signing up.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/chat", m.ask)
}

func (m *Module) ask(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "message is required", nil)
		return
	}

	reply, matched := m.rules.Reply(req.Message)
	httpkit.OK(c, gin.H{"reply": reply, "topic": matched})
}

var _ apphttp.Module = (*Module)(nil)
