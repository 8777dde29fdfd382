// Package boundary is the HTTP surface (C7) over the agentic core: a thin
// Fiber controller per endpoint group, translating query parameters and
// JSON bodies into calls against the Orchestrator and the read-side
// components it wraps (RegisterRoutes(fiber.Router), *fiber.Ctx handlers,
// ctx.Query/ctx.Status(...).JSON(...)).
package boundary

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/LightnXd/Zus-Chatbot-Backend/agent/domain"
)

const defaultProductTopK = 5

type chatRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Response        string          `json:"response"`
	SessionID       string          `json:"session_id"`
	PlanningInfo    domain.Decision `json:"planning_info"`
	CalculationInfo *domain.CalcResult `json:"calculation_result,omitempty"`
	ProductCount    int             `json:"product_count,omitempty"`
	OutletCount     int             `json:"outlet_count,omitempty"`
}

// handleChat is POST /api/chat.
func (s *Server) handleChat(ctx *fiber.Ctx) error {
	var req chatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(errResp(fiber.StatusBadRequest, "malformed request body"))
	}
	if strings.TrimSpace(req.Question) == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(errResp(fiber.StatusBadRequest, "question is required"))
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = newSessionID()
	}

	resp, err := s.orch.Handle(ctx.Context(), domain.Question{Text: req.Question, SessionID: sessionID})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(errResp(fiber.StatusInternalServerError, err.Error()))
	}

	return ctx.JSON(chatResponse{
		Response:        resp.Response,
		SessionID:       resp.SessionID,
		PlanningInfo:    resp.Decision,
		CalculationInfo: resp.Calculation,
		ProductCount:    resp.ProductCount,
		OutletCount:     resp.OutletCount,
	})
}

// handleProducts is GET /products?query=...&k=...
func (s *Server) handleProducts(ctx *fiber.Ctx) error {
	query := ctx.Query("query", "")
	if query == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(errResp(fiber.StatusBadRequest, "query parameter is required"))
	}
	k := defaultProductTopK
	if raw := ctx.Query("k", ""); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			k = parsed
		}
	}

	results, err := s.products.Search(ctx.Context(), query, k)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(errResp(fiber.StatusInternalServerError, err.Error()))
	}
	return ctx.JSON(fiber.Map{"results": results})
}

// handleOutlets is GET /outlets?query=...
func (s *Server) handleOutlets(ctx *fiber.Ctx) error {
	query := ctx.Query("query", "")
	if query == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(errResp(fiber.StatusBadRequest, "query parameter is required"))
	}

	answer := s.outlets.Answer(ctx.Context(), query)
	return ctx.JSON(fiber.Map{
		"kind":  answer.Kind,
		"rows":  answer.Rows,
		"count": answer.Count,
		"text":  answer.FormattedText,
		"sql":   answer.SQL,
	})
}

// handleCalculate is GET /calculate?expression=... OR GET /calculate?text=...
func (s *Server) handleCalculate(ctx *fiber.Ctx) error {
	if text := ctx.Query("text", ""); text != "" {
		return ctx.JSON(s.calc.ParseAndCalculate(text))
	}
	expression := ctx.Query("expression", "")
	if expression == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(errResp(fiber.StatusBadRequest, "expression or text parameter is required"))
	}
	return ctx.JSON(s.calc.Calculate(expression))
}

// handleHealth is GET /health.
func (s *Server) handleHealth(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"status":       "ok",
		"catalog_empty": s.products.Len() == 0,
	})
}

// handleStats is GET /api/stats.
func (s *Server) handleStats(ctx *fiber.Ctx) error {
	outletCount := 0
	if answer := s.outlets.Answer(ctx.Context(), "how many outlets are there in total"); answer.Kind == domain.OutletKindCount {
		outletCount = answer.Count
	}

	return ctx.JSON(fiber.Map{
		"catalog_size":  s.products.Len(),
		"outlet_count":  outletCount,
		"session_count": s.sessions.Len(),
	})
}
