package handlers

import (
	"github.com/gofiber/fiber/v2"

	"fbay/internal/middleware"
	"fbay/internal/services"
)

// QueryHandler handles HTTP requests for item queries.
type QueryHandler struct {
	service *services.QueryService
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(service *services.QueryService) *QueryHandler {
	return &QueryHandler{
		service: service,
	}
}

// RegisterRoutes registers the query routes with the Fiber app.
func (h *QueryHandler) RegisterRoutes(router fiber.Router, guards Guards) {
	queryRoutes := router.Group("/items/:id/queries", guards.Required)
	queryRoutes.Get("/", h.HandleListQueries)
	queryRoutes.Post("/", h.HandleAskQuestion)
	queryRoutes.Get("/:qid", h.HandleGetQuery)
	queryRoutes.Put("/:qid", h.HandleEditQuestion)
	queryRoutes.Put("/:qid/answer", h.HandleAnswerQuery)
}

// HandleListQueries lists the queries of an item.
func (h *QueryHandler) HandleListQueries(c *fiber.Ctx) error {
	queries, err := h.service.ListQueries(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "Could not retrieve item queries", err)
	}
	return respondOK(c, fiber.StatusOK, newQueryViews(queries))
}

// HandleGetQuery retrieves one query of an item.
func (h *QueryHandler) HandleGetQuery(c *fiber.Ctx) error {
	query, err := h.service.GetQuery(c.UserContext(), c.Params("id"), c.Params("qid"))
	if err != nil {
		return respondError(c, "Could not retrieve the query", err)
	}
	return respondOK(c, fiber.StatusOK, newQueryView(query))
}

// HandleAskQuestion posts the caller's question on an item.
func (h *QueryHandler) HandleAskQuestion(c *fiber.Ctx) error {
	var input services.QuestionInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, err)
	}
	query, err := h.service.AskQuestion(c.UserContext(), c.Params("id"), middleware.UserID(c), input)
	if err != nil {
		return respondError(c, "Failed to create an item query", err)
	}
	return respondOK(c, fiber.StatusCreated, newQueryView(query))
}

// HandleEditQuestion edits the caller's own question.
func (h *QueryHandler) HandleEditQuestion(c *fiber.Ctx) error {
	var input services.QuestionInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, err)
	}
	query, err := h.service.EditQuestion(c.UserContext(), c.Params("id"), c.Params("qid"), middleware.UserID(c), input)
	if err != nil {
		return respondError(c, "Failed to update the query", err)
	}
	return respondOK(c, fiber.StatusOK, newQueryView(query))
}

// HandleAnswerQuery answers a query on the caller's item.
func (h *QueryHandler) HandleAnswerQuery(c *fiber.Ctx) error {
	var input services.AnswerInput
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, err)
	}
	query, err := h.service.AnswerQuery(c.UserContext(), c.Params("id"), c.Params("qid"), middleware.UserID(c), input)
	if err != nil {
		return respondError(c, "Failed to answer the query", err)
	}
	return respondOK(c, fiber.StatusOK, newQueryView(query))
}
