package controller

import (
	"errors"
	"strconv"

	"paarth-be/internal/dto"
	"paarth-be/internal/pkg/serverutils"
	"paarth-be/internal/service"
	"paarth-be/pkg/knowledge"

	"github.com/gofiber/fiber/v2"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	GetVerses(ctx *fiber.Ctx) error
	AddVerse(ctx *fiber.Ctx) error
	GetRandomVerse(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	AdvancedSearch(ctx *fiber.Ctx) error
	Ask(ctx *fiber.Ctx) error
	GetStats(ctx *fiber.Ctx) error
	GetSessions(ctx *fiber.Ctx) error
}

type assistantController struct {
	service service.IAssistantService
}

func NewAssistantController(service service.IAssistantService) IAssistantController {
	return &assistantController{service: service}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/paarth")
	h.Get("/verses", c.GetVerses)
	h.Post("/verses", c.AddVerse)
	h.Get("/verses/random", c.GetRandomVerse)
	h.Post("/search", c.Search)
	h.Post("/advanced-search", c.AdvancedSearch)
	h.Post("/ask", c.Ask)
	h.Get("/stats", c.GetStats)
	h.Get("/sessions", c.GetSessions)
}

func (c *assistantController) GetVerses(ctx *fiber.Ctx) error {
	var chapter *int
	if raw := ctx.Query("chapter"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 || value > 18 {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid chapter"))
		}
		chapter = &value
	}
	limit := ctx.QueryInt("limit", 0)

	verses := c.service.Verses(chapter, limit)
	return ctx.JSON(serverutils.SuccessResponse("Verses", verses))
}

func (c *assistantController) AddVerse(ctx *fiber.Ctx) error {
	var req dto.AddVerseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	verse, err := c.service.AddVerse(ctx.Context(), &req)
	if err != nil {
		if errors.Is(err, knowledge.ErrDuplicateVerse) || errors.Is(err, knowledge.ErrMissingField) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Verse added", verse))
}

func (c *assistantController) GetRandomVerse(ctx *fiber.Ctx) error {
	verse, err := c.service.RandomVerse()
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Random verse", verse))
}

func (c *assistantController) Search(ctx *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	results := c.service.Search(ctx.Context(), &req)
	return ctx.JSON(serverutils.SuccessResponse("Search results", results))
}

func (c *assistantController) AdvancedSearch(ctx *fiber.Ctx) error {
	var req dto.AdvancedSearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	results := c.service.AdvancedSearch(ctx.Context(), &req)
	return ctx.JSON(serverutils.SuccessResponse("Search results", results))
}

func (c *assistantController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	result, err := c.service.Ask(ctx.Context(), &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Answer", result))
}

func (c *assistantController) GetStats(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Stats", c.service.Stats()))
}

func (c *assistantController) GetSessions(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Active sessions", c.service.Sessions()))
}
