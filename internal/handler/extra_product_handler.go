package handler

import (
	"go-signshop-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ExtraProductHandler struct {
	service service.ExtraProductService
}

func NewExtraProductHandler(s service.ExtraProductService) *ExtraProductHandler {
	return &ExtraProductHandler{service: s}
}

func (h *ExtraProductHandler) GetExtraProducts(c *fiber.Ctx) error {
	extras, err := h.service.List(c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(extras)
}

func (h *ExtraProductHandler) GetExtraProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}
	extra, err := h.service.Get(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(extra)
}

func (h *ExtraProductHandler) CreateExtraProduct(c *fiber.Ctx) error {
	var req service.ExtraProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	extra, err := h.service.Create(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(extra)
}

func (h *ExtraProductHandler) UpdateExtraProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}
	var req service.ExtraProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	extra, err := h.service.Update(id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(extra)
}

func (h *ExtraProductHandler) DeleteExtraProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}
	if err := h.service.Delete(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Extra product deleted"})
}
