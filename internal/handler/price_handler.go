package handler

import (
	"go-signshop-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PriceHandler struct {
	service service.PriceService
}

func NewPriceHandler(s service.PriceService) *PriceHandler {
	return &PriceHandler{service: s}
}

func (h *PriceHandler) GetPrices(c *fiber.Ctx) error {
	prices, err := h.service.List(c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(prices)
}

func (h *PriceHandler) GetPrice(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}
	price, err := h.service.Get(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(price)
}

func (h *PriceHandler) CreatePrice(c *fiber.Ctx) error {
	var req service.PriceRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	price, err := h.service.Create(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(price)
}

func (h *PriceHandler) UpdatePrice(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}
	var req service.PriceRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	price, err := h.service.Update(id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(price)
}

func (h *PriceHandler) DeletePrice(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}
	if err := h.service.Delete(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Price deleted"})
}
