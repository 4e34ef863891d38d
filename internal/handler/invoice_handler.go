package handler

import (
	"go-signshop-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type InvoiceHandler struct {
	service service.InvoiceService
}

func NewInvoiceHandler(s service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: s}
}

func (h *InvoiceHandler) CreateInvoice(c *fiber.Ctx) error {
	var req service.InvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	invoice, err := h.service.Create(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// PreviewInvoice prices a draft invoice without saving it
func (h *InvoiceHandler) PreviewInvoice(c *fiber.Ctx) error {
	var req service.InvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	invoice, err := h.service.Preview(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

func (h *InvoiceHandler) GetInvoice(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}
	invoice, err := h.service.Get(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}
