package handler

import (
	"go-signshop-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// filter reads startDate/endDate plus the report's own search parameter
func filter(c *fiber.Ctx, searchParam string) service.ReportFilter {
	f := service.ReportFilter{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}
	if searchParam != "" {
		f.Search = c.Query(searchParam)
	}
	return f
}

func (h *ReportHandler) GetProductsReport(c *fiber.Ctx) error {
	report, err := h.service.Products(filter(c, "productName"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) GetProductReport(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}
	report, err := h.service.Product(id, filter(c, ""))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) GetExtraProductsReport(c *fiber.Ctx) error {
	report, err := h.service.ExtraProducts(filter(c, "name"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) GetExtraProductReport(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}
	report, err := h.service.ExtraProduct(id, filter(c, ""))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) GetCustomersReport(c *fiber.Ctx) error {
	report, err := h.service.Customers(filter(c, "customerName"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) GetCustomerReport(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}
	report, err := h.service.Customer(id, filter(c, ""))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) GetInvoicesReport(c *fiber.Ctx) error {
	f := filter(c, "customerName")
	f.DefaultPriceID = c.Query("defaultPriceId")
	report, err := h.service.Invoices(f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

func (h *ReportHandler) GetInvoiceReport(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return invalidID(c)
	}
	invoice, err := h.service.Invoice(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}
