package handler

import (
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Price        *PriceHandler
	Customer     *CustomerHandler
	Product      *ProductHandler
	ExtraProduct *ExtraProductHandler
	Invoice      *InvoiceHandler
	Report       *ReportHandler
}

// Register mounts every REST route under api (normally /api).
func (h *Handlers) Register(api fiber.Router) {
	api.Get("/health", Health)

	// Price tiers
	api.Get("/prices", h.Price.GetPrices)
	api.Get("/prices/:id", h.Price.GetPrice)
	api.Post("/prices", h.Price.CreatePrice)
	api.Put("/prices/:id", h.Price.UpdatePrice)
	api.Delete("/prices/:id", h.Price.DeletePrice)

	// Customers
	api.Get("/customers", h.Customer.GetCustomers)
	api.Get("/customers/:id", h.Customer.GetCustomer)
	api.Post("/customers", h.Customer.CreateCustomer)
	api.Put("/customers/:id", h.Customer.UpdateCustomer)
	api.Delete("/customers/:id", h.Customer.DeleteCustomer)

	// Products
	api.Get("/products", h.Product.GetProducts)
	api.Get("/products/:id", h.Product.GetProduct)
	api.Post("/products", h.Product.CreateProduct)
	api.Put("/products/:id", h.Product.UpdateProduct)
	api.Delete("/products/:id", h.Product.DeleteProduct)

	// Extra products
	api.Get("/extraproducts", h.ExtraProduct.GetExtraProducts)
	api.Get("/extraproducts/:id", h.ExtraProduct.GetExtraProduct)
	api.Post("/extraproducts", h.ExtraProduct.CreateExtraProduct)
	api.Put("/extraproducts/:id", h.ExtraProduct.UpdateExtraProduct)
	api.Delete("/extraproducts/:id", h.ExtraProduct.DeleteExtraProduct)

	// Invoices (preview harus sebelum /:id)
	api.Post("/invoices/preview", h.Invoice.PreviewInvoice)
	api.Post("/invoices", h.Invoice.CreateInvoice)
	api.Get("/invoices/:id", h.Invoice.GetInvoice)

	// Reports
	reports := api.Group("/reports")
	reports.Get("/products", h.Report.GetProductsReport)
	reports.Get("/products/:id", h.Report.GetProductReport)
	reports.Get("/extraproducts", h.Report.GetExtraProductsReport)
	reports.Get("/extraproducts/:id", h.Report.GetExtraProductReport)
	reports.Get("/customers", h.Report.GetCustomersReport)
	reports.Get("/customers/:id", h.Report.GetCustomerReport)
	reports.Get("/invoices", h.Report.GetInvoicesReport)
	reports.Get("/invoices/:id", h.Report.GetInvoiceReport)
}
