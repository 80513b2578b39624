package handlers

import (
	"petshop/internal/app"
	customerController "petshop/internal/controllers/customers"
	"petshop/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
)

type CustomerHandler struct {
	Handler
	customerController customerController.CustomerControllerInterface
}

func NewCustomerHandler(app *app.App, router fiber.Router) *CustomerHandler {
	return &CustomerHandler{
		Handler:            newHandler(app, router, "customer_handler"),
		customerController: app.Controllers.Customer,
	}
}

func (h *CustomerHandler) Register() {
	customers := h.router.Group("/customers", h.middleware.RequireStaff())
	customers.Get("", h.listCustomers)
	customers.Get("/:id", h.getCustomer)
	customers.Post("", h.createCustomer)
	customers.Put("/:id", h.updateCustomer)
}

func (h *CustomerHandler) listCustomers(c *fiber.Ctx) error {
	page, err := h.customerController.ListCustomers(
		c.UserContext(),
		middleware.GetActor(c),
		c.Query("search"),
		pageRequest(c),
	)
	if err != nil {
		return err
	}

	return c.JSON(page)
}

func (h *CustomerHandler) getCustomer(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	customer, err := h.customerController.GetCustomer(c.UserContext(), middleware.GetActor(c), id)
	if err != nil {
		return err
	}

	return c.JSON(customer)
}

func (h *CustomerHandler) createCustomer(c *fiber.Ctx) error {
	var request customerController.CustomerRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest("invalid request body")
	}

	customer, err := h.customerController.CreateCustomer(c.UserContext(), middleware.GetActor(c), request)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(customer)
}

func (h *CustomerHandler) updateCustomer(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var request customerController.CustomerRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest("invalid request body")
	}

	customer, err := h.customerController.UpdateCustomer(c.UserContext(), middleware.GetActor(c), id, request)
	if err != nil {
		return err
	}

	return c.JSON(customer)
}
