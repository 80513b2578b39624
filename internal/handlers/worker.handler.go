package handlers

import (
	"petshop/internal/app"
	workerController "petshop/internal/controllers/workers"
	"petshop/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
)

type WorkerHandler struct {
	Handler
	workerController workerController.WorkerControllerInterface
}

func NewWorkerHandler(app *app.App, router fiber.Router) *WorkerHandler {
	return &WorkerHandler{
		Handler:          newHandler(app, router, "worker_handler"),
		workerController: app.Controllers.Worker,
	}
}

func (h *WorkerHandler) Register() {
	workers := h.router.Group("/workers", h.middleware.RequireAdmin())
	workers.Get("", h.listWorkers)
	workers.Post("", h.createWorker)
	workers.Put("/:id", h.updateWorker)
}

func (h *WorkerHandler) listWorkers(c *fiber.Ctx) error {
	page, err := h.workerController.ListWorkers(
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

func (h *WorkerHandler) createWorker(c *fiber.Ctx) error {
	var request workerController.CreateWorkerRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest("invalid request body")
	}

	worker, err := h.workerController.CreateWorker(c.UserContext(), middleware.GetActor(c), request)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(worker)
}

func (h *WorkerHandler) updateWorker(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var request workerController.UpdateWorkerRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest("invalid request body")
	}

	worker, err := h.workerController.UpdateWorker(c.UserContext(), middleware.GetActor(c), id, request)
	if err != nil {
		return err
	}

	return c.JSON(worker)
}
