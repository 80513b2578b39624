package handlers

import (
	"petshop/internal/app"
	jobController "petshop/internal/controllers/jobs"
	"petshop/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
)

type JobHandler struct {
	Handler
	jobController jobController.JobControllerInterface
}

func NewJobHandler(app *app.App, router fiber.Router) *JobHandler {
	return &JobHandler{
		Handler:       newHandler(app, router, "job_handler"),
		jobController: app.Controllers.Job,
	}
}

func (h *JobHandler) Register() {
	jobs := h.router.Group("/jobs")
	jobs.Get("", h.listJobs)
	jobs.Get("/options", h.options)
	jobs.Get("/:id", h.getJob)
	jobs.Post("", h.createJob)
	jobs.Patch("/:id", h.updateJob)
}

func (h *JobHandler) listJobs(c *fiber.Ctx) error {
	page, err := h.jobController.ListJobs(
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

func (h *JobHandler) options(c *fiber.Ctx) error {
	options, err := h.jobController.Options(
		c.UserContext(),
		middleware.GetActor(c),
		c.QueryInt("customer", 0),
		c.Query("search"),
	)
	if err != nil {
		return err
	}

	return c.JSON(options)
}

func (h *JobHandler) getJob(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	job, err := h.jobController.GetJob(c.UserContext(), middleware.GetActor(c), id)
	if err != nil {
		return err
	}

	return c.JSON(job)
}

func (h *JobHandler) createJob(c *fiber.Ctx) error {
	var request jobController.CreateJobRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest("invalid request body")
	}

	job, err := h.jobController.CreateJob(c.UserContext(), middleware.GetActor(c), request)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(job)
}

func (h *JobHandler) updateJob(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	var request jobController.UpdateJobRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest("invalid request body")
	}

	job, err := h.jobController.UpdateJob(c.UserContext(), middleware.GetActor(c), id, request)
	if err != nil {
		return err
	}

	return c.JSON(job)
}
