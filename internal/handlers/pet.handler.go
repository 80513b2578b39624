package handlers

import (
	"petshop/internal/app"
	petController "petshop/internal/controllers/pets"
	"petshop/internal/handlers/middleware"

	"github.com/gofiber/fiber/v2"
)

type PetHandler struct {
	Handler
	petController petController.PetControllerInterface
}

func NewPetHandler(app *app.App, router fiber.Router) *PetHandler {
	return &PetHandler{
		Handler:       newHandler(app, router, "pet_handler"),
		petController: app.Controllers.Pet,
	}
}

func (h *PetHandler) Register() {
	pets := h.router.Group("/pets")
	pets.Get("", h.listPets)
	pets.Get("/:id", h.getPet)
	pets.Post("", h.createPet)
}

func (h *PetHandler) listPets(c *fiber.Ctx) error {
	page, err := h.petController.ListPets(
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

func (h *PetHandler) getPet(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	pet, err := h.petController.GetPet(c.UserContext(), middleware.GetActor(c), id)
	if err != nil {
		return err
	}

	return c.JSON(pet)
}

func (h *PetHandler) createPet(c *fiber.Ctx) error {
	var request petController.CreatePetRequest
	if err := c.BodyParser(&request); err != nil {
		return badRequest("invalid request body")
	}

	pet, err := h.petController.CreatePet(c.UserContext(), middleware.GetActor(c), request)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(pet)
}
