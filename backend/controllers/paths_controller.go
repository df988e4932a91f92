package controllers

import (
	"pathtracker/backend/middleware"
	"pathtracker/backend/services"
	"pathtracker/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PathsController struct {
	Users *services.UserService
	Paths *services.PathService
}

func NewPathsController(db *gorm.DB) *PathsController {
	return &PathsController{
		Users: services.NewUserService(db),
		Paths: services.NewPathService(db),
	}
}

type CreatePathRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// CreatePath godoc
// @Summary Create a learning path
// @Tags learning-paths
// @Accept json
// @Produce json
// @Param input body CreatePathRequest true "Path data"
// @Success 201 {object} models.LearningPath
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /learning-paths [post]
func (pc *PathsController) CreatePath(c *fiber.Ctx) error {
	user, err := pc.Users.Ensure(middleware.IdentityFromCtx(c))
	if err != nil {
		return utils.ServiceError(c, err)
	}

	var input CreatePathRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	path, err := pc.Paths.Create(user, input.Title, input.Description)
	if err != nil {
		return utils.ServiceError(c, err)
	}
	return utils.Created(c, path)
}

// GetPaths returns the user's learning paths with modules and items nested,
// most recently updated first.
func (pc *PathsController) GetPaths(c *fiber.Ctx) error {
	user, err := pc.Users.Ensure(middleware.IdentityFromCtx(c))
	if err != nil {
		return utils.ServiceError(c, err)
	}

	paths, err := pc.Paths.List(user)
	if err != nil {
		return utils.ServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, paths)
}

func (pc *PathsController) GetPath(c *fiber.Ctx) error {
	user, err := pc.Users.Ensure(middleware.IdentityFromCtx(c))
	if err != nil {
		return utils.ServiceError(c, err)
	}

	path, err := pc.Paths.Get(user, c.Params("id"))
	if err != nil {
		return utils.ServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, path)
}

// DeletePath removes a path together with its modules, items and notes.
func (pc *PathsController) DeletePath(c *fiber.Ctx) error {
	user, err := pc.Users.Ensure(middleware.IdentityFromCtx(c))
	if err != nil {
		return utils.ServiceError(c, err)
	}

	if err := pc.Paths.Delete(user, c.Params("id")); err != nil {
		return utils.ServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, nil)
}

func (pc *PathsController) CreateModule(c *fiber.Ctx) error {
	user, err := pc.Users.Ensure(middleware.IdentityFromCtx(c))
	if err != nil {
		return utils.ServiceError(c, err)
	}

	var input services.ModuleInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	module, err := pc.Paths.CreateModule(user, c.Params("id"), input)
	if err != nil {
		return utils.ServiceError(c, err)
	}
	return utils.Created(c, module)
}

func (pc *PathsController) CreateItem(c *fiber.Ctx) error {
	user, err := pc.Users.Ensure(middleware.IdentityFromCtx(c))
	if err != nil {
		return utils.ServiceError(c, err)
	}

	var input services.ItemInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	item, err := pc.Paths.CreateItem(user, c.Params("id"), c.Params("moduleId"), input)
	if err != nil {
		return utils.ServiceError(c, err)
	}
	return utils.Created(c, item)
}
