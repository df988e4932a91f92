package controllers

import (
	"pathtracker/backend/middleware"
	"pathtracker/backend/services"
	"pathtracker/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DashboardController struct {
	Users *services.UserService
	Paths *services.PathService
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{
		Users: services.NewUserService(db),
		Paths: services.NewPathService(db),
	}
}

// GetProgressOverview returns the average stored progress across the
// user's paths with completed / in-progress / not-started counts.
func (dc *DashboardController) GetProgressOverview(c *fiber.Ctx) error {
	user, err := dc.Users.Ensure(middleware.IdentityFromCtx(c))
	if err != nil {
		return utils.ServiceError(c, err)
	}

	overview, err := dc.Paths.Overview(user)
	if err != nil {
		return utils.ServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, overview)
}

// GetRecentActivity returns the ten newest notes as feed entries.
func (dc *DashboardController) GetRecentActivity(c *fiber.Ctx) error {
	user, err := dc.Users.Ensure(middleware.IdentityFromCtx(c))
	if err != nil {
		return utils.ServiceError(c, err)
	}

	activity, err := dc.Paths.RecentActivity(user)
	if err != nil {
		return utils.ServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, activity)
}
