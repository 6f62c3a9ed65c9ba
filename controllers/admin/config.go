package adminController

import (
	"log"

	"rau/database"
	"rau/middleware"
	"rau/models"
	"rau/utils"

	"github.com/gofiber/fiber/v2"
)

// GetSystemConfig returns the org-wide settings singleton (Admin only).
func GetSystemConfig(c *fiber.Ctx) error {
	cfg, err := models.GetSystemConfig(database.Database.Db)
	if err != nil {
		log.Printf("Error loading system config: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load system configuration!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "System configuration fetched!", fiber.Map{
		"config": cfg,
	})
}

// UpdateSystemConfig applies partial updates to the settings singleton (Admin
// only). Disabling an appointment type stops future slot generation for it;
// existing slots are untouched.
func UpdateSystemConfig(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedUpdateSystemConfig").(*struct {
		ZoomEnabled       *bool   `json:"zoomEnabled"`
		InPersonEnabled   *bool   `json:"inPersonEnabled"`
		BufferTimeMinutes *int    `json:"bufferTimeMinutes"`
		CompanyName       *string `json:"companyName"`
		ReminderHours     *int    `json:"reminderHours"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	cfg, err := models.GetSystemConfig(db)
	if err != nil {
		log.Printf("Error loading system config: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load system configuration!", nil)
	}

	updates := make(map[string]interface{})
	if reqData.ZoomEnabled != nil {
		updates["zoom_enabled"] = *reqData.ZoomEnabled
	}
	if reqData.InPersonEnabled != nil {
		updates["in_person_enabled"] = *reqData.InPersonEnabled
	}
	if reqData.BufferTimeMinutes != nil {
		updates["buffer_time_minutes"] = *reqData.BufferTimeMinutes
	}
	if reqData.CompanyName != nil {
		updates["company_name"] = *reqData.CompanyName
	}
	if reqData.ReminderHours != nil {
		updates["reminder_hours"] = *reqData.ReminderHours
	}
	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
	}

	if err := db.Model(cfg).Updates(updates).Error; err != nil {
		log.Printf("Error updating system config: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update system configuration!", nil)
	}

	utils.CreateAuditLog(&userId, "config_updated", "system_config", cfg.ID, map[string]interface{}{
		"updates": updates,
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "System configuration updated!", fiber.Map{
		"config": cfg,
	})
}
