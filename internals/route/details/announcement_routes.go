package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	announcementController "lembagaku_backend/internals/features/utils/announcements/controller"
)

func AnnouncementUserRoutes(user fiber.Router, db *gorm.DB) {
	ctrl := announcementController.NewAnnouncementController(db)
	user.Get("/announcements", ctrl.ForMe)
}

func AnnouncementAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := announcementController.NewAnnouncementController(db)

	anns := admin.Group("/announcements")
	anns.Post("/", ctrl.Create)
	anns.Get("/", ctrl.List)
	anns.Put("/:id", ctrl.Update)
	anns.Delete("/:id", ctrl.Delete)
}
