package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	batchController "lembagaku_backend/internals/features/lembaga/batches/controller"
)

func BatchAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := batchController.NewBatchController(db)

	batches := admin.Group("/batches")
	batches.Post("/", ctrl.Create)
	batches.Get("/", ctrl.List)
	batches.Get("/:id", ctrl.GetByID)
	batches.Put("/:id", ctrl.Update)
	batches.Delete("/:id", ctrl.Delete)
	batches.Get("/:id/members", ctrl.Members)
}
