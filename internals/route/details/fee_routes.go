package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	feeController "lembagaku_backend/internals/features/payment/fees/controller"
)

func FeeUserRoutes(user fiber.Router, db *gorm.DB) {
	ctrl := feeController.NewUserFeeBillController(db)

	fees := user.Group("/fees")
	fees.Get("/", ctrl.MyBills)
	fees.Post("/:id/pay", ctrl.Pay)
}

func FeeAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := feeController.NewFeeBillingController(db)

	fees := admin.Group("/fees")
	fees.Post("/", ctrl.Create)
	fees.Get("/", ctrl.List)
	fees.Get("/:id", ctrl.GetByID)
	fees.Delete("/:id", ctrl.Delete)
}
