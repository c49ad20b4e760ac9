package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userController "lembagaku_backend/internals/features/users/user/controller"
	helperOSS "lembagaku_backend/internals/helpers/oss"
)

func UserUserRoutes(user fiber.Router, db *gorm.DB, oss *helperOSS.OSSService) {
	ctrl := userController.NewUserController(db, oss)

	users := user.Group("/users")
	users.Get("/me", ctrl.Me)
	users.Put("/me", ctrl.UpdateMe)
	users.Post("/me/photo", ctrl.UploadPhoto)
}

func UserAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := userController.NewUserController(db, nil)

	users := admin.Group("/users")
	users.Get("/", ctrl.List)
	users.Get("/:id", ctrl.GetByID)
	users.Put("/:id/batch", ctrl.AssignBatch)
	users.Put("/:id/active", ctrl.SetActive)
}
