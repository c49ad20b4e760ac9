package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	batchController "lembagaku_backend/internals/features/lembaga/batches/controller"
	feeController "lembagaku_backend/internals/features/payment/fees/controller"
)

// PublicRoutes: endpoint tanpa autentikasi.
func PublicRoutes(api fiber.Router, db *gorm.DB) {
	batchCtrl := batchController.NewBatchController(db)
	api.Get("/batches/running", batchCtrl.ListRunning)

	// Webhook dipanggil server Midtrans, bukan user
	feeCtrl := feeController.NewUserFeeBillController(db)
	api.Post("/fees/webhook", feeCtrl.Webhook)
}
