// HandleFeeStatusWebhook dipanggil saat menerima notifikasi dari Midtrans
package service

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	feeModel "lembagaku_backend/internals/features/payment/fees/model"
)

func HandleFeeStatusWebhook(db *gorm.DB, body map[string]interface{}) error {
	orderID, ok1 := body["order_id"].(string)
	status, ok2 := body["transaction_status"].(string)

	if !ok1 || !ok2 {
		log.Println("[ERROR] Payload webhook tidak lengkap:", body)
		return fmt.Errorf("invalid payload")
	}

	log.Println("📄 Order ID:", orderID)
	log.Println("📌 Transaction Status:", status)

	var bill feeModel.UserFeeBillModel
	if err := db.Where("user_fee_bill_order_id = ?", orderID).First(&bill).Error; err != nil {
		log.Println("[ERROR] Tagihan tidak ditemukan:", err)
		return fmt.Errorf("bill with order_id %s not found", orderID)
	}

	switch status {
	case "capture", "settlement":
		now := time.Now()
		bill.UserFeeBillStatus = feeModel.FeePaid
		bill.UserFeeBillPaidAt = &now

	case "expire":
		bill.UserFeeBillStatus = feeModel.FeeExpired
	case "cancel", "deny":
		bill.UserFeeBillStatus = feeModel.FeeCanceled
	default:
		log.Println("[INFO] Status tidak diproses:", status)
		return nil
	}

	if err := db.Save(&bill).Error; err != nil {
		log.Println("[ERROR] Gagal menyimpan status tagihan:", err)
		return err
	}

	return nil
}
