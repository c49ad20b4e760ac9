package scheduler

import (
	"log"
	"time"

	"gorm.io/gorm"

	authRepo "lembagaku_backend/internals/features/users/auth/repository"
)

// StartTokenCleanupScheduler membersihkan token_blacklist dan refresh_tokens
// yang sudah kadaluarsa, tiap 24 jam.
func StartTokenCleanupScheduler(db *gorm.DB) {
	go func() {
		for {
			log.Println("[CLEANUP] Menjalankan pembersihan token kadaluarsa...")

			if n, err := authRepo.CleanupExpiredBlacklist(db); err != nil {
				log.Printf("[CLEANUP ERROR] Gagal hapus blacklist kadaluarsa: %v", err)
			} else if n > 0 {
				log.Printf("[CLEANUP] %d token blacklist kadaluarsa dihapus", n)
			}

			if n, err := authRepo.CleanupExpiredRefreshTokens(db); err != nil {
				log.Printf("[CLEANUP ERROR] Gagal hapus refresh token kadaluarsa: %v", err)
			} else if n > 0 {
				log.Printf("[CLEANUP] %d refresh token kadaluarsa dihapus", n)
			}

			time.Sleep(24 * time.Hour)
		}
	}()
}
