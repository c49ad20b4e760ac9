package model

import "time"

// TokenBlacklistModel menampung access token yang dicabut lewat logout.
// Middleware AuthJWT menolak token yang ada di tabel ini; baris dihapus
// permanen oleh scheduler begitu melewati expired_at (umur token itu sendiri),
// jadi tabel tetap kecil.
type TokenBlacklistModel struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	Token     string    `gorm:"column:token;type:text;not null;uniqueIndex" json:"-"`
	ExpiredAt time.Time `gorm:"column:expired_at;not null;index" json:"expired_at"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName override
func (TokenBlacklistModel) TableName() string {
	return "token_blacklist"
}
