package model

import "gorm.io/gorm"

const (
	RoleAdmin = "admin"
	RoleOPD   = "opd"
)

// User merangkap dua peran: akun login sekaligus instansi penerima telegram.
type User struct {
	gorm.Model
	Nama            string `json:"nama" gorm:"not null"`
	Email           string `json:"email" gorm:"unique;not null"`
	Password        string `json:"-"`
	ProfileImageURL string `json:"profileImageUrl"`
	Role            string `json:"role" gorm:"default:opd"`

	TwoFactorEnabled    bool   `json:"twoFactorEnabled" gorm:"default:false"`
	TwoFactorSecret     string `json:"-"`
	TwoFactorTempSecret string `json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
