package model

import (
	"time"

	"gorm.io/gorm"
)

// Status pengajuan TTE. approved dan rejected bersifat final.
const (
	TTEPending  = "pending"
	TTEApproved = "approved"
	TTERejected = "rejected"
)

// TTE adalah satu pengajuan tanda tangan elektronik milik satu pegawai.
type TTE struct {
	gorm.Model
	UserID uint `json:"-" gorm:"not null"`
	User   User `json:"user" gorm:"foreignKey:UserID"`

	// Biodata dari KTP
	NamaLengkap  string    `json:"namaLengkap" gorm:"not null"`
	// Unik di antara pengajuan pending/approved (dijaga di repository);
	// NIK milik pengajuan rejected boleh dipakai ulang.
	NIK          string    `json:"nik" gorm:"column:nik;index;not null"`
	TempatLahir  string    `json:"tempatLahir" gorm:"not null"`
	TanggalLahir time.Time `json:"tanggalLahir" gorm:"not null"`
	Alamat       string    `json:"alamat" gorm:"not null"`
	NomorTelepon string    `json:"nomorTelepon" gorm:"not null"`

	// Data kepegawaian
	NamaJabatan     string `json:"namaJabatan" gorm:"not null"`
	PangkatGolongan string `json:"pangkatGolongan" gorm:"not null"`
	NIP             string `json:"nip" gorm:"column:nip;not null"`
	AsalInstansi    string `json:"asalInstansi"`

	// File upload (path relatif, selalu forward slash)
	FotoSelfie      string `json:"fotoSelfie" gorm:"not null"`
	SuratKeterangan string `json:"suratKeterangan" gorm:"not null"`

	Status string `json:"status" gorm:"default:pending"`

	// Diisi admin saat approve
	TTESignature     string     `json:"tteSignature"`
	TTESignatureName string     `json:"tteSignatureName"`
	TTEEmail         string     `json:"tteEmail"`
	TTEPassword      string     `json:"ttePassword"`
	TTEPassphrase    string     `json:"ttePassphrase"`
	ApprovedByID     *uint      `json:"-"`
	ApprovedBy       *User      `json:"approvedBy" gorm:"foreignKey:ApprovedByID"`
	ApprovedAt       *time.Time `json:"approvedAt"`

	RejectionReason string `json:"rejectionReason"`
}
