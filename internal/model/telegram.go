package model

import (
	"math"
	"time"

	"gorm.io/gorm"
)

// Klasifikasi surat
const (
	KlasifikasiBiasa   = "BIASA"
	KlasifikasiRahasia = "RAHASIA"
	KlasifikasiSegera  = "SEGERA"
	KlasifikasiPenting = "PENTING"
	KlasifikasiEdaran  = "EDARAN"
)

// SemuaKlasifikasi dipakai dashboard agar semua key selalu muncul di chart.
var SemuaKlasifikasi = []string{
	KlasifikasiBiasa,
	KlasifikasiRahasia,
	KlasifikasiSegera,
	KlasifikasiPenting,
	KlasifikasiEdaran,
}

const (
	StatusDibaca      = "Dibaca"
	StatusBelumDibaca = "Belum Dibaca"
)

// Telegram adalah satu surat/telegram resmi antar instansi.
type Telegram struct {
	gorm.Model
	InstansiPengirim string    `json:"instansiPengirim" gorm:"not null"`
	NomorSurat       string    `json:"nomorSurat" gorm:"not null"`
	Perihal          string    `json:"perihal"`
	Klasifikasi      string    `json:"klasifikasi" gorm:"default:BIASA"`
	Status           string    `json:"status" gorm:"default:Belum Dibaca"`
	Tanggal          time.Time `json:"tanggal" gorm:"not null"`
	Progress         int       `json:"progress" gorm:"default:0"`

	Penerima    []User              `json:"instansiPenerima" gorm:"many2many:telegram_penerima;"`
	Attachments []Attachment        `json:"attachments" gorm:"constraint:OnDelete:CASCADE"`
	Checklists  []TelegramChecklist `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// Attachment menyimpan lampiran PDF telegram.
type Attachment struct {
	ID         uint   `json:"-" gorm:"primaryKey"`
	TelegramID uint   `json:"-"`
	FileName   string `json:"fileName"`
	FileURL    string `json:"fileUrl"`
}

// TelegramChecklist adalah checklist milik satu penerima pada satu telegram.
// Satu baris per pasangan (telegram, penerima) supaya update cukup lookup by
// key, bukan mutasi array posisi.
type TelegramChecklist struct {
	ID         uint            `json:"-" gorm:"primaryKey"`
	TelegramID uint            `json:"-" gorm:"uniqueIndex:idx_telegram_user"`
	UserID     uint            `json:"userId" gorm:"uniqueIndex:idx_telegram_user"`
	Items      []ChecklistItem `json:"checklist" gorm:"foreignKey:ChecklistID;constraint:OnDelete:CASCADE"`
}

type ChecklistItem struct {
	ID          uint   `json:"-" gorm:"primaryKey"`
	ChecklistID uint   `json:"-"`
	Text        string `json:"text" gorm:"not null"`
	Completed   bool   `json:"completed" gorm:"default:false"`
}

// HitungProgress menghitung persentase item selesai, dibulatkan.
// Checklist kosong dihitung 0, bukan 100.
func HitungProgress(items []ChecklistItem) int {
	if len(items) == 0 {
		return 0
	}
	completed := 0
	for _, item := range items {
		if item.Completed {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(items)) * 100))
}

// StatusDariProgress: telegram dianggap dibaca hanya saat checklist tuntas.
func StatusDariProgress(progress int) string {
	if progress == 100 {
		return StatusDibaca
	}
	return StatusBelumDibaca
}

// ChecklistMilik mencari checklist milik user tertentu, nil kalau belum ada.
func (t *Telegram) ChecklistMilik(userID uint) *TelegramChecklist {
	for i := range t.Checklists {
		if t.Checklists[i].UserID == userID {
			return &t.Checklists[i]
		}
	}
	return nil
}

// AdalahPenerima mengecek apakah user masuk daftar instansi penerima.
func (t *Telegram) AdalahPenerima(userID uint) bool {
	for _, p := range t.Penerima {
		if p.ID == userID {
			return true
		}
	}
	return false
}
