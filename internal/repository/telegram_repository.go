package repository

import (
	"time"

	"sanapati-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TelegramFilter menampung semua parameter query daftar telegram.
// PenerimaID nil berarti scope admin (semua data).
type TelegramFilter struct {
	Status     string
	Search     string
	StartDate  *time.Time
	EndDate    *time.Time
	SortAsc    bool
	Page       int
	Limit      int
	PenerimaID *uint
}

type TelegramRepository interface {
	FindByID(id uint) (*model.Telegram, error)
	List(filter TelegramFilter) ([]model.Telegram, int64, error)
	Count(filter TelegramFilter) (int64, error)
	Create(t *model.Telegram) error
	Save(t *model.Telegram) error
	Delete(t *model.Telegram) error

	ReplaceAttachment(t *model.Telegram, attachment model.Attachment) error
	ReplaceChecklistItems(checklistID uint, items []model.ChecklistItem) error
	CreateChecklist(cl *model.TelegramChecklist) error
	DeleteChecklists(telegramID uint, exceptUserIDs []uint) error
	ReplacePenerima(t *model.Telegram, users []model.User) error

	GroupByStatus(penerimaID *uint) (map[string]int64, error)
	GroupByKlasifikasi(penerimaID *uint) (map[string]int64, error)
	Recent(limit int, penerimaID *uint) ([]model.Telegram, error)
	ListAll(filter TelegramFilter) ([]model.Telegram, error)
}

type telegramRepository struct {
	db *gorm.DB
}

func NewTelegramRepository(db *gorm.DB) TelegramRepository {
	return &telegramRepository{db: db}
}

func (r *telegramRepository) preload() *gorm.DB {
	return r.db.Preload("Penerima").Preload("Attachments").Preload("Checklists.Items")
}

func (r *telegramRepository) FindByID(id uint) (*model.Telegram, error) {
	var t model.Telegram
	if err := r.preload().First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// scoped menerapkan filter visibilitas + pencarian ke sebuah query.
func (r *telegramRepository) scoped(q *gorm.DB, f TelegramFilter) *gorm.DB {
	if f.PenerimaID != nil {
		q = q.Joins("JOIN telegram_penerima tp ON tp.telegram_id = telegrams.id AND tp.user_id = ?", *f.PenerimaID)
	}
	if f.Status != "" {
		q = q.Where("telegrams.status = ?", f.Status)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("perihal LIKE ? OR nomor_surat LIKE ? OR instansi_pengirim LIKE ?", like, like, like)
	}
	if f.StartDate != nil {
		q = q.Where("tanggal >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("tanggal <= ?", *f.EndDate)
	}
	return q
}

func (r *telegramRepository) order(q *gorm.DB, f TelegramFilter) *gorm.DB {
	if f.SortAsc {
		return q.Order("tanggal asc")
	}
	return q.Order("tanggal desc")
}

func (r *telegramRepository) List(filter TelegramFilter) ([]model.Telegram, int64, error) {
	var total int64
	if err := r.scoped(r.db.Model(&model.Telegram{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.scoped(r.preload().Model(&model.Telegram{}), filter)
	q = r.order(q, filter)
	if filter.Limit > 0 {
		q = q.Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit)
	}

	var telegrams []model.Telegram
	if err := q.Find(&telegrams).Error; err != nil {
		return nil, 0, err
	}
	return telegrams, total, nil
}

// ListAll seperti List tanpa pagination, dipakai export laporan.
func (r *telegramRepository) ListAll(filter TelegramFilter) ([]model.Telegram, error) {
	q := r.scoped(r.preload().Model(&model.Telegram{}), filter)
	q = r.order(q, filter)

	var telegrams []model.Telegram
	err := q.Find(&telegrams).Error
	return telegrams, err
}

// Count menghitung telegram yang lolos filter (tanpa pagination).
func (r *telegramRepository) Count(filter TelegramFilter) (int64, error) {
	var count int64
	err := r.scoped(r.db.Model(&model.Telegram{}), filter).Count(&count).Error
	return count, err
}

func (r *telegramRepository) Create(t *model.Telegram) error {
	return r.db.Create(t).Error
}

// Save hanya menulis kolom telegram itu sendiri; relasi diurus lewat
// method khusus supaya tidak ada upsert asosiasi yang tidak disengaja.
func (r *telegramRepository) Save(t *model.Telegram) error {
	return r.db.Omit(clause.Associations).Save(t).Error
}

func (r *telegramRepository) Delete(t *model.Telegram) error {
	// Hard delete supaya baris relasi ikut terhapus, bukan soft delete GORM.
	if err := r.db.Where("telegram_id = ?", t.ID).Delete(&model.Attachment{}).Error; err != nil {
		return err
	}
	if err := r.DeleteChecklists(t.ID, nil); err != nil {
		return err
	}
	if err := r.db.Model(t).Association("Penerima").Clear(); err != nil {
		return err
	}
	return r.db.Unscoped().Delete(t).Error
}

// ReplaceAttachment mengganti lampiran tunggal telegram dengan yang baru.
func (r *telegramRepository) ReplaceAttachment(t *model.Telegram, attachment model.Attachment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("telegram_id = ?", t.ID).Delete(&model.Attachment{}).Error; err != nil {
			return err
		}
		attachment.TelegramID = t.ID
		if err := tx.Create(&attachment).Error; err != nil {
			return err
		}
		t.Attachments = []model.Attachment{attachment}
		return nil
	})
}

// ReplaceChecklistItems mengganti seluruh isi satu checklist.
func (r *telegramRepository) ReplaceChecklistItems(checklistID uint, items []model.ChecklistItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("checklist_id = ?", checklistID).Delete(&model.ChecklistItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ID = 0
			items[i].ChecklistID = checklistID
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

func (r *telegramRepository) CreateChecklist(cl *model.TelegramChecklist) error {
	return r.db.Create(cl).Error
}

// DeleteChecklists menghapus checklist sebuah telegram. exceptUserIDs berisi
// penerima yang checklist-nya dipertahankan (nil = hapus semua).
func (r *telegramRepository) DeleteChecklists(telegramID uint, exceptUserIDs []uint) error {
	q := r.db.Where("telegram_id = ?", telegramID)
	if len(exceptUserIDs) > 0 {
		q = q.Where("user_id NOT IN ?", exceptUserIDs)
	}

	var checklists []model.TelegramChecklist
	if err := q.Find(&checklists).Error; err != nil {
		return err
	}
	for _, cl := range checklists {
		if err := r.db.Where("checklist_id = ?", cl.ID).Delete(&model.ChecklistItem{}).Error; err != nil {
			return err
		}
		if err := r.db.Delete(&model.TelegramChecklist{}, cl.ID).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *telegramRepository) ReplacePenerima(t *model.Telegram, users []model.User) error {
	return r.db.Model(t).Association("Penerima").Replace(users)
}

type groupRow struct {
	Key   string
	Count int64
}

func (r *telegramRepository) groupBy(column string, penerimaID *uint) (map[string]int64, error) {
	q := r.db.Model(&model.Telegram{}).
		Select(column + " as `key`, count(*) as count").
		Group(column)
	if penerimaID != nil {
		q = q.Joins("JOIN telegram_penerima tp ON tp.telegram_id = telegrams.id AND tp.user_id = ?", *penerimaID)
	}

	var rows []groupRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Key] = row.Count
	}
	return result, nil
}

func (r *telegramRepository) GroupByStatus(penerimaID *uint) (map[string]int64, error) {
	return r.groupBy("status", penerimaID)
}

func (r *telegramRepository) GroupByKlasifikasi(penerimaID *uint) (map[string]int64, error) {
	return r.groupBy("klasifikasi", penerimaID)
}

func (r *telegramRepository) Recent(limit int, penerimaID *uint) ([]model.Telegram, error) {
	q := r.preload().Model(&model.Telegram{}).Order("telegrams.created_at desc").Limit(limit)
	if penerimaID != nil {
		q = q.Joins("JOIN telegram_penerima tp ON tp.telegram_id = telegrams.id AND tp.user_id = ?", *penerimaID)
	}
	var telegrams []model.Telegram
	err := q.Find(&telegrams).Error
	return telegrams, err
}
