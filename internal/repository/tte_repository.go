package repository

import (
	"sanapati-backend/internal/model"

	"gorm.io/gorm"
)

type TTERepository interface {
	Create(tte *model.TTE) error
	Save(tte *model.TTE) error
	FindByID(id uint) (*model.TTE, error)
	FindByUser(userID uint) ([]model.TTE, error)
	List(status, search string) ([]model.TTE, error)
	ListByInstansi(instansi, status string) ([]model.TTE, error)
	ExistsNIK(nik string) (bool, error)
	ExistsLiveByUser(userID uint) (bool, error)
	Delete(tte *model.TTE) error
	StatusCounts() (total, pending, approved, rejected int64, err error)
}

type tteRepository struct {
	db *gorm.DB
}

func NewTTERepository(db *gorm.DB) TTERepository {
	return &tteRepository{db: db}
}

func (r *tteRepository) preload() *gorm.DB {
	return r.db.Preload("User").Preload("ApprovedBy")
}

func (r *tteRepository) Create(tte *model.TTE) error {
	return r.db.Create(tte).Error
}

func (r *tteRepository) Save(tte *model.TTE) error {
	return r.db.Save(tte).Error
}

func (r *tteRepository) FindByID(id uint) (*model.TTE, error) {
	var tte model.TTE
	if err := r.preload().First(&tte, id).Error; err != nil {
		return nil, err
	}
	return &tte, nil
}

func (r *tteRepository) FindByUser(userID uint) ([]model.TTE, error) {
	var list []model.TTE
	err := r.preload().Where("user_id = ?", userID).Order("created_at desc").Find(&list).Error
	return list, err
}

func (r *tteRepository) List(status, search string) ([]model.TTE, error) {
	q := r.preload().Model(&model.TTE{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("nama_lengkap LIKE ? OR nik LIKE ? OR nomor_telepon LIKE ?", like, like, like)
	}
	var list []model.TTE
	err := q.Order("created_at desc").Find(&list).Error
	return list, err
}

func (r *tteRepository) ListByInstansi(instansi, status string) ([]model.TTE, error) {
	q := r.preload().Where("asal_instansi = ?", instansi)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []model.TTE
	err := q.Order("created_at desc").Find(&list).Error
	return list, err
}

// ExistsNIK mengecek NIK pada pengajuan yang masih hidup (pending/approved).
// Pengajuan rejected tidak menghitung, supaya pemohon yang ditolak bisa
// mengajukan ulang dengan NIK-nya sendiri.
func (r *tteRepository) ExistsNIK(nik string) (bool, error) {
	var count int64
	err := r.db.Model(&model.TTE{}).
		Where("nik = ? AND status <> ?", nik, model.TTERejected).
		Count(&count).Error
	return count > 0, err
}

// ExistsLiveByUser: satu user hanya boleh punya satu pengajuan yang masih
// hidup (pending atau approved). Pengajuan rejected boleh diulang.
func (r *tteRepository) ExistsLiveByUser(userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.TTE{}).
		Where("user_id = ? AND status IN ?", userID, []string{model.TTEPending, model.TTEApproved}).
		Count(&count).Error
	return count > 0, err
}

func (r *tteRepository) Delete(tte *model.TTE) error {
	return r.db.Unscoped().Delete(tte).Error
}

func (r *tteRepository) StatusCounts() (total, pending, approved, rejected int64, err error) {
	if err = r.db.Model(&model.TTE{}).Count(&total).Error; err != nil {
		return
	}
	if err = r.db.Model(&model.TTE{}).Where("status = ?", model.TTEPending).Count(&pending).Error; err != nil {
		return
	}
	if err = r.db.Model(&model.TTE{}).Where("status = ?", model.TTEApproved).Count(&approved).Error; err != nil {
		return
	}
	err = r.db.Model(&model.TTE{}).Where("status = ?", model.TTERejected).Count(&rejected).Error
	return
}
