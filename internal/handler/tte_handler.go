package handler

import (
	"strconv"
	"time"

	"sanapati-backend/config"
	"sanapati-backend/internal/mailer"
	"sanapati-backend/internal/middleware"
	"sanapati-backend/internal/model"
	"sanapati-backend/internal/policy"
	"sanapati-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

const maskedValue = "********"

type TTEHandler struct {
	repo     repository.TTERepository
	cfg      *config.Config
	mailer   *mailer.Mailer
	validate *validator.Validate
}

func NewTTEHandler(repo repository.TTERepository, cfg *config.Config, m *mailer.Mailer) *TTEHandler {
	return &TTEHandler{repo: repo, cfg: cfg, mailer: m, validate: validator.New()}
}

type SubmitTTERequest struct {
	NamaLengkap     string `validate:"required"`
	NIK             string `validate:"required"`
	TempatLahir     string `validate:"required"`
	TanggalLahir    string `validate:"required"`
	Alamat          string `validate:"required"`
	NomorTelepon    string `validate:"required"`
	NamaJabatan     string `validate:"required"`
	PangkatGolongan string `validate:"required"`
	NIP             string `validate:"required"`
}

// Submit membuat pengajuan TTE baru berstatus pending.
// Validasi dilakukan sebelum file ditulis; kalau record gagal disimpan,
// file yang terlanjur tertulis dihapus lagi.
func (h *TTEHandler) Submit(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	req := SubmitTTERequest{
		NamaLengkap:     c.FormValue("namaLengkap"),
		NIK:             c.FormValue("nik"),
		TempatLahir:     c.FormValue("tempatLahir"),
		TanggalLahir:    c.FormValue("tanggalLahir"),
		Alamat:          c.FormValue("alamat"),
		NomorTelepon:    c.FormValue("nomorTelepon"),
		NamaJabatan:     c.FormValue("namaJabatan"),
		PangkatGolongan: c.FormValue("pangkatGolongan"),
		NIP:             c.FormValue("nip"),
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Semua field biodata dan kepegawaian harus diisi"})
	}

	tanggalLahir, err := parseTanggal(req.TanggalLahir)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Tanggal lahir tidak valid"})
	}

	fotoSelfie, errFoto := c.FormFile("fotoSelfie")
	suratKeterangan, errSurat := c.FormFile("suratKeterangan")
	if errFoto != nil || errSurat != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Foto selfie dan surat keterangan harus diupload"})
	}

	// NIK unik secara global; satu user hanya boleh punya satu pengajuan
	// yang masih pending/approved
	if exists, err := h.repo.ExistsNIK(req.NIK); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
	} else if exists {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "NIK sudah terdaftar dalam sistem"})
	}
	if exists, err := h.repo.ExistsLiveByUser(user.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
	} else if exists {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Anda sudah memiliki pengajuan TTE yang aktif"})
	}

	fotoPath, err := middleware.SimpanUpload(c, fotoSelfie, h.cfg.UploadDir, "tte", middleware.ImageTypes)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	suratPath, err := middleware.SimpanUpload(c, suratKeterangan, h.cfg.UploadDir, "tte", middleware.PDFTypes)
	if err != nil {
		middleware.HapusFile(fotoPath)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	tte := model.TTE{
		UserID:          user.ID,
		NamaLengkap:     req.NamaLengkap,
		NIK:             req.NIK,
		TempatLahir:     req.TempatLahir,
		TanggalLahir:    tanggalLahir,
		Alamat:          req.Alamat,
		NomorTelepon:    req.NomorTelepon,
		NamaJabatan:     req.NamaJabatan,
		PangkatGolongan: req.PangkatGolongan,
		NIP:             req.NIP,
		AsalInstansi:    user.Nama,
		FotoSelfie:      fotoPath,
		SuratKeterangan: suratPath,
		Status:          model.TTEPending,
	}

	if err := h.repo.Create(&tte); err != nil {
		middleware.HapusFile(fotoPath)
		middleware.HapusFile(suratPath)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Pengajuan TTE berhasil disubmit", "tte": tte})
}

func (h *TTEHandler) GetMyTTE(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	list, err := h.repo.FindByUser(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
	}
	if len(list) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Data TTE tidak ditemukan"})
	}

	return c.JSON(fiber.Map{"tte": list})
}

func (h *TTEHandler) GetAll(c *fiber.Ctx) error {
	list, err := h.repo.List(c.Query("status"), c.Query("search"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
	}

	return c.JSON(fiber.Map{"count": len(list), "tte": list})
}

func (h *TTEHandler) GetByID(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, _ := strconv.Atoi(c.Params("id"))
	tte, err := h.repo.FindByID(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Data TTE tidak ditemukan"})
	}

	if !policy.PutuskanTTE(user, tte).Diizinkan() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Anda tidak memiliki akses"})
	}

	return c.JSON(fiber.Map{"tte": tte})
}

// Approve: pending -> approved. Butuh file signature, nama signature, dan
// kredensial portal TTE. Kalau validasi gagal setelah file tertulis, file
// dihapus lagi supaya tidak yatim.
func (h *TTEHandler) Approve(c *fiber.Ctx) error {
	admin := middleware.CurrentUser(c)

	signatureFile, err := c.FormFile("tteSignature")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "File signature gambar harus diupload"})
	}

	signatureName := c.FormValue("tteSignatureName")
	if signatureName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Nama signature harus diisi"})
	}

	tteEmail := c.FormValue("tteEmail")
	ttePassword := c.FormValue("ttePassword")
	ttePassphrase := c.FormValue("ttePassphrase")
	if tteEmail == "" || ttePassword == "" || ttePassphrase == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Email, password, dan passphrase TTE harus diisi"})
	}

	id, _ := strconv.Atoi(c.Params("id"))
	tte, err := h.repo.FindByID(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Data TTE tidak ditemukan"})
	}
	if tte.Status != model.TTEPending {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Hanya pengajuan pending yang bisa disetujui"})
	}

	signaturePath, err := middleware.SimpanUpload(c, signatureFile, h.cfg.UploadDir, "tte/signature", middleware.ImageTypes)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	now := time.Now()
	tte.Status = model.TTEApproved
	tte.TTESignature = signaturePath
	tte.TTESignatureName = signatureName
	tte.TTEEmail = tteEmail
	tte.TTEPassword = ttePassword
	tte.TTEPassphrase = ttePassphrase
	tte.ApprovedByID = &admin.ID
	tte.ApprovedAt = &now

	if err := h.repo.Save(tte); err != nil {
		middleware.HapusFile(signaturePath)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
	}

	updated, err := h.repo.FindByID(tte.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
	}

	go h.mailer.KirimKeputusanTTE(updated)

	return c.JSON(fiber.Map{"message": "TTE berhasil disetujui", "tte": updated})
}

type RejectTTERequest struct {
	RejectionReason string `json:"rejectionReason"`
}

// Reject: pending -> rejected. File upload pemohon tidak disentuh.
func (h *TTEHandler) Reject(c *fiber.Ctx) error {
	var req RejectTTERequest
	if err := c.BodyParser(&req); err != nil || req.RejectionReason == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Alasan penolakan harus diisi"})
	}

	id, _ := strconv.Atoi(c.Params("id"))
	tte, err := h.repo.FindByID(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Data TTE tidak ditemukan"})
	}
	if tte.Status != model.TTEPending {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Hanya pengajuan pending yang bisa ditolak"})
	}

	tte.Status = model.TTERejected
	tte.RejectionReason = req.RejectionReason

	if err := h.repo.Save(tte); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
	}

	go h.mailer.KirimKeputusanTTE(tte)

	return c.JSON(fiber.Map{"message": "Pengajuan TTE ditolak", "tte": tte})
}

// Delete hanya boleh oleh pemilik atau admin, dan hanya saat pending.
// Kedua file upload ikut terhapus.
func (h *TTEHandler) Delete(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	id, _ := strconv.Atoi(c.Params("id"))
	tte, err := h.repo.FindByID(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Data TTE tidak ditemukan"})
	}

	if !policy.PutuskanTTE(user, tte).Diizinkan() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Anda tidak memiliki akses"})
	}

	if tte.Status != model.TTEPending {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Hanya pengajuan pending yang bisa dihapus"})
	}

	middleware.HapusFile(tte.FotoSelfie)
	middleware.HapusFile(tte.SuratKeterangan)

	if err := h.repo.Delete(tte); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Pengajuan TTE berhasil dihapus"})
}

func (h *TTEHandler) GetStats(c *fiber.Ctx) error {
	total, pending, approved, rejected, err := h.repo.StatusCounts()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"totalTTE":    total,
		"pendingTTE":  pending,
		"approvedTTE": approved,
		"rejectedTTE": rejected,
	})
}

// ExportAll (admin): seluruh pengajuan ke .xlsx. secureMode=real menulis
// kredensial apa adanya, selain itu dimask.
func (h *TTEHandler) ExportAll(c *fiber.Ctx) error {
	list, err := h.repo.List(c.Query("status"), "")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error saat export data TTE", "error": err.Error()})
	}
	return h.kirimExport(c, list, c.Query("secureMode", "mask"), "laporan_tte.xlsx")
}

// ExportInstansi: pengajuan se-instansi user yang login.
func (h *TTEHandler) ExportInstansi(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	list, err := h.repo.ListByInstansi(user.Nama, c.Query("status"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error saat export data TTE", "error": err.Error()})
	}
	return h.kirimExport(c, list, c.Query("secureMode", "mask"), "laporan_tte_instansi.xlsx")
}

func (h *TTEHandler) kirimExport(c *fiber.Ctx, list []model.TTE, secureMode, filename string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Laporan TTE"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Nama Lengkap", "NIK", "Tempat Lahir", "Tanggal Lahir", "Alamat",
		"Nomor Telepon", "Jabatan", "Pangkat/Golongan", "NIP", "Asal Instansi",
		"Status", "Nama TTE", "Email TTE", "Password TTE", "Passphrase TTE",
		"Disetujui Oleh", "Tanggal Disetujui",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, tte := range list {
		email, password, passphrase := tte.TTEEmail, tte.TTEPassword, tte.TTEPassphrase
		if secureMode != "real" {
			if email != "" {
				email = maskedValue
			}
			if password != "" {
				password = maskedValue
			}
			if passphrase != "" {
				passphrase = maskedValue
			}
		}

		approvedBy := ""
		if tte.ApprovedBy != nil {
			approvedBy = tte.ApprovedBy.Nama
		}
		approvedAt := ""
		if tte.ApprovedAt != nil {
			approvedAt = tte.ApprovedAt.Format("2006-01-02 15:04")
		}

		values := []interface{}{
			tte.NamaLengkap, tte.NIK, tte.TempatLahir,
			tte.TanggalLahir.Format("2006-01-02"), tte.Alamat,
			tte.NomorTelepon, tte.NamaJabatan, tte.PangkatGolongan, tte.NIP,
			tte.AsalInstansi, tte.Status, tte.TTESignatureName,
			email, password, passphrase, approvedBy, approvedAt,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	return kirimWorkbook(c, f, filename)
}
