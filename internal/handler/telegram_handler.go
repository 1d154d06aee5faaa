package handler

import (
	"encoding/json"
	"strconv"
	"time"

	"sanapati-backend/config"
	"sanapati-backend/internal/middleware"
	"sanapati-backend/internal/model"
	"sanapati-backend/internal/policy"
	"sanapati-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type TelegramHandler struct {
	repo     repository.TelegramRepository
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewTelegramHandler(repo repository.TelegramRepository, userRepo repository.UserRepository, cfg *config.Config) *TelegramHandler {
	return &TelegramHandler{repo: repo, userRepo: userRepo, cfg: cfg}
}

// telegramResponse menempelkan checklist milik viewer ke satu record
// telegram, meniru bentuk response lama agar frontend tidak berubah.
type telegramResponse struct {
	model.Telegram
	TodoChecklist      []model.ChecklistItem `json:"todoChecklist"`
	CompletedTodoCount int                   `json:"completedTodoCount"`
}

// checklistUntukViewer: user biasa melihat checklist miliknya, admin melihat
// checklist pertama sebagai template.
func checklistUntukViewer(t *model.Telegram, viewer *model.User) []model.ChecklistItem {
	if viewer.IsAdmin() {
		if len(t.Checklists) > 0 {
			return t.Checklists[0].Items
		}
		return []model.ChecklistItem{}
	}
	if cl := t.ChecklistMilik(viewer.ID); cl != nil {
		return cl.Items
	}
	return []model.ChecklistItem{}
}

func buatTelegramResponse(t *model.Telegram, viewer *model.User) telegramResponse {
	checklist := checklistUntukViewer(t, viewer)
	completed := 0
	for _, item := range checklist {
		if item.Completed {
			completed++
		}
	}
	return telegramResponse{
		Telegram:           *t,
		TodoChecklist:      checklist,
		CompletedTodoCount: completed,
	}
}

func parseTanggal(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// GetAll mengembalikan daftar telegram sesuai visibilitas viewer:
// admin semua, OPD hanya yang menerimanya.
func (h *TelegramHandler) GetAll(c *fiber.Ctx) error {
	viewer := middleware.CurrentUser(c)

	filter := repository.TelegramFilter{
		Status:  c.Query("status"),
		Search:  c.Query("search"),
		SortAsc: c.Query("sortOrder") == "asc",
		Page:    c.QueryInt("page", 1),
		Limit:   c.QueryInt("limit", 9),
	}
	if v := c.Query("startDate"); v != "" {
		if t, err := parseTanggal(v); err == nil {
			filter.StartDate = &t
		}
	}
	if v := c.Query("endDate"); v != "" {
		if t, err := parseTanggal(v); err == nil {
			filter.EndDate = &t
		}
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if !viewer.IsAdmin() {
		filter.PenerimaID = &viewer.ID
	}

	telegrams, total, err := h.repo.List(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
	}

	responses := make([]telegramResponse, 0, len(telegrams))
	for i := range telegrams {
		responses = append(responses, buatTelegramResponse(&telegrams[i], viewer))
	}

	totalPages := int64(0)
	if filter.Limit > 0 {
		totalPages = (total + int64(filter.Limit) - 1) / int64(filter.Limit)
	}

	// Ringkasan status: "all" hanya di-scope visibilitas; read/unread
	// mengikuti filter aktif dengan status dipaksa.
	scopeOnly := repository.TelegramFilter{PenerimaID: filter.PenerimaID}
	all, err := h.repo.Count(scopeOnly)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
	}
	readFilter := filter
	readFilter.Status = model.StatusDibaca
	read, _ := h.repo.Count(readFilter)
	unreadFilter := filter
	unreadFilter.Status = model.StatusBelumDibaca
	unread, _ := h.repo.Count(unreadFilter)

	return c.JSON(fiber.Map{
		"telegrams":  responses,
		"totalPages": totalPages,
		"statusSummary": fiber.Map{
			"all":             all,
			"readTelegrams":   read,
			"unreadTelegrams": unread,
		},
	})
}

func (h *TelegramHandler) GetByID(c *fiber.Ctx) error {
	viewer := middleware.CurrentUser(c)

	id, _ := strconv.Atoi(c.Params("id"))
	telegram, err := h.repo.FindByID(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Telegram tidak ditemukan"})
	}

	return c.JSON(buatTelegramResponse(telegram, viewer))
}

// Create membuat telegram baru (admin). Setiap penerima mendapat salinan
// checklist template masing-masing.
func (h *TelegramHandler) Create(c *fiber.Ctx) error {
	instansiPengirim := c.FormValue("instansiPengirim")
	nomorSurat := c.FormValue("nomorSurat")
	if instansiPengirim == "" || nomorSurat == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Instansi pengirim dan nomor surat wajib diisi"})
	}

	var penerimaIDs []uint
	if err := json.Unmarshal([]byte(c.FormValue("instansiPenerima")), &penerimaIDs); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Instansi penerima harus berupa array dari user ID"})
	}

	tanggal, err := parseTanggal(c.FormValue("tanggal"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Tanggal surat tidak valid"})
	}

	var templateChecklist []model.ChecklistItem
	if raw := c.FormValue("todoChecklist"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &templateChecklist); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Format checklist tidak valid"})
		}
	}

	var penerima []model.User
	for _, id := range penerimaIDs {
		user, err := h.userRepo.FindByID(id)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Instansi penerima tidak ditemukan"})
		}
		penerima = append(penerima, *user)
	}

	telegram := model.Telegram{
		InstansiPengirim: instansiPengirim,
		NomorSurat:       nomorSurat,
		Perihal:          c.FormValue("perihal"),
		Klasifikasi:      c.FormValue("klasifikasi", model.KlasifikasiBiasa),
		Status:           c.FormValue("status", model.StatusBelumDibaca),
		Tanggal:          tanggal,
		Penerima:         penerima,
	}

	// Lampiran PDF opsional, maksimal satu
	if file, err := c.FormFile("attachment"); err == nil {
		path, err := middleware.SimpanUpload(c, file, h.cfg.UploadDir, "telegram", middleware.PDFTypes)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		telegram.Attachments = []model.Attachment{{FileName: file.Filename, FileURL: "/" + path}}
	}

	// Satu salinan checklist segar per penerima
	for _, id := range penerimaIDs {
		items := make([]model.ChecklistItem, len(templateChecklist))
		for i, item := range templateChecklist {
			items[i] = model.ChecklistItem{Text: item.Text, Completed: item.Completed}
		}
		telegram.Checklists = append(telegram.Checklists, model.TelegramChecklist{UserID: id, Items: items})
	}

	if err := h.repo.Create(&telegram); err != nil {
		// Kompensasi: record gagal disimpan, file jangan sampai yatim
		for _, a := range telegram.Attachments {
			middleware.HapusFile(a.FileURL)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Sukses membuat telegram", "telegram": telegram})
}

// Update memperbarui field telegram (admin). Lampiran baru menggantikan yang
// lama; perubahan penerima mempertahankan checklist penerima yang tetap.
func (h *TelegramHandler) Update(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	telegram, err := h.repo.FindByID(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Telegram tidak ditemukan"})
	}

	if v := c.FormValue("instansiPengirim"); v != "" {
		telegram.InstansiPengirim = v
	}
	if v := c.FormValue("nomorSurat"); v != "" {
		telegram.NomorSurat = v
	}
	if v := c.FormValue("perihal"); v != "" {
		telegram.Perihal = v
	}
	if v := c.FormValue("klasifikasi"); v != "" {
		telegram.Klasifikasi = v
	}
	if v := c.FormValue("status"); v != "" {
		telegram.Status = v
	}
	if v := c.FormValue("tanggal"); v != "" {
		if tanggal, err := parseTanggal(v); err == nil {
			telegram.Tanggal = tanggal
		}
	}

	// Perubahan daftar penerima: checklist penerima lama dipertahankan,
	// penerima baru dapat salinan segar, yang dihapus ikut hilang.
	if raw := c.FormValue("instansiPenerima"); raw != "" {
		var penerimaIDs []uint
		if err := json.Unmarshal([]byte(raw), &penerimaIDs); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Instansi penerima harus berupa array dari user ID"})
		}

		var penerima []model.User
		for _, uid := range penerimaIDs {
			user, err := h.userRepo.FindByID(uid)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Instansi penerima tidak ditemukan"})
			}
			penerima = append(penerima, *user)
		}

		if err := h.repo.ReplacePenerima(telegram, penerima); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
		}
		if err := h.repo.DeleteChecklists(telegram.ID, penerimaIDs); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
		}

		template := checklistTemplate(telegram)
		for _, uid := range penerimaIDs {
			if telegram.ChecklistMilik(uid) != nil {
				continue
			}
			items := make([]model.ChecklistItem, len(template))
			for i, item := range template {
				items[i] = model.ChecklistItem{Text: item.Text, Completed: false}
			}
			cl := model.TelegramChecklist{TelegramID: telegram.ID, UserID: uid, Items: items}
			if err := h.repo.CreateChecklist(&cl); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
			}
		}
		telegram.Penerima = penerima
	}

	// todoChecklist di update menimpa checklist SEMUA penerima
	if raw := c.FormValue("todoChecklist"); raw != "" {
		var items []model.ChecklistItem
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Format checklist tidak valid"})
		}
		telegram, err = h.repo.FindByID(telegram.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
		}
		for _, cl := range telegram.Checklists {
			salinan := make([]model.ChecklistItem, len(items))
			copy(salinan, items)
			if err := h.repo.ReplaceChecklistItems(cl.ID, salinan); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
			}
		}
	}

	// PDF baru REPLACE lampiran lama, file lama dihapus dari storage
	if file, err := c.FormFile("attachment"); err == nil {
		path, err := middleware.SimpanUpload(c, file, h.cfg.UploadDir, "telegram", middleware.PDFTypes)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		for _, old := range telegram.Attachments {
			middleware.HapusFile(old.FileURL)
		}
		if err := h.repo.ReplaceAttachment(telegram, model.Attachment{FileName: file.Filename, FileURL: "/" + path}); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
		}
	}

	if err := h.repo.Save(telegram); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
	}

	updated, err := h.repo.FindByID(telegram.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Telegram berhasil diupdate", "telegram": updated})
}

// checklistTemplate mengambil checklist pertama sebagai template untuk
// penerima baru, meniru perilaku pembuatan awal.
func checklistTemplate(t *model.Telegram) []model.ChecklistItem {
	if len(t.Checklists) > 0 {
		return t.Checklists[0].Items
	}
	return nil
}

func (h *TelegramHandler) Delete(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	telegram, err := h.repo.FindByID(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Telegram tidak ditemukan"})
	}

	// File lampiran ikut dibersihkan (best-effort)
	for _, a := range telegram.Attachments {
		middleware.HapusFile(a.FileURL)
	}

	if err := h.repo.Delete(telegram); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Berhasil menghapus telegram"})
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus mengubah status telegram. Status "Dibaca" menuntaskan seluruh
// checklist viewer (admin: semua penerima) dan memaksa progress 100.
func (h *TelegramHandler) UpdateStatus(c *fiber.Ctx) error {
	viewer := middleware.CurrentUser(c)

	id, _ := strconv.Atoi(c.Params("id"))
	telegram, err := h.repo.FindByID(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Telegram tidak ditemukan"})
	}

	keputusan := policy.PutuskanTelegram(viewer, telegram)
	if !keputusan.Diizinkan() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Tidak memiliki izin!"})
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Format data salah"})
	}
	if req.Status != "" {
		telegram.Status = req.Status
	}

	if telegram.Status == model.StatusDibaca {
		if keputusan == policy.SebagaiAdmin {
			for _, cl := range telegram.Checklists {
				if err := h.tandaiSelesai(cl); err != nil {
					return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
				}
			}
		} else if cl := telegram.ChecklistMilik(viewer.ID); cl != nil {
			if err := h.tandaiSelesai(*cl); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
			}
		}
		telegram.Progress = 100
	}

	if err := h.repo.Save(telegram); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
	}

	updated, _ := h.repo.FindByID(telegram.ID)
	return c.JSON(fiber.Map{"message": "Status telegram telah diupdate", "telegram": buatTelegramResponse(updated, viewer)})
}

func (h *TelegramHandler) tandaiSelesai(cl model.TelegramChecklist) error {
	items := make([]model.ChecklistItem, len(cl.Items))
	for i, item := range cl.Items {
		items[i] = model.ChecklistItem{Text: item.Text, Completed: true}
	}
	return h.repo.ReplaceChecklistItems(cl.ID, items)
}

type UpdateChecklistRequest struct {
	TodoChecklist []model.ChecklistItem `json:"todoChecklist"`
}

// UpdateChecklist mengganti checklist milik viewer (admin: semua penerima)
// lalu menghitung ulang progress dan status turunannya.
func (h *TelegramHandler) UpdateChecklist(c *fiber.Ctx) error {
	viewer := middleware.CurrentUser(c)

	id, _ := strconv.Atoi(c.Params("id"))
	telegram, err := h.repo.FindByID(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Telegram tidak ditemukan"})
	}

	keputusan := policy.PutuskanTelegram(viewer, telegram)
	if !keputusan.Diizinkan() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Tidak memiliki izin untuk update checklist"})
	}

	var req UpdateChecklistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Format data salah"})
	}

	if keputusan == policy.SebagaiAdmin {
		for _, cl := range telegram.Checklists {
			salinan := make([]model.ChecklistItem, len(req.TodoChecklist))
			copy(salinan, req.TodoChecklist)
			if err := h.repo.ReplaceChecklistItems(cl.ID, salinan); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
			}
		}
	} else {
		cl := telegram.ChecklistMilik(viewer.ID)
		if cl == nil {
			baru := model.TelegramChecklist{TelegramID: telegram.ID, UserID: viewer.ID}
			if err := h.repo.CreateChecklist(&baru); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
			}
			cl = &baru
		}
		if err := h.repo.ReplaceChecklistItems(cl.ID, req.TodoChecklist); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
		}
	}

	// Progress dihitung dari checklist yang baru saja diganti
	telegram.Progress = model.HitungProgress(req.TodoChecklist)
	telegram.Status = model.StatusDariProgress(telegram.Progress)

	if err := h.repo.Save(telegram); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
	}

	updated, err := h.repo.FindByID(telegram.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Telegram telah di update checklist", "telegram": buatTelegramResponse(updated, viewer)})
}
