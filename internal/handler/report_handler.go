package handler

import (
	"fmt"
	"strings"

	"sanapati-backend/internal/model"
	"sanapati-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

type ReportHandler struct {
	telegramRepo repository.TelegramRepository
	userRepo     repository.UserRepository
}

func NewReportHandler(telegramRepo repository.TelegramRepository, userRepo repository.UserRepository) *ReportHandler {
	return &ReportHandler{telegramRepo: telegramRepo, userRepo: userRepo}
}

// ExportTelegrams mengekspor semua telegram (sesuai filter) ke .xlsx.
func (h *ReportHandler) ExportTelegrams(c *fiber.Ctx) error {
	filter := repository.TelegramFilter{
		Status:  c.Query("status"),
		Search:  strings.TrimSpace(c.Query("search")),
		SortAsc: c.Query("sortOrder") == "asc",
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

	telegrams, err := h.telegramRepo.ListAll(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error saat export data telegram", "error": err.Error()})
	}

	f := excelize.NewFile()
	defer f.Close()
	// Nama sheet Excel maksimal 31 karakter
	sheet := "Laporan Telegram Sanapati"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Instansi Pengirim", "Instansi Penerima", "Perihal", "Klasifikasi Surat", "Tanggal Surat", "Status"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, telegram := range telegrams {
		penerima := make([]string, 0, len(telegram.Penerima))
		for _, user := range telegram.Penerima {
			penerima = append(penerima, fmt.Sprintf("%s (%s)", user.Nama, user.Email))
		}
		penerimaStr := strings.Join(penerima, ", ")
		if penerimaStr == "" {
			penerimaStr = "Belum ada penerima"
		}

		values := []interface{}{
			telegram.InstansiPengirim,
			penerimaStr,
			telegram.Perihal,
			telegram.Klasifikasi,
			telegram.Tanggal.Format("2006-01-02"),
			telegram.Status,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	return kirimWorkbook(c, f, "laporan_telegram.xlsx")
}

// ExportUsers: rekap per instansi (jumlah telegram diterima/dibaca/belum).
func (h *ReportHandler) ExportUsers(c *fiber.Ctx) error {
	users, err := h.userRepo.GetAllOPD()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error saat export data telegram", "error": err.Error()})
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Laporan Telegram User"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Nama Instansi", "Email",
		"Total telegram yang diterima",
		"Total telegram yang dibaca",
		"Total telegram yang belum dibaca",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, user := range users {
		uid := user.ID
		total, err := h.telegramRepo.Count(repository.TelegramFilter{PenerimaID: &uid})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error saat export data telegram", "error": err.Error()})
		}
		dibaca, _ := h.telegramRepo.Count(repository.TelegramFilter{PenerimaID: &uid, Status: model.StatusDibaca})
		belum, _ := h.telegramRepo.Count(repository.TelegramFilter{PenerimaID: &uid, Status: model.StatusBelumDibaca})

		values := []interface{}{user.Nama, user.Email, total, dibaca, belum}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	return kirimWorkbook(c, f, "laporan_instansi.xlsx")
}

func kirimWorkbook(c *fiber.Ctx, f *excelize.File, filename string) error {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error saat export data telegram", "error": err.Error()})
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}
