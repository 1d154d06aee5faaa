package handler

import (
	"strings"

	"sanapati-backend/internal/middleware"
	"sanapati-backend/internal/model"
	"sanapati-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	repo repository.TelegramRepository
}

func NewDashboardHandler(repo repository.TelegramRepository) *DashboardHandler {
	return &DashboardHandler{repo: repo}
}

// GetDashboardData: statistik seluruh telegram untuk admin.
func (h *DashboardHandler) GetDashboardData(c *fiber.Ctx) error {
	return h.dashboard(c, nil)
}

// GetUserDashboardData: statistik telegram yang diterima user yang login.
func (h *DashboardHandler) GetUserDashboardData(c *fiber.Ctx) error {
	viewer := middleware.CurrentUser(c)
	return h.dashboard(c, &viewer.ID)
}

func (h *DashboardHandler) dashboard(c *fiber.Ctx, penerimaID *uint) error {
	viewer := middleware.CurrentUser(c)

	scope := repository.TelegramFilter{PenerimaID: penerimaID}
	total, err := h.repo.Count(scope)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
	}

	byStatus, err := h.repo.GroupByStatus(penerimaID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
	}

	// Key chart tanpa spasi ("Belum Dibaca" -> "BelumDibaca"), semua status
	// selalu ada walau 0
	distribution := fiber.Map{}
	for _, status := range []string{model.StatusDibaca, model.StatusBelumDibaca} {
		key := strings.ReplaceAll(status, " ", "")
		distribution[key] = byStatus[status]
	}
	distribution["Semua"] = total

	byKlasifikasi, err := h.repo.GroupByKlasifikasi(penerimaID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
	}
	klasifikasiLevels := fiber.Map{}
	for _, k := range model.SemuaKlasifikasi {
		klasifikasiLevels[k] = byKlasifikasi[k]
	}

	recent, err := h.repo.Recent(10, penerimaID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
	}
	recentResponses := make([]telegramResponse, 0, len(recent))
	for i := range recent {
		recentResponses = append(recentResponses, buatTelegramResponse(&recent[i], viewer))
	}

	return c.JSON(fiber.Map{
		"statistics": fiber.Map{
			"totalTelegrams":  total,
			"readTelegrams":   byStatus[model.StatusDibaca],
			"unreadTelegrams": byStatus[model.StatusBelumDibaca],
		},
		"charts": fiber.Map{
			"telegramDistribution":      distribution,
			"telegramKlasifikasiLevels": klasifikasiLevels,
		},
		"recentTelegrams": recentResponses,
	})
}
