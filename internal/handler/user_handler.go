package handler

import (
	"strconv"

	"sanapati-backend/internal/model"
	"sanapati-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	repo         repository.UserRepository
	telegramRepo repository.TelegramRepository
}

func NewUserHandler(repo repository.UserRepository, telegramRepo repository.TelegramRepository) *UserHandler {
	return &UserHandler{repo: repo, telegramRepo: telegramRepo}
}

// GetAll mengembalikan semua user OPD beserta jumlah telegram yang sudah
// dan belum dibaca masing-masing.
func (h *UserHandler) GetAll(c *fiber.Ctx) error {
	users, err := h.repo.GetAllOPD()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
	}

	type userWithCounts struct {
		model.User
		TelegramDibaca      int64 `json:"telegramDibaca"`
		TelegramBelumDibaca int64 `json:"telegramBelumDibaca"`
	}

	result := make([]userWithCounts, 0, len(users))
	for _, user := range users {
		uid := user.ID
		dibaca, err := h.telegramRepo.Count(repository.TelegramFilter{PenerimaID: &uid, Status: model.StatusDibaca})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
		}
		belumDibaca, err := h.telegramRepo.Count(repository.TelegramFilter{PenerimaID: &uid, Status: model.StatusBelumDibaca})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error", "error": err.Error()})
		}
		result = append(result, userWithCounts{
			User:                user,
			TelegramDibaca:      dibaca,
			TelegramBelumDibaca: belumDibaca,
		})
	}

	return c.JSON(result)
}

func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	user, err := h.repo.FindByID(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User tidak ditemukan"})
	}
	return c.JSON(user)
}
