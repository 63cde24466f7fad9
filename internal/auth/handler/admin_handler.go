package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ttogle918/KOCRUIT/internal/auth/dto"
	autherror "github.com/ttogle918/KOCRUIT/internal/errors"
	"github.com/ttogle918/KOCRUIT/internal/logger"
)

func (h *AuthHandler) GetAllUsers(c *fiber.Ctx) error {
	users, err := h.userService.ListUsers(c.UserContext())
	if err != nil {
		logger.L().Errorw("failed to list users", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list users",
		})
	}

	out := make([]dto.UserOutput, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserOutput(&users[i]))
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

func (h *AuthHandler) UpdateUserRole(c *fiber.Ctx) error {
	var input dto.UpdateRoleInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	err := h.userService.UpdateUserRole(c.UserContext(), c.Params("id"), input.Role)
	if err != nil {
		if errors.Is(err, autherror.ErrPrincipalNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
		}
		logger.L().Errorw("failed to update role", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to update role",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}
