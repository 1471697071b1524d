package controllers

import (
	"movein-backend/bleve/repositories"
	"movein-backend/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type SearchController struct {
	repo *repositories.BleveRepository
}

func NewSearchController(repo *repositories.BleveRepository) *SearchController {
	return &SearchController{repo: repo}
}

// SearchNotices is public and only sees published notices.
func (sc *SearchController) SearchNotices(c *fiber.Ctx) error {
	results, err := sc.repo.SearchNotices(c.Query("q"), false)
	if err != nil {
		config.Logger.Error("Notice search failed", zap.String("query", c.Query("q")), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Search failed",
			"error":   "An internal server error occurred.",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Search completed",
		"data":    results,
	})
}

func (sc *SearchController) AdminSearchNotices(c *fiber.Ctx) error {
	results, err := sc.repo.SearchNotices(c.Query("q"), true)
	if err != nil {
		config.Logger.Error("Admin notice search failed", zap.String("query", c.Query("q")), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Search failed",
			"error":   "An internal server error occurred.",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Search completed",
		"data":    results,
	})
}

func (sc *SearchController) SearchCards(c *fiber.Ctx) error {
	results, err := sc.repo.SearchCards(c.Query("q"), c.Query("status"))
	if err != nil {
		config.Logger.Error("Move-in card search failed", zap.String("query", c.Query("q")), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Search failed",
			"error":   "An internal server error occurred.",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Search completed",
		"data":    results,
	})
}
