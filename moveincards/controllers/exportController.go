package controllers

import (
	"os"
	"path/filepath"
	"strings"

	"movein-backend/config"
	"movein-backend/db/models"
	"movein-backend/moveincards/services"
	"movein-backend/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ExportURLPrefix is the admin-only route serving generated exports.
const ExportURLPrefix = "/api/v1/admin/move-in-cards/export"

var exportHeaders = []string{
	"Company", "Business Type", "Tenant Type", "Floor", "Room", "Move-in Date",
	"Contact Person", "Contact Phone", "Contact Email", "Employees",
	"Parking Needed", "Parking Count", "Vehicles", "Special Requests",
	"Status", "Admin Notes", "Owner", "Owner Email", "Submitted At",
}

func exportRow(card *models.MoveInCard) []interface{} {
	var ownerName, ownerEmail string
	if card.Profile != nil {
		ownerName, ownerEmail = card.Profile.Name, card.Profile.Email
	}
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	parking := "No"
	if card.ParkingNeeded {
		parking = "Yes"
	}

	return []interface{}{
		card.CompanyName, card.BusinessType, string(card.TenantType),
		card.FloorNumber, card.RoomNumber, card.MoveInDate.String(),
		card.ContactPerson, card.ContactPhone, card.ContactEmail, card.EmployeeCount,
		parking, card.ParkingCount, strings.Join(card.VehicleNumbers, ", "), deref(card.SpecialRequests),
		string(card.Status), deref(card.AdminNotes), ownerName, ownerEmail,
		card.CreatedAt.Format("2006-01-02 15:04"),
	}
}

// Export writes the filtered admin list to a spreadsheet and returns its download link.
func (mc *MoveInCardController) Export(c *fiber.Ctx) error {
	var filter services.CardFilter
	if err := c.QueryParser(&filter); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid filter",
			"error":   err.Error(),
		})
	}

	cards, err := mc.Repo.ListAll()
	if err != nil {
		config.Logger.Error("Failed to list move-in cards for export", zap.Error(err))
		return internalError(c, "Failed to export move-in cards")
	}
	filtered := services.FilterCards(cards, filter)

	rows := make([][]interface{}, 0, len(filtered))
	for i := range filtered {
		rows = append(rows, exportRow(&filtered[i]))
	}

	fileName, err := utils.GenerateExcel(mc.ExportDir, "move_in_cards", exportHeaders, rows)
	if err != nil {
		config.Logger.Error("Failed to generate move-in card export", zap.Error(err))
		return internalError(c, "Failed to export move-in cards")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Export ready",
		"data": fiber.Map{
			"file_url":     ExportURLPrefix + "/" + fileName,
			"download_url": utils.GetDownloadURL(c, ExportURLPrefix+"/"+fileName),
			"rows":         len(rows),
		},
	})
}

// DownloadExport streams a previously generated workbook. Only bare .xlsx names
// inside the export directory are served.
func (mc *MoveInCardController) DownloadExport(c *fiber.Ctx) error {
	name := c.Params("file")
	if name == "" || filepath.Base(name) != name || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".xlsx" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid file name",
			"error":   "invalid_file",
		})
	}

	path := filepath.Join(mc.ExportDir, name)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		if err != nil && !os.IsNotExist(err) {
			config.Logger.Error("Failed to stat export file", zap.String("file", name), zap.Error(err))
		}
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Export not found or expired",
			"error":   "not_found",
		})
	}

	return c.Download(path, name)
}
