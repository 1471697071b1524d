package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"movein-backend/config"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const exportSheet = "Sheet1"

// EnsureDirectoryExists creates dir and its parents when missing.
func EnsureDirectoryExists(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}
	return nil
}

// GenerateExcel writes headers and rows to a new workbook in dir and returns the file name.
func GenerateExcel(dir, taskName string, headers []string, rows [][]interface{}) (string, error) {
	if err := EnsureDirectoryExists(dir); err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			config.Logger.Warn("Failed to close workbook", zap.Error(err))
		}
	}()

	writeRow := func(rowNum int, values []interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		return f.SetSheetRow(exportSheet, cell, &values)
	}

	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := writeRow(1, headerRow); err != nil {
		return "", fmt.Errorf("error setting headers: %w", err)
	}

	for i, row := range rows {
		if err := writeRow(i+2, row); err != nil {
			return "", fmt.Errorf("error writing row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(exportSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		config.Logger.Warn("Failed to freeze header row", zap.Error(err))
	}

	// The random suffix keeps same-second exports apart and makes names unguessable.
	fileName := fmt.Sprintf("%s_%s_%s.xlsx", CleanStringForFilename(taskName), time.Now().Format("20060102_150405"), uuid.NewString())
	path := filepath.Join(dir, fileName)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("error saving workbook: %w", err)
	}

	config.Logger.Info("Excel export written", zap.String("path", path), zap.Int("rows", len(rows)))
	return fileName, nil
}
