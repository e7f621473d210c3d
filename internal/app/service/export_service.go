package service

import (
	"fmt"
	"io"

	"github.com/storefront-labs/storefront-backend/internal/app/repository"
	"github.com/storefront-labs/storefront-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// ExportService writes the product catalog to an XLSX workbook for
// back-office use
type ExportService interface {
	ExportCatalog(w io.Writer) (int, error)
}

type exportService struct {
	productRepo    repository.ProductRepository
	collectionRepo repository.CollectionRepository
}

func NewExportService(
	productRepo repository.ProductRepository,
	collectionRepo repository.CollectionRepository,
) ExportService {
	return &exportService{
		productRepo:    productRepo,
		collectionRepo: collectionRepo,
	}
}

var catalogHeaders = []string{"ID", "Title", "Slug", "Collection", "Unit Price", "Inventory", "Last Update"}

func (s *exportService) ExportCatalog(w io.Writer) (int, error) {
	logger.Info("Exporting product catalog", nil)

	products, err := s.productRepo.FindAll()
	if err != nil {
		logger.Error("Failed to load products for export", err, nil)
		return 0, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Catalog"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return 0, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, header := range catalogHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return 0, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return 0, err
		}
	}

	for i, product := range products {
		row := i + 2
		values := []interface{}{
			product.ID,
			product.Title,
			product.Slug,
			product.Collection.Title,
			product.UnitPrice,
			product.Inventory,
			product.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return 0, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return 0, err
			}
		}
	}

	if err := f.Write(w); err != nil {
		logger.Error("Failed to write catalog workbook", err, nil)
		return 0, fmt.Errorf("failed to write workbook: %w", err)
	}

	logger.Info("Product catalog exported", map[string]interface{}{
		"product_count": len(products),
	})
	return len(products), nil
}
