package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/storefront-labs/storefront-backend/config"
	"github.com/storefront-labs/storefront-backend/internal/app/model"
	"github.com/storefront-labs/storefront-backend/internal/app/repository"
	"github.com/storefront-labs/storefront-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Imports a product catalog from an XLSX workbook. Expected columns:
// Collection | Title | Description | Unit Price | Inventory
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	collectionRepo := repository.NewCollectionRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, err := readCatalogRows(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total product rows to import: %d\n", len(rows))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	// Collections are created on first sight, keyed by title
	collectionIDs := make(map[string]uint)
	var products []model.Product
	skippedCount := 0

	for _, row := range rows {
		collectionTitle := strings.TrimSpace(row[0])
		title := strings.TrimSpace(row[1])
		if collectionTitle == "" || title == "" {
			skippedCount++
			continue
		}

		description := strings.TrimSpace(row[2])
		unitPrice, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
		if err != nil || unitPrice <= 0 {
			skippedCount++
			continue
		}
		inventory, err := strconv.Atoi(strings.TrimSpace(row[4]))
		if err != nil || inventory < 0 {
			inventory = 0
		}

		collectionID, ok := collectionIDs[collectionTitle]
		if !ok {
			collection := &model.Collection{Title: collectionTitle}
			if err := collectionRepo.Create(collection); err != nil {
				log.Fatal("Failed to create collection:", err)
			}
			collectionID = collection.ID
			collectionIDs[collectionTitle] = collectionID
			fmt.Printf("Created collection: %s\n", collectionTitle)
		}

		products = append(products, model.Product{
			Title:        title,
			Description:  description,
			UnitPrice:    unitPrice,
			Inventory:    inventory,
			CollectionID: collectionID,
		})
	}

	if skippedCount > 0 {
		fmt.Printf("Skipped %d invalid rows\n", skippedCount)
	}

	batchSize := 500
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := productRepo.BulkCreate(products, batchSize); err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Collections created: %d\n", len(collectionIDs))
	fmt.Printf("Products imported: %d\n", len(products))
}

func readCatalogRows(filePath string) ([][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	fmt.Printf("Headers: %v\n", rows[0])

	var out [][]string
	for _, row := range rows[1:] {
		if len(row) < 5 {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}
