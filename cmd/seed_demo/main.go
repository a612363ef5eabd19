package main

import (
	"fmt"
	"log"
	"time"

	"github.com/mittwerk/assetgo/internal/config"
	"github.com/mittwerk/assetgo/internal/database"
	"github.com/mittwerk/assetgo/internal/inventory"
	"github.com/mittwerk/assetgo/internal/models"
	"github.com/mittwerk/assetgo/internal/utils"
)

func main() {
	fmt.Println("🌱 assetgo Demo Data Seeder")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database")

	fmt.Println("🔨 Running database migrations...")
	err = db.AutoMigrate(
		&models.UserAuth{},
		&models.Asset{},
		&models.InventorySession{},
		&models.SessionDevice{},
		&models.OfflineScanItem{},
	)
	if err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	var assetCount int64
	db.Model(&models.Asset{}).Count(&assetCount)
	if assetCount > 0 {
		fmt.Printf("⚠️  Database already has %d assets. Clear it first? (y/N): ", assetCount)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("❌ Aborted. Database not modified.")
			return
		}
		db.Exec("DELETE FROM offline_scan_items")
		db.Exec("DELETE FROM session_devices")
		db.Exec("DELETE FROM inventory_sessions")
		db.Exec("DELETE FROM assets")
	}

	// Admin account
	hash, err := utils.HashPassword("admin")
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}
	admin := models.UserAuth{
		Username: "admin",
		Email:    "admin@example.de",
		Password: hash,
		Name:     "IT Administration",
		Role:     models.RoleAdmin,
	}
	if err := db.Where("email = ?", admin.Email).FirstOrCreate(&admin).Error; err != nil {
		log.Fatalf("❌ Failed to create admin: %v", err)
	}
	fmt.Println("👤 Admin user ready (admin@example.de / admin)")

	// Asset registry
	lastSeen := time.Now().AddDate(0, -1, 0)
	assets := []models.Asset{
		{Name: "ThinkPad T14 Gen 4", SerialNumber: "PF3XK1RT", InventoryNumber: "IT-0001", Location: "Büro 1.01", Status: models.AssetStatusInUse, LastSeen: &lastSeen},
		{Name: "ThinkPad X1 Carbon", SerialNumber: "PF3XL9QW", InventoryNumber: "IT-0002", Location: "Büro 1.02", Status: models.AssetStatusInUse, LastSeen: &lastSeen},
		{Name: "Dell U2723QE", SerialNumber: "CN0H2Y4K", InventoryNumber: "IT-0003", Location: "Büro 1.01", Status: models.AssetStatusInUse},
		{Name: "Dell U2723QE", SerialNumber: "CN0H2Y7M", InventoryNumber: "IT-0004", Location: "Büro 1.02", Status: models.AssetStatusInUse},
		{Name: "Brother HL-L5100DN", SerialNumber: "E78029K5", InventoryNumber: "IT-0005", Location: "Flur EG", Status: models.AssetStatusInUse},
		{Name: "iPhone 15", SerialNumber: "F2LW48XQ", InventoryNumber: "IT-0006", Location: "Lager", Status: models.AssetStatusInStock},
		{Name: "Logitech MX Keys", SerialNumber: "2309LZ014", InventoryNumber: "IT-0007", Location: "Lager", Status: models.AssetStatusInStock},
		{Name: "Cisco C9200-24T", SerialNumber: "JAE25460AB", InventoryNumber: "IT-0008", Location: "Serverraum", Status: models.AssetStatusInUse},
	}
	for i := range assets {
		if err := db.Create(&assets[i]).Error; err != nil {
			log.Fatalf("❌ Failed to create asset %s: %v", assets[i].InventoryNumber, err)
		}
	}
	fmt.Printf("💻 Created %d assets\n", len(assets))

	// A planned demo session over the whole registry
	svc := inventory.NewService(db.DB)
	session, err := svc.CreateSession(inventory.CreateSessionInput{
		Name:     "Jahresinventur " + fmt.Sprint(time.Now().Year()),
		Location: "Hauptstandort",
		Actor:    &admin.ID,
	})
	if err != nil {
		log.Fatalf("❌ Failed to create demo session: %v", err)
	}
	fmt.Printf("📋 Created session %q with %d devices\n", session.Name, session.TotalDevices)

	fmt.Println("✅ Demo data seeded")
}
