package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pgstay-backend/models"
	"pgstay-backend/utils"
)

var DB *gorm.DB

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := utils.EnvOrDefault("DB_USER", "root")
	pass := utils.EnvOrDefault("DB_PASS", "")
	host := utils.EnvOrDefault("DB_HOST", "127.0.0.1")
	port := utils.EnvOrDefault("DB_PORT", "3306")
	dbName := utils.EnvOrDefault("DB_NAME", "pgstay_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

// ConnectDatabase opens the MySQL connection, migrates the schema and seeds
// reference data. Sets the package-level DB handle.
func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return err
	}
	DB = db

	// Parent -> child order.
	if err := DB.AutoMigrate(
		&models.Owner{},
		&models.Building{},
		&models.Room{},
		&models.Guest{},
		&models.Invoice{},
		&models.Payment{},
	); err != nil {
		return err
	}

	return SeedDatabase()
}

// SeedDatabase creates the default owner account and, when SEED_DEMO_DATA
// is set, one demo building with a couple of rooms.
func SeedDatabase() error {
	var ownerCount int64
	DB.Model(&models.Owner{}).Count(&ownerCount)
	if ownerCount == 0 {
		password := utils.EnvOrDefault("SEED_OWNER_PASSWORD", "owner123")
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default owner password: %v", err)
		} else {
			owner := models.Owner{
				FullName: "Default Owner",
				Email:    utils.EnvOrDefault("SEED_OWNER_EMAIL", "owner@pgstay.local"),
				Password: string(hash),
			}
			if err := DB.Create(&owner).Error; err != nil {
				log.Printf("warning: failed to create default owner: %v", err)
			} else {
				log.Println("Default owner seeded")
			}
		}
	}

	if strings.ToLower(utils.EnvOrDefault("SEED_DEMO_DATA", "false")) != "true" {
		return nil
	}

	var buildingCount int64
	DB.Model(&models.Building{}).Count(&buildingCount)
	if buildingCount > 0 {
		log.Println("Demo data already seeded")
		return nil
	}

	var owner models.Owner
	if err := DB.First(&owner).Error; err != nil {
		return fmt.Errorf("seed demo data: no owner available: %w", err)
	}

	building := models.Building{
		OwnerID: owner.ID,
		Name:    "Sunrise Residency",
		Address: "12 Lake View Road",
		Rooms:   datatypes.JSONSlice[uint]{},
	}
	if err := DB.Create(&building).Error; err != nil {
		return fmt.Errorf("seed demo building: %w", err)
	}

	rooms := []models.Room{
		{BuildingID: building.ID, OwnerID: owner.ID, RoomNo: "101", Sharing: 2, Amount: 6500, Occupants: datatypes.JSONSlice[uint]{}},
		{BuildingID: building.ID, OwnerID: owner.ID, RoomNo: "102", Sharing: 3, Amount: 5000, Occupants: datatypes.JSONSlice[uint]{}},
	}
	if err := DB.Create(&rooms).Error; err != nil {
		return fmt.Errorf("seed demo rooms: %w", err)
	}
	for _, room := range rooms {
		building.Rooms = models.AppendID(building.Rooms, room.ID)
	}
	if err := DB.Model(&building).Update("rooms", building.Rooms).Error; err != nil {
		return fmt.Errorf("attach demo rooms: %w", err)
	}

	log.Println("Demo data seeded")
	return nil
}
