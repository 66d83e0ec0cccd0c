package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// SeedData is the shape of the seed file.
type SeedData struct {
	Admin      SeedAdmin      `json:"admin"`
	Categories []SeedCategory `json:"categories"`
}

// SeedAdmin describes the initial administrator account.
type SeedAdmin struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// SeedCategory describes a category and its products.
type SeedCategory struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Products    []SeedProduct `json:"products"`
}

// SeedProduct describes a catalog product.
type SeedProduct struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Price         string `json:"price"`
	StockQuantity int    `json:"stock_quantity"`
}

func main() {
	log.Println("Starting seed script...")

	_ = godotenv.Load()
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	data, err := loadSeedFile(cfg.SeedFile)
	if err != nil {
		log.Fatalf("Failed to load seed file %s: %v", cfg.SeedFile, err)
	}

	ctx := context.Background()
	store := repository.NewStore(gormDB)

	if err := seedAdmin(ctx, store, data.Admin); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	created, skipped := 0, 0
	for _, sc := range data.Categories {
		category := &model.Category{Name: sc.Name, Description: sc.Description}
		if err := store.Categories.Create(ctx, category); err != nil {
			log.Printf("Skipping category %q: %v", sc.Name, err)
			skipped++
			continue
		}
		for _, sp := range sc.Products {
			price, err := decimal.NewFromString(sp.Price)
			if err != nil {
				log.Printf("Skipping product %q: bad price %q", sp.Name, sp.Price)
				skipped++
				continue
			}
			product := &model.Product{
				Name:          sp.Name,
				Description:   sp.Description,
				Price:         price,
				CategoryID:    category.ID,
				StockQuantity: sp.StockQuantity,
			}
			if err := store.Products.Create(ctx, product); err != nil {
				log.Printf("Skipping product %q: %v", sp.Name, err)
				skipped++
				continue
			}
			created++
		}
	}

	log.Printf("Seed completed: %d products created, %d entries skipped", created, skipped)
}

func loadSeedFile(path string) (*SeedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data SeedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func seedAdmin(ctx context.Context, store *repository.Store, admin SeedAdmin) error {
	if admin.Email == "" {
		log.Println("No admin in seed file, skipping")
		return nil
	}

	user := &model.User{
		FirstName: admin.FirstName,
		LastName:  admin.LastName,
		Email:     admin.Email,
		Role:      model.RoleAdmin,
	}
	user.NormalizeEmail()

	if existing, err := store.Users.FindByEmail(ctx, user.Email); err == nil && existing != nil {
		log.Printf("Admin %s already exists, skipping", user.Email)
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(admin.Password), 10)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashed)

	if err := store.Users.Create(ctx, user); err != nil {
		return err
	}
	log.Printf("Admin %s created", user.Email)
	return nil
}
