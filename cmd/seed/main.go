package main

import (
	"time"

	"github.com/tidecart/internal/config"
	"github.com/tidecart/internal/logger"
	"github.com/tidecart/internal/models"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

type seedProduct struct {
	category string
	product  models.Product
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, false, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(models.DB); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	if err := models.DB.Transaction(seed); err != nil {
		stdLog.Fatalf("Failed to seed data: %v", err)
	}
	logger.Infow("seed_completed")
}

// seed 按 slug / 名称幂等写入演示数据，重复执行不会产生重复行
func seed(tx *gorm.DB) error {
	categories := []models.Category{
		{Slug: "sea-fish", Name: "Sea Fish", Description: "Line-caught from the west coast", IsActive: true, SortOrder: 30},
		{Slug: "shellfish", Name: "Shellfish", Description: "Prawns, crabs and lobster", IsActive: true, SortOrder: 20},
		{Slug: "freshwater", Name: "Freshwater", Description: "River and farm fish", IsActive: true, SortOrder: 10},
	}
	categoryIDs := make(map[string]uint, len(categories))
	for i := range categories {
		c := categories[i]
		if err := tx.Where(models.Category{Slug: c.Slug}).Attrs(c).FirstOrCreate(&c).Error; err != nil {
			return err
		}
		categoryIDs[c.Slug] = c.ID
	}

	products := []seedProduct{
		{"sea-fish", models.Product{Slug: "seer-fish-steaks", Name: "Seer Fish Steaks", PriceAmount: models.NewMoneyFromString("780"), Unit: "500g", Origin: "Kochi", Tags: models.StringArray{"bestseller"}, InStock: true, IsActive: true, SortOrder: 50}},
		{"sea-fish", models.Product{Slug: "silver-pomfret", Name: "Silver Pomfret", PriceAmount: models.NewMoneyFromString("540"), Unit: "500g", Origin: "Mangaluru", Tags: models.StringArray{"whole", "cleaned"}, InStock: true, IsActive: true, SortOrder: 40}},
		{"sea-fish", models.Product{Slug: "indian-mackerel", Name: "Indian Mackerel", PriceAmount: models.NewMoneyFromString("220"), Unit: "500g", Origin: "Goa", InStock: true, IsActive: true, SortOrder: 35}},
		{"shellfish", models.Product{Slug: "tiger-prawns", Name: "Tiger Prawns", PriceAmount: models.NewMoneyFromString("620"), Unit: "500g", Origin: "Ratnagiri", Tags: models.StringArray{"deveined"}, InStock: true, IsActive: true, SortOrder: 30}},
		{"shellfish", models.Product{Slug: "mud-crab", Name: "Mud Crab", PriceAmount: models.NewMoneyFromString("890"), Unit: "1kg", Origin: "Chilika", InStock: true, IsActive: true, SortOrder: 25}},
		{"freshwater", models.Product{Slug: "rohu-curry-cut", Name: "Rohu Curry Cut", PriceAmount: models.NewMoneyFromString("260"), Unit: "500g", Origin: "Kolkata", InStock: false, IsActive: true, SortOrder: 10}},
	}
	productIDs := make(map[string]uint, len(products))
	for _, item := range products {
		p := item.product
		p.CategoryID = categoryIDs[item.category]
		if err := tx.Where(models.Product{Slug: p.Slug}).Attrs(p).FirstOrCreate(&p).Error; err != nil {
			return err
		}
		productIDs[p.Slug] = p.ID
	}

	badges := []models.TrustedBadge{
		{Title: "Chemical free", Description: "No formalin or ammonia, ever", Icon: "shield", IsActive: true, SortOrder: 3},
		{Title: "Cold chain", Description: "Held at 0-4°C from harbour to door", Icon: "snowflake", IsActive: true, SortOrder: 2},
		{Title: "Same day catch", Description: "Sourced the morning of delivery", Icon: "anchor", IsActive: true, SortOrder: 1},
	}
	for i := range badges {
		b := badges[i]
		if err := tx.Where(models.TrustedBadge{Title: b.Title}).Attrs(b).FirstOrCreate(&b).Error; err != nil {
			return err
		}
	}

	seer := productIDs["seer-fish-steaks"]
	prawns := productIDs["tiger-prawns"]
	featured := []models.FeaturedFish{
		{ProductID: &seer, Name: "Seer Fish", Description: "King of the Konkan coast", Badge: "seasonal", PriceAmount: models.NewMoneyFromString("780"), IsActive: true, SortOrder: 2},
		{ProductID: &prawns, Name: "Tiger Prawns", Description: "Jumbo and deveined", Badge: "limited", PriceAmount: models.NewMoneyFromString("620"), IsActive: true, SortOrder: 1},
	}
	for i := range featured {
		f := featured[i]
		if err := tx.Where(models.FeaturedFish{Name: f.Name}).Attrs(f).FirstOrCreate(&f).Error; err != nil {
			return err
		}
	}

	now := time.Now()
	post := models.Post{
		Slug:        "how-to-spot-fresh-fish",
		Title:       "How to spot fresh fish",
		Summary:     "Clear eyes, red gills and firm flesh.",
		Content:     "Press the flesh: it should spring back. Gills should be bright red and the eyes clear and bulging.",
		Author:      "Tidecart Kitchen",
		Tags:        models.StringArray{"guide"},
		IsActive:    true,
		PublishedAt: &now,
	}
	if err := tx.Where(models.Post{Slug: post.Slug}).Attrs(post).FirstOrCreate(&post).Error; err != nil {
		return err
	}

	tomorrow := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	windows := []struct {
		display    string
		start, end int
		sortOrder  int
	}{
		{"Tomorrow 7-9 AM", 7, 9, 3},
		{"Tomorrow 11 AM-1 PM", 11, 13, 2},
		{"Tomorrow 5-7 PM", 17, 19, 1},
	}
	for _, w := range windows {
		start := tomorrow.Add(time.Duration(w.start) * time.Hour)
		end := tomorrow.Add(time.Duration(w.end) * time.Hour)
		slot := models.DeliverySlot{Display: w.display, StartAt: &start, EndAt: &end, Capacity: 25, Available: true, IsActive: true, SortOrder: w.sortOrder}
		if err := tx.Where(models.DeliverySlot{Display: w.display}).Attrs(slot).FirstOrCreate(&slot).Error; err != nil {
			return err
		}
	}
	return nil
}
