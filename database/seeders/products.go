package seeders

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/kasir/app/models"
)

func init() {
	Register("products", SeedProducts)
}

var demoProducts = []struct {
	name  string
	price int64
	stock int
}{
	{"Indomie Goreng", 3500, 120},
	{"Teh Botol Sosro 450ml", 6000, 48},
	{"Aqua 600ml", 4000, 96},
	{"Roti Tawar Sari Roti", 17000, 12},
	{"Gula Pasir 1kg", 18500, 30},
}

// SeedProducts fills an empty catalog with a few demo items.
func SeedProducts(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := make([]models.Product, 0, len(demoProducts))
	for _, p := range demoProducts {
		products = append(products, models.Product{
			Name:  p.name,
			Price: decimal.NewFromInt(p.price),
			Stock: p.stock,
		})
	}
	return db.Create(&products).Error
}
