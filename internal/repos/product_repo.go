package repos

import (
	"time"

	"shopdemo/internal/domain"
)

// ProductRepo serves the fixed demo catalog. It is seeded once and never
// mutated; callers get copies.
type ProductRepo struct {
	products   []domain.Product
	categories []string
}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{products: seedProducts(), categories: seedCategories()}
}

// NewProductRepoWith builds a repo over an explicit product list.
func NewProductRepoWith(products []domain.Product, categories []string) *ProductRepo {
	return &ProductRepo{
		products:   append([]domain.Product(nil), products...),
		categories: append([]string(nil), categories...),
	}
}

func (r *ProductRepo) List() []domain.Product {
	return append([]domain.Product(nil), r.products...)
}

func (r *ProductRepo) Categories() []string {
	return append([]string(nil), r.categories...)
}

func seedCategories() []string {
	return []string{
		domain.CategoryElectronics,
		domain.CategoryFashion,
		domain.CategoryHomeGarden,
		domain.CategorySports,
		domain.CategoryBooks,
	}
}

func seedProducts() []domain.Product {
	day := func(d int) time.Time { return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC) }
	mk := func(id, name, desc string, price int64, img, cat string, stock, d int) domain.Product {
		return domain.Product{
			ID: id, Name: name, Description: desc, Price: price,
			Images: []string{"/images/products/" + img}, Category: cat, Stock: stock,
			CreatedAt: day(d), UpdatedAt: day(d),
		}
	}
	return []domain.Product{
		mk("1", "Wireless Earphones Pro", "High-fidelity wireless earphones with noise cancelling, comfortable for long listening sessions.",
			15800, "earphones-1.jpg", domain.CategoryElectronics, 50, 1),
		mk("2", "Smartwatch", "A smartwatch packed with features, from health tracking to workouts.",
			28900, "smartwatch-1.jpg", domain.CategoryElectronics, 30, 2),
		mk("3", "Casual T-Shirt", "A comfortable casual T-shirt made from soft fabric.",
			3200, "tshirt-1.jpg", domain.CategoryFashion, 100, 3),
		mk("4", "Denim Jacket", "A classic denim jacket that goes with any style.",
			8900, "denim-jacket-1.jpg", domain.CategoryFashion, 25, 4),
		mk("5", "Coffee Maker", "Fully automatic coffee maker for proper coffee, simple to use on busy mornings.",
			19800, "coffee-maker-1.jpg", domain.CategoryHomeGarden, 15, 5),
		mk("6", "Houseplant Set", "A set of houseplants to brighten your room, picked to be easy for beginners.",
			5600, "plants-1.jpg", domain.CategoryHomeGarden, 40, 6),
		mk("7", "Yoga Mat", "A high-quality non-slip yoga mat, ideal for exercising at home.",
			4800, "yoga-mat-1.jpg", domain.CategorySports, 60, 7),
		mk("8", "Running Shoes", "Lightweight, comfortable running shoes for your daily run.",
			12600, "running-shoes-1.jpg", domain.CategorySports, 35, 8),
		mk("9", "Introduction to Programming", "A beginner's programming book covering the basics through practice.",
			2800, "programming-book-1.jpg", domain.CategoryBooks, 80, 9),
		mk("10", "Design Thinking Handbook", "A practical book on design thinking, full of ideas to use at work.",
			3400, "design-book-1.jpg", domain.CategoryBooks, 45, 10),
		mk("11", "Wireless Charger", "Charge your phone or wireless earphones just by setting them down.",
			6800, "wireless-charger-1.jpg", domain.CategoryElectronics, 70, 11),
		mk("12", "Backpack", "A roomy backpack for commuting, with a padded laptop compartment.",
			9800, "backpack-1.jpg", domain.CategoryFashion, 55, 12),
	}
}
