package models

type ProductStatus string

const (
	ProductStatusAvailable   ProductStatus = "available"
	ProductStatusOutOfStock  ProductStatus = "out_of_stock"
	ProductStatusMaintenance ProductStatus = "maintenance"
)

// Product is the flat equipment view model.
type Product struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	Image       string        `json:"image"`
	Stock       int           `json:"stock"`
	Category    string        `json:"category"`
	Price       float64       `json:"price"`
	Description string        `json:"description"`
	Status      ProductStatus `json:"status"`
}

// ProductForm mirrors the add/edit product form; numeric fields arrive as text.
type ProductForm struct {
	Name        string `form:"name" json:"name"`
	Category    string `form:"category" json:"category"`
	Price       string `form:"price" json:"price"`
	Stock       string `form:"stock" json:"stock"`
	Description string `form:"description" json:"description"`
}

type ProductFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Page     int    `form:"page"`
}

type ProductPage struct {
	Items      []Product `json:"items"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
	Total      int       `json:"total"`
}

type ProductStats struct {
	Total       int     `json:"total"`
	Available   int     `json:"available"`
	OutOfStock  int     `json:"outOfStock"`
	Maintenance int     `json:"maintenance"`
	TotalValue  float64 `json:"totalValue"`
}

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
