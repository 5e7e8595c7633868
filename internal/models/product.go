// internal/models/product.go
package models

type Product struct {
	BaseModel
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      ProductCategory `json:"category"`
	Price         float64         `json:"price"`
	OriginalPrice float64         `json:"originalPrice,omitempty"`
	Stock         int             `json:"stock"`
	Author        string          `json:"author,omitempty"`
	Publisher     string          `json:"publisher,omitempty"`
	PrintType     string          `json:"printType,omitempty"`
	Volume        string          `json:"volume,omitempty"`
	Language      string          `json:"language,omitempty"`
	Genres        []string        `json:"genres,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
	Image         string          `json:"image,omitempty"`
	Images        []string        `json:"images,omitempty"`
	Available     bool            `json:"available"`
	Featured      bool            `json:"featured"`
}

// InStock is derived and never stored.
func (p Product) InStock() bool {
	return p.Stock > 0 && p.Available
}

// ProductView is the response shape: the stored product plus inStock.
type ProductView struct {
	Product
	InStock bool `json:"inStock"`
}

func (p Product) View() ProductView {
	return ProductView{Product: p, InStock: p.InStock()}
}

func ProductViews(products []Product) []ProductView {
	out := make([]ProductView, len(products))
	for i, p := range products {
		out[i] = p.View()
	}
	return out
}
