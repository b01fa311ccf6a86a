package domain

// Product prices are whole Kenyan Shillings.
type Product struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Price       int64    `json:"price" yaml:"price"`
	Category    string   `json:"category" yaml:"category"`
	Images      []string `json:"images" yaml:"images"`
	Keywords    []string `json:"keywords" yaml:"keywords"`
	Rating      float64  `json:"rating" yaml:"rating"`
	ReviewCount int      `json:"reviewCount" yaml:"review_count"`
	Reviews     []Review `json:"reviews" yaml:"reviews"`
}

type Review struct {
	ID     int     `json:"id" yaml:"id"`
	Author string  `json:"author" yaml:"author"`
	Rating float64 `json:"rating" yaml:"rating"`
	Text   string  `json:"text" yaml:"text"`
	Date   string  `json:"date" yaml:"date"`
}
