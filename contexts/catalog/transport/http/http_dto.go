package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CategoryDTO struct {
	CategoryID string `json:"id"`
	Name       string `json:"name"`
	Icon       string `json:"icon,omitempty"`
	Color      string `json:"color,omitempty"`
}

type ProductDTO struct {
	ProductID       string       `json:"id"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	RichDescription string       `json:"richDescription,omitempty"`
	Image           string       `json:"image,omitempty"`
	Images          []string     `json:"images,omitempty"`
	Brand           string       `json:"brand,omitempty"`
	Price           float64      `json:"price"`
	Category        *CategoryDTO `json:"category,omitempty"`
	CountInStock    int          `json:"countInStock"`
	Rating          float64      `json:"rating"`
	NumReviews      int          `json:"numReviews"`
	IsFeatured      bool         `json:"isFeatured"`
	DateCreated     string       `json:"dateCreated"`
}

type CategoryRequest struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type CategoryResponse struct {
	Status string      `json:"status"`
	Data   CategoryDTO `json:"data"`
}

type ListCategoriesResponse struct {
	Status string        `json:"status"`
	Data   []CategoryDTO `json:"data"`
}

// ProductRequest carries the multipart form fields of a product write; the
// image arrives as a file part and is resolved to a URL before this request
// reaches the handler.
type ProductRequest struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	RichDescription string  `json:"richDescription"`
	Image           string  `json:"image"`
	Brand           string  `json:"brand"`
	Price           float64 `json:"price"`
	Category        string  `json:"category"`
	CountInStock    int     `json:"countInStock"`
	Rating          float64 `json:"rating"`
	NumReviews      int     `json:"numReviews"`
	IsFeatured      bool    `json:"isFeatured"`
}

type ProductResponse struct {
	Status string     `json:"status"`
	Data   ProductDTO `json:"data"`
}

type ListProductsResponse struct {
	Status string       `json:"status"`
	Data   []ProductDTO `json:"data"`
}

type CountProductsResponse struct {
	ProductCount int64 `json:"productCount"`
}

type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
