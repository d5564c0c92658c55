package domain

type Product struct {
	ID          string   `bson:"_id,omitempty" json:"id"`
	Title       string   `bson:"title" json:"title"`
	Description string   `bson:"description" json:"description"`
	Code        string   `bson:"code" json:"code"`
	Price       float64  `bson:"price" json:"price"`
	Status      bool     `bson:"status" json:"status"`
	Stock       int      `bson:"stock" json:"stock"`
	Category    string   `bson:"category" json:"category"`
	Thumbnail   []string `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"`
}

// ProductInput is a creation candidate. Status is optional and defaults to active.
type ProductInput struct {
	Title       string   `json:"title" validate:"required,max=150"`
	Description string   `json:"description" validate:"required,max=300"`
	Code        string   `json:"code" validate:"required,max=10"`
	Price       float64  `json:"price" validate:"required"`
	Status      *bool    `json:"status,omitempty"`
	Stock       int      `json:"stock" validate:"required"`
	Category    string   `json:"category" validate:"required,max=20"`
	Thumbnail   []string `json:"thumbnail,omitempty"`
}

func (in ProductInput) ToProduct() Product {
	status := true
	if in.Status != nil {
		status = *in.Status
	}
	return Product{
		Title:       in.Title,
		Description: in.Description,
		Code:        in.Code,
		Price:       in.Price,
		Status:      status,
		Stock:       in.Stock,
		Category:    in.Category,
		Thumbnail:   in.Thumbnail,
	}
}

// ProductPatch carries the fields of a partial update; nil fields are left untouched.
type ProductPatch struct {
	Title       *string   `json:"title,omitempty" bson:"title,omitempty" validate:"omitempty,max=150"`
	Description *string   `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=300"`
	Code        *string   `json:"code,omitempty" bson:"code,omitempty" validate:"omitempty,max=10"`
	Price       *float64  `json:"price,omitempty" bson:"price,omitempty"`
	Status      *bool     `json:"status,omitempty" bson:"status,omitempty"`
	Stock       *int      `json:"stock,omitempty" bson:"stock,omitempty"`
	Category    *string   `json:"category,omitempty" bson:"category,omitempty" validate:"omitempty,max=20"`
	Thumbnail   *[]string `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
}

func (p ProductPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Code == nil && p.Price == nil &&
		p.Status == nil && p.Stock == nil && p.Category == nil && p.Thumbnail == nil
}

// Apply merges the patch onto a copy of the product.
func (p ProductPatch) Apply(product Product) Product {
	if p.Title != nil {
		product.Title = *p.Title
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Code != nil {
		product.Code = *p.Code
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Status != nil {
		product.Status = *p.Status
	}
	if p.Stock != nil {
		product.Stock = *p.Stock
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.Thumbnail != nil {
		product.Thumbnail = *p.Thumbnail
	}
	return product
}
