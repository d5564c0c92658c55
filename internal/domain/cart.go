package domain

type Cart struct {
	ID       string     `bson:"_id,omitempty" json:"id"`
	Products []CartItem `bson:"products" json:"products"`
}

type CartItem struct {
	ProductID string `bson:"product_id" json:"productId"`
	Quantity  int    `bson:"quantity" json:"quantity"`
}

// AddProduct increments the line for productID, appending a new line with quantity 1 if there is none.
func (c *Cart) AddProduct(productID string) {
	for i := range c.Products {
		if c.Products[i].ProductID == productID {
			c.Products[i].Quantity++
			return
		}
	}
	c.Products = append(c.Products, CartItem{ProductID: productID, Quantity: 1})
}
