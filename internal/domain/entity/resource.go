package entity

// Category is the narrowed view of a category used by selectors and menus.
type Category struct {
	ID    string `json:"_id" mapstructure:"_id"`
	Name  string `json:"name" mapstructure:"name"`
	Image string `json:"image" mapstructure:"image"`
}

// Review is a product review as returned by the review listing.
type Review struct {
	ID        string  `json:"_id"`
	ProductID string  `json:"productId"`
	UserID    string  `json:"userId"`
	UserName  string  `json:"userName,omitempty"`
	Rating    float64 `json:"rating"`
	Comment   string  `json:"comment"`
	CreatedAt string  `json:"createdAt,omitempty"`
}

// ReviewInput is the payload for posting a review.
type ReviewInput struct {
	ProductID string  `json:"productId" validate:"required"`
	UserID    string  `json:"userId" validate:"required"`
	Rating    float64 `json:"rating" validate:"gte=1,lte=5"`
	Comment   string  `json:"comment"`
}

// CartItemInput is the payload for adding a product to the cart.
// Quantities and pricing are validated by the backend.
type CartItemInput struct {
	UserID    string `json:"userId" validate:"required"`
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

// CartUpdateInput is the payload for changing a cart line.
type CartUpdateInput struct {
	Quantity int `json:"quantity" validate:"gte=1"`
}

// WishListInput is the payload for adding a product to the wish-list.
type WishListInput struct {
	UserID    string `json:"userId" validate:"required"`
	ProductID string `json:"productId" validate:"required"`
}
