package transport

import "github.com/shopspring/decimal"

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"user_type"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"user_type"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	UserType     string `json:"user_type"`
	ID           uint   `json:"id"`
}

type CreateProductRequest struct {
	Name     string           `json:"name"`
	Price    *decimal.Decimal `json:"price"`
	Category string           `json:"category"`
	ImageURL string           `json:"image_url"`
}

type PatchProductRequest struct {
	Name     *string          `json:"name"`
	Price    *decimal.Decimal `json:"price"`
	Category *string          `json:"category"`
	ImageURL *string          `json:"image_url"`
}

type ReplaceCartRequest struct {
	ProductIDs []uint `json:"product_ids"`
}

type CreateOrderRequest struct {
	VendorID   uint             `json:"vendor_id"`
	TotalPrice *decimal.Decimal `json:"total_price"`
}

type CheckoutRequest struct {
	ProductIDs []uint `json:"product_ids"`
}

type CreateReviewRequest struct {
	Rating   *int    `json:"rating"`
	Comment  *string `json:"comment"`
	VendorID *uint   `json:"vendor_id"`
}

type PatchReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}
