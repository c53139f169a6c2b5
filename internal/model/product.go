package model

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	BaseModel
	Name           string    `gorm:"type:varchar(255);not null" json:"name" validate:"required,min=3,max=100"`
	Description    string    `gorm:"type:text;not null" json:"description" validate:"required"`
	Price          float64   `gorm:"not null" json:"price" validate:"required,gt=0"`
	Category       string    `gorm:"type:varchar(100);not null" json:"category" validate:"required"`
	ProductionDate time.Time `gorm:"type:date;not null" json:"production_date" validate:"required"`

	// Opaque blob store handle for the product image, nil when none was uploaded
	ImageKey *string `gorm:"type:varchar(255)" json:"image_key,omitempty"`

	// Owning farmer
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id" validate:"uuid_required"`
	Farmer *User     `gorm:"foreignKey:UserID" json:"farmer,omitempty"`
}

// ProductResponse for API responses
type ProductResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Price          float64   `json:"price"`
	Category       string    `json:"category"`
	ProductionDate string    `json:"production_date"`
	ImageKey       *string   `json:"image_key,omitempty"`
	FarmerID       uuid.UUID `json:"farmer_id"`
	FarmerName     string    `json:"farmer_name,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToResponse converts Product to ProductResponse
func (p *Product) ToResponse() ProductResponse {
	response := ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		Category:       p.Category,
		ProductionDate: p.ProductionDate.Format("2006-01-02"),
		ImageKey:       p.ImageKey,
		FarmerID:       p.UserID,
		CreatedAt:      p.CreatedAt,
	}

	if p.Farmer != nil {
		response.FarmerName = p.Farmer.FullName()
	}

	return response
}
