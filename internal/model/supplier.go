package model

import "github.com/google/uuid"

type Supplier struct {
	BaseModel
	StoreID     uuid.UUID `gorm:"type:uuid;not null;index" json:"store_id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	ContactName string    `gorm:"type:varchar(255)" json:"contact_name"`
	Phone       string    `gorm:"type:varchar(30)" json:"phone"`
	Email       string    `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	Address     string    `gorm:"type:text" json:"address"`
}
