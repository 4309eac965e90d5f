package model

// Store is a tenant. Products, stock and purchase orders belong to one store.
type Store struct {
	BaseModel
	Code    string `gorm:"type:varchar(30);uniqueIndex;not null" json:"code" validate:"required"`
	Name    string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Address string `gorm:"type:text" json:"address"`
	Phone   string `gorm:"type:varchar(30)" json:"phone"`
}
