package model

import "time"

// Supplier represents the supplier model stored in the database
type Supplier struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	SupplierCode  string    `json:"supplier_code" gorm:"type:varchar(10);uniqueIndex;not null"`
	SupplierName  string    `json:"supplier_name" gorm:"type:varchar(255);index;not null"`
	Address       string    `json:"address" gorm:"type:text"`
	Phone         string    `json:"phone" gorm:"type:varchar(20)"`
	Email         string    `json:"email" gorm:"type:varchar(100)"`
	ContactPerson string    `json:"contact_person" gorm:"type:varchar(100)"`
	Status        string    `json:"status" gorm:"type:varchar(20);not null;default:active;index"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
