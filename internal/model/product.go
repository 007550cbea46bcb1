package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Defaults applied to products created implicitly by an invoice
const (
	DefaultProductCategory = "Electronics"
	DefaultProductUnit     = "pcs"
)

// Product represents the product model stored in the database
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	ProductCode string          `json:"product_code" gorm:"type:varchar(20);uniqueIndex;not null"`
	ProductName string          `json:"product_name" gorm:"type:varchar(255);index;not null"`
	Category    string          `json:"category" gorm:"type:varchar(100);default:Electronics"`
	Unit        string          `json:"unit" gorm:"type:varchar(20);default:pcs"`
	BasePrice   decimal.Decimal `json:"base_price" gorm:"type:numeric(15,2);not null;default:0"`
	Description string          `json:"description" gorm:"type:text"`
	Status      string          `json:"status" gorm:"type:varchar(20);not null;default:active;index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
