package models

// Supplier represents suppliers table. Suppliers are soft deleted by
// clearing IsActive so items keep their reference.
type Supplier struct {
	BaseModel
	Name         string  `gorm:"type:varchar(200);not null" json:"name"`
	ContactName  *string `gorm:"type:varchar(100)" json:"contact_name,omitempty"`
	ContactEmail *string `gorm:"type:varchar(100)" json:"contact_email,omitempty"`
	Phone        *string `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Address      *string `gorm:"type:text" json:"address,omitempty"`
	Remarks      *string `gorm:"type:text" json:"remarks,omitempty"`
	IsActive     bool    `gorm:"not null;default:true" json:"is_active"`
}

// TableName specifies the table name for Supplier
func (Supplier) TableName() string {
	return "suppliers"
}
