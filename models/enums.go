package models

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Category groups items for filtering and the category distribution chart
type Category string

const (
	CategoryRobotics Category = "robotics_and_electronics"
	CategoryArts     Category = "arts_and_crafts"
	CategoryDesign   Category = "design_and_prototyping"
	CategoryKitchen  Category = "kitchen_baking_activities"
	CategoryOffice   Category = "general_office_administrative"
)

// Categories lists every category in display order
func Categories() []Category {
	return []Category{CategoryRobotics, CategoryArts, CategoryDesign, CategoryKitchen, CategoryOffice}
}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	for _, v := range Categories() {
		if c == v {
			return true
		}
	}
	return false
}

// Label returns "Robotics And Electronics" style text
func (c Category) Label() string { return humanize(string(c)) }

// GormDBDataType maps the column to the postgres enum
func (Category) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return enumType(db, "item_category")
}

// UnitType is the unit of measurement for an item
type UnitType string

const (
	UnitPiece UnitType = "piece"
	UnitKg    UnitType = "kg"
	UnitGram  UnitType = "gram"
	UnitLiter UnitType = "liter"
	UnitMeter UnitType = "meter"
	UnitBox   UnitType = "box"
	UnitPack  UnitType = "pack"
	UnitSet   UnitType = "set"
	UnitPair  UnitType = "pair"
	UnitUnit  UnitType = "unit"
)

// UnitTypes lists every unit type
func UnitTypes() []UnitType {
	return []UnitType{UnitPiece, UnitKg, UnitGram, UnitLiter, UnitMeter, UnitBox, UnitPack, UnitSet, UnitPair, UnitUnit}
}

// Valid reports whether u is a known unit
func (u UnitType) Valid() bool {
	for _, v := range UnitTypes() {
		if u == v {
			return true
		}
	}
	return false
}

// GormDBDataType maps the column to the postgres enum
func (UnitType) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return enumType(db, "unit_type")
}

// TransactionType is the kind of stock movement recorded in the ledger
type TransactionType string

const (
	TransactionPurchase    TransactionType = "purchase"
	TransactionSale        TransactionType = "sale"
	TransactionAdjustment  TransactionType = "adjustment"
	TransactionTransferIn  TransactionType = "transfer_in"
	TransactionTransferOut TransactionType = "transfer_out"
	TransactionWriteOff    TransactionType = "write_off"
)

// TransactionTypes lists every transaction type
func TransactionTypes() []TransactionType {
	return []TransactionType{
		TransactionPurchase,
		TransactionSale,
		TransactionAdjustment,
		TransactionTransferIn,
		TransactionTransferOut,
		TransactionWriteOff,
	}
}

// Valid reports whether t is a known transaction type
func (t TransactionType) Valid() bool {
	for _, v := range TransactionTypes() {
		if t == v {
			return true
		}
	}
	return false
}

// Label returns "Transfer In" style text
func (t TransactionType) Label() string { return humanize(string(t)) }

// GormDBDataType maps the column to the postgres enum
func (TransactionType) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return enumType(db, "transaction_type")
}

func enumType(db *gorm.DB, pgName string) string {
	if db.Dialector.Name() == "postgres" {
		return pgName
	}
	return "varchar(64)"
}

func humanize(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
