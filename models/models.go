package models

// AllModels returns all model structs for auto-migration
// IMPORTANT: Order matters! Parent tables must be created before child tables
func AllModels() []interface{} {
	return []interface{}{
		&Supplier{},
		&Item{},        // depends on: Supplier
		&Transaction{}, // depends on: Item
		&ActivityLog{},
	}
}
