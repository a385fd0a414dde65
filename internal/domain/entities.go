package domain

// Nombres de entidad del catálogo. El esquema real de cada una lo define la
// cadena de migraciones, no un struct Go: los campos existentes dependen de
// la versión a la que esté migrado el store.
const (
	EntityCategory = "category"
	EntitySupplier = "supplier"
	EntityProduct  = "product"
)

// Nombres de campo compartidos entre capas.
const (
	FieldName         = "name"
	FieldDescription  = "description"
	FieldContactEmail = "contact_email"
	FieldPhone        = "phone"
	FieldPrice        = "price"
	FieldCategory     = "category"
	FieldSupplier     = "supplier"
	FieldStockCount   = "stock_count"
	FieldCreatedAt    = "created_at"
)
