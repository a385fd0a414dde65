// Package migrations define la cadena de migraciones del catálogo de
// inventario: cuatro pasos lineales que llevan el store desde el esquema
// vacío (v0) hasta el esquema vigente con datos semilla (v4).
//
// Historial:
//
//	0001 – Category y Product (name, price, category, created_at)
//	0002 – Product.stock_count (default 0, con backfill)
//	0003 – Supplier + referencia Product.supplier
//	0004 – datos semilla (2 categorías, 2 proveedores, 4 productos)
package migrations

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/catalogo-inventario/internal/domain"
	"github.com/jhoicas/catalogo-inventario/internal/domain/schema"
	"github.com/jhoicas/catalogo-inventario/internal/migration"
)

// Steps devuelve los pasos de la cadena en orden. Cada llamada construye
// instancias frescas: los pasos no guardan estado entre corridas (los ids
// sembrados viven en el journal del store).
func Steps() []*migration.Step {
	return []*migration.Step{
		initial(),
		addStockCount(),
		supplier(),
		seedData(),
	}
}

// Chain construye la cadena completa.
func Chain(opts ...migration.ChainOption) (*migration.Chain, error) {
	return migration.NewChain(Steps(), opts...)
}

// 0001 – esquema inicial: Category y Product con referencia nullable a
// Category (detach al borrar la categoría).
func initial() *migration.Step {
	return &migration.Step{
		Version: 1,
		Name:    "0001_initial",
		Operations: []migration.Operation{
			migration.CreateEntity{Entity: &schema.Entity{
				Name: domain.EntityCategory,
				Fields: []schema.Field{
					{Name: domain.FieldName, Kind: schema.Text, Required: true, MaxLen: 100, Searchable: true},
					{Name: domain.FieldDescription, Kind: schema.LongText},
				},
			}},
			migration.CreateEntity{Entity: &schema.Entity{
				Name: domain.EntityProduct,
				Fields: []schema.Field{
					{Name: domain.FieldName, Kind: schema.Text, Required: true, MaxLen: 200, Searchable: true},
					{Name: domain.FieldPrice, Kind: schema.Decimal, Required: true},
					{Name: domain.FieldCategory, Kind: schema.Reference, Target: domain.EntityCategory, OnDelete: schema.Detach},
					{Name: domain.FieldCreatedAt, Kind: schema.Timestamp},
				},
			}},
		},
	}
}

// 0002 – añade stock_count a Product con default 0; los productos existentes
// reciben el backfill.
func addStockCount() *migration.Step {
	return &migration.Step{
		Version: 2,
		Name:    "0002_add_stock_count",
		Operations: []migration.Operation{
			migration.AddField{
				Entity: domain.EntityProduct,
				Field: migration.FieldDefault(schema.Field{
					Name: domain.FieldStockCount,
					Kind: schema.NonNegativeInt,
				}, int64(0)),
			},
		},
	}
}

// 0003 – crea Supplier y la referencia nullable Product.supplier.
func supplier() *migration.Step {
	return &migration.Step{
		Version: 3,
		Name:    "0003_supplier",
		Operations: []migration.Operation{
			migration.CreateEntity{Entity: &schema.Entity{
				Name: domain.EntitySupplier,
				Fields: []schema.Field{
					{Name: domain.FieldName, Kind: schema.Text, Required: true, MaxLen: 200, Searchable: true},
					{Name: domain.FieldContactEmail, Kind: schema.Email, Required: true, Searchable: true},
					{Name: domain.FieldPhone, Kind: schema.Text, MaxLen: 20},
				},
			}},
			migration.AddReference{
				Entity: domain.EntityProduct,
				Field:  domain.FieldSupplier,
				Target: domain.EntitySupplier,
			},
		},
	}
}

// 0004 – siembra el catálogo inicial. La reversión borra exactamente los
// registros creados aquí (por los ids del journal), nunca por nombre: un
// "Laptop" creado por un operador sobrevive a la reversión de este paso.
func seedData() *migration.Step {
	price := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	return &migration.Step{
		Version: 4,
		Name:    "0004_seed_data",
		Operations: []migration.Operation{
			migration.SeedRecords{Rows: []migration.SeedRow{
				{Entity: domain.EntityCategory, Key: "electronics", Fields: map[string]any{
					domain.FieldName:        "Electronics",
					domain.FieldDescription: "Electronic devices and accessories",
				}},
				{Entity: domain.EntityCategory, Key: "furniture", Fields: map[string]any{
					domain.FieldName:        "Furniture",
					domain.FieldDescription: "Home and office furniture",
				}},
				{Entity: domain.EntitySupplier, Key: "techcorp", Fields: map[string]any{
					domain.FieldName:         "TechCorp",
					domain.FieldContactEmail: "sales@techcorp.com",
					domain.FieldPhone:        "555-0100",
				}},
				{Entity: domain.EntitySupplier, Key: "woodworks", Fields: map[string]any{
					domain.FieldName:         "WoodWorks",
					domain.FieldContactEmail: "hello@woodworks.com",
					domain.FieldPhone:        "555-0200",
				}},
				{Entity: domain.EntityProduct, Fields: map[string]any{
					domain.FieldName:       "Laptop",
					domain.FieldPrice:      price("999.99"),
					domain.FieldStockCount: int64(50),
				}, Refs: map[string]string{
					domain.FieldCategory: "electronics",
					domain.FieldSupplier: "techcorp",
				}},
				{Entity: domain.EntityProduct, Fields: map[string]any{
					domain.FieldName:       "Smartphone",
					domain.FieldPrice:      price("499.99"),
					domain.FieldStockCount: int64(150),
				}, Refs: map[string]string{
					domain.FieldCategory: "electronics",
					domain.FieldSupplier: "techcorp",
				}},
				{Entity: domain.EntityProduct, Fields: map[string]any{
					domain.FieldName:       "Office Chair",
					domain.FieldPrice:      price("149.50"),
					domain.FieldStockCount: int64(20),
				}, Refs: map[string]string{
					domain.FieldCategory: "furniture",
					domain.FieldSupplier: "woodworks",
				}},
				{Entity: domain.EntityProduct, Fields: map[string]any{
					domain.FieldName:       "Desk",
					domain.FieldPrice:      price("299.00"),
					domain.FieldStockCount: int64(10),
				}, Refs: map[string]string{
					domain.FieldCategory: "furniture",
					domain.FieldSupplier: "woodworks",
				}},
			}},
		},
	}
}
