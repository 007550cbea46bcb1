package database

import (
	"context"
	"fmt"

	"invoice-service/internal/model"
	"invoice-service/pkg/config"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Tables created by Migrate, in dependency order
var Tables = []string{"suppliers", "products", "invoices", "invoice_items"}

// InitDB opens the configured database and applies pool settings
func InitDB(dbConfig *config.DBConfig, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch dbConfig.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(dbConfig.GetDSN())
	case config.DriverPostgres:
		dialector = postgres.New(postgres.Config{
			DSN:                  dbConfig.GetDSN(),
			PreferSimpleProtocol: true, // Disables implicit prepared statement usage
		})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", dbConfig.Driver)
	}

	db, err := Open(dialector, dbConfig.LogLevel)
	if err != nil {
		log.Error("Failed to connect to database", zap.String("driver", dbConfig.Driver), zap.Error(err))
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Error("Failed to get database object", zap.Error(err))
		return nil, err
	}

	if dbConfig.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(dbConfig.MaxIdleConns)
	}
	if dbConfig.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(dbConfig.MaxOpenConns)
	}
	if dbConfig.Driver == config.DriverSQLite {
		// SQLite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	}
	if dbConfig.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)
	}

	log.Info("Database connected successfully", zap.String("driver", dbConfig.Driver))
	return db, nil
}

// Open opens a gorm session with the options every backend shares
func Open(dialector gorm.Dialector, level logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema for all models
func Migrate(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database is not initialized")
	}
	if err := db.WithContext(ctx).AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	return nil
}

// VerifyTables returns the expected tables missing from the database
func VerifyTables(ctx context.Context, db *gorm.DB) []string {
	migrator := db.WithContext(ctx).Migrator()
	var missing []string
	for _, table := range Tables {
		if !migrator.HasTable(table) {
			missing = append(missing, table)
		}
	}
	return missing
}

// Ping checks that the database accepts connections and answers a query
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return err
	}
	return db.WithContext(ctx).Exec("SELECT 1").Error
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var seedSuppliers = []model.Supplier{
	{SupplierCode: "S01", SupplierName: "Hitachi", Address: "Jl. Industri Raya No. 123, Jakarta Timur", Phone: "021-1234567", Email: "sales@hitachi.co.id", ContactPerson: "Budi Santoso"},
	{SupplierCode: "G01", SupplierName: "Global Nusantara", Address: "Jl. Perdagangan No. 456, Surabaya", Phone: "031-7654321", Email: "info@globalnusantara.co.id", ContactPerson: "Siti Rahayu"},
	{SupplierCode: "T01", SupplierName: "Toshiba Electronics", Address: "Jl. Elektronik No. 789, Bandung", Phone: "022-9876543", Email: "contact@toshiba.co.id", ContactPerson: "Ahmad Wijaya"},
	{SupplierCode: "P01", SupplierName: "Panasonic Indonesia", Address: "Jl. Teknologi No. 321, Medan", Phone: "061-5555666", Email: "sales@panasonic.co.id", ContactPerson: "Maya Sari"},
}

var seedProducts = []model.Product{
	{ProductCode: "S01", ProductName: "RICE COOKER CC3", BasePrice: decimal.NewFromInt(1500000), Description: "Rice cooker dengan kapasitas 1.8L, teknologi fuzzy logic"},
	{ProductCode: "S02", ProductName: "AC SPLIT 1 PK", BasePrice: decimal.NewFromInt(3000000), Description: "Air conditioner split 1 PK dengan teknologi inverter"},
	{ProductCode: "G01", ProductName: "AC SPLIT ½ PK", BasePrice: decimal.NewFromInt(2000000), Description: "Air conditioner split 0.5 PK hemat energi"},
	{ProductCode: "G02", ProductName: "AC SPLIT 1 PK", BasePrice: decimal.NewFromInt(3000000), Description: "Air conditioner split 1 PK dengan remote control"},
	{ProductCode: "T01", ProductName: "MICROWAVE OVEN", BasePrice: decimal.NewFromInt(1200000), Description: "Microwave oven 23L dengan grill function"},
	{ProductCode: "P01", ProductName: "WASHING MACHINE", BasePrice: decimal.NewFromInt(2500000), Description: "Mesin cuci front loading 7kg"},
}

// Seed inserts the reference suppliers and products. Existing rows keyed
// by the same code are left untouched, so Seed can run repeatedly.
func Seed(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, s := range seedSuppliers {
			s.Status = model.StatusActive
			var row model.Supplier
			if err := tx.Where(model.Supplier{SupplierCode: s.SupplierCode}).Attrs(s).FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("seed supplier %s: %w", s.SupplierCode, err)
			}
		}
		for _, p := range seedProducts {
			p.Category = model.DefaultProductCategory
			p.Unit = model.DefaultProductUnit
			p.Status = model.StatusActive
			var row model.Product
			if err := tx.Where(model.Product{ProductCode: p.ProductCode}).Attrs(p).FirstOrCreate(&row).Error; err != nil {
				return fmt.Errorf("seed product %s: %w", p.ProductCode, err)
			}
		}
		return nil
	})
}
