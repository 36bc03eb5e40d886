// Command seed loads the sample StyleLane stores, accounts, products, sales and
// restock requests into an empty database.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/georgemunganga/stylane-backend/internal/apperr"
	"github.com/georgemunganga/stylane-backend/internal/config"
	"github.com/georgemunganga/stylane-backend/internal/database"
	"github.com/georgemunganga/stylane-backend/internal/identity"
	"github.com/georgemunganga/stylane-backend/internal/logger"
	"github.com/georgemunganga/stylane-backend/internal/modules/inventory"
	"github.com/georgemunganga/stylane-backend/internal/modules/pos"
	"github.com/georgemunganga/stylane-backend/internal/modules/restock"
	"github.com/georgemunganga/stylane-backend/internal/modules/user"
	"github.com/georgemunganga/stylane-backend/internal/notify"
	"github.com/georgemunganga/stylane-backend/internal/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type productSeed struct {
	name, description, category, size, color, sku, price string
	stock, threshold                                      int
}

var storeSeeds = []inventory.StoreRequest{
	{Name: "StyleLane Downtown", Address: "123 Main Street, Downtown, NY 10001", Phone: "555-0101"},
	{Name: "StyleLane Uptown", Address: "456 Park Avenue, Uptown, NY 10002", Phone: "555-0102"},
	{Name: "StyleLane Mall", Address: "789 Shopping Center, Mall District, NY 10003", Phone: "555-0103"},
}

var productSeeds = [][]productSeed{
	{
		{"Classic White Shirt", "Premium cotton shirt", "Shirts", "M", "White", "SHIRT-WH-M-001", "49.99", 27, 10},
		{"Classic White Shirt", "Premium cotton shirt", "Shirts", "L", "White", "SHIRT-WH-L-001", "49.99", 15, 10},
		{"Denim Jeans", "Classic blue denim", "Pants", "32", "Blue", "JEAN-BL-32-001", "79.99", 9, 10},
		{"Leather Jacket", "Genuine leather jacket", "Jackets", "M", "Black", "JACKET-BK-M-001", "199.99", 5, 5},
		{"Running Shoes", "Comfortable running shoes", "Shoes", "10", "White", "SHOE-WH-10-001", "89.99", 12, 10},
	},
	{
		{"Classic White Shirt", "Premium cotton shirt", "Shirts", "M", "White", "SHIRT-WH-M-002", "49.99", 23, 10},
		{"Slim Fit Chinos", "Comfortable chino pants", "Pants", "34", "Khaki", "CHINO-KH-34-001", "69.99", 18, 10},
		{"Wool Sweater", "Warm wool sweater", "Sweaters", "L", "Navy", "SWEATER-NV-L-001", "89.99", 8, 10},
		{"Sneakers", "Casual sneakers", "Shoes", "9", "Black", "SNEAKER-BK-9-001", "79.99", 15, 10},
	},
	{
		{"Polo Shirt", "Classic polo shirt", "Shirts", "M", "Blue", "POLO-BL-M-001", "39.99", 24, 10},
		{"Cargo Pants", "Durable cargo pants", "Pants", "36", "Olive", "CARGO-OL-36-001", "89.99", 6, 10},
		{"Hoodie", "Comfortable hoodie", "Sweaters", "L", "Gray", "HOODIE-GR-L-001", "59.99", 11, 10},
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logger.ForEnvironment(cfg.Env, cfg.LogLevel)
	defer log.Sync()

	if err := run(context.Background(), cfg, log); err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}
	log.Info("database seeded")
	fmt.Println("Default login credentials:")
	fmt.Println("  Admin: admin / admin123")
	fmt.Println("  Store managers: storemanager1..3 / store123")
	fmt.Println("  Suppliers: supplier1..2 / supplier123")
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	db, err := database.Open(ctx, cfg.DatabaseURL, cfg.MaxOpenConns, cfg.MaxIdleConns)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	userRepo := user.NewPostgresRepository(db)
	if _, err := userRepo.GetByUsername(ctx, "admin"); err == nil {
		log.Info("admin account exists, skipping seed")
		return nil
	} else if apperr.KindOf(err) != apperr.KindNotFound {
		return err
	}

	storeRepo := inventory.NewStorePostgresRepository(db)
	productRepo := inventory.NewProductPostgresRepository(db)
	users := user.NewService(userRepo, log)
	inv := inventory.NewService(storeRepo, productRepo,
		storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL), notify.NewLogNotifier(log), log)
	sales := pos.NewService(pos.NewPostgresRepository(db), productRepo, log)
	requests := restock.NewService(restock.NewPostgresRepository(db), productRepo, log)

	// Accounts can only be created by an admin; the first one is bootstrapped.
	system := identity.Actor{UserID: uuid.Nil, Username: "seed", Role: identity.RoleAdmin}

	if _, err := users.CreateUser(ctx, system, user.CreateUserRequest{
		Username: "admin", Email: "admin@stylane.com", Password: "admin123", Role: identity.RoleAdmin,
	}); err != nil {
		return fmt.Errorf("admin: %w", err)
	}

	var (
		managers []identity.Actor
		products [][]*inventory.Product
	)
	for i, sr := range storeSeeds {
		store, err := inv.CreateStore(ctx, system, sr)
		if err != nil {
			return fmt.Errorf("store %s: %w", sr.Name, err)
		}
		storeID := store.ID
		m, err := users.CreateUser(ctx, system, user.CreateUserRequest{
			Username: fmt.Sprintf("storemanager%d", i+1),
			Email:    fmt.Sprintf("manager%d@stylane.com", i+1),
			Password: "store123",
			Role:     identity.RoleStoreManager,
			StoreID:  &storeID,
		})
		if err != nil {
			return fmt.Errorf("manager %d: %w", i+1, err)
		}
		manager := m.Actor()
		managers = append(managers, manager)

		var created []*inventory.Product
		for _, ps := range productSeeds[i] {
			threshold := ps.threshold
			p, err := inv.CreateProduct(ctx, manager, inventory.ProductRequest{
				Name: ps.name, Description: ps.description, Category: ps.category,
				Size: ps.size, Color: ps.color, SKU: ps.sku,
				Price:             decimal.RequireFromString(ps.price),
				StockQuantity:     ps.stock,
				LowStockThreshold: &threshold,
			})
			if err != nil {
				return fmt.Errorf("product %s: %w", ps.sku, err)
			}
			created = append(created, p)
		}
		products = append(products, created)
	}

	var suppliers []identity.Actor
	for i := 1; i <= 2; i++ {
		s, err := users.CreateUser(ctx, system, user.CreateUserRequest{
			Username: fmt.Sprintf("supplier%d", i),
			Email:    fmt.Sprintf("supplier%d@fashion.com", i),
			Password: "supplier123",
			Role:     identity.RoleSupplier,
		})
		if err != nil {
			return fmt.Errorf("supplier %d: %w", i, err)
		}
		suppliers = append(suppliers, s.Actor())
	}

	// Opening stock above is set so these sales land on the original counts.
	for _, sale := range []struct{ store, product, qty int }{
		{0, 0, 2}, {0, 2, 1}, {1, 0, 3}, {1, 2, 1}, {2, 0, 2},
	} {
		if _, err := sales.RecordSale(ctx, managers[sale.store], pos.RecordSaleRequest{
			ProductID: products[sale.store][sale.product].ID,
			Quantity:  sale.qty,
		}); err != nil {
			return fmt.Errorf("sale: %w", err)
		}
	}

	if _, err := requests.CreateRequest(ctx, managers[0], restock.CreateRequest{
		ProductID: products[0][2].ID, RequestedQuantity: 20, Notes: "Running low on denim jeans",
	}); err != nil {
		return fmt.Errorf("restock request: %w", err)
	}
	jackets, err := requests.CreateRequest(ctx, managers[0], restock.CreateRequest{
		ProductID: products[0][3].ID, RequestedQuantity: 10, Notes: "Need more leather jackets for winter season",
	})
	if err != nil {
		return fmt.Errorf("restock request: %w", err)
	}
	if _, _, err := requests.ApproveRequest(ctx, suppliers[0], jackets.ID, restock.ApproveRequest{
		TrackingNumber: "TRK123456789", Notes: "Preparing shipment",
	}); err != nil {
		return fmt.Errorf("approve: %w", err)
	}
	if _, err := requests.CreateRequest(ctx, managers[2], restock.CreateRequest{
		ProductID: products[2][1].ID, RequestedQuantity: 15, Notes: "Cargo pants are popular this season",
	}); err != nil {
		return fmt.Errorf("restock request: %w", err)
	}
	return nil
}
