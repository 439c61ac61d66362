package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/clinica-stock/internal/application/auth"
	appstock "github.com/jhoicas/clinica-stock/internal/application/stock"
	"github.com/jhoicas/clinica-stock/internal/application/usecase"
	"github.com/jhoicas/clinica-stock/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC    *usecase.ItemUseCase
	ExportUC  *appstock.ExportUseCase
	ImportUC  *appstock.ImportUseCase
	QueryUC   *appstock.QueryUseCase
	VoucherUC *appstock.VoucherUseCase
	AuthUC    *auth.AuthUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Items (protegido; alta solo admin)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", RequireRole(entity.RoleAdmin), itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)

	// Stock (protegido)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.ExportUC, deps.ImportUC, deps.QueryUC, deps.VoucherUC)
	stockGroup.Post("/exports", stockHandler.RegisterExport)
	stockGroup.Post("/imports", RequireRole(entity.RoleAdmin, entity.RoleFarmaceuta), stockHandler.RegisterImport)
	stockGroup.Get("/transactions/:id", stockHandler.GetTransaction)
	stockGroup.Get("/transactions/:id/voucher", stockHandler.GetVoucher)
	stockGroup.Get("/availability/:id", stockHandler.GetAvailability)

	// Reportes (protegido)
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.QueryUC)
	reports.Get("/near-expiry", reportHandler.NearExpiry)
}
