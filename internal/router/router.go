package router

import (
	"time"

	"ventesca/internal/config"
	"ventesca/internal/handler"
	"ventesca/internal/middleware"
	"ventesca/internal/repository"
	"ventesca/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	rolVendedor      = "vendedor"
	rolAdministrador = "administrador"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(rdb, "api", cfg.RateLimitPorMinuto, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	analiticaRepo := repository.NewAnaliticaRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	movimientoStockRepo := repository.NewMovimientoStockRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	defaultsSvc := service.NewEntidadesDefaultService(categoriaRepo, proveedorRepo, rdb, cfg.CacheEsencialTTL())
	ledgerSvc := service.NewLedgerService(productoRepo, analiticaRepo, pedidoRepo, movimientoStockRepo)
	productoSvc := service.NewProductoService(productoRepo, analiticaRepo, movimientoStockRepo, categoriaRepo, proveedorRepo, defaultsSvc)
	importacionSvc := service.NewImportacionService(productoRepo, analiticaRepo, categoriaRepo, proveedorRepo, defaultsSvc, cfg.ImportMaxFilas, cfg.ImportLote)
	categoriaSvc := service.NewCategoriaService(categoriaRepo, productoRepo, defaultsSvc)
	proveedorSvc := service.NewProveedorService(proveedorRepo, productoRepo, defaultsSvc)
	pedidoSvc := service.NewPedidoService(pedidoRepo, productoRepo, ledgerSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc, importacionSvc, cfg.ImportMaxBytes())
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	proveedoresH := handler.NewProveedoresHandler(proveedorSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(rdb), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes. The business always comes from the token.
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	todos := middleware.RequireRole(rolVendedor, rolAdministrador)
	admin := middleware.RequireRole(rolAdministrador)
	{
		v1.GET("/productos", todos, productosH.Listar)
		v1.GET("/productos/:id", todos, productosH.ObtenerPorID)
		v1.GET("/productos/:id/movimientos", todos, productosH.ListarMovimientos)
		prods := v1.Group("/productos", admin)
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Eliminar)
			prods.POST("/importar", productosH.Importar)
			prods.GET("/plantilla", productosH.Plantilla)
		}

		v1.GET("/categorias", todos, categoriasH.Listar)
		categorias := v1.Group("/categorias", admin)
		{
			categorias.POST("", categoriasH.Crear)
			categorias.PUT("/:id", categoriasH.Actualizar)
			categorias.DELETE("/:id", categoriasH.Eliminar)
		}

		v1.GET("/proveedores", todos, proveedoresH.Listar)
		v1.GET("/proveedores/:id", todos, proveedoresH.ObtenerPorID)
		prov := v1.Group("/proveedores", admin)
		{
			prov.POST("", proveedoresH.Crear)
			prov.PUT("/:id", proveedoresH.Actualizar)
			prov.DELETE("/:id", proveedoresH.Eliminar)
		}

		pedidos := v1.Group("/pedidos", todos)
		{
			pedidos.POST("", pedidosH.Crear)
			pedidos.GET("", pedidosH.Listar)
			pedidos.GET("/:id", pedidosH.ObtenerPorID)
			pedidos.POST("/:id/lineas", pedidosH.AgregarLinea)
			pedidos.DELETE("/:id/lineas/:linea_id", pedidosH.QuitarLinea)
			pedidos.POST("/:id/finalizar", pedidosH.Finalizar)
		}
		// Reverting or deleting a finalized sale rewrites stock history.
		pedidosAdmin := v1.Group("/pedidos", admin)
		{
			pedidosAdmin.POST("/:id/descartar", pedidosH.Descartar)
			pedidosAdmin.POST("/:id/restaurar", pedidosH.Restaurar)
			pedidosAdmin.DELETE("/:id", pedidosH.Eliminar)
		}

		v1.POST("/usuarios", admin, usuariosH.Crear)
	}

	// Swagger UI, only outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
