package service

import (
	"context"
	"sort"
	"time"

	"ventesca/internal/dto"
	"ventesca/internal/inventario"
	"ventesca/internal/model"
	"ventesca/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errUnica = &pgconn.PgError{Code: "23505"}

// ── In-memory ProductoRepository stub ────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
	// rechazarStock makes UpdateStockTx report zero affected rows.
	rechazarStock bool
	// errLote is returned by CreateInBatchesTx when set.
	errLote error
}

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) add(p model.Producto) *model.Producto {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = &p
	return &p
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

func (r *stubProductoRepo) CreateTx(_ *gorm.DB, p *model.Producto) error {
	for _, e := range r.productos {
		if e.NegocioID == p.NegocioID && e.Codigo == p.Codigo {
			return errUnica
		}
	}
	cp := *p
	r.productos[p.ID] = &cp
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, negocioID, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok || p.NegocioID != negocioID || p.Eliminado {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductoRepo) List(_ context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.NegocioID == filter.NegocioID && !p.Eliminado {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	e, ok := r.productos[p.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.Nombre, e.PrecioCosto, e.PrecioVenta = p.Nombre, p.PrecioCosto, p.PrecioVenta
	e.CategoriaID, e.ProveedorID, e.Activo = p.CategoriaID, p.ProveedorID, p.Activo
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, negocioID, id uuid.UUID, codigo string) error {
	p, ok := r.productos[id]
	if !ok || p.NegocioID != negocioID || p.Eliminado {
		return gorm.ErrRecordNotFound
	}
	p.Codigo, p.Eliminado, p.Activo = codigo, true, false
	return nil
}

func (r *stubProductoRepo) CodigosVigentes(_ context.Context, negocioID uuid.UUID) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	for _, p := range r.productos {
		if p.NegocioID == negocioID && !p.Eliminado {
			out[p.Codigo] = struct{}{}
		}
	}
	return out, nil
}

func (r *stubProductoRepo) CreateInBatchesTx(tx *gorm.DB, productos []model.Producto, _ int) error {
	if r.errLote != nil {
		return r.errLote
	}
	for i := range productos {
		if err := r.CreateTx(tx, &productos[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *stubProductoRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductoRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta int) (bool, error) {
	p, ok := r.productos[id]
	if !ok || r.rechazarStock || p.Stock+delta < 0 {
		return false, nil
	}
	p.Stock += delta
	p.Activo = !p.Eliminado && inventario.EsActivo(p.PrecioCosto, p.PrecioVenta, p.Stock)
	return true, nil
}

func (r *stubProductoRepo) ReasignarCategoriaTx(_ *gorm.DB, negocioID, desde, hacia uuid.UUID) (int64, error) {
	var n int64
	for _, p := range r.productos {
		if p.NegocioID == negocioID && p.CategoriaID == desde {
			p.CategoriaID = hacia
			n++
		}
	}
	return n, nil
}

func (r *stubProductoRepo) ReasignarProveedorTx(_ *gorm.DB, negocioID, desde, hacia uuid.UUID) (int64, error) {
	var n int64
	for _, p := range r.productos {
		if p.NegocioID == negocioID && p.ProveedorID == desde {
			p.ProveedorID = hacia
			n++
		}
	}
	return n, nil
}

// ── AnaliticaRepository stub ─────────────────────────────────────────────────

type stubAnaliticaRepo struct {
	porProducto map[uuid.UUID]*model.ProductoAnalitica
}

var _ repository.AnaliticaRepository = (*stubAnaliticaRepo)(nil)

func newStubAnaliticaRepo() *stubAnaliticaRepo {
	return &stubAnaliticaRepo{porProducto: make(map[uuid.UUID]*model.ProductoAnalitica)}
}

func (r *stubAnaliticaRepo) CreateTx(_ *gorm.DB, a *model.ProductoAnalitica) error {
	cp := *a
	r.porProducto[a.ProductoID] = &cp
	return nil
}

func (r *stubAnaliticaRepo) CreateInBatchesTx(tx *gorm.DB, analiticas []model.ProductoAnalitica, _ int) error {
	for i := range analiticas {
		_ = r.CreateTx(tx, &analiticas[i])
	}
	return nil
}

func (r *stubAnaliticaRepo) FindByProductoID(_ context.Context, productoID uuid.UUID) (*model.ProductoAnalitica, error) {
	a, ok := r.porProducto[productoID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *stubAnaliticaRepo) IncrementarTx(_ *gorm.DB, productoID uuid.UUID, d inventario.Deltas) error {
	a, ok := r.porProducto[productoID]
	if !ok {
		a = &model.ProductoAnalitica{ID: uuid.New(), ProductoID: productoID}
		r.porProducto[productoID] = a
	}
	a.TotalVentas += d.Ventas
	a.TotalGanancia = a.TotalGanancia.Add(d.Ganancia)
	a.TotalDevoluciones += d.Devoluciones
	return nil
}

// get returns the counters of a product, zero when none were recorded.
func (r *stubAnaliticaRepo) get(productoID uuid.UUID) model.ProductoAnalitica {
	if a, ok := r.porProducto[productoID]; ok {
		return *a
	}
	return model.ProductoAnalitica{ProductoID: productoID}
}

// ── PedidoRepository stub ────────────────────────────────────────────────────

type stubPedidoRepo struct {
	pedidos map[uuid.UUID]*model.Pedido
}

var _ repository.PedidoRepository = (*stubPedidoRepo)(nil)

func newStubPedidoRepo() *stubPedidoRepo {
	return &stubPedidoRepo{pedidos: make(map[uuid.UUID]*model.Pedido)}
}

func copiarPedido(p *model.Pedido) *model.Pedido {
	cp := *p
	cp.Lineas = append([]model.ProductoPedido(nil), p.Lineas...)
	return &cp
}

func (r *stubPedidoRepo) DB() *gorm.DB { return nil }

func (r *stubPedidoRepo) Create(_ context.Context, p *model.Pedido) error {
	p.CreatedAt = time.Now()
	r.pedidos[p.ID] = copiarPedido(p)
	return nil
}

func (r *stubPedidoRepo) FindByID(_ context.Context, negocioID, id uuid.UUID) (*model.Pedido, error) {
	p, ok := r.pedidos[id]
	if !ok || p.NegocioID != negocioID {
		return nil, gorm.ErrRecordNotFound
	}
	return copiarPedido(p), nil
}

func (r *stubPedidoRepo) List(_ context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error) {
	var out []model.Pedido
	for _, p := range r.pedidos {
		if p.NegocioID != filter.NegocioID {
			continue
		}
		if filter.Estado != "" && filter.Estado != "all" && p.Estado != filter.Estado {
			continue
		}
		out = append(out, *copiarPedido(p))
	}
	return out, int64(len(out)), nil
}

func (r *stubPedidoRepo) FindByIDForUpdateTx(tx *gorm.DB, negocioID, id uuid.UUID) (*model.Pedido, error) {
	return r.FindByID(context.Background(), negocioID, id)
}

func (r *stubPedidoRepo) CambiarEstadoTx(_ *gorm.DB, id uuid.UUID, desde, hacia string, finalizadoAt *time.Time) (bool, error) {
	p, ok := r.pedidos[id]
	if !ok || p.Estado != desde {
		return false, nil
	}
	p.Estado = hacia
	if finalizadoAt != nil {
		p.FinalizadoAt = finalizadoAt
	}
	return true, nil
}

func (r *stubPedidoRepo) CreateLineaTx(_ *gorm.DB, l *model.ProductoPedido) error {
	p, ok := r.pedidos[l.PedidoID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Lineas = append(p.Lineas, *l)
	return nil
}

func (r *stubPedidoRepo) DeleteLineaTx(_ *gorm.DB, pedidoID, lineaID uuid.UUID) error {
	p, ok := r.pedidos[pedidoID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i, l := range p.Lineas {
		if l.ID == lineaID {
			p.Lineas = append(p.Lineas[:i], p.Lineas[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubPedidoRepo) UpdateGananciaLineaTx(_ *gorm.DB, lineaID uuid.UUID, ganancia decimal.Decimal) error {
	for _, p := range r.pedidos {
		for i := range p.Lineas {
			if p.Lineas[i].ID == lineaID {
				p.Lineas[i].Ganancia = ganancia
			}
		}
	}
	return nil
}

func (r *stubPedidoRepo) UpdateTotalesTx(_ *gorm.DB, p *model.Pedido) error {
	e, ok := r.pedidos[p.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.Total, e.DescuentoTotal, e.GananciaTotal = p.Total, p.DescuentoTotal, p.GananciaTotal
	return nil
}

func (r *stubPedidoRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.pedidos, id)
	return nil
}

// ── MovimientoStockRepository stub ───────────────────────────────────────────

type stubMovimientoRepo struct {
	movimientos []model.MovimientoStock
}

var _ repository.MovimientoStockRepository = (*stubMovimientoRepo)(nil)

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) List(_ context.Context, _ repository.MovimientoStockFilter) ([]model.MovimientoStock, int64, error) {
	return r.movimientos, int64(len(r.movimientos)), nil
}

// ── CategoriaRepository / ProveedorRepository stubs ──────────────────────────

type stubCategoriaRepo struct {
	categorias       map[uuid.UUID]*model.Categoria
	llamadasEsencial int
}

var _ repository.CategoriaRepository = (*stubCategoriaRepo)(nil)

func newStubCategoriaRepo() *stubCategoriaRepo {
	return &stubCategoriaRepo{categorias: make(map[uuid.UUID]*model.Categoria)}
}

func (r *stubCategoriaRepo) DB() *gorm.DB { return nil }

func (r *stubCategoriaRepo) Crear(_ context.Context, c *model.Categoria) error {
	for _, e := range r.categorias {
		if e.NegocioID == c.NegocioID && e.Codigo == c.Codigo {
			return errUnica
		}
	}
	cp := *c
	r.categorias[c.ID] = &cp
	return nil
}

func (r *stubCategoriaRepo) Listar(_ context.Context, negocioID uuid.UUID) ([]model.Categoria, error) {
	var out []model.Categoria
	for _, c := range r.categorias {
		if c.NegocioID == negocioID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return out, nil
}

func (r *stubCategoriaRepo) ObtenerPorID(_ context.Context, negocioID, id uuid.UUID) (*model.Categoria, error) {
	c, ok := r.categorias[id]
	if !ok || c.NegocioID != negocioID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCategoriaRepo) Actualizar(_ context.Context, c *model.Categoria) error {
	cp := *c
	r.categorias[c.ID] = &cp
	return nil
}

func (r *stubCategoriaRepo) EliminarTx(_ *gorm.DB, negocioID, id uuid.UUID) error {
	c, ok := r.categorias[id]
	if !ok || c.NegocioID != negocioID || c.EsEsencial {
		return gorm.ErrRecordNotFound
	}
	delete(r.categorias, id)
	return nil
}

func (r *stubCategoriaRepo) ObtenerOCrearEsencial(_ context.Context, negocioID uuid.UUID) (*model.Categoria, error) {
	r.llamadasEsencial++
	for _, c := range r.categorias {
		if c.NegocioID == negocioID && c.EsEsencial {
			cp := *c
			return &cp, nil
		}
	}
	c := &model.Categoria{
		ID: uuid.New(), NegocioID: negocioID, Codigo: model.CodigoEsencial,
		Nombre: model.NombreCategoriaEsencial, EsEsencial: true,
	}
	r.categorias[c.ID] = c
	cp := *c
	return &cp, nil
}

type stubProveedorRepo struct {
	proveedores      map[uuid.UUID]*model.Proveedor
	llamadasEsencial int
}

var _ repository.ProveedorRepository = (*stubProveedorRepo)(nil)

func newStubProveedorRepo() *stubProveedorRepo {
	return &stubProveedorRepo{proveedores: make(map[uuid.UUID]*model.Proveedor)}
}

func (r *stubProveedorRepo) DB() *gorm.DB { return nil }

func (r *stubProveedorRepo) Create(_ context.Context, p *model.Proveedor) error {
	for _, e := range r.proveedores {
		if e.NegocioID == p.NegocioID && e.Codigo == p.Codigo {
			return errUnica
		}
	}
	cp := *p
	r.proveedores[p.ID] = &cp
	return nil
}

func (r *stubProveedorRepo) FindByID(_ context.Context, negocioID, id uuid.UUID) (*model.Proveedor, error) {
	p, ok := r.proveedores[id]
	if !ok || p.NegocioID != negocioID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProveedorRepo) List(_ context.Context, negocioID uuid.UUID) ([]model.Proveedor, error) {
	var out []model.Proveedor
	for _, p := range r.proveedores {
		if p.NegocioID == negocioID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return out, nil
}

func (r *stubProveedorRepo) Update(_ context.Context, p *model.Proveedor) error {
	cp := *p
	r.proveedores[p.ID] = &cp
	return nil
}

func (r *stubProveedorRepo) DeleteTx(_ *gorm.DB, negocioID, id uuid.UUID) error {
	p, ok := r.proveedores[id]
	if !ok || p.NegocioID != negocioID || p.EsEsencial {
		return gorm.ErrRecordNotFound
	}
	delete(r.proveedores, id)
	return nil
}

func (r *stubProveedorRepo) FindOrCreateEsencial(_ context.Context, negocioID uuid.UUID) (*model.Proveedor, error) {
	r.llamadasEsencial++
	for _, p := range r.proveedores {
		if p.NegocioID == negocioID && p.EsEsencial {
			cp := *p
			return &cp, nil
		}
	}
	p := &model.Proveedor{
		ID: uuid.New(), NegocioID: negocioID, Codigo: model.CodigoEsencial,
		Nombre: model.NombreProveedorEsencial, EsEsencial: true,
	}
	r.proveedores[p.ID] = p
	cp := *p
	return &cp, nil
}

// ── Fixture ──────────────────────────────────────────────────────────────────

// entorno wires every service over the stubs with no database and no Redis.
type entorno struct {
	negocioID   uuid.UUID
	productos   *stubProductoRepo
	analiticas  *stubAnaliticaRepo
	pedidos     *stubPedidoRepo
	movimientos *stubMovimientoRepo
	categorias  *stubCategoriaRepo
	proveedores *stubProveedorRepo
	defaults    EntidadesDefaultService
	ledger      LedgerService
}

func newEntorno() *entorno {
	e := &entorno{
		negocioID:   uuid.New(),
		productos:   newStubProductoRepo(),
		analiticas:  newStubAnaliticaRepo(),
		pedidos:     newStubPedidoRepo(),
		movimientos: &stubMovimientoRepo{},
		categorias:  newStubCategoriaRepo(),
		proveedores: newStubProveedorRepo(),
	}
	e.defaults = NewEntidadesDefaultService(e.categorias, e.proveedores, nil, time.Minute)
	e.ledger = NewLedgerService(e.productos, e.analiticas, e.pedidos, e.movimientos)
	return e
}

func (e *entorno) producto(stock int, costo, venta string) *model.Producto {
	return e.productos.add(model.Producto{
		NegocioID:   e.negocioID,
		Codigo:      uuid.NewString()[:8],
		Nombre:      "Producto",
		PrecioCosto: decimal.RequireFromString(costo),
		PrecioVenta: decimal.RequireFromString(venta),
		Stock:       stock,
		Activo:      stock > 0,
	})
}
