package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
	"github.com/jhoicas/mercado-api/pkg/logger"
)

var _ Gateway = (*DualGateway)(nil)

// DualGateway implementa el puerto Gateway sobre dos backends inyectados:
// el almacén sincronizado autenticado (remoto + canal push) y el almacén
// local siempre disponible. La cadena de fallback remoto→local es una
// secuencia explícita, no manejo implícito de excepciones.
type DualGateway struct {
	remote repository.CartRepository
	feed   repository.CartFeed
	local  repository.CartRepository
	log    *logger.Logger
}

// NewDualGateway construye el gateway con ambos backends.
func NewDualGateway(remote repository.CartRepository, feed repository.CartFeed, local repository.CartRepository, log *logger.Logger) *DualGateway {
	return &DualGateway{remote: remote, feed: feed, local: local, log: log}
}

// Load carga las líneas de la identidad. Anónimo lee solo el almacén local;
// autenticado lee el remoto y cae al local si el remoto falla. Si ambos
// fallan no hay estado que restaurar: se propaga el error con carrito vacío.
func (g *DualGateway) Load(ctx context.Context, identity string) ([]entity.CartItem, error) {
	if identity == entity.AnonymousIdentity {
		doc, err := g.local.Load(ctx, identity)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
		}
		return docItems(doc), nil
	}

	doc, err := g.remote.Load(ctx, identity)
	if err == nil {
		return docItems(doc), nil
	}
	g.log.Warn().Err(err).Str("identity", identity).Msg("carga remota falló; usando almacén local")

	doc, lerr := g.local.Load(ctx, identity)
	if lerr != nil {
		return nil, fmt.Errorf("%w: remoto: %v; local: %v", domain.ErrPersistence, err, lerr)
	}
	return docItems(doc), nil
}

// Save persiste la lista completa de la identidad. Anónimo escribe solo en el
// local. Autenticado escribe en el remoto y publica el documento en el canal
// push; si el remoto falla reintenta una vez contra el local y devuelve
// SaveDegraded. Si ambos fallan, el estado queda exactamente como estaba.
func (g *DualGateway) Save(ctx context.Context, identity string, items []entity.CartItem) (SaveStatus, error) {
	doc := &entity.CartDocument{Identity: identity, Items: items, UpdatedAt: nowUTC()}

	if identity == entity.AnonymousIdentity {
		if err := g.local.Save(ctx, doc); err != nil {
			return SaveOK, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
		}
		return SaveOK, nil
	}

	if err := g.remote.Save(ctx, doc); err != nil {
		g.log.Warn().Err(err).Str("identity", identity).Msg("guardado remoto falló; reintentando en almacén local")
		if lerr := g.local.Save(ctx, doc); lerr != nil {
			return SaveOK, fmt.Errorf("%w: remoto: %v; local: %v", domain.ErrPersistence, err, lerr)
		}
		return SaveDegraded, nil
	}

	// Publicación best-effort: sin canal los otros dispositivos no ven el
	// cambio hasta su próxima carga, pero el guardado ya es durable.
	if g.feed != nil {
		if err := g.feed.Publish(ctx, doc); err != nil {
			g.log.Warn().Err(err).Str("identity", identity).Msg("no se pudo publicar el cambio del carrito")
		}
	}
	return SaveOK, nil
}

// Subscribe registra la suscripción push para una identidad autenticada.
// El almacén local no tiene escritores externos: anónimo recibe una
// suscripción nula que solo sabe cerrarse.
func (g *DualGateway) Subscribe(ctx context.Context, identity string, fn func([]entity.CartItem)) (repository.CartSubscription, error) {
	if identity == entity.AnonymousIdentity || g.feed == nil {
		return noopSubscription{}, nil
	}
	return g.feed.Subscribe(ctx, identity, func(doc *entity.CartDocument) {
		fn(docItems(doc))
	})
}

func nowUTC() time.Time { return time.Now().UTC() }

type noopSubscription struct{}

func (noopSubscription) Close() error { return nil }

func docItems(doc *entity.CartDocument) []entity.CartItem {
	if doc == nil {
		return nil
	}
	return doc.Items
}
