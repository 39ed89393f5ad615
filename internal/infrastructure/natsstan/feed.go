// Package natsstan implementa el canal push del carrito sincronizado sobre
// NATS Streaming: cada guardado publica el documento completo en el subject
// de la identidad y cada sesión abierta se suscribe a ese subject, de modo
// que los cambios hechos desde otros dispositivos llegan como reemplazo total.
package natsstan

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	stan "github.com/nats-io/stan.go"

	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
	"github.com/jhoicas/mercado-api/pkg/logger"
)

var _ repository.CartFeed = (*Feed)(nil)

// Feed publicador/suscriptor de documentos de carrito sobre una conexión stan.
type Feed struct {
	conn          stan.Conn
	subjectPrefix string
	log           *logger.Logger
}

// Config conexión al clúster de NATS Streaming.
type Config struct {
	ClusterID     string
	ClientID      string
	URL           string
	SubjectPrefix string // subject por identidad: <prefix>.<identity>
}

// Connect abre la conexión al clúster. Cerrarla con Close al apagar.
func Connect(cfg Config, log *logger.Logger) (*Feed, error) {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = fmt.Sprintf("mercado-cart-%d", time.Now().UnixNano())
	}
	conn, err := stan.Connect(cfg.ClusterID, clientID, stan.NatsURL(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("conectar NATS Streaming: %w", err)
	}
	prefix := cfg.SubjectPrefix
	if prefix == "" {
		prefix = "carts"
	}
	return &Feed{conn: conn, subjectPrefix: prefix, log: log}, nil
}

// Close cierra la conexión al clúster.
func (f *Feed) Close() error {
	return f.conn.Close()
}

// Publish publica el documento completo en el subject de su identidad.
func (f *Feed) Publish(_ context.Context, doc *entity.CartDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode cart document: %w", err)
	}
	if err := f.conn.Publish(f.subject(doc.Identity), raw); err != nil {
		return fmt.Errorf("publish cart document: %w", err)
	}
	return nil
}

// Subscribe registra el handler para la identidad. Los mensajes ilegibles se
// descartan con un log; la sesión no se cae por un payload corrupto.
func (f *Feed) Subscribe(ctx context.Context, identity string, fn func(*entity.CartDocument)) (repository.CartSubscription, error) {
	sub, err := f.conn.Subscribe(f.subject(identity), func(m *stan.Msg) {
		var doc entity.CartDocument
		if err := json.Unmarshal(m.Data, &doc); err != nil {
			f.log.Warn().Err(err).Str("identity", identity).Msg("documento de carrito ilegible en el canal")
			return
		}
		fn(&doc)
	}, stan.StartWithLastReceived())
	if err != nil {
		return nil, fmt.Errorf("suscribir carrito %s: %w", identity, err)
	}

	go func() {
		<-ctx.Done()
		_ = sub.Close()
	}()
	return subscription{sub}, nil
}

func (f *Feed) subject(identity string) string {
	return f.subjectPrefix + "." + identity
}

type subscription struct {
	sub stan.Subscription
}

// Close cancela la suscripción (no la conexión).
func (s subscription) Close() error {
	return s.sub.Close()
}
