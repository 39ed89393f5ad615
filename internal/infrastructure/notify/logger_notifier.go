// Package notify implementa el colaborador de notificaciones del motor del
// carrito sobre el logger estructurado. Un frontal real lo sustituiría por
// push/toast; el contrato del motor es el mismo.
package notify

import (
	"github.com/jhoicas/mercado-api/internal/application/cart"
	"github.com/jhoicas/mercado-api/pkg/logger"
)

var _ cart.Notifier = (*LoggerNotifier)(nil)

// LoggerNotifier notifica resultados de persistencia vía zerolog.
type LoggerNotifier struct {
	log *logger.Logger
}

// New construye el notificador.
func New(log *logger.Logger) *LoggerNotifier {
	return &LoggerNotifier{log: log}
}

func (n *LoggerNotifier) NotifySuccess(message string) {
	n.log.Info().Str("notification", "success").Msg(message)
}

func (n *LoggerNotifier) NotifyError(message string) {
	n.log.Error().Str("notification", "error").Msg(message)
}
