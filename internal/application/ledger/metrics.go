package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Métricas del motor de stock, expuestas en /metrics.
var (
	reservationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_reservations_total",
		Help: "Reservas de stock por resultado (ok, rejected).",
	}, []string{"result"})

	movementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_movements_total",
		Help: "Movimientos de inventario escritos, por tipo.",
	}, []string{"type"})

	clampsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_clamps_total",
		Help: "Veces que release/dispatch tuvo que recortar a cero (indica bug de contabilidad aguas arriba).",
	})
)
