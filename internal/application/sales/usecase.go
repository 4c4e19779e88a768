package sales

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// SaleUseCase orquesta ventas y anulaciones como unidades atómicas sobre el kardex.
type SaleUseCase struct {
	txRunner SalesTxRunner
	ledger   Ledger
	saleRepo repository.SaleRepository
	events   ports.EventPublisher
	log      *logger.Logger
	now      func() time.Time
}

// NewSaleUseCase construye el caso de uso. events puede ser nil.
func NewSaleUseCase(
	txRunner SalesTxRunner,
	ledger Ledger,
	saleRepo repository.SaleRepository,
	events ports.EventPublisher,
	log *logger.Logger,
) *SaleUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SaleUseCase{
		txRunner: txRunner,
		ledger:   ledger,
		saleRepo: saleRepo,
		events:   events,
		log:      log.Named("sales"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// NewSaleCode genera "V" + YYYYMMDDhhmmss + 4 hexadecimales en mayúscula.
// La unicidad es orientativa; la clave real de la venta es su id.
func NewSaleCode(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return fmt.Sprintf("V%s%s", at.Format("20060102150405"), suffix)
}
