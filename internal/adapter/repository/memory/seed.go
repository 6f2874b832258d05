package memory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/skypagos/ledger/internal/domain"
)

type seedService struct {
	id, name                         string
	commission, minimum, maximum, cb string
	category                         string
	popular                          bool
	order                            int
}

// Mirrors migrations 000002 and 000003.
var defaultServices = []seedService{
	{"svc-p2p", "Transferencias", "0.5", "1.00", "10000.00", "0", "transferencias", true, 1},
	{"svc-tigo", "Recargas Tigo", "2.5", "10.00", "500.00", "1.0", "recargas", true, 2},
	{"svc-claro", "Recargas Claro", "2.5", "10.00", "500.00", "1.0", "recargas", true, 2},
	{"svc-viva", "Recargas Viva", "2.5", "10.00", "500.00", "1.0", "recargas", false, 2},
	{"svc-luz", "Pago de Luz", "1.5", "50.00", "2000.00", "0.5", "servicios", true, 3},
	{"svc-agua", "Pago de Agua", "1.5", "30.00", "1500.00", "0.5", "servicios", false, 3},
	{"svc-gas", "Pago de Gas", "1.5", "20.00", "800.00", "0.5", "servicios", false, 3},
	{"svc-netflix", "Netflix", "3.0", "50.00", "200.00", "2.0", "entretenimiento", false, 4},
	{"svc-uber", "Uber", "2.0", "10.00", "500.00", "1.5", "transporte", false, 4},
	{"svc-universidad", "Universidad", "1.0", "500.00", "5000.00", "0", "educacion", false, 5},
}

// Seed loads the system accounts and the default service catalog, matching
// what the migrations install in Postgres.
func (s *Store) Seed(system domain.SystemAccounts, now time.Time) {
	for _, sys := range []struct {
		id, name      string
		allowNegative bool
	}{
		{system.Revenue, "SkyPagos Comisiones", false},
		{system.CashbackFloat, "SkyPagos Cashback", true},
		{system.Settlement, "SkyPagos Liquidacion", true},
	} {
		s.PutAccount(&domain.Account{
			ID:                   sys.id,
			OwnerID:              "skypagos",
			OwnerName:            sys.name,
			Active:               true,
			System:               true,
			AllowNegativeBalance: sys.allowNegative,
			CreatedAt:            now,
			UpdatedAt:            now,
		})
	}

	for _, svc := range defaultServices {
		s.PutService(&domain.Service{
			ID:                svc.id,
			Name:              svc.name,
			Category:          svc.category,
			Popular:           svc.popular,
			DisplayOrder:      svc.order,
			CommissionPercent: decimal.RequireFromString(svc.commission),
			MinAmount:         decimal.RequireFromString(svc.minimum),
			MaxAmount:         decimal.RequireFromString(svc.maximum),
			CashbackPercent:   decimal.RequireFromString(svc.cb),
			Active:            true,
		})
	}
}
