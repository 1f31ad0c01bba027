package invoice

import (
	"github.com/weehong/resetrix-invoice/internal/invoice/domain"
	"github.com/weehong/resetrix-invoice/internal/invoice/service"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("invoice",
	fx.Provide(service.New),
	fx.Invoke(migrate),
)

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.InvoiceDocument{})
}
