package repository

import (
	"context"

	"github.com/agrimart/checkout/internal/domain/model"
)

// VoucherRepository provides read access to active vouchers. Usage counters
// are consumed inside OrderRepository.Create, never here.
type VoucherRepository interface {
	GetByCode(ctx context.Context, code string) (*model.Voucher, error)
}

// CampaignRepository provides read access to active sales campaigns.
type CampaignRepository interface {
	GetByCode(ctx context.Context, code string) (*model.Campaign, error)
}
