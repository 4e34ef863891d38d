package service

import (
	"go-signshop-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TierPriceRequest is one per-tier override on a product or extra product.
type TierPriceRequest struct {
	PriceID uuid.UUID       `json:"priceId" validate:"uuid_required"`
	Price   decimal.Decimal `json:"price" validate:"gte=0"`
}

// checkTierPrices requires every row to name an existing tier, once.
func checkTierPrices(prices repository.PriceRepository, rows []TierPriceRequest) error {
	if len(rows) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]bool, len(rows))
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		if seen[row.PriceID] {
			return invalid("price tier %s is listed more than once", row.PriceID)
		}
		seen[row.PriceID] = true
		ids = append(ids, row.PriceID)
	}

	found, err := prices.FindByIDs(ids)
	if err != nil {
		return err
	}
	existing := make(map[uuid.UUID]bool, len(found))
	for _, p := range found {
		existing[p.ID] = true
	}
	for _, id := range ids {
		if !existing[id] {
			return invalid("price tier %s does not exist", id)
		}
	}
	return nil
}

// uniqueIDs drops nil and repeated IDs, keeping first-seen order.
func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
