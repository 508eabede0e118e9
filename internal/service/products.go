package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/Adriano-luizello/Profeta-sub001/internal/domain"
)

// productSummary is a distinct product of an import before supplier ids are resolved
type productSummary struct {
	product  domain.Product
	supplier string
}

type productAccumulator struct {
	summary   productSummary
	total     float64
	stockDate time.Time
	hasStock  bool
}

// summarizeProducts collapses canonical rows into one entry per product, in
// order of first appearance. The stock snapshot is taken from the most recent
// row carrying one. The demand signal is the historical daily rate over the
// dataset period and is replaced once a forecast is available. Monthly
// buckets extend the period to the end of the last month.
func summarizeProducts(rows []domain.CanonicalSalesRow, monthly bool) []productSummary {
	if len(rows) == 0 {
		return nil
	}

	earliest, latest := rows[0].Date, rows[0].Date
	order := make([]string, 0)
	byName := make(map[string]*productAccumulator)

	for _, r := range rows {
		if r.Date.Before(earliest) {
			earliest = r.Date
		}
		if r.Date.After(latest) {
			latest = r.Date
		}

		acc, ok := byName[r.Product]
		if !ok {
			acc = &productAccumulator{
				summary: productSummary{product: domain.Product{ID: uuid.NewString(), Name: r.Product}},
			}
			byName[r.Product] = acc
			order = append(order, r.Product)
		}

		acc.total += r.Quantity
		if r.SKU != nil {
			acc.summary.product.SKU = r.SKU
		}
		if r.Category != nil {
			acc.summary.product.Category = r.Category
		}
		if r.Supplier != nil {
			acc.summary.supplier = *r.Supplier
		}
		if r.Stock != nil && (!acc.hasStock || !r.Date.Before(acc.stockDate)) {
			stock := *r.Stock
			acc.summary.product.CurrentStock = &stock
			acc.stockDate = r.Date
			acc.hasStock = true
		}
	}

	end := latest
	if monthly {
		end = time.Date(latest.Year(), latest.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	}
	days := int(end.Sub(earliest).Hours()/24) + 1

	out := make([]productSummary, 0, len(order))
	for _, name := range order {
		acc := byName[name]
		if acc.total > 0 && days > 0 {
			rate := acc.total / float64(days)
			acc.summary.product.AvgDailyDemand = &rate
		}
		out = append(out, acc.summary)
	}

	return out
}
