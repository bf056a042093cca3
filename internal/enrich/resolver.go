package enrich

import (
	"go.uber.org/zap"

	"github.com/sells-group/customer-pipeline/internal/model"
)

// Resolve deduplicates enriched records by customer ID, keeping the record
// with the strictly higher quality score on collision; ties keep the
// first-seen record. Output preserves first-seen identity order.
//
// This is deliberately a different policy from the fetch-stage dedup
// (first occurrence wins): by this point scores exist, so the better
// record can be chosen.
func Resolve(records []model.EnrichedCustomer) []model.EnrichedCustomer {
	index := make(map[int]int, len(records))
	out := make([]model.EnrichedCustomer, 0, len(records))

	for _, rec := range records {
		i, seen := index[rec.CustomerID]
		if !seen {
			index[rec.CustomerID] = len(out)
			out = append(out, rec)
			continue
		}

		if rec.QualityScore > out[i].QualityScore {
			zap.L().Info("enrich: duplicate replaced by higher quality record",
				zap.Int("customer_id", rec.CustomerID),
				zap.Int("old_score", out[i].QualityScore),
				zap.Int("new_score", rec.QualityScore),
			)
			out[i] = rec
		} else {
			zap.L().Info("enrich: duplicate dropped, existing record kept",
				zap.Int("customer_id", rec.CustomerID),
				zap.Int("kept_score", out[i].QualityScore),
				zap.Int("dropped_score", rec.QualityScore),
			)
		}
	}

	return out
}
