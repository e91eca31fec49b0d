package reconcile

import (
	"slices"
	"sort"

	"github.com/rocjay1/piggy-notifier/internal/models"
)

// Latest returns at most limit payments, newest first. Payments with equal
// creation times keep their API order.
func Latest(payments []models.Payment, limit int) []models.Payment {
	sorted := slices.Clone(payments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if limit < len(sorted) {
		sorted = sorted[:max(limit, 0)]
	}
	return sorted
}

// Classify buckets the latest limit payments. Uncategorized payments are
// dropped.
func Classify(payments []models.Payment, limit int) models.Buckets {
	var buckets models.Buckets
	for _, p := range Latest(payments, limit) {
		buckets.Add(p.Classified())
	}
	return buckets
}
