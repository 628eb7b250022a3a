// Package invoices serves the unpaid-invoice listing, its aging buckets
// and its exports.
package invoices

// Aging bucket labels, from least to most overdue.
const (
	BucketLow      = "Baja"
	BucketMedium   = "Media"
	BucketHigh     = "Alta"
	BucketCritical = "Crítica"
)

// BucketFor classifies days overdue into an aging bucket. The backend's
// estado_mora string stays authoritative on each row; these thresholds
// drive display colouring and the critical-count alert.
func BucketFor(days int) string {
	switch {
	case days <= 30:
		return BucketLow
	case days <= 60:
		return BucketMedium
	case days <= 90:
		return BucketHigh
	default:
		return BucketCritical
	}
}
