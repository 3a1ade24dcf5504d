// Package timezone pins wall clock handling to APP_TIMEZONE.
//
// Departure dates and promo windows are calendar days in the operator's
// zone, so "today" must come from Today rather than time.Now. The location
// is loaded from config when the package is imported and falls back to UTC
// when the name cannot be resolved.
package timezone
