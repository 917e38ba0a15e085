// Package timezone resolves time.Locations for display formatting.
// The engine itself compares instants in UTC; timezones only matter when
// a notification renders a booking's start time for a tenant's customers.
package timezone
