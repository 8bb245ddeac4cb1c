package workspace

import "context"

// PortfolioSnapshot is the raw per-identity record set the aggregator
// reduces.  Events and Invoices are keyed by matter so risk predicates can
// be evaluated per matter.
type PortfolioSnapshot struct {
	Matters  []Matter
	Events   []WorkEvent
	Invoices []Invoice
}

// DataSource is the read-only port onto the matter/event/invoice record
// store.  Implementations must scope every query to the given identity;
// cross-identity reads are a correctness bug, not just a privacy one,
// because the portfolio cache is keyed per identity.
type DataSource interface {
	// Snapshot returns all matters owned by identity together with their
	// events and invoices.
	Snapshot(ctx context.Context, identity string) (*PortfolioSnapshot, error)
}
