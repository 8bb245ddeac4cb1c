// Package repositories implements the record-store ports over PostgreSQL.
package repositories

import (
	"context"
	"database/sql"

	"github.com/spaarke/workspace-engine/internal/domain/workspace"
	"github.com/spaarke/workspace-engine/internal/infrastructure/database/postgres"
	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/logging"
	"github.com/spaarke/workspace-engine/pkg/errors"
)

type workspaceRepo struct {
	conn *postgres.Connection
	log  logging.Logger
}

// NewWorkspaceRepo returns the DataSource backed by PostgreSQL.  Every query
// is scoped to the owning identity; there is deliberately no unscoped read
// path.
func NewWorkspaceRepo(conn *postgres.Connection, log logging.Logger) workspace.DataSource {
	return &workspaceRepo{conn: conn, log: log}
}

func (r *workspaceRepo) Snapshot(ctx context.Context, identity string) (*workspace.PortfolioSnapshot, error) {
	matters, err := r.mattersByOwner(ctx, identity)
	if err != nil {
		return nil, err
	}
	events, err := r.eventsByOwner(ctx, identity)
	if err != nil {
		return nil, err
	}
	invoices, err := r.invoicesByOwner(ctx, identity)
	if err != nil {
		return nil, err
	}
	return &workspace.PortfolioSnapshot{
		Matters:  matters,
		Events:   events,
		Invoices: invoices,
	}, nil
}

func (r *workspaceRepo) mattersByOwner(ctx context.Context, identity string) ([]workspace.Matter, error) {
	query := `
		SELECT id, name, owner_id, status, budget, spend, value_tier, created_at
		FROM matters
		WHERE owner_id = $1 AND deleted_at IS NULL
	`
	rows, err := r.conn.DB().QueryContext(ctx, query, identity)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDataSource, "failed to query matters")
	}
	defer rows.Close()

	var matters []workspace.Matter
	for rows.Next() {
		var m workspace.Matter
		if err := rows.Scan(&m.ID, &m.Name, &m.OwnerID, &m.Status, &m.Budget, &m.Spend, &m.ValueTier, &m.CreatedAt); err != nil {
			return nil, errors.Wrap(err, errors.CodeDataSource, "failed to scan matter")
		}
		matters = append(matters, m)
	}
	return matters, rows.Err()
}

func (r *workspaceRepo) eventsByOwner(ctx context.Context, identity string) ([]workspace.WorkEvent, error) {
	query := `
		SELECT e.id, e.matter_id, e.event_type, e.status, e.due_date
		FROM work_events e
		JOIN matters m ON m.id = e.matter_id
		WHERE m.owner_id = $1 AND m.deleted_at IS NULL
	`
	rows, err := r.conn.DB().QueryContext(ctx, query, identity)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDataSource, "failed to query work events")
	}
	defer rows.Close()

	var events []workspace.WorkEvent
	for rows.Next() {
		var e workspace.WorkEvent
		var due sql.NullTime
		if err := rows.Scan(&e.ID, &e.MatterID, &e.EventType, &e.Status, &due); err != nil {
			return nil, errors.Wrap(err, errors.CodeDataSource, "failed to scan work event")
		}
		if due.Valid {
			t := due.Time
			e.DueDate = &t
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *workspaceRepo) invoicesByOwner(ctx context.Context, identity string) ([]workspace.Invoice, error) {
	query := `
		SELECT i.id, i.matter_id, i.amount, i.pending
		FROM invoices i
		JOIN matters m ON m.id = i.matter_id
		WHERE m.owner_id = $1 AND m.deleted_at IS NULL
	`
	rows, err := r.conn.DB().QueryContext(ctx, query, identity)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDataSource, "failed to query invoices")
	}
	defer rows.Close()

	var invoices []workspace.Invoice
	for rows.Next() {
		var i workspace.Invoice
		if err := rows.Scan(&i.ID, &i.MatterID, &i.Amount, &i.Pending); err != nil {
			return nil, errors.Wrap(err, errors.CodeDataSource, "failed to scan invoice")
		}
		invoices = append(invoices, i)
	}
	return invoices, rows.Err()
}
