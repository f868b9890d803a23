package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"topowatch/internal/domain"

	_ "modernc.org/sqlite"
)

// Repository serves topologies stored in a SQLite database
type Repository struct {
	db *sql.DB
}

// New opens (or creates) a SQLite topology database
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// In-memory databases are per connection
	db.SetMaxOpenConns(1)

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS topologies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		position INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS nodes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		topology_id INTEGER NOT NULL,
		key TEXT NOT NULL,
		position INTEGER NOT NULL,
		UNIQUE (topology_id, key),
		FOREIGN KEY (topology_id) REFERENCES topologies(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS endpoints (
		node_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		address TEXT NOT NULL,
		name TEXT NOT NULL,
		PRIMARY KEY (node_id, position),
		FOREIGN KEY (node_id) REFERENCES nodes(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS links (
		topology_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		link_id TEXT NOT NULL,
		source_key TEXT NOT NULL,
		target_key TEXT NOT NULL,
		type TEXT,
		info TEXT,
		PRIMARY KEY (topology_id, position),
		FOREIGN KEY (topology_id) REFERENCES topologies(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_nodes_topology ON nodes(topology_id, position);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// Snapshot loads every topology in stored order. Node ids are assigned
// densely per topology in node order, whatever keys the rows use.
func (r *Repository) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM topologies ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query topologies: %w", err)
	}

	type topologyRow struct {
		id   int64
		name string
	}
	var topologies []topologyRow
	for rows.Next() {
		var tr topologyRow
		if err := rows.Scan(&tr.id, &tr.name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan topology: %w", err)
		}
		topologies = append(topologies, tr)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating topologies: %w", err)
	}
	rows.Close()

	snap := domain.NewSnapshot()
	for _, tr := range topologies {
		t, err := r.loadTopology(ctx, tr.id, tr.name)
		if err != nil {
			return nil, err
		}
		snap.Put(t)
	}

	return snap, nil
}

func (r *Repository) loadTopology(ctx context.Context, topologyID int64, name string) (*domain.Topology, error) {
	t := domain.NewTopology(name)

	// The pool holds a single connection, so each result set is drained
	// before the next query
	ids, err := r.loadNodes(ctx, t, topologyID)
	if err != nil {
		return nil, err
	}
	if err := r.loadLinks(ctx, t, topologyID, ids); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *Repository) loadNodes(ctx context.Context, t *domain.Topology, topologyID int64) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT n.id, n.key, e.address, e.name
		FROM nodes n
		LEFT JOIN endpoints e ON e.node_id = n.id
		WHERE n.topology_id = ?
		ORDER BY n.position, n.id, e.position
	`, topologyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes of %q: %w", t.Name, err)
	}
	defer rows.Close()

	ids := make(map[string]int)
	var current *domain.Node
	var currentRow int64 = -1
	for rows.Next() {
		var (
			rowID          int64
			key            string
			address, ename sql.NullString
		)
		if err := rows.Scan(&rowID, &key, &address, &ename); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}

		if rowID != currentRow {
			current = domain.NewNode(len(ids))
			ids[key] = current.ID
			t.PutNode(current)
			currentRow = rowID
		}
		if address.Valid {
			current.Endpoints = append(current.Endpoints, domain.Endpoint{
				Address: address.String,
				Name:    nullToString(ename),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating nodes: %w", err)
	}
	return ids, nil
}

func (r *Repository) loadLinks(ctx context.Context, t *domain.Topology, topologyID int64, ids map[string]int) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT link_id, source_key, target_key, type, info
		FROM links
		WHERE topology_id = ?
		ORDER BY position
	`, topologyID)
	if err != nil {
		return fmt.Errorf("failed to query links of %q: %w", t.Name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			linkID, sourceKey, targetKey string
			linkType, info               sql.NullString
		)
		if err := rows.Scan(&linkID, &sourceKey, &targetKey, &linkType, &info); err != nil {
			return fmt.Errorf("failed to scan link: %w", err)
		}

		source, ok := ids[sourceKey]
		if !ok {
			return domain.Malformed(0, t.Name, "link %q references unknown node %q", linkID, sourceKey)
		}
		target, ok := ids[targetKey]
		if !ok {
			return domain.Malformed(0, t.Name, "link %q references unknown node %q", linkID, targetKey)
		}
		t.AddLink(domain.NewLink(source, target, linkID, nullToString(linkType), nullToString(info)))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating links: %w", err)
	}
	return nil
}

// Import stores every topology of the snapshot. A topology that is already
// stored under the same name is replaced in place; new names are appended
// after the existing ones. Node keys are derived from node ids.
func (r *Repository) Import(ctx context.Context, snap *domain.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var next int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM topologies`).Scan(&next); err != nil {
		return fmt.Errorf("failed to read topology positions: %w", err)
	}

	for _, name := range snap.Order {
		pos := next
		var existing int
		err := tx.QueryRowContext(ctx, `SELECT position FROM topologies WHERE name = ?`, name).Scan(&existing)
		switch {
		case err == nil:
			pos = existing
			// Cascades to nodes, endpoints and links
			if _, err := tx.ExecContext(ctx, `DELETE FROM topologies WHERE name = ?`, name); err != nil {
				return fmt.Errorf("failed to replace topology %q: %w", name, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			next++
		default:
			return fmt.Errorf("failed to look up topology %q: %w", name, err)
		}

		if err := importTopology(ctx, tx, pos, snap.Topologies[name]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

func importTopology(ctx context.Context, tx *sql.Tx, pos int, t *domain.Topology) error {
	res, err := tx.ExecContext(ctx, `INSERT INTO topologies (name, position) VALUES (?, ?)`, t.Name, pos)
	if err != nil {
		return fmt.Errorf("failed to insert topology %q: %w", t.Name, err)
	}
	topologyID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read topology id: %w", err)
	}

	for i, n := range t.SortedNodes() {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO nodes (topology_id, key, position) VALUES (?, ?, ?)`,
			topologyID, nodeKey(n.ID), i)
		if err != nil {
			return fmt.Errorf("failed to insert node %d of %q: %w", n.ID, t.Name, err)
		}
		nodeID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read node id: %w", err)
		}

		for j, ep := range n.Endpoints {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO endpoints (node_id, position, address, name) VALUES (?, ?, ?, ?)`,
				nodeID, j, ep.Address, ep.Name); err != nil {
				return fmt.Errorf("failed to insert endpoint: %w", err)
			}
		}
	}

	for i, l := range t.Links {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO links (topology_id, position, link_id, source_key, target_key, type, info) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			topologyID, i, l.ID, nodeKey(l.Source), nodeKey(l.Target), stringToNull(l.Type), stringToNull(l.Info)); err != nil {
			return fmt.Errorf("failed to insert link %q: %w", l.ID, err)
		}
	}

	return nil
}

// DeleteTopology removes one topology and everything it owns
func (r *Repository) DeleteTopology(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM topologies WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete topology %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrTopologyNotFound, name)
	}
	return nil
}
