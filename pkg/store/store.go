// 16 Oct 2026

// Package store copies an annotation into a SQLite database, so the
// genes can be queried without reading the GFF file again.
// It uses the pure Go driver, so no cgo is needed.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/andrew-torda/gffscan/pkg/gff"
)

const driverName = "sqlite"

const schema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS regions (
	id     INTEGER PRIMARY KEY,
	name   TEXT NOT NULL,
	length INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS genes (
	id         INTEGER PRIMARY KEY,
	chromosome TEXT NOT NULL,
	start_pos  INTEGER NOT NULL,
	end_pos    INTEGER NOT NULL,
	strand     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS gene_attrs (
	gene_id INTEGER NOT NULL REFERENCES genes(id),
	key     TEXT NOT NULL,
	value   TEXT NOT NULL,
	PRIMARY KEY (gene_id, key)
);
CREATE INDEX IF NOT EXISTS genes_chrom ON genes(chromosome, start_pos);
`

// Open opens (creating if necessary) the database at path and makes
// sure the tables exist.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables in %s: %w", path, err)
	}
	return db, nil
}

// Export writes ann into db in one transaction. Rows from an earlier
// export are removed first. meta gets the version and anything in
// extra (file name, digest, #! directives such as genome-build).
func Export(ctx context.Context, db *sql.DB, ann *gff.Annotation, extra map[string]string) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()
	for _, tbl := range []string{"gene_attrs", "genes", "regions", "meta"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+tbl); err != nil {
			return fmt.Errorf("clearing %s: %w", tbl, err)
		}
	}

	const insMeta = `INSERT INTO meta (key, value) VALUES (?, ?)`
	if _, err = tx.ExecContext(ctx, insMeta, "gff_version", fmt.Sprint(ann.GffVersion)); err != nil {
		return err
	}
	for k, v := range extra { // cannot replace gff_version
		if _, err = tx.ExecContext(ctx, `INSERT OR IGNORE INTO meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return err
		}
	}

	regStmt, err := tx.PrepareContext(ctx, `INSERT INTO regions (name, length) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer regStmt.Close()
	for _, r := range ann.Regions {
		if _, err = regStmt.ExecContext(ctx, r.Name, int64(r.Length)); err != nil {
			return fmt.Errorf("region %s: %w", r.Name, err)
		}
	}

	geneStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO genes (chromosome, start_pos, end_pos, strand) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer geneStmt.Close()
	attrStmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO gene_attrs (gene_id, key, value) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer attrStmt.Close()
	for _, g := range ann.Genes {
		res, e := geneStmt.ExecContext(ctx, g.Chromosome, g.Start, g.End, g.Strand)
		if e != nil {
			err = fmt.Errorf("gene at %s:%d: %w", g.Chromosome, g.Start, e)
			return err
		}
		id, e := res.LastInsertId()
		if e != nil {
			err = e
			return err
		}
		for k, v := range g.Attrs {
			if _, err = attrStmt.ExecContext(ctx, id, k, v); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// Load reads an annotation back out of db. Genes and regions come
// back in the order they were written.
func Load(ctx context.Context, db *sql.DB) (*gff.Annotation, error) {
	ann := &gff.Annotation{}
	var version string
	err := db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'gff_version'`).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	if version != "" {
		if _, err := fmt.Sscan(version, &ann.GffVersion); err != nil {
			return nil, fmt.Errorf("gff_version %q in meta: %w", version, err)
		}
	}

	rows, err := db.QueryContext(ctx, `SELECT name, length FROM regions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var r gff.Region
		var length int64
		if err := rows.Scan(&r.Name, &length); err != nil {
			rows.Close()
			return nil, err
		}
		r.Length = uint64(length)
		ann.Regions = append(ann.Regions, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ndx := make(map[int64]int)
	rows, err = db.QueryContext(ctx, `SELECT id, chromosome, start_pos, end_pos, strand FROM genes ORDER BY id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var id int64
		g := gff.Gene{Attrs: make(gff.Attrs)}
		if err := rows.Scan(&id, &g.Chromosome, &g.Start, &g.End, &g.Strand); err != nil {
			rows.Close()
			return nil, err
		}
		ndx[id] = len(ann.Genes)
		ann.Genes = append(ann.Genes, g)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.QueryContext(ctx, `SELECT gene_id, key, value FROM gene_attrs`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var k, v string
		if err := rows.Scan(&id, &k, &v); err != nil {
			return nil, err
		}
		if i, ok := ndx[id]; ok {
			ann.Genes[i].Attrs[k] = v
		}
	}
	return ann, rows.Err()
}
