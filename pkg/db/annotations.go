package db

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"

	"github.com/yumyai/domcomb/logger"
	"github.com/yumyai/domcomb/pkg/model"
)

var ErrMalformedRecord = errors.New("malformed annotation record")

// Columns of an annotation table, tab separated, '#' starts a comment line.
var AnnotationColumns = []string{"species", "protein_id", "domain_id", "from", "to", "evalue"}

func parseRecord(record []string) (model.Species, string, model.Domain, error) {
	from, err := strconv.Atoi(record[3])
	if err != nil {
		return "", "", model.Domain{}, fmt.Errorf("from %q: %w", record[3], err)
	}
	to, err := strconv.Atoi(record[4])
	if err != nil {
		return "", "", model.Domain{}, fmt.Errorf("to %q: %w", record[4], err)
	}
	evalue, err := strconv.ParseFloat(record[5], 64)
	if err != nil {
		return "", "", model.Domain{}, fmt.Errorf("evalue %q: %w", record[5], err)
	}
	if record[0] == "" || record[1] == "" || record[2] == "" {
		return "", "", model.Domain{}, errors.New("empty species, protein or domain id")
	}
	return model.Species(record[0]), record[1], model.Domain{ID: record[2], From: from, To: to, Evalue: evalue}, nil
}

// ImportTable appends every record of an annotation table in one
// transaction and returns the number of domains imported. Nothing is
// written if any record is malformed.
func (adb *AnalysisDB) ImportTable(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.Comment = '#'
	reader.FieldsPerRecord = len(AnnotationColumns)
	reader.ReuseRecord = true

	tx, err := adb.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("fail to begin tx %w", err)
	}
	defer tx.Rollback()

	stm, err := tx.PrepareContext(ctx,
		`INSERT INTO protein_domains (species, protein_id, domain_id, dom_from, dom_to, evalue) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stm.Close()

	n := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
		}
		species, proteinID, domain, err := parseRecord(record)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return 0, fmt.Errorf("%w: line %d: %w", ErrMalformedRecord, line, err)
		}
		if _, err := stm.ExecContext(ctx, string(species), proteinID, domain.ID, domain.From, domain.To, domain.Evalue); err != nil {
			return 0, fmt.Errorf("insert %s/%s: %w", proteinID, domain.ID, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	logger.Info("imported annotations", zap.Int("domains", n))
	return n, nil
}

// ListSpecies returns every species with annotations, ascending.
func (adb *AnalysisDB) ListSpecies(ctx context.Context) ([]model.Species, error) {
	rows, err := adb.sql.QueryContext(ctx, `SELECT DISTINCT species FROM protein_domains ORDER BY species`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var species []model.Species
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		species = append(species, model.Species(s))
	}
	return species, rows.Err()
}

// LoadProteins returns the proteins of one species in import order, each
// with its domains in import order.
func (adb *AnalysisDB) LoadProteins(ctx context.Context, species model.Species) ([]*model.Protein, error) {
	rows, err := adb.sql.QueryContext(ctx, `
		SELECT protein_id, domain_id, dom_from, dom_to, evalue
		FROM protein_domains
		WHERE species = ?
		ORDER BY rowid`, string(species))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var proteins []*model.Protein
	byID := make(map[string]*model.Protein)
	for rows.Next() {
		var proteinID string
		var d model.Domain
		if err := rows.Scan(&proteinID, &d.ID, &d.From, &d.To, &d.Evalue); err != nil {
			return nil, err
		}
		p, ok := byID[proteinID]
		if !ok {
			p = model.NewProtein(proteinID, species)
			byID[proteinID] = p
			proteins = append(proteins, p)
		}
		p.AddDomain(d)
	}
	return proteins, rows.Err()
}
