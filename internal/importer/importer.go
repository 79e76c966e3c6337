// Package importer loads financial records into the record store.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Veraticus/the-spice-must-advise/internal/common"
	"github.com/Veraticus/the-spice-must-advise/internal/config"
	"github.com/Veraticus/the-spice-must-advise/internal/model"
	"github.com/Veraticus/the-spice-must-advise/internal/ofx"
	"github.com/Veraticus/the-spice-must-advise/internal/service"
)

// ErrNoOwner is returned when neither the document nor the options name an owner.
var ErrNoOwner = errors.New("records owner is required")

// Document is the YAML records file format.
type Document struct {
	Owner       string             `yaml:"owner"`
	Incomes     []model.Income     `yaml:"incomes"`
	Assets      []model.Asset      `yaml:"assets"`
	Liabilities []model.Liability  `yaml:"liabilities"`
	CreditCards []model.CreditCard `yaml:"credit_cards"`
}

// Options controls an import.
type Options struct {
	// Owner overrides the document owner.
	Owner string
	// Replace deletes the owner's existing records first.
	Replace bool
}

// Result counts the records saved.
type Result struct {
	Owner       string `json:"owner"`
	Incomes     int    `json:"incomes"`
	Assets      int    `json:"assets"`
	Liabilities int    `json:"liabilities"`
	CreditCards int    `json:"credit_cards"`
}

// Total is the number of records saved.
func (r Result) Total() int {
	return r.Incomes + r.Assets + r.Liabilities + r.CreditCards
}

// Importer writes parsed records through a service.RecordWriter.
type Importer struct {
	writer service.RecordWriter
	logger *slog.Logger
}

// New creates an importer.
func New(writer service.RecordWriter, logger *slog.Logger) *Importer {
	return &Importer{writer: writer, logger: common.LoggerOrDefault(logger)}
}

// ImportFile reads a YAML records file.
func (im *Importer) ImportFile(ctx context.Context, path string, opts Options) (Result, error) {
	f, err := os.Open(config.ExpandPath(path))
	if err != nil {
		return Result{}, fmt.Errorf("failed to open records file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return im.Import(ctx, f, opts)
}

// Import decodes a YAML document, validates every record and saves them.
// Nothing is written when any record is invalid.
func (im *Importer) Import(ctx context.Context, r io.Reader, opts Options) (Result, error) {
	doc, err := Decode(r)
	if err != nil {
		return Result{}, err
	}

	owner := strings.TrimSpace(opts.Owner)
	if owner == "" {
		owner = strings.TrimSpace(doc.Owner)
	}
	if owner == "" {
		return Result{}, ErrNoOwner
	}

	if err := doc.Validate(); err != nil {
		return Result{}, err
	}

	if opts.Replace {
		if err := im.writer.DeleteOwnerRecords(ctx, owner); err != nil {
			return Result{}, fmt.Errorf("failed to clear existing records: %w", err)
		}
	}

	res := Result{Owner: owner}
	for i := range doc.Incomes {
		doc.Incomes[i].Owner = owner
		if err := im.writer.SaveIncome(ctx, &doc.Incomes[i]); err != nil {
			return res, err
		}
		res.Incomes++
	}
	for i := range doc.Assets {
		doc.Assets[i].Owner = owner
		if err := im.writer.SaveAsset(ctx, &doc.Assets[i]); err != nil {
			return res, err
		}
		res.Assets++
	}
	for i := range doc.Liabilities {
		doc.Liabilities[i].Owner = owner
		if err := im.writer.SaveLiability(ctx, &doc.Liabilities[i]); err != nil {
			return res, err
		}
		res.Liabilities++
	}
	for i := range doc.CreditCards {
		doc.CreditCards[i].Owner = owner
		if err := im.writer.SaveCreditCard(ctx, &doc.CreditCards[i]); err != nil {
			return res, err
		}
		res.CreditCards++
	}

	im.logger.Info("Imported records",
		"owner", owner,
		"incomes", res.Incomes,
		"assets", res.Assets,
		"liabilities", res.Liabilities,
		"credit_cards", res.CreditCards)

	return res, nil
}

// ImportOFXFile reads balances from an OFX/QFX statement and saves them for owner.
func (im *Importer) ImportOFXFile(ctx context.Context, path, owner string) (Result, error) {
	if strings.TrimSpace(owner) == "" {
		return Result{}, ErrNoOwner
	}
	f, err := os.Open(config.ExpandPath(path))
	if err != nil {
		return Result{}, fmt.Errorf("failed to open statement: %w", err)
	}
	defer func() { _ = f.Close() }()

	balances, err := ofx.NewParser(owner, im.logger).ParseBalances(ctx, f)
	if err != nil {
		return Result{}, err
	}
	return im.SaveBalances(ctx, owner, balances)
}

// SaveBalances stores statement-derived assets and credit cards.
func (im *Importer) SaveBalances(ctx context.Context, owner string, balances *ofx.Balances) (Result, error) {
	res := Result{Owner: owner}
	for i := range balances.Assets {
		balances.Assets[i].Owner = owner
		if err := im.writer.SaveAsset(ctx, &balances.Assets[i]); err != nil {
			return res, err
		}
		res.Assets++
	}
	for i := range balances.CreditCards {
		balances.CreditCards[i].Owner = owner
		if err := im.writer.SaveCreditCard(ctx, &balances.CreditCards[i]); err != nil {
			return res, err
		}
		res.CreditCards++
	}
	return res, nil
}

// Decode parses a YAML records document, rejecting unknown fields.
func Decode(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("records file is empty")
		}
		return nil, fmt.Errorf("failed to parse records file: %w", err)
	}
	return &doc, nil
}

// Validate checks every record in the document.
func (d *Document) Validate() error {
	var errs []error
	for i := range d.Incomes {
		if err := d.Incomes[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("incomes[%d]: %w", i, err))
		}
	}
	for i := range d.Assets {
		if err := d.Assets[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("assets[%d]: %w", i, err))
		}
	}
	for i := range d.Liabilities {
		if err := d.Liabilities[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("liabilities[%d]: %w", i, err))
		}
	}
	for i := range d.CreditCards {
		if err := d.CreditCards[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("credit_cards[%d]: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
