// Package ofx reads account balances from OFX/QFX statement downloads.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/google/uuid"

	"github.com/Veraticus/the-spice-must-advise/internal/common"
	"github.com/Veraticus/the-spice-must-advise/internal/model"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// Opening tags missing their closing bracket at end of line.
	tagFixRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Balances are the records derived from one statement file.
type Balances struct {
	Assets      []model.Asset
	CreditCards []model.CreditCard
}

// Parser converts statement balances into financial records.
type Parser struct {
	logger *slog.Logger
	owner  string
}

// NewParser creates a parser that assigns records to owner.
func NewParser(owner string, logger *slog.Logger) *Parser {
	return &Parser{owner: owner, logger: common.LoggerOrDefault(logger)}
}

// preprocessOFX fixes common formatting issues in OFX files.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// ParseBalances reads bank and credit card statements. Bank ledger balances
// become assets; card statements become credit cards whose limit is the
// available balance plus the amount owed.
func (p *Parser) ParseBalances(ctx context.Context, reader io.Reader) (*Balances, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var out Balances

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok {
			continue
		}
		asset, ok := p.bankAsset(stmt)
		if ok {
			out.Assets = append(out.Assets, asset)
		}
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok {
			continue
		}
		out.CreditCards = append(out.CreditCards, p.creditCard(stmt))
	}

	p.logger.Info("Parsed OFX balances",
		"assets", len(out.Assets),
		"credit_cards", len(out.CreditCards))

	return &out, nil
}

func (p *Parser) bankAsset(stmt *ofxgo.StatementResponse) (model.Asset, bool) {
	acct := stmt.BankAcctFrom

	var category model.AssetCategory
	switch acct.AcctType {
	case ofxgo.AcctTypeChecking, ofxgo.AcctTypeMoneyMrkt:
		category = model.AssetCash
	case ofxgo.AcctTypeSavings, ofxgo.AcctTypeCD:
		category = model.AssetSavings
	default:
		p.logger.Warn("Skipping bank account with unsupported type",
			"account", mask(string(acct.AcctID)),
			"type", acct.AcctType.String())
		return model.Asset{}, false
	}

	balance, _ := stmt.BalAmt.Float64()
	if balance < 0 {
		p.logger.Warn("Overdrawn account recorded at zero",
			"account", mask(string(acct.AcctID)),
			"balance", balance)
		balance = 0
	}

	return model.Asset{
		ID:           p.recordID("bank", string(acct.AcctID)),
		Owner:        p.owner,
		Name:         fmt.Sprintf("%s %s", titleCase(acct.AcctType.String()), mask(string(acct.AcctID))),
		Category:     category,
		CurrentValue: balance,
		CreatedAt:    asOf(stmt.DtAsOf.Time),
	}, true
}

func (p *Parser) creditCard(stmt *ofxgo.CCStatementResponse) model.CreditCard {
	ledger, _ := stmt.BalAmt.Float64()
	// Card statements report money owed as a negative ledger balance.
	owed := ledger
	if owed < 0 {
		owed = -owed
	} else {
		owed = 0
	}

	var limit float64
	if stmt.AvailBalAmt != nil {
		available, _ := stmt.AvailBalAmt.Float64()
		if available < 0 {
			available = 0
		}
		limit = available + owed
	} else {
		p.logger.Warn("Card statement has no available balance; credit limit unknown",
			"account", mask(string(stmt.CCAcctFrom.AcctID)))
	}

	return model.CreditCard{
		ID:                 p.recordID("card", string(stmt.CCAcctFrom.AcctID)),
		Owner:              p.owner,
		CardName:           "Card " + mask(string(stmt.CCAcctFrom.AcctID)),
		CreditLimit:        limit,
		OutstandingBalance: owed,
		CreatedAt:          asOf(stmt.DtAsOf.Time),
	}
}

// recordID is stable per owner and account so re-importing a newer statement
// replaces the previous balance.
func (p *Parser) recordID(kind, accountID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(p.owner+"|"+kind+"|"+accountID)).String()
}

func asOf(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

// mask keeps the last four characters of an account number.
func mask(id string) string {
	if len(id) <= 4 {
		return id
	}
	return "..." + id[len(id)-4:]
}

func titleCase(s string) string {
	if s == "" {
		return "Account"
	}
	s = strings.ToLower(s)
	return strings.ToUpper(s[:1]) + s[1:]
}
