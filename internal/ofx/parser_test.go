package ofx

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-spice-must-advise/internal/model"
)

// Sample OFX data for testing.
const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024012001
<NAME>Whole Foods Market
</STMTTRN>
<STMTTRN>
<TRNTYPE>CHECK
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>-500.00
<FITID>2024012501
<CHECKNUM>1234
<NAME>CHECK #1234
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const sampleCreditCardOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024011001
<NAME>AMAZON.COM*RT4Y7HG2
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-15.00
<FITID>CC2024011501
<NAME>NETFLIX.COM
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
<AVAILBAL>
<BALAMT>4500.00
<DTASOF>20240131120000[0:GMT]
</AVAILBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestParseBalances(t *testing.T) {
	tests := []struct {
		name          string
		ofxData       string
		expectedAsset int
		expectedCards int
		expectedError bool
	}{
		{name: "valid bank statement", ofxData: sampleBankOFX, expectedAsset: 1},
		{name: "valid credit card statement", ofxData: sampleCreditCardOFX, expectedCards: 1},
		{name: "invalid OFX data", ofxData: "not valid OFX", expectedError: true},
		{name: "empty OFX", ofxData: "", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewParser("alice", nil)

			balances, err := parser.ParseBalances(context.Background(), strings.NewReader(tt.ofxData))
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, balances.Assets, tt.expectedAsset)
			assert.Len(t, balances.CreditCards, tt.expectedCards)
		})
	}
}

func TestParseBalances_BankAccount(t *testing.T) {
	balances, err := NewParser("alice", nil).ParseBalances(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	require.Len(t, balances.Assets, 1)

	asset := balances.Assets[0]
	assert.Equal(t, "alice", asset.Owner)
	assert.Equal(t, "Checking ...7890", asset.Name)
	assert.Equal(t, model.AssetCash, asset.Category)
	assert.InDelta(t, 1000.0, asset.CurrentValue, 0.001)
	assert.True(t, time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC).Equal(asset.CreatedAt))
	assert.NotEmpty(t, asset.ID)
	require.NoError(t, asset.Validate())
}

func TestParseBalances_SavingsAccount(t *testing.T) {
	data := strings.Replace(sampleBankOFX, "<ACCTTYPE>CHECKING", "<ACCTTYPE>SAVINGS", 1)

	balances, err := NewParser("alice", nil).ParseBalances(context.Background(), strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, balances.Assets, 1)
	assert.Equal(t, model.AssetSavings, balances.Assets[0].Category)
	assert.Equal(t, "Savings ...7890", balances.Assets[0].Name)
}

func TestParseBalances_CreditCard(t *testing.T) {
	balances, err := NewParser("alice", nil).ParseBalances(context.Background(), strings.NewReader(sampleCreditCardOFX))
	require.NoError(t, err)
	require.Len(t, balances.CreditCards, 1)

	card := balances.CreditCards[0]
	assert.Equal(t, "Card ...1111", card.CardName)
	assert.InDelta(t, 500.0, card.OutstandingBalance, 0.001)
	assert.InDelta(t, 5000.0, card.CreditLimit, 0.001)
	assert.InDelta(t, 10.0, card.UtilizationRate(), 0.001)
	require.NoError(t, card.Validate())
}

func TestParseBalances_StableIDs(t *testing.T) {
	parse := func(owner string) string {
		balances, err := NewParser(owner, nil).ParseBalances(context.Background(), strings.NewReader(sampleCreditCardOFX))
		require.NoError(t, err)
		return balances.CreditCards[0].ID
	}

	assert.Equal(t, parse("alice"), parse("alice"))
	assert.NotEqual(t, parse("alice"), parse("bob"))
}

func TestPreprocessOFX(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"leading whitespace", "\n\n  OFXHEADER:100", "OFXHEADER:100"},
		{"mixed case severity", "<SEVERITY>Info</SEVERITY>", "<SEVERITY>INFO</SEVERITY>"},
		{"missing bracket", "<OFX>\n<BANKMSGSRSV1\n</OFX>", "<OFX>\n<BANKMSGSRSV1>\n</OFX>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, preprocessOFX(tt.input))
		})
	}
}

func TestParseBalances_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewParser("alice", nil).ParseBalances(ctx, strings.NewReader(sampleBankOFX))
	assert.ErrorIs(t, err, context.Canceled)
}
