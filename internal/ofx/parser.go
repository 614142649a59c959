// Package ofx turns OFX/QFX bank statements into ledger movements.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Veraticus/sw/internal/model"
	"github.com/aclindsa/ofxgo"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	spaceRegex    = regexp.MustCompile(`\s+`)
)

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Fix missing closing angle brackets in SGML-style OFX files
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// ParseFile parses an OFX/QFX statement and returns one draft per
// transaction, keeping the statement's sign: debits are negative.
func (p *Parser) ParseFile(_ context.Context, reader io.Reader) ([]model.Draft, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var drafts []model.Draft
	var bankStmts, ccStmts int

	// Process bank messages
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			bankStmts++
			drafts = append(drafts, p.convertTransactions(stmt.BankTranList.Transactions)...)
		}
	}

	// Process credit card messages
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			ccStmts++
			drafts = append(drafts, p.convertTransactions(stmt.BankTranList.Transactions)...)
		}
	}

	slog.Debug("Parsed OFX file",
		"total_transactions", len(drafts),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return drafts, nil
}

func (p *Parser) convertTransactions(txns []ofxgo.Transaction) []model.Draft {
	drafts := make([]model.Draft, 0, len(txns))
	for _, tx := range txns {
		amount, _ := tx.TrnAmt.Float64()

		draft, err := model.NewDraft(tx.DtPosted.Time.Unix(), amount, p.note(tx))
		if err != nil {
			// note() already flattens whitespace, so this is unexpected.
			slog.Warn("Skipping OFX transaction", "fitid", string(tx.FiTID), "error", err)
			continue
		}
		drafts = append(drafts, draft)
	}
	return drafts
}

// note builds a single-line note from the payee, name and memo fields.
func (p *Parser) note(tx ofxgo.Transaction) string {
	name := extractMerchantName(tx)
	memo := strings.TrimSpace(string(tx.Memo))

	note := name
	switch {
	case name == "":
		note = memo
	case memo != "" && !strings.EqualFold(memo, name):
		note = name + " - " + memo
	}
	if tx.CheckNum != "" && !strings.Contains(note, string(tx.CheckNum)) {
		note = strings.TrimSpace(note + " #" + string(tx.CheckNum))
	}

	return spaceRegex.ReplaceAllString(strings.TrimSpace(note), " ")
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func extractMerchantName(tx ofxgo.Transaction) string {
	// Prefer PAYEE if available (cleaner merchant name)
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if isGenericDescription(name) {
		return ""
	}

	// Remove common card-processor prefixes
	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Clean up date patterns like "MM/DD" at the beginning
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// isGenericDescription checks if a transaction name carries no merchant.
func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}
