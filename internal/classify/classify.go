// Package classify assigns a semantic tag to a bank transaction description.
//
// Classification is table driven: each side (credit, debit) has an ordered
// list of pattern/tag rules and the first match wins. Descriptions are
// normalised (uppercased, whitespace collapsed) before matching, so patterns
// are written against uppercase text.
package classify

import (
	"regexp"
	"strings"

	"github.com/cleared-dev/offerlab/internal/model"
)

// Tag is the semantic category of a transaction.
type Tag string

// Credit tags.
const (
	TagTransfer     Tag = "transfer"
	TagOtherAdvance Tag = "otherAdvance"
	TagRegular      Tag = "regular"
)

// Debit tags.
const (
	TagMCA      Tag = "mca"
	TagMiscFee  Tag = "miscFee"
	TagCard     Tag = "card"
	TagBankLoan Tag = "bankLoan"
	TagZelle    Tag = "zelle"
	TagOther    Tag = "other"
)

var (
	creditTags = map[Tag]bool{TagTransfer: true, TagOtherAdvance: true, TagRegular: true}
	debitTags  = map[Tag]bool{TagMCA: true, TagMiscFee: true, TagCard: true, TagBankLoan: true, TagZelle: true, TagOther: true}
)

// Rule maps a compiled pattern to a tag.
type Rule struct {
	Tag     Tag
	Pattern *regexp.Regexp
}

// NewRule compiles pattern into a Rule.
func NewRule(tag Tag, pattern string) (Rule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, err
	}
	return Rule{Tag: tag, Pattern: re}, nil
}

// MustRule is NewRule for package-level tables. Panics on a bad pattern.
func MustRule(tag Tag, pattern string) Rule {
	r, err := NewRule(tag, pattern)
	if err != nil {
		panic("classify: " + err.Error())
	}
	return r
}

// Rules is the ordered rule table for both sides of the ledger.
type Rules struct {
	Credit []Rule
	Debit  []Rule
}

// With returns a copy of rs with the given rules placed ahead of the
// existing ones, so institution-specific patterns take priority.
func (rs Rules) With(credit, debit []Rule) Rules {
	return Rules{
		Credit: append(append([]Rule(nil), credit...), rs.Credit...),
		Debit:  append(append([]Rule(nil), debit...), rs.Debit...),
	}
}

// DefaultRules returns the built-in taxonomy.
func DefaultRules() Rules {
	return Rules{
		Credit: []Rule{
			MustRule(TagTransfer, `\b(TRANSFER|XFER|INTERNAL)\b`),
			MustRule(TagOtherAdvance, `WIRE CREDIT|\bFUNDING\b|\bCAPITAL\b|\bADVANCE\b`),
		},
		Debit: []Rule{
			MustRule(TagMCA, `SETTLEMENT|SETTLMT|PFSINGLE|MERCHANT FUNDING|CAPITAL REPAY|LOAN (PAYMENT|PMT)`),
			MustRule(TagMiscFee, `\b(ANALYSIS|SERVICE|MAINTENANCE) (FEE|CHARGE)`),
			MustRule(TagCard, `\bAMEX\b|AMERICAN EXPRESS|\bCHASE (CREDIT )?(CRD|CARD)\b|CAPITAL ONE|\bDISCOVER\b|CITI CARD|CARDMEMBER SERV`),
			MustRule(TagBankLoan, `\bSBA\b|\bEIDL\b|\bCADENCE\b`),
			MustRule(TagZelle, `\bZELLE\b`),
		},
	}
}

// Classifier tags descriptions using a fixed rule table. It holds no mutable
// state and is safe for concurrent use.
type Classifier struct {
	rules Rules
}

// New creates a Classifier over rules.
func New(rules Rules) *Classifier {
	return &Classifier{rules: rules}
}

// Default returns a Classifier over DefaultRules.
func Default() *Classifier {
	return New(DefaultRules())
}

// Rules returns the classifier's rule table.
func (c *Classifier) Rules() Rules {
	return c.rules
}

// Classify tags desc according to the transaction direction.
func (c *Classifier) Classify(typ model.TxnType, desc string) Tag {
	if typ == model.TxnCredit {
		return c.ClassifyCredit(desc)
	}
	return c.ClassifyDebit(desc)
}

// ClassifyCredit returns the first matching credit tag, or TagRegular.
func (c *Classifier) ClassifyCredit(desc string) Tag {
	return firstMatch(c.rules.Credit, Normalize(desc), TagRegular)
}

// ClassifyDebit returns the first matching debit tag, or TagOther.
func (c *Classifier) ClassifyDebit(desc string) Tag {
	return firstMatch(c.rules.Debit, Normalize(desc), TagOther)
}

// Normalize uppercases desc and collapses runs of whitespace to one space.
func Normalize(desc string) string {
	return strings.Join(strings.Fields(strings.ToUpper(desc)), " ")
}

func firstMatch(rules []Rule, text string, fallback Tag) Tag {
	for _, r := range rules {
		if r.Pattern.MatchString(text) {
			return r.Tag
		}
	}
	return fallback
}
