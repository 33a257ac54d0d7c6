package classify

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrUnknownTag is returned when a rule file names a tag that does not
// belong to the side it is listed under.
var ErrUnknownTag = errors.New("unknown tag")

// ruleFile is the on-disk shape of a rule table.
type ruleFile struct {
	Credit []ruleEntry `yaml:"credit"`
	Debit  []ruleEntry `yaml:"debit"`
}

type ruleEntry struct {
	Tag     Tag    `yaml:"tag"`
	Pattern string `yaml:"pattern"`
}

// LoadRules reads a YAML rule table. Rules keep file order.
func LoadRules(r io.Reader) (Rules, error) {
	var f ruleFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return Rules{}, fmt.Errorf("parsing rules: %w", err)
	}

	credit, err := compileEntries("credit", f.Credit, creditTags)
	if err != nil {
		return Rules{}, err
	}
	debit, err := compileEntries("debit", f.Debit, debitTags)
	if err != nil {
		return Rules{}, err
	}
	return Rules{Credit: credit, Debit: debit}, nil
}

// LoadRulesFile reads a YAML rule table from path.
func LoadRulesFile(path string) (Rules, error) {
	f, err := os.Open(path)
	if err != nil {
		return Rules{}, fmt.Errorf("opening rules: %w", err)
	}
	defer f.Close()

	rules, err := LoadRules(f)
	if err != nil {
		return Rules{}, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

// WriteRules writes rs as YAML.
func WriteRules(w io.Writer, rs Rules) error {
	f := ruleFile{
		Credit: toEntries(rs.Credit),
		Debit:  toEntries(rs.Debit),
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	return enc.Close()
}

func compileEntries(side string, entries []ruleEntry, allowed map[Tag]bool) ([]Rule, error) {
	rules := make([]Rule, 0, len(entries))
	for i, e := range entries {
		if !allowed[e.Tag] {
			return nil, fmt.Errorf("%s rule %d: %w %q", side, i+1, ErrUnknownTag, e.Tag)
		}
		r, err := NewRule(e.Tag, e.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%s rule %d: compiling pattern: %w", side, i+1, err)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func toEntries(rules []Rule) []ruleEntry {
	entries := make([]ruleEntry, len(rules))
	for i, r := range rules {
		entries[i] = ruleEntry{Tag: r.Tag, Pattern: r.Pattern.String()}
	}
	return entries
}
