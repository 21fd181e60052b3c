package statlog

// cascadeRule describes one derived draft implied by a primary stat
type cascadeRule struct {
	derived StatType
	note    string
	negate  bool
}

// cascadeRules is the closed expansion table. Extend by adding rows;
// consumers never special-case derived entries.
var cascadeRules = map[StatType][]cascadeRule{
	// A sack is also a tackle for loss and a solo tackle. The value is
	// carried through unchanged so half-sacks (0.5) credit half a TFL
	// and half a tackle.
	StatSack: {
		{derived: StatTFL, note: "auto: from sack"},
		{derived: StatTackleSolo, note: "auto: from sack"},
	},
	// Sack yardage against a quarterback is recorded as a rush loss
	StatSackTaken: {
		{derived: StatRush, note: "auto: from sack taken", negate: true},
	},
}

// Expand turns one primary draft into the ordered list of drafts to
// create, the primary always first. Each draft goes through temp-id
// issuance and persistence independently; there is no transactional
// grouping across the expansion.
func Expand(primary StatEntry) []StatEntry {
	rules := cascadeRules[primary.Type]
	drafts := make([]StatEntry, 0, 1+len(rules))
	drafts = append(drafts, primary)

	for _, rule := range rules {
		d := primary
		d.Type = rule.derived
		d.Note = rule.note
		if rule.negate {
			d.Value = -d.Value
		}
		drafts = append(drafts, d)
	}
	return drafts
}
