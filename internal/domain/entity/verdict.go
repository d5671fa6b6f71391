package entity

import "strings"

// Rule правило, по которому принят вердикт для класса
type Rule string

const (
	RuleThreshold      Rule = "threshold"       // верхний позитив не ниже порога
	RuleNearTie        Rule = "near_tie"        // позитив почти равен негативу
	RuleBelowThreshold Rule = "below_threshold" // позитив слишком слабый
	RuleNegativeOnly   Rule = "negative_only"   // есть только негативные боксы
	RuleNoCandidates   Rule = "no_candidates"   // боксов класса нет совсем
)

// Resolution подробности решения по одному классу.
type Resolution struct {
	Equipment   Equipment `json:"equipment"`
	Present     bool      `json:"present"`
	Rule        Rule      `json:"rule"`
	TopPositive float64   `json:"top_positive"` // 0 если позитивов нет
	TopNegative float64   `json:"top_negative"` // 0 если негативов нет
	Positives   int       `json:"positives"`
	Negatives   int       `json:"negatives"`
}

// EquipmentVerdict итоговый вердикт по всем проверяемым классам.
type EquipmentVerdict struct {
	Detected    map[Equipment]bool `json:"detected_items"`
	Missing     []Equipment        `json:"missing_items"`
	Success     bool               `json:"success"`
	Resolutions []Resolution       `json:"resolutions"`
}

// Has возвращает вердикт по классу. Непроверяемый класс считается отсутствующим.
func (v EquipmentVerdict) Has(e Equipment) bool {
	return v.Detected[e]
}

// MissingNames список недостающих классов строками.
func (v EquipmentVerdict) MissingNames() []string {
	names := make([]string, 0, len(v.Missing))
	for _, e := range v.Missing {
		names = append(names, string(e))
	}
	return names
}

// Message короткое текстовое резюме вердикта.
func (v EquipmentVerdict) Message() string {
	if v.Success {
		return "All equipment present"
	}
	return "Missing: " + strings.Join(v.MissingNames(), ", ")
}

// ComplianceResult вердикт вместе с оценкой качества снимка.
type ComplianceResult struct {
	Verdict  EquipmentVerdict `json:"verdict"`
	Quality  QualityVerdict   `json:"quality"`
	Enhanced bool             `json:"enhanced"` // снимок прошёл улучшение перед инференсом
}
