package app

import (
	"cmp"
	"slices"

	"ppe-inspector/internal/domain/entity"
)

// ClassPolicy правило принятия решения по одному классу СИЗ.
type ClassPolicy struct {
	Equipment     entity.Equipment
	MinConfidence float64 // минимальная уверенность позитивного бокса
	NearTie       bool    // разрешено ли правило почти-ничьей
}

// ResolverConfig настройки разрешения вердикта.
type ResolverConfig struct {
	Classes      []ClassPolicy // проверяемые классы в порядке перечисления
	NearTieRatio float64       // позитив побеждает, если он больше ratio * негатив
}

// DefaultResolverConfig каска 0.40, жилет 0.25, ratio 0.8.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		Classes: []ClassPolicy{
			{Equipment: entity.Helmet, MinConfidence: 0.40, NearTie: true},
			{Equipment: entity.Vest, MinConfidence: 0.25, NearTie: true},
		},
		NearTieRatio: 0.8,
	}
}

// candidateSet позитивные и негативные уверенности одного класса,
// отсортированные по убыванию.
type candidateSet struct {
	positive []float64
	negative []float64
}

func (s *candidateSet) add(c entity.Candidate) {
	if c.Polarity == entity.Present {
		s.positive = append(s.positive, c.Confidence)
	} else {
		s.negative = append(s.negative, c.Confidence)
	}
}

func (s *candidateSet) sort() {
	desc := func(a, b float64) int { return cmp.Compare(b, a) }
	slices.SortFunc(s.positive, desc)
	slices.SortFunc(s.negative, desc)
}

// Resolve сводит сырые боксы модели к одному булеву вердикту на класс.
// Чистая функция: одинаковые боксы и настройки дают одинаковый вердикт.
func Resolve(detections []entity.Detection, cfg ResolverConfig) entity.EquipmentVerdict {
	sets := make(map[entity.Equipment]*candidateSet, len(cfg.Classes))
	for _, p := range cfg.Classes {
		sets[p.Equipment] = &candidateSet{}
	}

	for _, d := range detections {
		c, ok := entity.ParseCandidate(d)
		if !ok {
			continue
		}
		if set, tracked := sets[c.Equipment]; tracked {
			set.add(c)
		}
	}

	verdict := entity.EquipmentVerdict{
		Detected:    make(map[entity.Equipment]bool, len(cfg.Classes)),
		Missing:     []entity.Equipment{},
		Resolutions: make([]entity.Resolution, 0, len(cfg.Classes)),
	}

	for _, e := range orderedClasses(cfg.Classes) {
		set := sets[e.Equipment]
		set.sort()
		res := resolveClass(e, set, cfg.NearTieRatio)

		verdict.Detected[e.Equipment] = res.Present
		verdict.Resolutions = append(verdict.Resolutions, res)
		if !res.Present {
			verdict.Missing = append(verdict.Missing, e.Equipment)
		}
	}
	verdict.Success = len(verdict.Missing) == 0

	return verdict
}

func resolveClass(p ClassPolicy, set *candidateSet, ratio float64) entity.Resolution {
	res := entity.Resolution{
		Equipment: p.Equipment,
		Positives: len(set.positive),
		Negatives: len(set.negative),
	}
	hasPos := len(set.positive) > 0
	hasNeg := len(set.negative) > 0
	if hasPos {
		res.TopPositive = set.positive[0]
	}
	if hasNeg {
		res.TopNegative = set.negative[0]
	}

	switch {
	case hasPos && res.TopPositive >= p.MinConfidence:
		res.Present, res.Rule = true, entity.RuleThreshold
	case p.NearTie && hasPos && hasNeg && res.TopPositive > ratio*res.TopNegative:
		res.Present, res.Rule = true, entity.RuleNearTie
	case hasPos:
		res.Rule = entity.RuleBelowThreshold
	case hasNeg:
		res.Rule = entity.RuleNegativeOnly
	default:
		res.Rule = entity.RuleNoCandidates
	}

	return res
}

// orderedClasses раскладывает политики в фиксированном порядке классов,
// дубликаты отбрасываются.
func orderedClasses(policies []ClassPolicy) []ClassPolicy {
	out := make([]ClassPolicy, 0, len(policies))
	for _, e := range entity.EquipmentOrder {
		for _, p := range policies {
			if p.Equipment == e {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
