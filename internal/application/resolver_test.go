package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ppe-inspector/internal/domain/entity"
)

func det(label string, conf float64) entity.Detection {
	return entity.Detection{Label: label, Confidence: conf}
}

func TestResolve_NoCandidatesIsAbsent(t *testing.T) {
	v := Resolve(nil, DefaultResolverConfig())

	require.False(t, v.Success)
	require.Equal(t, []entity.Equipment{entity.Helmet, entity.Vest}, v.Missing)
	for _, r := range v.Resolutions {
		require.False(t, r.Present)
		require.Equal(t, entity.RuleNoCandidates, r.Rule)
	}
}

func TestResolve_IgnoresUnrelatedLabels(t *testing.T) {
	v := Resolve([]entity.Detection{det("person", 0.99), det("mask", 0.9)}, DefaultResolverConfig())

	require.False(t, v.Has(entity.Helmet))
	require.False(t, v.Has(entity.Vest))
	_, tracked := v.Detected[entity.Mask]
	require.False(t, tracked)
}

func TestResolve_ThresholdBoundary(t *testing.T) {
	cfg := DefaultResolverConfig()

	v := Resolve([]entity.Detection{det("safetyvest", 0.25)}, cfg)
	require.True(t, v.Has(entity.Vest))
	require.Equal(t, entity.RuleThreshold, v.Resolutions[1].Rule)

	v = Resolve([]entity.Detection{det("safetyvest", 0.2499)}, cfg)
	require.False(t, v.Has(entity.Vest))
	require.Equal(t, entity.RuleBelowThreshold, v.Resolutions[1].Rule)

	// Негатив слишком сильный для почти-ничьей.
	v = Resolve([]entity.Detection{det("safetyvest", 0.2499), det("no-safetyvest", 0.9)}, cfg)
	require.False(t, v.Has(entity.Vest))
}

func TestResolve_ThresholdBeatsNegative(t *testing.T) {
	v := Resolve([]entity.Detection{
		det("safetyvest", 0.30),
		det("no-safetyvest", 0.35),
	}, DefaultResolverConfig())

	require.True(t, v.Has(entity.Vest))
	require.Equal(t, entity.RuleThreshold, v.Resolutions[1].Rule)
}

func TestResolve_NearTieBelowThreshold(t *testing.T) {
	v := Resolve([]entity.Detection{
		det("safetyvest", 0.20),
		det("no-safetyvest", 0.22),
	}, DefaultResolverConfig())

	require.True(t, v.Has(entity.Vest))
	res := v.Resolutions[1]
	require.Equal(t, entity.RuleNearTie, res.Rule)
	require.Equal(t, 0.20, res.TopPositive)
	require.Equal(t, 0.22, res.TopNegative)
}

func TestResolve_NearTieDisabledForClass(t *testing.T) {
	cfg := DefaultResolverConfig()
	cfg.Classes[1].NearTie = false

	v := Resolve([]entity.Detection{
		det("safetyvest", 0.20),
		det("no-safetyvest", 0.22),
	}, cfg)

	require.False(t, v.Has(entity.Vest))
	require.Equal(t, entity.RuleBelowThreshold, v.Resolutions[1].Rule)
}

func TestResolve_NegativeOnly(t *testing.T) {
	v := Resolve([]entity.Detection{det("no-hardhat", 0.1)}, DefaultResolverConfig())

	require.False(t, v.Has(entity.Helmet))
	require.Equal(t, entity.RuleNegativeOnly, v.Resolutions[0].Rule)
}

func TestResolve_UsesTopCandidates(t *testing.T) {
	v := Resolve([]entity.Detection{
		det("hardhat", 0.05),
		det("hardhat", 0.45),
		det("Hardhat", 0.12),
		det("no-hardhat", 0.3),
		det("no-hardhat", 0.6),
	}, DefaultResolverConfig())

	res := v.Resolutions[0]
	require.True(t, res.Present)
	require.Equal(t, 0.45, res.TopPositive)
	require.Equal(t, 0.6, res.TopNegative)
	require.Equal(t, 3, res.Positives)
	require.Equal(t, 2, res.Negatives)
}

func TestResolve_MissingItemOrdering(t *testing.T) {
	v := Resolve([]entity.Detection{det("safetyvest", 0.9)}, DefaultResolverConfig())

	require.Equal(t, []entity.Equipment{entity.Helmet}, v.Missing)
	require.False(t, v.Success)
}

func TestResolve_FullCompliance(t *testing.T) {
	v := Resolve([]entity.Detection{det("hardhat", 0.9), det("safetyvest", 0.5)}, DefaultResolverConfig())

	require.Equal(t, map[entity.Equipment]bool{entity.Helmet: true, entity.Vest: true}, v.Detected)
	require.Empty(t, v.Missing)
	require.True(t, v.Success)
}

func TestResolve_ClassOrderIndependentOfConfigOrder(t *testing.T) {
	cfg := ResolverConfig{
		Classes: []ClassPolicy{
			{Equipment: entity.Mask, MinConfidence: 0.35},
			{Equipment: entity.Vest, MinConfidence: 0.25},
			{Equipment: entity.Helmet, MinConfidence: 0.40},
		},
		NearTieRatio: 0.8,
	}

	v := Resolve(nil, cfg)
	require.Equal(t, []entity.Equipment{entity.Helmet, entity.Vest, entity.Mask}, v.Missing)
}

func TestResolve_Deterministic(t *testing.T) {
	dets := []entity.Detection{
		det("hardhat", 0.3), det("no-hardhat", 0.35),
		det("safetyvest", 0.1), det("no-safetyvest", 0.5),
	}
	first := Resolve(dets, DefaultResolverConfig())
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Resolve(dets, DefaultResolverConfig()))
	}
}
