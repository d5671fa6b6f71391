package entity

const (
	IssueVeryBlurry     = "very blurry"
	IssueSlightlyBlurry = "slightly blurry"
	IssueTooDark        = "too dark"
	IssueTooBright      = "too bright"
)

// Пороговые полосы оценки качества.
const (
	SharpnessVeryBlurry     = 50.0
	SharpnessSlightlyBlurry = 100.0
	BrightnessMin           = 50.0
	BrightnessMax           = 200.0
)

// QualityVerdict оценка резкости и яркости снимка.
type QualityVerdict struct {
	IsGood     bool     `json:"is_good"`
	Sharpness  float64  `json:"sharpness"`  // дисперсия лапласиана
	Brightness float64  `json:"brightness"` // средняя яркость 0..255
	Issues     []string `json:"issues"`
}

// ClassifyQuality раскладывает метрики по фиксированным полосам.
func ClassifyQuality(sharpness, brightness float64) QualityVerdict {
	issues := make([]string, 0, 2)

	if sharpness < SharpnessVeryBlurry {
		issues = append(issues, IssueVeryBlurry)
	} else if sharpness < SharpnessSlightlyBlurry {
		issues = append(issues, IssueSlightlyBlurry)
	}

	if brightness < BrightnessMin {
		issues = append(issues, IssueTooDark)
	} else if brightness > BrightnessMax {
		issues = append(issues, IssueTooBright)
	}

	return QualityVerdict{
		IsGood:     len(issues) == 0,
		Sharpness:  sharpness,
		Brightness: brightness,
		Issues:     issues,
	}
}
