package entity

import (
	"math"
	"time"
)

// Источники записей о проверке
const (
	SourceHTTP     = "http"
	SourceTelegram = "telegram"
	SourceCamera   = "camera"
	SourceExternal = "external"
)

// Inspection сохранённая запись о проверке СИЗ.
type Inspection struct {
	ID            int64     `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Helmet        bool      `json:"helmet"`
	Vest          bool      `json:"vest"`
	Goggles       bool      `json:"goggles"` // устаревшая колонка, всегда false
	Mask          bool      `json:"mask"`
	Compliant     bool      `json:"compliant"`
	ImageFilename string    `json:"image_filename,omitempty"`
	Source        string    `json:"source"`
}

// NewInspection собирает запись из вердикта.
func NewInspection(v EquipmentVerdict, ts time.Time, imageFilename, source string) *Inspection {
	return &Inspection{
		Timestamp:     ts,
		Helmet:        v.Has(Helmet),
		Vest:          v.Has(Vest),
		Mask:          v.Has(Mask),
		Compliant:     v.Success,
		ImageFilename: imageFilename,
		Source:        source,
	}
}

// InspectionStats агрегированная статистика соответствия.
type InspectionStats struct {
	Total          int     `json:"total"`
	Compliant      int     `json:"compliant"`
	NonCompliant   int     `json:"non_compliant"`
	ComplianceRate float64 `json:"compliance_rate"` // проценты, один знак после запятой
}

// NewInspectionStats считает производные поля статистики.
func NewInspectionStats(total, compliant int) InspectionStats {
	rate := 0.0
	if total > 0 {
		rate = math.Round(float64(compliant)/float64(total)*1000) / 10
	}
	return InspectionStats{
		Total:          total,
		Compliant:      compliant,
		NonCompliant:   total - compliant,
		ComplianceRate: rate,
	}
}
