package entity

import (
	"image"
	"strings"
)

// Equipment класс средства индивидуальной защиты
type Equipment string

const (
	Helmet Equipment = "helmet" // Каска
	Vest   Equipment = "vest"   // Сигнальный жилет
	Mask   Equipment = "mask"   // Маска
)

// EquipmentOrder фиксированный порядок перечисления классов.
var EquipmentOrder = []Equipment{Helmet, Vest, Mask}

// ParseEquipment разбирает имя класса из конфигурации.
func ParseEquipment(name string) (Equipment, bool) {
	switch Equipment(strings.ToLower(strings.TrimSpace(name))) {
	case Helmet:
		return Helmet, true
	case Vest:
		return Vest, true
	case Mask:
		return Mask, true
	}
	return "", false
}

// Polarity утверждает ли бокс наличие или явное отсутствие класса
type Polarity string

const (
	Present Polarity = "present"
	Absent  Polarity = "absent"
)

// Detection сырой бокс, который вернула модель.
type Detection struct {
	Label      string          // имя класса из модели
	Confidence float64         // уверенность 0..1
	Box        image.Rectangle // координаты в пикселях исходного изображения
}

// Candidate кандидат для разрешения вердикта по одному классу.
type Candidate struct {
	Equipment  Equipment
	Polarity   Polarity
	Confidence float64
}

// Метки модели. Переименование классов в модели ломает разрешение вердикта.
var labelCandidates = map[string]struct {
	equipment Equipment
	polarity  Polarity
}{
	"hardhat":       {Helmet, Present},
	"no-hardhat":    {Helmet, Absent},
	"safetyvest":    {Vest, Present},
	"no-safetyvest": {Vest, Absent},
	"mask":          {Mask, Present},
	"no-mask":       {Mask, Absent},
}

// NormalizeLabel приводит имя класса к нижнему регистру и убирает пробелы.
func NormalizeLabel(label string) string {
	return strings.ReplaceAll(strings.ToLower(label), " ", "")
}

// ParseCandidate превращает сырой бокс в кандидата.
// Классы вне словаря (например "person") игнорируются.
func ParseCandidate(d Detection) (Candidate, bool) {
	lc, ok := labelCandidates[NormalizeLabel(d.Label)]
	if !ok {
		return Candidate{}, false
	}
	return Candidate{
		Equipment:  lc.equipment,
		Polarity:   lc.polarity,
		Confidence: d.Confidence,
	}, true
}
