package entity

import (
	"math"
	"time"
)

const (
	DepartmentMobile  = "Mobile"
	DepartmentUnknown = "Unspecified"
)

// Employee сотрудник, зарегистрированный по фото лица.
type Employee struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Surname        string    `json:"surname"`
	RegistrationNo string    `json:"registration_no"`
	Department     string    `json:"department"`
	PhotoFilename  string    `json:"photo_filename,omitempty"`
	FaceEmbedding  []float32 `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// HasFace есть ли у сотрудника сохранённый вектор лица
func (e *Employee) HasFace() bool {
	return len(e.FaceEmbedding) > 0
}

// FaceDistance евклидово расстояние между векторами лиц.
// Векторы разной длины несравнимы, возвращается +Inf.
func FaceDistance(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
