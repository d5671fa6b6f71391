package vision

import (
	"fmt"
	"image"
	"math"

	"ppe-inspector/internal/domain/entity"
)

// DefaultInputSize сторона квадратного входа модели.
const DefaultInputSize = 640

// DefaultConfidenceFloor минимальная уверенность, ниже которой кандидаты отбрасываются.
const DefaultConfidenceFloor = 0.01

// yoloCandidate один бокс из выхода модели до NMS.
type yoloCandidate struct {
	class int
	score float32
	box   image.Rectangle
}

// decodeYOLO разбирает выход [1, 4+nc, N]: для каждого бокса cx, cy, w, h и оценки классов.
// Координаты масштабируются из входа модели в размеры исходного снимка.
func decodeYOLO(data []float32, attrs, boxes int, floor float32, scaleX, scaleY float64, bounds image.Rectangle) ([]yoloCandidate, error) {
	if attrs <= 4 {
		return nil, fmt.Errorf("unexpected model output: %d attributes", attrs)
	}
	if len(data) < attrs*boxes {
		return nil, fmt.Errorf("unexpected model output: %d values for %dx%d", len(data), attrs, boxes)
	}

	out := make([]yoloCandidate, 0)
	for i := 0; i < boxes; i++ {
		best, bestScore := -1, float32(0)
		for c := 4; c < attrs; c++ {
			if s := data[c*boxes+i]; s > bestScore {
				best, bestScore = c-4, s
			}
		}
		if best < 0 || bestScore < floor {
			continue
		}

		cx := float64(data[i]) * scaleX
		cy := float64(data[boxes+i]) * scaleY
		w := float64(data[2*boxes+i]) * scaleX
		h := float64(data[3*boxes+i]) * scaleY
		rect := image.Rect(
			int(math.Round(cx-w/2)), int(math.Round(cy-h/2)),
			int(math.Round(cx+w/2)), int(math.Round(cy+h/2)),
		).Intersect(bounds)
		if rect.Empty() {
			continue
		}

		out = append(out, yoloCandidate{class: best, score: bestScore, box: rect})
	}
	return out, nil
}

// toDetection превращает кандидата в детекцию с именем класса.
func (c yoloCandidate) toDetection(names []string) entity.Detection {
	label := fmt.Sprintf("class_%d", c.class)
	if c.class < len(names) {
		label = names[c.class]
	}
	return entity.Detection{
		Label:      label,
		Confidence: float64(c.score),
		Box:        c.box,
	}
}
