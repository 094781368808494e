package numeric

// Sum is a Neumaier (improved Kahan-Babuska) compensated accumulator.
// The zero value is an empty sum.
type Sum struct {
	sum float64
	c   float64
}

func (s *Sum) Add(x float64) {
	t := s.sum + x
	if abs(s.sum) >= abs(x) {
		s.c += (s.sum - t) + x
	} else {
		s.c += (x - t) + s.sum
	}
	s.sum = t
}

// Merge folds another partial sum into s.
func (s *Sum) Merge(o Sum) {
	s.Add(o.sum)
	s.Add(o.c)
}

func (s *Sum) Value() float64 { return s.sum + s.c }

func (s *Sum) Reset() {
	s.sum = 0
	s.c = 0
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
