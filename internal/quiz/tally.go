package quiz

import "math"

// Tally counts graded attempts over one sitting.
type Tally struct {
	Answered int `json:"answered"`
	Correct  int `json:"correct"`
}

func (t *Tally) Record(correct bool) {
	t.Answered++
	if correct {
		t.Correct++
	}
}

// Reset zeroes the tally for a new sitting.
func (t *Tally) Reset() {
	*t = Tally{}
}

// Score is the rounded percentage of correct answers out of total
// questions. It is 0 when total is not positive.
func (t Tally) Score(total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(t.Correct) * 100 / float64(total)))
}
