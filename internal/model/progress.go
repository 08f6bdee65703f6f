package model

// Progress is the completed/total split the chart is drawn from.
type Progress struct {
	Completed int
	Total     int
}

// ProgressOf counts completed entries.
func ProgressOf(todos []Todo) Progress {
	p := Progress{Total: len(todos)}
	for _, t := range todos {
		if t.Completed {
			p.Completed++
		}
	}
	return p
}

func (p Progress) Incomplete() int { return p.Total - p.Completed }

// Percent is Completed/Total*100, or 0 for an empty list.
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total) * 100
}
