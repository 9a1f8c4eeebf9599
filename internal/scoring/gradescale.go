package scoring

// GradeFor maps a rounded percentage to a letter grade and GPA on the
// national grading scale.
func GradeFor(percentage int) (grade string, gpa float64) {
	switch {
	case percentage >= 80:
		return "A+", 5.00
	case percentage >= 75:
		return "A", 4.00
	case percentage >= 70:
		return "A-", 3.50
	case percentage >= 65:
		return "B+", 3.25
	case percentage >= 60:
		return "B", 3.00
	case percentage >= 55:
		return "B-", 2.75
	case percentage >= 50:
		return "C+", 2.50
	case percentage >= 45:
		return "C", 2.25
	case percentage >= 40:
		return "D", 2.00
	default:
		return "F", 0.00
	}
}

// Percent rounds part/whole to a whole percentage, with 0 for an empty whole.
func Percent(part, whole float64) int {
	if whole <= 0 {
		return 0
	}
	return int(part/whole*100 + 0.5)
}
