package sheet

// Sheet names
const (
	StudentsTable        = "students"
	TeachersTable        = "teachers"
	StudentPaymentsTable = "student_payments"
	TeacherPaymentsTable = "teacher_payments"
	ActivityTable        = "activity_log"
)

// Column names
const (
	StudentIDColumn = "student_id"
	TeacherIDColumn = "teacher_id"

	YearColumn   = "year"
	MonthColumn  = "month"
	StatusColumn = "status"
	AmountColumn = "amount"
)

// NumericColumns are written as numbers when their cells parse as such.
var NumericColumns = map[string]bool{
	"age":        true,
	YearColumn:   true,
	MonthColumn:  true,
	AmountColumn: true,
}

// StudentColumns returns the students header, custom fields appended in order.
func StudentColumns(custom []string) []string {
	cols := []string{
		StudentIDColumn,
		"first_name",
		"last_name",
		"age",
		"class",
		"section",
		"primary_contact",
		"secondary_contact",
		CreatedAtColumn,
		UpdatedAtColumn,
	}
	return appendMissing(cols, custom)
}

// TeacherColumns returns the teachers header, custom fields appended in order.
func TeacherColumns(custom []string) []string {
	cols := []string{
		TeacherIDColumn,
		"first_name",
		"last_name",
		"role",
		"primary_contact",
		"secondary_contact",
		CreatedAtColumn,
		UpdatedAtColumn,
	}
	return appendMissing(cols, custom)
}

func PaymentColumns(idColumn string) []string {
	return []string{idColumn, YearColumn, MonthColumn, StatusColumn, AmountColumn, UpdatedAtColumn}
}

func ActivityColumns() []string {
	return []string{"timestamp", "action", "entity_type", "entity_id", "details"}
}

// appendMissing appends the extra columns that are not already in cols.
func appendMissing(cols, extra []string) []string {
	for _, col := range extra {
		if col != "" && indexOf(cols, col) < 0 {
			cols = append(cols, col)
		}
	}
	return cols
}
