package calendar

// CalculateAge returns completed years between birth and today.
// A Feb 29 birthday is not reached on Feb 28 of a common year.
func CalculateAge(birth, today Date) int {
	age := today.Year - birth.Year
	if today.Month < birth.Month || (today.Month == birth.Month && today.Day < birth.Day) {
		age--
	}
	return age
}
