package population

import "sort"

// AgeCategory classifies an individual for absenteeism purposes.
// Only school-age individuals contribute to the absenteeism signal.
type AgeCategory string

// Age categories produced by the generator and accepted from CSV input.
const (
	AgePreschool AgeCategory = "preschool"
	AgeSchool    AgeCategory = "school"
	AgeAdult     AgeCategory = "adult"
	AgeSenior    AgeCategory = "senior"
)

// NoSchool marks an individual who attends no school.
const NoSchool = 0

// Individual is one member of a synthetic catchment cohort.
// The table is immutable once built; consumers read it only.
type Individual struct {
	// ID uniquely identifies the individual within the table.
	ID int
	// HouseholdID is the household the individual belongs to.
	HouseholdID int
	// SchoolID is the school attended, or NoSchool.
	SchoolID int
	// CatchmentID is the catchment the household belongs to.
	CatchmentID int
	// Age is the individual's age category.
	Age AgeCategory
	// Year is the school-year cohort the individual belongs to.
	Year int
}

// Table holds one row per individual across all school-year cohorts.
type Table struct {
	// Individuals holds every row of the table.
	Individuals []Individual
}

// Years returns the sorted list of distinct school years present.
func (t *Table) Years() []int {
	seen := make(map[int]struct{})
	for i := range t.Individuals {
		seen[t.Individuals[i].Year] = struct{}{}
	}

	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}

	sort.Ints(years)

	return years
}

// Cohort returns the individuals enrolled in the given school year.
func (t *Table) Cohort(year int) []Individual {
	var out []Individual

	for i := range t.Individuals {
		if t.Individuals[i].Year == year {
			out = append(out, t.Individuals[i])
		}
	}

	return out
}

// SchoolAge returns the school-age individuals of the given year.
func (t *Table) SchoolAge(year int) []Individual {
	var out []Individual

	for i := range t.Individuals {
		ind := &t.Individuals[i]
		if ind.Year == year && ind.Age == AgeSchool {
			out = append(out, *ind)
		}
	}

	return out
}

// SchoolAgeByCatchment returns per-catchment school-age counts for the year.
// These are the absenteeism denominators.
func (t *Table) SchoolAgeByCatchment(year int) map[int]int {
	counts := make(map[int]int)

	for i := range t.Individuals {
		ind := &t.Individuals[i]
		if ind.Year == year && ind.Age == AgeSchool {
			counts[ind.CatchmentID]++
		}
	}

	return counts
}

// HouseholdCount returns the number of distinct households in the year's cohort.
func (t *Table) HouseholdCount(year int) int {
	seen := make(map[int]struct{})

	for i := range t.Individuals {
		if t.Individuals[i].Year == year {
			seen[t.Individuals[i].HouseholdID] = struct{}{}
		}
	}

	return len(seen)
}

// SchoolCount returns the number of distinct schools attended in the year's cohort.
func (t *Table) SchoolCount(year int) int {
	seen := make(map[int]struct{})

	for i := range t.Individuals {
		ind := &t.Individuals[i]
		if ind.Year == year && ind.SchoolID != NoSchool {
			seen[ind.SchoolID] = struct{}{}
		}
	}

	return len(seen)
}
