package population

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// csvHeader is the column layout the external population generator emits.
var csvHeader = []string{"individual_id", "household_id", "school_id", "catchment_id", "age_category", "year"}

// LoadCSV reads a population table from the given CSV file.
// The school_id column may be empty for individuals attending no school.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open population file: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only file.

	return ReadCSV(f)
}

// ReadCSV parses a population table from r.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(csvHeader)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read population header: %w", err)
	}

	for i, want := range csvHeader {
		if header[i] != want {
			return nil, fmt.Errorf("population header column %d is %q, want %q", i, header[i], want)
		}
	}

	table := &Table{}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read population row: %w", err)
		}

		ind, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("population line %d: %w", line, err)
		}

		table.Individuals = append(table.Individuals, ind)
	}

	return table, nil
}

// WriteCSV renders the table in the same column layout LoadCSV accepts.
func WriteCSV(w io.Writer, table *Table) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write population header: %w", err)
	}

	for i := range table.Individuals {
		ind := &table.Individuals[i]

		school := ""
		if ind.SchoolID != NoSchool {
			school = strconv.Itoa(ind.SchoolID)
		}

		row := []string{
			strconv.Itoa(ind.ID),
			strconv.Itoa(ind.HouseholdID),
			school,
			strconv.Itoa(ind.CatchmentID),
			string(ind.Age),
			strconv.Itoa(ind.Year),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write population row: %w", err)
		}
	}

	writer.Flush()

	return writer.Error()
}

// parseRow converts one CSV record into an Individual.
func parseRow(record []string) (Individual, error) {
	var (
		ind Individual
		err error
	)

	if ind.ID, err = strconv.Atoi(record[0]); err != nil {
		return ind, fmt.Errorf("individual_id %q: %w", record[0], err)
	}

	if ind.HouseholdID, err = strconv.Atoi(record[1]); err != nil {
		return ind, fmt.Errorf("household_id %q: %w", record[1], err)
	}

	ind.SchoolID = NoSchool
	if record[2] != "" {
		if ind.SchoolID, err = strconv.Atoi(record[2]); err != nil {
			return ind, fmt.Errorf("school_id %q: %w", record[2], err)
		}
	}

	if ind.CatchmentID, err = strconv.Atoi(record[3]); err != nil {
		return ind, fmt.Errorf("catchment_id %q: %w", record[3], err)
	}

	switch age := AgeCategory(record[4]); age {
	case AgePreschool, AgeSchool, AgeAdult, AgeSenior:
		ind.Age = age
	default:
		return ind, fmt.Errorf("unknown age_category %q", record[4])
	}

	if ind.Year, err = strconv.Atoi(record[5]); err != nil {
		return ind, fmt.Errorf("year %q: %w", record[5], err)
	}

	return ind, nil
}
