package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/placerank/placerank/internal/domain"
)

// minReviewTextLen drops near-empty reviews at load time; they carry no
// retrievable signal and pollute the index.
const minReviewTextLen = 10

// LoadReviews reads a reviews CSV. Recognized header names:
// place_id (or place_firm_id), text (or review_text), rating.
// Rows without a place reference or with text shorter than 10 characters
// after normalization are skipped.
func LoadReviews(path string) ([]domain.Review, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	placeCol := findColumn(header, "place_id", "place_firm_id")
	textCol := findColumn(header, "text", "review_text")
	ratingCol := findColumn(header, "rating", "raw_rating")
	if placeCol < 0 || textCol < 0 {
		return nil, fmt.Errorf("reviews csv %s: place id and text columns are required", filepath.Base(path))
	}

	var reviews []domain.Review
	for _, row := range rows {
		placeID, err := strconv.ParseInt(field(row, placeCol), 10, 64)
		if err != nil || placeID == 0 {
			continue
		}

		text := domain.NormalizeText(field(row, textCol))
		if len([]rune(text)) <= minReviewTextLen {
			continue
		}

		var rating float64
		if ratingCol >= 0 {
			rating, _ = strconv.ParseFloat(field(row, ratingCol), 64)
		}

		reviews = append(reviews, domain.Review{
			PlaceID: placeID,
			Text:    text,
			Rating:  rating,
		})
	}
	return reviews, nil
}

// LoadPlaces reads a places CSV. Recognized header names:
// id (or firm_id), name, address, category, rating.
func LoadPlaces(path string) ([]domain.Place, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	idCol := findColumn(header, "id", "firm_id")
	nameCol := findColumn(header, "name")
	addressCol := findColumn(header, "address")
	categoryCol := findColumn(header, "category")
	ratingCol := findColumn(header, "rating")
	if idCol < 0 {
		return nil, fmt.Errorf("places csv %s: id column is required", filepath.Base(path))
	}

	var places []domain.Place
	for _, row := range rows {
		id, err := strconv.ParseInt(field(row, idCol), 10, 64)
		if err != nil || id == 0 {
			continue
		}

		var rating float64
		if ratingCol >= 0 {
			rating, _ = strconv.ParseFloat(field(row, ratingCol), 64)
		}

		places = append(places, domain.Place{
			ID:       id,
			Name:     domain.NormalizeText(field(row, nameCol)),
			Address:  domain.NormalizeText(field(row, addressCol)),
			Category: domain.NormalizeText(field(row, categoryCol)),
			Rating:   rating,
		})
	}
	return places, nil
}

func readCSV(path string) (rows [][]string, header map[string]int, err error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, nil, fmt.Errorf("open csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows tolerated, handled per-field

	head, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header %s: %w", filepath.Base(path), err)
	}
	header = make(map[string]int, len(head))
	for i, name := range head {
		header[name] = i
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv row %s: %w", filepath.Base(path), err)
		}
		rows = append(rows, row)
	}
	return rows, header, nil
}

func findColumn(header map[string]int, names ...string) int {
	for _, name := range names {
		if i, ok := header[name]; ok {
			return i
		}
	}
	return -1
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
