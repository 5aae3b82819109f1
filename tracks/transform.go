package tracks

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// TopGenreCount is how many genres the genre picker offers.
const TopGenreCount = 10

var ErrBadReleaseDate = errors.New("unrecognised release date")

// ReleaseDateError reports the track whose release date could not be parsed.
type ReleaseDateError struct {
	TrackID string
	Date    string
	Err     error
}

func (e *ReleaseDateError) Error() string {
	return fmt.Sprintf("track %s: release date %q: %v", e.TrackID, e.Date, e.Err)
}

func (e *ReleaseDateError) Unwrap() []error {
	return []error{ErrBadReleaseDate, e.Err}
}

// GenreCount is one row of a genre frequency table.
type GenreCount struct {
	Genre string
	Count int
}

// parseReleaseDate reads a catalog date at year, month or day precision.
func parseReleaseDate(date string) (time.Time, error) {
	layout := "2006-01-02"
	switch strings.Count(date, "-") {
	case 0:
		layout = "2006"
	case 1:
		layout = "2006-01"
	}
	return time.Parse(layout, date)
}

// SortByReleaseDate returns the ids of tracks with a release date, oldest first.
// Tracks sharing a date keep their playlist order.
func SortByReleaseDate(tracks []EnrichedTrack) ([]string, error) {
	type dated struct {
		id   string
		when time.Time
	}

	rows := make([]dated, 0, len(tracks))
	for _, t := range tracks {
		if t.ReleaseDate == "" {
			continue
		}
		when, err := parseReleaseDate(t.ReleaseDate)
		if err != nil {
			return nil, &ReleaseDateError{TrackID: t.ID, Date: t.ReleaseDate, Err: err}
		}
		rows = append(rows, dated{id: t.ID, when: when})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].when.Before(rows[j].when)
	})

	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.id
	}
	return ids, nil
}

// SortByPopularity returns track ids from least to most popular.
func SortByPopularity(tracks []EnrichedTrack) []string {
	sorted := make([]EnrichedTrack, len(tracks))
	copy(sorted, tracks)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Popularity < sorted[j].Popularity
	})

	ids := make([]string, len(sorted))
	for i, t := range sorted {
		ids[i] = t.ID
	}
	return ids
}

// TopGenres counts genre occurrences across tracks and returns the n most
// frequent. Equal counts keep the order in which genres were first seen.
func TopGenres(tracks []EnrichedTrack, n int) []GenreCount {
	index := make(map[string]int)
	var counts []GenreCount

	for _, t := range tracks {
		for _, g := range t.Genres {
			if i, ok := index[g]; ok {
				counts[i].Count++
				continue
			}
			index[g] = len(counts)
			counts = append(counts, GenreCount{Genre: g, Count: 1})
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if n >= 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// FilterByGenre keeps tracks with at least one genre in chosen, comparing
// case-insensitively. chosen entries are expected in lower case.
func FilterByGenre(tracks []EnrichedTrack, chosen []string) []string {
	want := make(map[string]struct{}, len(chosen))
	for _, g := range chosen {
		want[g] = struct{}{}
	}

	ids := []string{}
	for _, t := range tracks {
		for _, g := range t.Genres {
			if _, ok := want[strings.ToLower(g)]; ok {
				ids = append(ids, t.ID)
				break
			}
		}
	}
	return ids
}
