package ui

import (
	"errors"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/umkm-jabar/umkmdash-cli/internal/apperr"
)

// allOption is the select value meaning "no filter".
const allOption = ""

// FilterOptions lists the values a user may pick from.
type FilterOptions struct {
	Years     []int
	Districts []string
	Sectors   []string
}

// FilterChoice is the result of the filter prompt. Zero values mean "all".
type FilterChoice struct {
	Year     int
	District string
	Sector   string
}

// PromptFilters asks for a year, district and sector. It returns
// apperr.ErrCancelled when the user aborts the form.
func PromptFilters(opts FilterOptions, initial FilterChoice) (FilterChoice, error) {
	year := allOption
	if initial.Year > 0 {
		year = strconv.Itoa(initial.Year)
	}
	district := initial.District
	sector := initial.Sector

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Tahun").
				Options(yearOptions(opts.Years)...).
				Value(&year),
			huh.NewSelect[string]().
				Title("Kabupaten/Kota").
				Options(stringOptions("Semua Kab/Kota", opts.Districts)...).
				Value(&district),
			huh.NewSelect[string]().
				Title("Sektor").
				Options(stringOptions("Semua Sektor", opts.Sectors)...).
				Value(&sector),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return FilterChoice{}, apperr.ErrCancelled
		}
		return FilterChoice{}, err
	}

	return parseChoice(year, district, sector), nil
}

func yearOptions(years []int) []huh.Option[string] {
	options := []huh.Option[string]{huh.NewOption("Semua Tahun", allOption)}
	for _, y := range years {
		s := strconv.Itoa(y)
		options = append(options, huh.NewOption(s, s))
	}
	return options
}

func stringOptions(allLabel string, values []string) []huh.Option[string] {
	options := []huh.Option[string]{huh.NewOption(allLabel, allOption)}
	for _, v := range values {
		options = append(options, huh.NewOption(v, v))
	}
	return options
}

func parseChoice(year, district, sector string) FilterChoice {
	c := FilterChoice{District: district, Sector: sector}
	if y, err := strconv.Atoi(year); err == nil {
		c.Year = y
	}
	return c
}
