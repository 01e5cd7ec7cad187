package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTitles(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single title", "Inception", []string{"Inception"}},
		{"multiple titles", "英雄, 卧虎藏龙", []string{"英雄", "卧虎藏龙"}},
		{"extra whitespace", "  Heat ,  Ronin  ", []string{"Heat", "Ronin"}},
		{"empty segments dropped", "Alien,,  ,Aliens", []string{"Alien", "Aliens"}},
		{"empty input", "", []string{}},
		{"only commas", ",,,", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitTitles(tt.input))
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		segment   string
		wantTitle string
		wantYear  int
	}{
		{"plain title", "Inception", "Inception", 0},
		{"trailing year", "Inception (2010)", "Inception", 2010},
		{"year without space", "Heat(1995)", "Heat", 1995},
		{"digits-only title untouched", "2012", "2012", 0},
		{"digits-only title with year", "2012 (2009)", "2012", 2009},
		{"mid-string year ignored", "Blade Runner 2049", "Blade Runner 2049", 0},
		{"parenthesized year mid-string ignored", "(1999) The Matrix", "(1999) The Matrix", 0},
		{"chinese title with year", "英雄 (2002)", "英雄", 2002},
		{"year-only segment yields empty title", "(2010)", "", 2010},
		{"three-digit group not a year", "Movie (999)", "Movie (999)", 0},
		{"five-digit group not a year", "Movie (12345)", "Movie (12345)", 0},
		{"trailing whitespace after year", "Ran (1985)  ", "Ran", 1985},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Parse(tt.segment)
			assert.Equal(t, tt.wantTitle, q.Title)
			assert.Equal(t, tt.wantYear, q.Year)
		})
	}
}
