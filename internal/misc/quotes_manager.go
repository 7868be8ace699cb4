// Package misc holds small helpers that do not belong to the core, like
// the motivational quotes shown when a workout starts.
package misc

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"strings"

	log "github.com/sirupsen/logrus"
)

//go:embed quotes.csv
var defaultQuotesCsv string

type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
}

func (q *Quote) String() string {
	if q.Author == "" || q.Author == "Unknown" {
		return q.Text
	}
	return fmt.Sprintf("%s (%s)", q.Text, q.Author)
}

// Quote genres of the compiled-in quotes.
const (
	GenreMotivation = "motivation"
	GenreStrength   = "strength"
	GenreEndurance  = "endurance"
)

type QuotesManager struct {
	Quotes       []*Quote
	GenresQuotes map[string][]*Quote
}

// NewDefaultQuotesManager loads the compiled-in workout quotes.
func NewDefaultQuotesManager() (*QuotesManager, error) {
	return NewQuoteManager(csv.NewReader(strings.NewReader(defaultQuotesCsv)))
}

func NewQuoteManager(quotesCsvReader *csv.Reader) (*QuotesManager, error) {
	qm := &QuotesManager{}
	qm.GenresQuotes = make(map[string][]*Quote)

	// QUOTE;AUTHOR;GENRE
	quotesCsvReader.Comma = ';'
	quotesCsvReader.LazyQuotes = true
	for {
		record, err := quotesCsvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if len(record) != 3 {
			return nil, fmt.Errorf("record [%s] does not have 3 elements", record)
		}

		quote := &Quote{
			Text:   record[0],
			Author: record[1],
			Genre:  record[2],
		}
		qm.Quotes = append(qm.Quotes, quote)
		qm.GenresQuotes[quote.Genre] = append(qm.GenresQuotes[quote.Genre], quote)
	}

	log.Debugf("quotes CSV read %d quotes", len(qm.Quotes))

	return qm, nil
}

// RandomQuote returns nil when no quotes are loaded.
func (qm *QuotesManager) RandomQuote() *Quote {
	if len(qm.Quotes) == 0 {
		return nil
	}
	return qm.Quotes[rand.Intn(len(qm.Quotes))]
}

// RandomGenreQuote picks from one genre only, nil if the genre is unknown.
func (qm *QuotesManager) RandomGenreQuote(genre string) *Quote {
	quotes := qm.GenresQuotes[genre]
	if len(quotes) == 0 {
		return nil
	}
	return quotes[rand.Intn(len(quotes))]
}
