package misc_test

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/2beens/fittrack/internal/misc"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNewDefaultQuotesManager(t *testing.T) {
	qm, err := misc.NewDefaultQuotesManager()
	require.NoError(t, err)
	require.Len(t, qm.Quotes, 10)
	assert.Equal(t, "The only bad workout is the one that didn't happen.", qm.Quotes[0].Text)
	assert.Len(t, qm.GenresQuotes[misc.GenreMotivation], 4)
	assert.Len(t, qm.GenresQuotes[misc.GenreStrength], 3)
	assert.Len(t, qm.GenresQuotes[misc.GenreEndurance], 3)

	for i := 0; i < 50; i++ {
		q := qm.RandomQuote()
		require.NotNil(t, q)
		assert.Contains(t, qm.Quotes, q)
	}
}

func TestQuotesManager_RandomGenreQuote_Default(t *testing.T) {
	qm, err := misc.NewDefaultQuotesManager()
	require.NoError(t, err)

	for _, genre := range []string{misc.GenreMotivation, misc.GenreStrength, misc.GenreEndurance} {
		require.NotEmpty(t, qm.GenresQuotes[genre], genre)
		for i := 0; i < 20; i++ {
			q := qm.RandomGenreQuote(genre)
			require.NotNil(t, q)
			assert.Equal(t, genre, q.Genre)
		}
	}
}

func TestNewQuoteManager(t *testing.T) {
	qm, err := misc.NewQuoteManager(csv.NewReader(strings.NewReader(
		"Just do it.;Nike;ads\nLight weight, baby!;Ronnie Coleman;gym\n",
	)))
	require.NoError(t, err)
	require.Len(t, qm.Quotes, 2)
	assert.Equal(t, "Light weight, baby! (Ronnie Coleman)", qm.Quotes[1].String())
	assert.Equal(t, "Just do it.", qm.RandomGenreQuote("ads").Text)
	assert.Nil(t, qm.RandomGenreQuote("poetry"))

	_, err = misc.NewQuoteManager(csv.NewReader(strings.NewReader("only;two\n")))
	assert.Error(t, err)

	empty, err := misc.NewQuoteManager(csv.NewReader(strings.NewReader("")))
	require.NoError(t, err)
	assert.Nil(t, empty.RandomQuote())
}
