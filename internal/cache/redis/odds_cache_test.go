package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/cpmmquote/internal/cpmm"
	"github.com/alanyoungcy/cpmmquote/internal/domain"
)

func TestOddsFieldsRoundTrip(t *testing.T) {
	ts := time.Unix(1700000000, 123)
	in := domain.MarketOdds{
		MarketID:  "m-1",
		Pools:     cpmm.Pools{Yes: 1234.5678, No: 0.1},
		UpdatedAt: ts,
	}

	fields := oddsFields(in)
	vals := make(map[string]string, len(fields))
	for k, v := range fields {
		vals[k] = v.(string)
	}

	out, err := parseOdds("m-1", vals)
	require.NoError(t, err)
	assert.Equal(t, in.Pools, out.Pools)
	assert.Equal(t, cpmm.CalculateOdds(in.Pools), out.Odds)
	assert.Equal(t, cpmm.K(in.Pools), out.K)
	assert.True(t, ts.Equal(out.UpdatedAt))
}

func TestParseOddsMissing(t *testing.T) {
	_, err := parseOdds("m-1", map[string]string{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = parseOdds("m-1", map[string]string{"pool_yes": "1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = parseOdds("m-1", map[string]string{"pool_yes": "x", "pool_no": "1"})
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "odds:abc", oddsKey("abc"))
	assert.Equal(t, "book:abc:no", bookKey("abc", cpmm.No))
	assert.Equal(t, "book:abc:yes", bookKey("abc", cpmm.Yes))
}
