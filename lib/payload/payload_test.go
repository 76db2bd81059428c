package payload

import (
	"github.com/ValentinKolb/archbench/lib/random"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"testing"
)

func TestNewDefaultInitialised(t *testing.T) {
	for _, kind := range Kinds {
		t.Run(kind.String(), func(t *testing.T) {
			p, err := New(kind, 16, nil)
			require.NoError(t, err)
			assert.Equal(t, kind, p.Kind())
			assert.Equal(t, 16, p.Len())

			empty := p.Empty()
			assert.Equal(t, kind, empty.Kind())
			assert.Zero(t, empty.Len())
		})
	}

	p, err := New(KindChildren, 2, nil)
	require.NoError(t, err)
	for _, c := range *p.(*Children) {
		assert.Len(t, c.V, ChildFloats)
		assert.Equal(t, Record{}, c.Base)
	}
}

func TestNewRandomized(t *testing.T) {
	r := random.New(11)
	p, err := New(KindRecords, 64, r)
	require.NoError(t, err)

	nonZero := false
	for _, rec := range *p.(*Records) {
		nonZero = nonZero || rec != Record{}
	}
	assert.True(t, nonZero)

	// the same seed produces the same payload
	a, err := New(KindChildren, 4, random.New(5))
	require.NoError(t, err)
	b, err := New(KindChildren, 4, random.New(5))
	require.NoError(t, err)
	assert.True(t, Equal(a, b, PolicyBitwise))
}

func TestNewInvalid(t *testing.T) {
	_, err := New(KindUnknown, 1, nil)
	assert.Error(t, err)

	_, err = New(KindDoubles, -1, nil)
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	for _, kind := range Kinds {
		parsed, err := ParseKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}

	parsed, err := ParseKind(" Records ")
	require.NoError(t, err)
	assert.Equal(t, KindRecords, parsed)

	_, err = ParseKind("matrix")
	assert.Error(t, err)
}

func TestCompareFloatPolicies(t *testing.T) {
	nan := math.NaN()
	negZero := math.Copysign(0, -1)

	testCases := []struct {
		name    string
		a, b    Doubles
		bitwise bool
		ieee    bool
	}{
		{"equal", Doubles{1, 2, 3}, Doubles{1, 2, 3}, true, true},
		{"different", Doubles{1, 2, 3}, Doubles{1, 2, 4}, false, false},
		{"nan", Doubles{nan}, Doubles{nan}, true, false},
		{"signed zero", Doubles{negZero}, Doubles{0}, false, true},
		{"infinity", Doubles{math.Inf(1), math.Inf(-1)}, Doubles{math.Inf(1), math.Inf(-1)}, true, true},
		{"nil and empty", nil, Doubles{}, true, true},
		{"length", Doubles{1}, Doubles{1, 1}, false, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.bitwise, Equal(&tc.a, &tc.b, PolicyBitwise))
			assert.Equal(t, tc.ieee, Equal(&tc.a, &tc.b, PolicyIEEE))
		})
	}
}

func TestCompareNested(t *testing.T) {
	a := Children{NewChild(), NewChild()}
	b := Children{NewChild(), NewChild()}
	require.NoError(t, Compare(&a, &b, PolicyBitwise))

	b[1].V[1023] = 1
	err := Compare(&a, &b, PolicyBitwise)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "element 1 nested 1023")

	b[1].V = b[1].V[:10]
	assert.ErrorContains(t, Compare(&a, &b, PolicyBitwise), "nested length mismatch")

	b = Children{NewChild(), NewChild()}
	b[0].Base.B = math.MinInt64
	assert.ErrorContains(t, Compare(&a, &b, PolicyBitwise), "element 0 base")
}

func TestCompareKindMismatch(t *testing.T) {
	d := Doubles{1}
	by := Bytes{1}
	assert.ErrorContains(t, Compare(&d, &by, PolicyBitwise), "kind mismatch")
	assert.Error(t, Compare(nil, &by, PolicyBitwise))
}

func TestParseFloatPolicy(t *testing.T) {
	p, err := ParseFloatPolicy("IEEE")
	require.NoError(t, err)
	assert.Equal(t, PolicyIEEE, p)

	p, err = ParseFloatPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyBitwise, p)

	_, err = ParseFloatPolicy("fuzzy")
	assert.Error(t, err)
}
