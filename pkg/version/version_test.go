package version_test

import (
	"testing"

	"github.com/npackd/npackd-go/pkg/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	v, err := version.Parse("1_0_2")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 2}, v.Parts())

	_, err = version.Parse("1..0")
	require.Error(t, err)

	_, err = version.Parse("")
	require.Error(t, err)

	_, err = version.Parse("1.a.0")
	require.Error(t, err)
}

func TestNormalizeTrimsTrailingZeros(t *testing.T) {
	v := version.MustParse("1.2.0.0")
	assert.Equal(t, "1.2", v.Normalize().String())

	zero := version.MustParse("0.0.0")
	assert.Equal(t, "0", zero.Normalize().String())
}

func TestRoundTrip(t *testing.T) {
	cases := []string{"1", "1.0", "2.3.4", "0.0.0.1", "10.20.30.40"}
	for _, c := range cases {
		v, err := version.Parse(c)
		require.NoError(t, err)
		n := v.Normalize()
		reparsed, err := version.Parse(n.String())
		require.NoError(t, err)
		assert.True(t, n.Equal(reparsed.Normalize()))
	}
}

func TestCompareAntisymmetricAndTransitive(t *testing.T) {
	a := version.MustParse("1.0")
	b := version.MustParse("1.0.1")
	c := version.MustParse("1.1")

	assert.Equal(t, -version.Compare(a, b), version.Compare(b, a))
	if version.Compare(a, b) <= 0 && version.Compare(b, c) <= 0 {
		assert.LessOrEqual(t, version.Compare(a, c), 0)
	}
}

func TestComparePadsShorterTuple(t *testing.T) {
	assert.Equal(t, 0, version.Compare(version.MustParse("1.0"), version.MustParse("1")))
	assert.True(t, version.Compare(version.MustParse("1.0.1"), version.MustParse("1")) > 0)
}

func TestDependencySatisfied(t *testing.T) {
	dep := version.Dependency{
		Package: "a.b.Foo",
		Min:     version.MustParse("1.0"),
		Max:     version.MustParse("2.0"),
		HasMax:  true,
	}
	installed := []version.Version{version.MustParse("1.5")}
	assert.True(t, dep.Satisfied(installed))

	installed = []version.Version{version.MustParse("2.0")}
	assert.False(t, dep.Satisfied(installed))

	unbounded := version.Dependency{Min: version.MustParse("1.0")}
	assert.True(t, unbounded.Satisfied([]version.Version{version.MustParse("99.0")}))
}
