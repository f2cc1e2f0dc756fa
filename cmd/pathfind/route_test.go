package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablenav/tablenav/internal/nav"
)

func TestParseRoute(t *testing.T) {
	spec, err := parseRoute("4,2:0,2")
	require.NoError(t, err)
	require.NotNil(t, spec.start)
	require.NotNil(t, spec.end)
	assert.Equal(t, nav.Point{X: 4, Y: 2}, *spec.start)
	assert.Equal(t, nav.Point{X: 0, Y: 2}, *spec.end)
}

func TestParseRouteDefaults(t *testing.T) {
	spec, err := parseRoute(":")
	require.NoError(t, err)
	assert.Nil(t, spec.start)
	assert.Nil(t, spec.end)

	spec, err = parseRoute("1,1:")
	require.NoError(t, err)
	require.NotNil(t, spec.start)
	assert.Equal(t, nav.Point{X: 1, Y: 1}, *spec.start)
	assert.Nil(t, spec.end)

	spec, err = parseRoute(":3,0")
	require.NoError(t, err)
	assert.Nil(t, spec.start)
	require.NotNil(t, spec.end)
	assert.Equal(t, nav.Point{X: 3, Y: 0}, *spec.end)
}

func TestParseRouteSpaces(t *testing.T) {
	spec, err := parseRoute("10, 4 : 0 ,7")
	require.NoError(t, err)
	assert.Equal(t, nav.Point{X: 10, Y: 4}, *spec.start)
	assert.Equal(t, nav.Point{X: 0, Y: 7}, *spec.end)
}

func TestParseRouteInvalid(t *testing.T) {
	cases := []string{
		"",
		"4,2",
		"a,b:0,2",
		"4:0,2",
		"4,2:0",
		"4,2,1:0,2",
	}
	for _, tc := range cases {
		_, err := parseRoute(tc)
		assert.Error(t, err, "input %q", tc)
	}
}

func TestVizName(t *testing.T) {
	assert.Equal(t, "out.png", vizName("out.png", 0, 1))
	assert.Equal(t, "out_1.png", vizName("out.png", 0, 3))
	assert.Equal(t, "out_3.png", vizName("out.png", 2, 3))
	assert.Equal(t, "routes_2", vizName("routes", 1, 2))
}
