package navserver

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablenav/tablenav/internal/nav"
)

func TestEncodePathFrame(t *testing.T) {
	frame, err := encodePathFrame([]nav.Point{{X: 4, Y: 2}, {X: 3, Y: 2}})
	require.NoError(t, err)

	require.NotEmpty(t, frame)
	assert.Equal(t, framePath, frame[0])

	var pts []wirePoint
	require.NoError(t, json.Unmarshal(frame[1:], &pts))
	assert.Equal(t, []wirePoint{{X: 4, Y: 2}, {X: 3, Y: 2}}, pts)
}

func TestEncodePathFrameEmpty(t *testing.T) {
	frame, err := encodePathFrame(nil)
	require.NoError(t, err)

	// The failure reply is a real empty array, not null.
	assert.Equal(t, framePath, frame[0])
	assert.JSONEq(t, "[]", string(frame[1:]))
}

func TestWirePointNav(t *testing.T) {
	var unset *wirePoint
	assert.Nil(t, unset.nav())

	p := (&wirePoint{X: 0, Y: 0}).nav()
	require.NotNil(t, p)
	assert.Equal(t, nav.Point{X: 0, Y: 0}, *p)
}

func TestCommandDecoding(t *testing.T) {
	var cmd command
	require.NoError(t, json.Unmarshal([]byte(`{"command":"ROUTE","end":{"x":2,"y":0}}`), &cmd))

	assert.Equal(t, commandRoute, cmd.Command)
	assert.Nil(t, cmd.Start)
	require.NotNil(t, cmd.End)
	assert.Equal(t, wirePoint{X: 2, Y: 0}, *cmd.End)
}
