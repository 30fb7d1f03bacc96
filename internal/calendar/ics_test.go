package calendar

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"
)

func TestEncodeRoundTrip(t *testing.T) {
	lat, lng := 40.4153, -3.6845
	start := time.Date(2026, 4, 12, 10, 0, 0, 0, time.UTC)
	events := []dom.Event{{
		ID: 5, Title: "Retiro dog walk", Description: "Bring water, snacks; leashes",
		Date: start, Location: "Parque del Retiro", Latitude: &lat, Longitude: &lng,
	}}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, events, start.Add(-time.Hour)))
	assert.Contains(t, buf.String(), "GEO:40.415300;-3.684500")

	cal, err := ical.NewDecoder(strings.NewReader(buf.String())).Decode()
	require.NoError(t, err)
	vevents := cal.Events()
	require.Len(t, vevents, 1)

	ve := vevents[0]
	summary, err := ve.Props.Text(ical.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, "Retiro dog walk", summary)

	desc, err := ve.Props.Text(ical.PropDescription)
	require.NoError(t, err)
	assert.Equal(t, "Bring water, snacks; leashes", desc)

	dtstart, err := ve.DateTimeStart(time.UTC)
	require.NoError(t, err)
	assert.True(t, start.Equal(dtstart))

	dtend, err := ve.DateTimeEnd(time.UTC)
	require.NoError(t, err)
	assert.True(t, start.Add(DefaultDuration).Equal(dtend))

	uid, err := ve.Props.Text(ical.PropUID)
	require.NoError(t, err)
	assert.Equal(t, EventUID(5), uid)
}

func TestEventUIDStable(t *testing.T) {
	assert.Equal(t, EventUID(1), EventUID(1))
	assert.NotEqual(t, EventUID(1), EventUID(2))
}

func TestEncodeWithoutCoordinates(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, []dom.Event{{ID: 1, Title: "Online meetup", Date: time.Now()}}, time.Now()))
	assert.NotContains(t, buf.String(), "GEO:")
	assert.NotContains(t, buf.String(), "LOCATION:")
}
