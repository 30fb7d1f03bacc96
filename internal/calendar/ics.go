// Package calendar exports events as iCalendar (RFC 5545) documents.
package calendar

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	dom "github.com/topgambajrjdeveloper/barkandmeow-sub000/internal/domain"
)

const productID = "-//BarkAndMeow//Events//EN"

// DefaultDuration is used for DTEND since events only carry a start time.
const DefaultDuration = 2 * time.Hour

// uidNamespace keeps event UIDs stable across exports.
var uidNamespace = uuid.MustParse("6f1c3c2e-8d1b-4f5e-9a57-3b7f0f1d2c4a")

// EventUID returns the iCalendar UID for an event.
func EventUID(id int64) string {
	return uuid.NewSHA1(uidNamespace, []byte("event:"+strconv.FormatInt(id, 10))).String() + "@barkandmeow"
}

// Encode writes a VCALENDAR containing one VEVENT per event.
func Encode(w io.Writer, events []dom.Event, now time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	for _, e := range events {
		cal.Children = append(cal.Children, toVEvent(e, now))
	}
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

func toVEvent(e dom.Event, now time.Time) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, EventUID(e.ID))
	ve.Props.SetText(ical.PropSummary, e.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, e.Date.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, e.Date.Add(DefaultDuration).UTC())

	if e.Description != "" {
		ve.Props.SetText(ical.PropDescription, e.Description)
	}
	if e.Location != "" {
		ve.Props.SetText(ical.PropLocation, e.Location)
	}
	if pt := e.Point(); pt != nil {
		// GEO is "lat;lon"; SetText would escape the separator.
		geo := ical.NewProp(ical.PropGeo)
		geo.Value = strconv.FormatFloat(pt.Latitude, 'f', 6, 64) + ";" + strconv.FormatFloat(pt.Longitude, 'f', 6, 64)
		ve.Props.Set(geo)
	}
	if e.ImageURL != "" {
		ve.Props.SetText(ical.PropURL, e.ImageURL)
	}
	return ve
}
